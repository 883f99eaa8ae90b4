package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goblinsan/gh-project-fields/pkg/fields"
	"github.com/goblinsan/gh-project-fields/pkg/render"
)

func init() {
	rootCmd.AddCommand(listFieldsCmd)
	listFieldsCmd.Flags().String("format", "table", "Output format (table, json, csv, yaml)")
	listFieldsCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")

	rootCmd.AddCommand(exportSchemaCmd)
	exportSchemaCmd.Flags().String("format", "json", "Output format (json, yaml, markdown)")
	exportSchemaCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
}

var listFieldsCmd = &cobra.Command{
	Use:   "list-fields NUMBER OWNER",
	Short: "List all custom fields of a project",
	Long: `List all custom fields of a GitHub Project V2 board, including the
options of single-select fields and the active/completed iterations of
iteration fields. An owner containing a slash is treated as a user project.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		resolver := fields.NewResolver(client)
		projectID, err := resolver.ResolveProject(ctx, owner, number)
		if err != nil {
			return fmt.Errorf("failed to resolve project: %w", err)
		}
		list, err := resolver.Fields(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to list fields: %w", err)
		}

		w, closeFn, err := outputWriter(cmd)
		if err != nil {
			return err
		}
		if err := render.Fields(w, list, format); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	},
}

var exportSchemaCmd = &cobra.Command{
	Use:   "export-schema NUMBER OWNER",
	Short: "Export a project's field schema as JSON, YAML, or Markdown",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		format, err := formatFlag(cmd)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		resolver := fields.NewResolver(client)
		projectID, err := resolver.ResolveProject(ctx, owner, number)
		if err != nil {
			return fmt.Errorf("failed to resolve project: %w", err)
		}
		list, err := resolver.Fields(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to list fields: %w", err)
		}

		w, closeFn, err := outputWriter(cmd)
		if err != nil {
			return err
		}
		if err := render.WriteSchema(w, render.NewSchema(owner, number, list), format); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	},
}
