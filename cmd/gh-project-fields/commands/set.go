package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goblinsan/gh-project-fields/pkg/fields"
)

func init() {
	rootCmd.AddCommand(setFieldCmd)
	setFieldCmd.Flags().Bool("dry-run", false, "Preview the change without issuing the mutation")

	rootCmd.AddCommand(clearFieldCmd)
}

var setFieldCmd = &cobra.Command{
	Use:   "set-field NUMBER OWNER ITEM_ID FIELD VALUE",
	Short: "Set a typed field value on a project item",
	Long: `Set a field value on a project item. The value is validated against the
field's data type before any mutation is issued: numbers and dates are
checked syntactically, single-select options and iterations are resolved by
name (iterations: active first, then completed).`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		itemID, fieldName, value := args[2], args[3], args[4]
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if dryRun {
			fmt.Fprintf(os.Stdout, "[dry-run] Would set field %q to %q for item %s\n", fieldName, value, itemID)
			return nil
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		resolver := fields.NewResolver(client)
		mutator := fields.NewMutator(client)

		projectID, err := resolver.ResolveProject(ctx, owner, number)
		if err != nil {
			return fmt.Errorf("failed to resolve project: %w", err)
		}
		field, err := resolver.ResolveField(ctx, projectID, fieldName)
		if err != nil {
			return fmt.Errorf("failed to resolve field: %w", err)
		}
		if err := mutator.SetField(ctx, projectID, itemID, field, value); err != nil {
			return fmt.Errorf("failed to update field: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Updated field %q to %q\n", fieldName, value)
		return nil
	},
}

var clearFieldCmd = &cobra.Command{
	Use:   "clear-field NUMBER OWNER ITEM_ID FIELD",
	Short: "Clear a field value on a project item",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		itemID, fieldName := args[2], args[3]

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		resolver := fields.NewResolver(client)
		mutator := fields.NewMutator(client)

		projectID, err := resolver.ResolveProject(ctx, owner, number)
		if err != nil {
			return fmt.Errorf("failed to resolve project: %w", err)
		}
		field, err := resolver.ResolveField(ctx, projectID, fieldName)
		if err != nil {
			return fmt.Errorf("failed to resolve field: %w", err)
		}
		if err := mutator.ClearField(ctx, projectID, itemID, field); err != nil {
			return fmt.Errorf("failed to clear field: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Cleared field %q for item %s\n", fieldName, itemID)
		return nil
	},
}
