package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goblinsan/gh-project-fields/pkg/fields"
	"github.com/goblinsan/gh-project-fields/pkg/github"
	"github.com/goblinsan/gh-project-fields/pkg/render"
)

func init() {
	rootCmd.AddCommand(listItemsCmd)
	listItemsCmd.Flags().String("format", "table", "Output format (table, json, csv, yaml)")
	listItemsCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")

	rootCmd.AddCommand(addItemCmd)
	rootCmd.AddCommand(removeItemCmd)
}

var listItemsCmd = &cobra.Command{
	Use:   "list-items NUMBER OWNER",
	Short: "List all items in a project with their field values",
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
		items, err := client.ProjectItems(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		w, closeFn, err := outputWriter(cmd)
		if err != nil {
			return err
		}
		if err := render.Items(w, items, format); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	},
}

var addItemCmd = &cobra.Command{
	Use:   "add-item NUMBER OWNER URL",
	Short: "Add an issue or pull request to a project by URL",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		url := args[2]

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
		contentID, err := client.ContentID(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to resolve content: %w", err)
		}

		itemID, err := client.AddItem(ctx, projectID, contentID)
		if err != nil {
			var remote *github.RemoteLogicalError
			if errors.As(err, &remote) && strings.Contains(strings.ToLower(remote.Message), "already exists") {
				fmt.Fprintln(os.Stdout, "Item already exists in project")
				return nil
			}
			return fmt.Errorf("failed to add item: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Added item to project (ID: %s)\n", itemID)
		return nil
	},
}

var removeItemCmd = &cobra.Command{
	Use:   "remove-item NUMBER OWNER ITEM_ID",
	Short: "Remove an item from a project",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		itemID := args[2]

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

		deletedID, err := client.DeleteItem(ctx, projectID, itemID)
		if err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Removed item from project (ID: %s)\n", deletedID)
		return nil
	},
}
