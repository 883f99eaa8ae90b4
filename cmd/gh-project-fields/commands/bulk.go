package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goblinsan/gh-project-fields/pkg/fields"
	"github.com/goblinsan/gh-project-fields/pkg/tabular"
)

func init() {
	rootCmd.AddCommand(bulkUpdateCmd)
	bulkUpdateCmd.Flags().Bool("dry-run", false, "Preview the changes without issuing any mutation")
}

var bulkUpdateCmd = &cobra.Command{
	Use:   "bulk-update NUMBER OWNER CSV_FILE",
	Short: "Apply field updates from a CSV file",
	Long: `Apply field updates from a CSV file with columns item_id,field_name,value.
Rows are processed sequentially in file order. A failed row is logged and
counted but never aborts the batch, so a partial run can be repaired by
re-running just the failed subset.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, owner, err := parseProjectArgs(args)
		if err != nil {
			return err
		}
		path := args[2]
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open bulk file: %w", err)
		}
		defer f.Close()

		rows, err := tabular.ParseBulkFile(f)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()
		resolver := fields.NewResolver(client)
		mutator := fields.NewMutator(client)
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		processor := fields.NewProcessor(resolver, mutator, logger)

		projectID, err := resolver.ResolveProject(ctx, owner, number)
		if err != nil {
			return fmt.Errorf("failed to resolve project: %w", err)
		}

		report := processor.ProcessBatch(ctx, projectID, rows, fields.BatchOptions{DryRun: dryRun})
		fmt.Fprintln(os.Stdout, report)
		if dryRun {
			fmt.Fprintln(os.Stdout, "This was a dry run - no changes were made")
		}
		return nil
	},
}
