package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(labelsCmd)
}

var labelsCmd = &cobra.Command{
	Use:   "labels REPO",
	Short: "List the labels of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		labels, err := client.RepoLabels(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list labels: %w", err)
		}
		for _, label := range labels {
			fmt.Fprintln(os.Stdout, label)
		}
		return nil
	},
}
