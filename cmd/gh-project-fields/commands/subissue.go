package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goblinsan/gh-project-fields/pkg/github"
	"github.com/goblinsan/gh-project-fields/pkg/render"
	"github.com/goblinsan/gh-project-fields/pkg/types"
)

func init() {
	subissueCmd.AddCommand(subissueListCmd)
	subissueListCmd.Flags().String("format", "table", "Output format (table, json, csv, yaml)")
	subissueListCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")

	subissueCmd.AddCommand(subissueParentCmd)
	subissueParentCmd.Flags().String("format", "table", "Output format (table, json, csv, yaml)")
	subissueParentCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")

	subissueCmd.AddCommand(subissueTreeCmd)

	subissueCmd.AddCommand(subissueAddCmd)
	subissueAddCmd.Flags().Bool("dry-run", false, "Preview without creating the relationship")

	subissueCmd.AddCommand(subissueRemoveCmd)
	subissueRemoveCmd.Flags().Bool("dry-run", false, "Preview without removing the relationship")

	subissueCmd.AddCommand(subissueCreateCmd)
	subissueCreateCmd.Flags().String("body", "", "Body text for the new issue")
	subissueCreateCmd.Flags().Bool("dry-run", false, "Preview without creating the issue")

	rootCmd.AddCommand(subissueCmd)
}

var subissueCmd = &cobra.Command{
	Use:   "subissue",
	Short: "Manage parent/sub-issue relationships",
}

func issueNumberArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid issue number %q: %w", arg, err)
	}
	return n, nil
}

var subissueListCmd = &cobra.Command{
	Use:   "list REPO PARENT_NUMBER",
	Short: "List the sub-issues of a parent issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueNumberArg(args[1])
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

		parent, children, err := client.SubIssues(context.Background(), args[0], number)
		if err != nil {
			return fmt.Errorf("failed to list sub-issues: %w", err)
		}
		if len(children) == 0 {
			fmt.Fprintf(os.Stdout, "Issue #%d %q has no sub-issues\n", parent.Number, parent.Title)
			return nil
		}

		w, closeFn, err := outputWriter(cmd)
		if err != nil {
			return err
		}
		if err := render.SubIssues(w, children, format); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	},
}

var subissueParentCmd = &cobra.Command{
	Use:   "parent REPO NUMBER",
	Short: "Show the parent issue of a sub-issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueNumberArg(args[1])
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

		parent, err := client.ParentIssue(context.Background(), args[0], number)
		if err != nil {
			return fmt.Errorf("failed to resolve parent: %w", err)
		}
		if parent == nil {
			fmt.Fprintf(os.Stdout, "Issue #%d has no parent issue\n", number)
			return nil
		}

		w, closeFn, err := outputWriter(cmd)
		if err != nil {
			return err
		}
		if err := render.SubIssues(w, []types.SubIssue{*parent}, format); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	},
}

var subissueTreeCmd = &cobra.Command{
	Use:   "tree REPO NUMBER",
	Short: "Show the issue hierarchy as a tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := issueNumberArg(args[1])
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()
		repo := args[0]

		// A sub-issue renders from its parent so the whole family shows.
		parent, err := client.ParentIssue(ctx, repo, number)
		if err != nil {
			return fmt.Errorf("failed to resolve parent: %w", err)
		}
		if parent != nil {
			fmt.Fprintf(os.Stdout, "Issue #%d is a sub-issue; showing hierarchy from parent #%d\n", number, parent.Number)
			number = parent.Number
		}

		root, children, err := client.Hierarchy(ctx, repo, number)
		if err != nil {
			return fmt.Errorf("failed to resolve hierarchy: %w", err)
		}

		fmt.Fprintf(os.Stdout, "#%d: %s [%s]\n", root.Number, root.Title, root.State)
		if len(children) == 0 {
			fmt.Fprintln(os.Stdout, "  (no sub-issues)")
			return nil
		}
		for _, child := range children {
			if child.SubIssueCount > 0 {
				fmt.Fprintf(os.Stdout, "  #%d: %s [%s] (%d sub-issues)\n", child.Number, child.Title, child.State, child.SubIssueCount)
			} else {
				fmt.Fprintf(os.Stdout, "  #%d: %s [%s]\n", child.Number, child.Title, child.State)
			}
		}
		return nil
	},
}

var subissueAddCmd = &cobra.Command{
	Use:   "add REPO PARENT_NUMBER CHILD_NUMBER",
	Short: "Attach an existing issue as a sub-issue of another",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubissueLink(cmd, args, true)
	},
}

var subissueRemoveCmd = &cobra.Command{
	Use:   "remove REPO PARENT_NUMBER CHILD_NUMBER",
	Short: "Detach a sub-issue from its parent",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubissueLink(cmd, args, false)
	},
}

var subissueCreateCmd = &cobra.Command{
	Use:   "create REPO PARENT_NUMBER TITLE",
	Short: "Create a new issue and attach it as a sub-issue in one step",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, title := args[0], args[2]
		parentNumber, err := issueNumberArg(args[1])
		if err != nil {
			return err
		}
		body, _ := cmd.Flags().GetString("body")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		parent, err := client.IssueInfo(ctx, repo, parentNumber)
		if err != nil {
			return fmt.Errorf("failed to resolve parent issue: %w", err)
		}

		fmt.Fprintln(os.Stdout, "Creating new issue as sub-issue:")
		fmt.Fprintf(os.Stdout, "  Parent: #%d %q [%s]\n", parent.Number, parent.Title, parent.State)
		fmt.Fprintf(os.Stdout, "  Title:  %s\n", title)

		if dryRun {
			fmt.Fprintf(os.Stdout, "[dry-run] Would create issue %q as sub-issue of #%d\n", title, parentNumber)
			return nil
		}

		child, url, err := client.CreateIssue(ctx, repo, title, body)
		if err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		if err := client.AddSubIssue(ctx, parent.ID, child.ID); err != nil {
			return fmt.Errorf("failed to add sub-issue relationship: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Created #%d %q as sub-issue of #%d\n", child.Number, title, parentNumber)
		fmt.Fprintf(os.Stdout, "  URL: %s\n", url)
		return nil
	},
}

func runSubissueLink(cmd *cobra.Command, args []string, add bool) error {
	repo := args[0]
	parentNumber, err := issueNumberArg(args[1])
	if err != nil {
		return err
	}
	childNumber, err := issueNumberArg(args[2])
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	parent, err := client.IssueInfo(ctx, repo, parentNumber)
	if err != nil {
		return fmt.Errorf("failed to resolve parent issue: %w", err)
	}
	child, err := client.IssueInfo(ctx, repo, childNumber)
	if err != nil {
		return fmt.Errorf("failed to resolve child issue: %w", err)
	}

	printRelationship(parent, child)

	verb, done := "add", "added"
	op := client.AddSubIssue
	if !add {
		verb, done = "remove", "removed"
		op = client.RemoveSubIssue
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "[dry-run] Would %s sub-issue relationship #%d -> #%d\n", verb, parentNumber, childNumber)
		return nil
	}

	if err := op(ctx, parent.ID, child.ID); err != nil {
		return fmt.Errorf("failed to %s sub-issue relationship: %w", verb, err)
	}
	fmt.Fprintf(os.Stdout, "Sub-issue relationship %s: #%d -> #%d\n", done, parentNumber, childNumber)
	return nil
}

func printRelationship(parent, child github.IssueRef) {
	fmt.Fprintf(os.Stdout, "  Parent: #%d %q [%s]\n", parent.Number, parent.Title, parent.State)
	fmt.Fprintf(os.Stdout, "  Child:  #%d %q [%s]\n", child.Number, child.Title, child.State)
}
