package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goblinsan/gh-project-fields/pkg/auth"
	"github.com/goblinsan/gh-project-fields/pkg/github"
	"github.com/goblinsan/gh-project-fields/pkg/render"
)

// newClient builds an authenticated client from the configured token
// (flag, config file, GITHUB_TOKEN, or gh CLI credentials, in that order).
func newClient() (*github.Client, error) {
	token, err := auth.Token(viper.GetString("token"))
	if err != nil {
		return nil, err
	}
	return github.NewClient(token), nil
}

// parseProjectArgs reads the leading NUMBER OWNER positional arguments
// shared by the project commands.
func parseProjectArgs(args []string) (number int, owner string, err error) {
	number, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid project number %q: %w", args[0], err)
	}
	return number, args[1], nil
}

// formatFlag reads and validates the --format flag.
func formatFlag(cmd *cobra.Command) (render.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	return render.ParseFormat(raw)
}

// outputWriter opens the --output file, or returns stdout when the flag is
// unset. The returned func closes the file if one was opened.
func outputWriter(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
