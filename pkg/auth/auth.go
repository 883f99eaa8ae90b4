// Package auth resolves the GitHub token used for API access. The token is
// only read and handed to the HTTP transport; acquisition flows (device
// login, refresh) are out of scope.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Token returns an access token, trying in order: the explicit value (from
// flag or config), the GITHUB_TOKEN environment variable, and finally the
// gh CLI's stored credentials (`gh auth token`).
func Token(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	token, ghErr := ghCLIToken()
	if ghErr == nil {
		return token, nil
	}

	return "", fmt.Errorf(
		"no GitHub token available: set --token, GITHUB_TOKEN, or authenticate with 'gh auth login' (gh CLI error: %v)",
		ghErr,
	)
}

func ghCLIToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}
	return token, nil
}
