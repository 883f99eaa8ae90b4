package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newOutputCmd(path string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("output", "o", "", "")
	if path != "" {
		cmd.Flags().Set("output", path)
	}
	return cmd
}

func TestOutputWriter_Stdout(t *testing.T) {
	w, closeFn, err := outputWriter(newOutputCmd(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != os.Stdout {
		t.Error("expected stdout when --output is unset")
	}
	if err := closeFn(); err != nil {
		t.Errorf("stdout close func must be a no-op, got %v", err)
	}
}

func TestOutputWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	w, closeFn, err := outputWriter(newOutputCmd(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fmt.Fprintln(w, "hello")
	if err := closeFn(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("unexpected file content: %q", data)
	}

	// A second close reports the failure instead of swallowing it.
	if err := closeFn(); err == nil {
		t.Error("expected error closing an already-closed file")
	}
}

func TestOutputWriter_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	if _, _, err := outputWriter(newOutputCmd(path)); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestParseProjectArgs(t *testing.T) {
	number, owner, err := parseProjectArgs([]string{"5", "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if number != 5 || owner != "acme" {
		t.Errorf("unexpected parse: %d, %s", number, owner)
	}

	if _, _, err := parseProjectArgs([]string{"five", "acme"}); err == nil {
		t.Error("expected error for non-numeric project number")
	}
}
