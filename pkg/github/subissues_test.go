package github

import (
	"testing"

	"github.com/shurcooL/githubv4"
)

func TestSplitRepo(t *testing.T) {
	owner, name, err := splitRepo("acme/widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != "acme" || name != "widgets" {
		t.Errorf("unexpected split: %s / %s", owner, name)
	}

	for _, bad := range []string{"acme", "acme/", "/widgets", ""} {
		if _, _, err := splitRepo(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestNewIssueInput(t *testing.T) {
	input := newIssueInput(githubv4.ID("R_1"), "A task", "some details")
	if input.RepositoryID != githubv4.ID("R_1") {
		t.Errorf("unexpected repository ID: %v", input.RepositoryID)
	}
	if input.Title != githubv4.String("A task") {
		t.Errorf("unexpected title: %v", input.Title)
	}
	if input.Body == nil || *input.Body != githubv4.String("some details") {
		t.Errorf("unexpected body: %v", input.Body)
	}
}

func TestNewIssueInput_EmptyBodyOmitted(t *testing.T) {
	input := newIssueInput(githubv4.ID("R_1"), "A task", "")
	if input.Body != nil {
		t.Errorf("expected nil body for empty string, got %v", *input.Body)
	}
}
