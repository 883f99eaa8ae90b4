package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// The sub-issues mutation surface postdates the schema snapshot our pinned
// githubv4 release was generated from. githubv4 derives the GraphQL input
// type name from the Go type name, so locally defined inputs compose with
// Mutate the same way library ones do.

// AddSubIssueInput attaches an existing issue as a sub-issue of another.
type AddSubIssueInput struct {
	IssueID    githubv4.ID `json:"issueId"`
	SubIssueID githubv4.ID `json:"subIssueId"`
}

// RemoveSubIssueInput detaches a sub-issue from its parent.
type RemoveSubIssueInput struct {
	IssueID    githubv4.ID `json:"issueId"`
	SubIssueID githubv4.ID `json:"subIssueId"`
}

// newIssueInput builds the createIssue input. An empty body is omitted
// rather than sent as "".
func newIssueInput(repoID githubv4.ID, title, body string) githubv4.CreateIssueInput {
	input := githubv4.CreateIssueInput{
		RepositoryID: repoID,
		Title:        githubv4.String(title),
	}
	if body != "" {
		input.Body = githubv4.NewString(githubv4.String(body))
	}
	return input
}

// IssueRef identifies an issue and carries the display attributes the
// sub-issue commands print.
type IssueRef struct {
	ID     string
	Number int
	Title  string
	State  string
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository %q must be in owner/repo format", repo)
	}
	return parts[0], parts[1], nil
}

// IssueInfo resolves an issue number to its node ID, title, and state.
func (c *Client) IssueInfo(ctx context.Context, repo string, number int) (IssueRef, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return IssueRef{}, err
	}

	var q struct {
		Repository struct {
			Issue *struct {
				ID    githubv4.ID
				Title githubv4.String
				State githubv4.String
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := c.query(ctx, "resolve issue", &q, vars); err != nil {
		return IssueRef{}, err
	}
	if q.Repository.Issue == nil {
		return IssueRef{}, fmt.Errorf("issue #%d not found in repository %s", number, repo)
	}
	return IssueRef{
		ID:     idString(q.Repository.Issue.ID),
		Number: number,
		Title:  string(q.Repository.Issue.Title),
		State:  string(q.Repository.Issue.State),
	}, nil
}

// SubIssues lists the direct children of a parent issue.
func (c *Client) SubIssues(ctx context.Context, repo string, parentNumber int) (IssueRef, []types.SubIssue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return IssueRef{}, nil, err
	}

	var q struct {
		Repository struct {
			Issue *struct {
				ID        githubv4.ID
				Title     githubv4.String
				State     githubv4.String
				SubIssues struct {
					TotalCount githubv4.Int
					Nodes      []struct {
						Number    githubv4.Int
						Title     githubv4.String
						State     githubv4.String
						URL       githubv4.String
						Assignees struct {
							Nodes []struct {
								Login githubv4.String
							}
						} `graphql:"assignees(first: 10)"`
						Labels struct {
							Nodes []struct {
								Name githubv4.String
							}
						} `graphql:"labels(first: 10)"`
					}
				} `graphql:"subIssues(first: 100)"`
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(parentNumber),
	}
	if err := c.query(ctx, "list sub-issues", &q, vars); err != nil {
		return IssueRef{}, nil, err
	}
	if q.Repository.Issue == nil {
		return IssueRef{}, nil, fmt.Errorf("issue #%d not found in repository %s", parentNumber, repo)
	}

	parent := IssueRef{
		ID:     idString(q.Repository.Issue.ID),
		Number: parentNumber,
		Title:  string(q.Repository.Issue.Title),
		State:  string(q.Repository.Issue.State),
	}
	children := make([]types.SubIssue, 0, len(q.Repository.Issue.SubIssues.Nodes))
	for _, node := range q.Repository.Issue.SubIssues.Nodes {
		child := types.SubIssue{
			Number: int(node.Number),
			Title:  string(node.Title),
			State:  string(node.State),
			URL:    string(node.URL),
		}
		for _, a := range node.Assignees.Nodes {
			child.Assignees = append(child.Assignees, string(a.Login))
		}
		for _, l := range node.Labels.Nodes {
			child.Labels = append(child.Labels, string(l.Name))
		}
		children = append(children, child)
	}
	return parent, children, nil
}

// ParentIssue returns the parent of a sub-issue, or nil when the issue has
// no parent.
func (c *Client) ParentIssue(ctx context.Context, repo string, number int) (*types.SubIssue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var q struct {
		Repository struct {
			Issue *struct {
				Parent *struct {
					Number githubv4.Int
					Title  githubv4.String
					State  githubv4.String
					URL    githubv4.String
				}
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := c.query(ctx, "resolve parent issue", &q, vars); err != nil {
		return nil, err
	}
	if q.Repository.Issue == nil {
		return nil, fmt.Errorf("issue #%d not found in repository %s", number, repo)
	}
	if q.Repository.Issue.Parent == nil {
		return nil, nil
	}
	p := q.Repository.Issue.Parent
	return &types.SubIssue{
		Number: int(p.Number),
		Title:  string(p.Title),
		State:  string(p.State),
		URL:    string(p.URL),
	}, nil
}

// Hierarchy returns the issue and its children, each child annotated with
// its own sub-issue count, for the two-level tree view.
func (c *Client) Hierarchy(ctx context.Context, repo string, number int) (IssueRef, []types.SubIssue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return IssueRef{}, nil, err
	}

	var q struct {
		Repository struct {
			Issue *struct {
				ID        githubv4.ID
				Title     githubv4.String
				State     githubv4.String
				SubIssues struct {
					Nodes []struct {
						Number    githubv4.Int
						Title     githubv4.String
						State     githubv4.String
						SubIssues struct {
							TotalCount githubv4.Int
						} `graphql:"subIssues(first: 1)"`
					}
				} `graphql:"subIssues(first: 100)"`
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := c.query(ctx, "resolve issue hierarchy", &q, vars); err != nil {
		return IssueRef{}, nil, err
	}
	if q.Repository.Issue == nil {
		return IssueRef{}, nil, fmt.Errorf("issue #%d not found in repository %s", number, repo)
	}

	root := IssueRef{
		ID:     idString(q.Repository.Issue.ID),
		Number: number,
		Title:  string(q.Repository.Issue.Title),
		State:  string(q.Repository.Issue.State),
	}
	children := make([]types.SubIssue, 0, len(q.Repository.Issue.SubIssues.Nodes))
	for _, node := range q.Repository.Issue.SubIssues.Nodes {
		children = append(children, types.SubIssue{
			Number:        int(node.Number),
			Title:         string(node.Title),
			State:         string(node.State),
			SubIssueCount: int(node.SubIssues.TotalCount),
		})
	}
	return root, children, nil
}

// AddSubIssue creates a parent/child relationship between two existing
// issues identified by node ID.
func (c *Client) AddSubIssue(ctx context.Context, issueID, subIssueID string) error {
	var m struct {
		AddSubIssue struct {
			Issue struct {
				Number githubv4.Int
			}
			SubIssue struct {
				Number githubv4.Int
			}
		} `graphql:"addSubIssue(input: $input)"`
	}
	input := AddSubIssueInput{
		IssueID:    githubv4.ID(issueID),
		SubIssueID: githubv4.ID(subIssueID),
	}
	return c.mutate(ctx, "add sub-issue", &m, input)
}

// RemoveSubIssue removes a parent/child relationship; the child becomes a
// standalone issue.
func (c *Client) RemoveSubIssue(ctx context.Context, issueID, subIssueID string) error {
	var m struct {
		RemoveSubIssue struct {
			Issue struct {
				Number githubv4.Int
			}
			SubIssue struct {
				Number githubv4.Int
			}
		} `graphql:"removeSubIssue(input: $input)"`
	}
	input := RemoveSubIssueInput{
		IssueID:    githubv4.ID(issueID),
		SubIssueID: githubv4.ID(subIssueID),
	}
	return c.mutate(ctx, "remove sub-issue", &m, input)
}

// RepositoryID resolves owner/repo to the repository node ID.
func (c *Client) RepositoryID(ctx context.Context, repo string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	var q struct {
		Repository struct {
			ID githubv4.ID
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := c.query(ctx, "resolve repository", &q, vars); err != nil {
		return "", err
	}
	id := idString(q.Repository.ID)
	if id == "" {
		return "", fmt.Errorf("repository %s not found", repo)
	}
	return id, nil
}

// CreateIssue creates a new issue in a repository and returns its ref and
// URL.
func (c *Client) CreateIssue(ctx context.Context, repo, title, body string) (IssueRef, string, error) {
	repoID, err := c.RepositoryID(ctx, repo)
	if err != nil {
		return IssueRef{}, "", err
	}

	var m struct {
		CreateIssue struct {
			Issue struct {
				ID     githubv4.ID
				Number githubv4.Int
				Title  githubv4.String
				State  githubv4.String
				URL    githubv4.String
			}
		} `graphql:"createIssue(input: $input)"`
	}
	input := newIssueInput(githubv4.ID(repoID), title, body)
	if err := c.mutate(ctx, "create issue", &m, input); err != nil {
		return IssueRef{}, "", err
	}

	issue := m.CreateIssue.Issue
	return IssueRef{
		ID:     idString(issue.ID),
		Number: int(issue.Number),
		Title:  string(issue.Title),
		State:  string(issue.State),
	}, string(issue.URL), nil
}

// RepoLabels lists label names for a repository via the REST API.
func (c *Client) RepoLabels(ctx context.Context, repo string) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var labels []string
	err = c.execute(ctx, "list repository labels", func(ctx context.Context) error {
		opts := &github.ListOptions{PerPage: 100}
		labels = labels[:0]
		for {
			page, resp, err := c.REST.Issues.ListLabels(ctx, owner, name, opts)
			if err != nil {
				return err
			}
			for _, l := range page {
				labels = append(labels, l.GetName())
			}
			if resp.NextPage == 0 {
				return nil
			}
			opts.Page = resp.NextPage
		}
	})
	if err != nil {
		return nil, err
	}
	return labels, nil
}
