package github

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// ProjectID resolves (owner, number) to the opaque project node ID. An
// owner containing a path separator is treated as a user project (the part
// before the slash is the login); a bare name is an organization.
// Returns "" without error when the remote reports no such project.
func (c *Client) ProjectID(ctx context.Context, owner string, number int) (string, error) {
	vars := map[string]interface{}{
		"number": githubv4.Int(number),
	}

	if strings.Contains(owner, "/") {
		login := strings.SplitN(owner, "/", 2)[0]
		vars["login"] = githubv4.String(login)

		var q struct {
			User struct {
				ProjectV2 *struct {
					ID githubv4.ID
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"user(login: $login)"`
		}
		if err := c.query(ctx, "resolve user project", &q, vars); err != nil {
			return "", err
		}
		if q.User.ProjectV2 == nil {
			return "", nil
		}
		return idString(q.User.ProjectV2.ID), nil
	}

	vars["login"] = githubv4.String(owner)

	var q struct {
		Organization struct {
			ProjectV2 *struct {
				ID githubv4.ID
			} `graphql:"projectV2(number: $number)"`
		} `graphql:"organization(login: $login)"`
	}
	if err := c.query(ctx, "resolve organization project", &q, vars); err != nil {
		return "", err
	}
	if q.Organization.ProjectV2 == nil {
		return "", nil
	}
	return idString(q.Organization.ProjectV2.ID), nil
}

type iterationFragment struct {
	ID        githubv4.String
	Title     githubv4.String
	StartDate githubv4.String
	Duration  githubv4.Int
}

func (it iterationFragment) toIteration() types.Iteration {
	return types.Iteration{
		ID:        string(it.ID),
		Title:     string(it.Title),
		StartDate: string(it.StartDate),
		Duration:  int(it.Duration),
	}
}

// ProjectFields fetches the full field list for a project, including
// single-select options and iteration configuration (active and completed).
// No server-side name filter exists for this surface; callers filter
// client-side.
func (c *Client) ProjectFields(ctx context.Context, projectID string) ([]types.Field, error) {
	var q struct {
		Node struct {
			ProjectV2 struct {
				Fields struct {
					Nodes []struct {
						Common struct {
							ID       githubv4.ID
							Name     githubv4.String
							DataType githubv4.String
						} `graphql:"... on ProjectV2Field"`
						SingleSelect struct {
							ID       githubv4.ID
							Name     githubv4.String
							DataType githubv4.String
							Options  []struct {
								ID          githubv4.String
								Name        githubv4.String
								Color       githubv4.String
								Description githubv4.String
							}
						} `graphql:"... on ProjectV2SingleSelectField"`
						Iteration struct {
							ID            githubv4.ID
							Name          githubv4.String
							DataType      githubv4.String
							Configuration struct {
								Iterations          []iterationFragment
								CompletedIterations []iterationFragment
							}
						} `graphql:"... on ProjectV2IterationField"`
					}
				} `graphql:"fields(first: 50)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}

	vars := map[string]interface{}{
		"projectId": githubv4.ID(projectID),
	}
	if err := c.query(ctx, "list project fields", &q, vars); err != nil {
		return nil, err
	}

	nodes := q.Node.ProjectV2.Fields.Nodes
	fields := make([]types.Field, 0, len(nodes))
	for _, node := range nodes {
		switch {
		case idString(node.SingleSelect.ID) != "":
			field := types.Field{
				ID:       idString(node.SingleSelect.ID),
				Name:     string(node.SingleSelect.Name),
				DataType: types.FieldDataType(node.SingleSelect.DataType),
			}
			for _, opt := range node.SingleSelect.Options {
				field.Options = append(field.Options, types.Option{
					ID:          string(opt.ID),
					Name:        string(opt.Name),
					Color:       string(opt.Color),
					Description: string(opt.Description),
				})
			}
			fields = append(fields, field)

		case idString(node.Iteration.ID) != "":
			field := types.Field{
				ID:       idString(node.Iteration.ID),
				Name:     string(node.Iteration.Name),
				DataType: types.FieldDataType(node.Iteration.DataType),
			}
			for _, it := range node.Iteration.Configuration.Iterations {
				field.ActiveIterations = append(field.ActiveIterations, it.toIteration())
			}
			for _, it := range node.Iteration.Configuration.CompletedIterations {
				field.CompletedIterations = append(field.CompletedIterations, it.toIteration())
			}
			fields = append(fields, field)

		case idString(node.Common.ID) != "":
			fields = append(fields, types.Field{
				ID:       idString(node.Common.ID),
				Name:     string(node.Common.Name),
				DataType: types.FieldDataType(node.Common.DataType),
			})
		}
	}
	return fields, nil
}

// UpdateItemField sets a typed value on an item field via
// updateProjectV2ItemFieldValue. The value variant must already match the
// field's data type; validation happens upstream, before transport.
func (c *Client) UpdateItemField(ctx context.Context, projectID, itemID, fieldID string, value types.FieldValue) error {
	payload, err := toProjectV2FieldValue(value)
	if err != nil {
		return err
	}

	var m struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID githubv4.ID
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value:     payload,
	}
	return c.mutate(ctx, "update item field value", &m, input)
}

// ClearItemField removes whatever value an item field currently holds. The
// clear mutation is keyed by (project, item, field) only and works the same
// for every field type.
func (c *Client) ClearItemField(ctx context.Context, projectID, itemID, fieldID string) error {
	var m struct {
		ClearProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID githubv4.ID
			}
		} `graphql:"clearProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.ClearProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
	}
	return c.mutate(ctx, "clear item field value", &m, input)
}

func toProjectV2FieldValue(value types.FieldValue) (githubv4.ProjectV2FieldValue, error) {
	switch value.Kind {
	case types.ValueText:
		return githubv4.ProjectV2FieldValue{Text: githubv4.NewString(githubv4.String(value.Text))}, nil
	case types.ValueNumber:
		return githubv4.ProjectV2FieldValue{Number: githubv4.NewFloat(githubv4.Float(value.Number))}, nil
	case types.ValueDate:
		t, err := time.Parse("2006-01-02", value.Date)
		if err != nil {
			return githubv4.ProjectV2FieldValue{}, fmt.Errorf("invalid date %q: %w", value.Date, err)
		}
		return githubv4.ProjectV2FieldValue{Date: &githubv4.Date{Time: t}}, nil
	case types.ValueSingleSelect:
		return githubv4.ProjectV2FieldValue{SingleSelectOptionID: githubv4.NewString(githubv4.String(value.OptionID))}, nil
	case types.ValueIteration:
		return githubv4.ProjectV2FieldValue{IterationID: githubv4.NewString(githubv4.String(value.IterationID))}, nil
	default:
		return githubv4.ProjectV2FieldValue{}, fmt.Errorf("unknown field value kind %d", value.Kind)
	}
}

// contentURLPattern matches issue and pull request URLs,
// e.g. https://github.com/owner/repo/issues/42.
var contentURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/(issues|pull)/(\d+)`)

// ContentID resolves an issue or pull request URL to its node ID using the
// REST API.
func (c *Client) ContentID(ctx context.Context, rawURL string) (string, error) {
	m := contentURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("invalid GitHub issue/PR URL: %s", rawURL)
	}
	owner, repo, kind := m[1], m[2], m[3]
	number, _ := strconv.Atoi(m[4])

	var nodeID string
	err := c.execute(ctx, "resolve content id", func(ctx context.Context) error {
		if kind == "issues" {
			issue, _, err := c.REST.Issues.Get(ctx, owner, repo, number)
			if err != nil {
				return err
			}
			nodeID = issue.GetNodeID()
			return nil
		}
		pr, _, err := c.REST.PullRequests.Get(ctx, owner, repo, number)
		if err != nil {
			return err
		}
		nodeID = pr.GetNodeID()
		return nil
	})
	if err != nil {
		return "", err
	}
	if nodeID == "" {
		return "", fmt.Errorf("content not found for URL: %s", rawURL)
	}
	return nodeID, nil
}

// AddItem adds an issue or pull request (by node ID) to a project and
// returns the new item ID. Adding an existing item is not an error
// upstream; the returned item ID is the existing one.
func (c *Client) AddItem(ctx context.Context, projectID, contentID string) (string, error) {
	var m struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID githubv4.ID
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}
	if err := c.mutate(ctx, "add item to project", &m, input); err != nil {
		return "", err
	}
	return idString(m.AddProjectV2ItemByID.Item.ID), nil
}

// DeleteItem removes an item from a project and returns the deleted item ID.
func (c *Client) DeleteItem(ctx context.Context, projectID, itemID string) (string, error) {
	var m struct {
		DeleteProjectV2Item struct {
			DeletedItemID githubv4.ID `graphql:"deletedItemId"`
		} `graphql:"deleteProjectV2Item(input: $input)"`
	}
	input := githubv4.DeleteProjectV2ItemInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
	}
	if err := c.mutate(ctx, "delete project item", &m, input); err != nil {
		return "", err
	}
	return idString(m.DeleteProjectV2Item.DeletedItemID), nil
}
