package github

import (
	"context"
	"strconv"

	"github.com/shurcooL/githubv4"

	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// ProjectItems lists items in a project together with their content
// (issue, pull request, or draft) and current field values flattened to
// display strings keyed by field name.
func (c *Client) ProjectItems(ctx context.Context, projectID string) ([]types.Item, error) {
	var q struct {
		Node struct {
			ProjectV2 struct {
				Items struct {
					Nodes []struct {
						ID      githubv4.ID
						Type    githubv4.String
						Content struct {
							Issue struct {
								Title     githubv4.String
								Number    githubv4.Int
								URL       githubv4.String
								State     githubv4.String
								Assignees struct {
									Nodes []struct {
										Login githubv4.String
									}
								} `graphql:"assignees(first: 5)"`
							} `graphql:"... on Issue"`
							PullRequest struct {
								Title     githubv4.String
								Number    githubv4.Int
								URL       githubv4.String
								State     githubv4.String
								Assignees struct {
									Nodes []struct {
										Login githubv4.String
									}
								} `graphql:"assignees(first: 5)"`
							} `graphql:"... on PullRequest"`
							DraftIssue struct {
								Title githubv4.String
							} `graphql:"... on DraftIssue"`
						}
						FieldValues struct {
							Nodes []struct {
								TextValue struct {
									Text  githubv4.String
									Field struct {
										Common struct {
											Name githubv4.String
										} `graphql:"... on ProjectV2Field"`
									}
								} `graphql:"... on ProjectV2ItemFieldTextValue"`
								NumberValue struct {
									Number githubv4.Float
									Field  struct {
										Common struct {
											Name githubv4.String
										} `graphql:"... on ProjectV2Field"`
									}
								} `graphql:"... on ProjectV2ItemFieldNumberValue"`
								DateValue struct {
									Date  githubv4.String
									Field struct {
										Common struct {
											Name githubv4.String
										} `graphql:"... on ProjectV2Field"`
									}
								} `graphql:"... on ProjectV2ItemFieldDateValue"`
								SingleSelectValue struct {
									Name  githubv4.String
									Field struct {
										SingleSelect struct {
											Name githubv4.String
										} `graphql:"... on ProjectV2SingleSelectField"`
									}
								} `graphql:"... on ProjectV2ItemFieldSingleSelectValue"`
								IterationValue struct {
									Title githubv4.String
									Field struct {
										Iteration struct {
											Name githubv4.String
										} `graphql:"... on ProjectV2IterationField"`
									}
								} `graphql:"... on ProjectV2ItemFieldIterationValue"`
							}
						} `graphql:"fieldValues(first: 20)"`
					}
				} `graphql:"items(first: 100)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}

	vars := map[string]interface{}{
		"projectId": githubv4.ID(projectID),
	}
	if err := c.query(ctx, "list project items", &q, vars); err != nil {
		return nil, err
	}

	nodes := q.Node.ProjectV2.Items.Nodes
	items := make([]types.Item, 0, len(nodes))
	for _, node := range nodes {
		item := types.Item{
			ID:          idString(node.ID),
			Type:        string(node.Type),
			FieldValues: map[string]string{},
		}

		switch {
		case node.Content.Issue.Title != "":
			item.Title = string(node.Content.Issue.Title)
			item.Number = int(node.Content.Issue.Number)
			item.URL = string(node.Content.Issue.URL)
			item.State = string(node.Content.Issue.State)
			for _, a := range node.Content.Issue.Assignees.Nodes {
				item.Assignees = append(item.Assignees, string(a.Login))
			}
		case node.Content.PullRequest.Title != "":
			item.Title = string(node.Content.PullRequest.Title)
			item.Number = int(node.Content.PullRequest.Number)
			item.URL = string(node.Content.PullRequest.URL)
			item.State = string(node.Content.PullRequest.State)
			for _, a := range node.Content.PullRequest.Assignees.Nodes {
				item.Assignees = append(item.Assignees, string(a.Login))
			}
		case node.Content.DraftIssue.Title != "":
			item.Title = string(node.Content.DraftIssue.Title)
		default:
			item.Title = "(private item)"
		}

		for _, fv := range node.FieldValues.Nodes {
			switch {
			case fv.TextValue.Field.Common.Name != "":
				item.FieldValues[string(fv.TextValue.Field.Common.Name)] = string(fv.TextValue.Text)
			case fv.NumberValue.Field.Common.Name != "":
				item.FieldValues[string(fv.NumberValue.Field.Common.Name)] = strconv.FormatFloat(float64(fv.NumberValue.Number), 'f', -1, 64)
			case fv.DateValue.Field.Common.Name != "":
				item.FieldValues[string(fv.DateValue.Field.Common.Name)] = string(fv.DateValue.Date)
			case fv.SingleSelectValue.Field.SingleSelect.Name != "":
				item.FieldValues[string(fv.SingleSelectValue.Field.SingleSelect.Name)] = string(fv.SingleSelectValue.Name)
			case fv.IterationValue.Field.Iteration.Name != "":
				item.FieldValues[string(fv.IterationValue.Field.Iteration.Name)] = string(fv.IterationValue.Title)
			}
		}

		items = append(items, item)
	}
	return items, nil
}
