package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/goblinsan/gh-project-fields/pkg/retry"
)

// Client wraps both the REST API client (go-github) and GraphQL client
// (githubv4). Every remote call goes through the bounded retry executor:
// transport failures are retried with exponential backoff, structured
// GraphQL error payloads are surfaced immediately.
type Client struct {
	REST    *github.Client
	GraphQL *githubv4.Client

	policy  retry.Policy
	timeout time.Duration
}

// callTimeout bounds a single remote attempt. The retry budget is applied
// on top of this.
const callTimeout = 30 * time.Second

// NewClient creates a new GitHub client with both REST and GraphQL capabilities.
func NewClient(token string) *Client {
	var httpClient *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = http.DefaultClient
	}

	return &Client{
		REST:    github.NewClient(httpClient),
		GraphQL: githubv4.NewClient(httpClient),
		policy:  retry.Default,
		timeout: callTimeout,
	}
}

// GetAuthenticatedUser returns information about the authenticated user.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	var user *github.User
	err := c.execute(ctx, "get authenticated user", func(ctx context.Context) error {
		u, _, err := c.REST.Users.Get(ctx, "")
		user = u
		return err
	})
	return user, err
}

// query runs a GraphQL query through the retry executor.
func (c *Client) query(ctx context.Context, op string, q interface{}, vars map[string]interface{}) error {
	return c.execute(ctx, op, func(ctx context.Context) error {
		return c.GraphQL.Query(ctx, q, vars)
	})
}

// mutate runs a GraphQL mutation through the retry executor. Field-value
// mutations are idempotent (setting the same value twice has no extra
// effect), so blind transport retries are safe here.
func (c *Client) mutate(ctx context.Context, op string, m interface{}, input githubv4.Input) error {
	return c.execute(ctx, op, func(ctx context.Context) error {
		return c.GraphQL.Mutate(ctx, m, input, nil)
	})
}

// execute is the single retry/classification boundary for remote calls.
// Callers always get a typed error back, never a panic or a raw client
// error.
func (c *Client) execute(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, c.policy, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		err := classify(op, fn(callCtx))
		if err == nil {
			return nil
		}
		var transport *TransportError
		if errors.As(err, &transport) {
			return err
		}
		return retry.Permanent(err)
	})
}

// idString converts a githubv4.ID (an interface holding the raw JSON value)
// into its string form, or "" when the node was null.
func idString(id githubv4.ID) string {
	s, _ := id.(string)
	return s
}
