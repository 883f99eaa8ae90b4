// Package fields implements the field identifier resolution and typed
// update engine for GitHub Project V2 boards: turning human-supplied names
// (owner + project number, field name, option or iteration title) into the
// opaque node IDs the mutation API requires, dispatching typed value
// updates, and driving bulk updates from tabular input.
package fields

import (
	"context"
	"fmt"

	ghclient "github.com/goblinsan/gh-project-fields/pkg/github"
	"github.com/goblinsan/gh-project-fields/pkg/types"
)

// Client defines the remote operations the engine needs. The concrete
// implementation wraps its calls in the retry executor; the engine itself
// never talks to the network directly.
type Client interface {
	ProjectID(ctx context.Context, owner string, number int) (string, error)
	ProjectFields(ctx context.Context, projectID string) ([]types.Field, error)
	UpdateItemField(ctx context.Context, projectID, itemID, fieldID string, value types.FieldValue) error
	ClearItemField(ctx context.Context, projectID, itemID, fieldID string) error
}

// Ensure *github.Client satisfies the interface at compile time.
var _ Client = (*ghclient.Client)(nil)

// Resolver maps names to platform identifiers. Lookups are read-through
// cached for the lifetime of the resolver (one invocation): field metadata
// does not change mid-run in ordinary operation, and a single fetch per
// project keeps resolution consistent across a whole batch. The cache is
// never persisted.
type Resolver struct {
	client   Client
	projects map[string]string        // "owner#number" -> project node ID
	fields   map[string][]types.Field // project node ID -> field list
}

// NewResolver creates a resolver with an empty cache.
func NewResolver(client Client) *Resolver {
	return &Resolver{
		client:   client,
		projects: make(map[string]string),
		fields:   make(map[string][]types.Field),
	}
}

// ResolveProject resolves (owner, number) to a project node ID. An empty
// or null remote answer is a NotFoundError.
func (r *Resolver) ResolveProject(ctx context.Context, owner string, number int) (string, error) {
	key := fmt.Sprintf("%s#%d", owner, number)
	if id, ok := r.projects[key]; ok {
		return id, nil
	}

	id, err := r.client.ProjectID(ctx, owner, number)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", &NotFoundError{Kind: "project", Name: fmt.Sprintf("%d", number), Scope: owner}
	}
	r.projects[key] = id
	return id, nil
}

// ResolveField returns the first field whose name matches exactly
// (case-sensitive). The remote surface has no server-side name filter, so
// the full list is fetched and filtered here. Duplicate names are legal
// upstream; first match wins, deterministically in API order.
func (r *Resolver) ResolveField(ctx context.Context, projectID, name string) (types.Field, error) {
	fields, err := r.projectFields(ctx, projectID)
	if err != nil {
		return types.Field{}, err
	}
	for _, f := range fields {
		if f.Name == name {
			return f, nil
		}
	}
	return types.Field{}, &NotFoundError{Kind: "field", Name: name, Scope: "project"}
}

// Fields returns the full field list for a project through the cache.
func (r *Resolver) Fields(ctx context.Context, projectID string) ([]types.Field, error) {
	return r.projectFields(ctx, projectID)
}

func (r *Resolver) projectFields(ctx context.Context, projectID string) ([]types.Field, error) {
	if fields, ok := r.fields[projectID]; ok {
		return fields, nil
	}
	fields, err := r.client.ProjectFields(ctx, projectID)
	if err != nil {
		return nil, err
	}
	r.fields[projectID] = fields
	return fields, nil
}

// ResolveOption resolves an option or iteration name within a field to its
// ID. SINGLE_SELECT searches options; ITERATION searches active iterations
// first, falling back to completed ones. Exact string equality only, no
// fuzzy matching.
func ResolveOption(field types.Field, name string) (string, error) {
	switch field.DataType {
	case types.FieldTypeSingleSelect:
		for _, opt := range field.Options {
			if opt.Name == name {
				return opt.ID, nil
			}
		}
		return "", &NotFoundError{Kind: "option", Name: name, Scope: fmt.Sprintf("field %q", field.Name)}
	case types.FieldTypeIteration:
		for _, it := range field.ActiveIterations {
			if it.Title == name {
				return it.ID, nil
			}
		}
		for _, it := range field.CompletedIterations {
			if it.Title == name {
				return it.ID, nil
			}
		}
		return "", &NotFoundError{Kind: "iteration", Name: name, Scope: fmt.Sprintf("field %q", field.Name)}
	default:
		return "", &UnsupportedFieldTypeError{Field: field.Name, DataType: string(field.DataType)}
	}
}
