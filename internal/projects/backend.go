// ABOUTME: Backends the project store fetches from
// ABOUTME: APIBackend talks to the REST API through the HTTP client wrapper

package projects

import (
	"context"
	"fmt"

	"github.com/freelancehub/freelancehub-cli/internal/client"
)

// ListParams are the server-side filter and paging parameters for a list call
type ListParams struct {
	Skip    int
	Limit   int
	Filters Filters
}

// Page is one list response
type Page struct {
	Projects []Project
	// Total is only meaningful when HasTotal is set
	Total    int
	HasTotal bool
}

// Backend is where the store's network-bound operations land
type Backend interface {
	List(ctx context.Context, params ListParams) (*Page, error)
	// Get returns ErrNotFound when id does not resolve
	Get(ctx context.Context, id string) (*Project, error)
	Create(ctx context.Context, in CreateInput) (*Project, error)
	// Complete moves id to COMPLETED; ErrNotFound when id does not resolve
	Complete(ctx context.Context, id string) (*Project, error)
}

// APIBackend implements Backend against the marketplace REST API
type APIBackend struct {
	client *client.Client
}

// NewAPIBackend creates a backend using c for all calls
func NewAPIBackend(c *client.Client) *APIBackend {
	return &APIBackend{client: c}
}

// List calls GET /projects with filters applied server-side
func (b *APIBackend) List(ctx context.Context, params ListParams) (*Page, error) {
	q := client.ListProjectsParams{
		Skip:      params.Skip,
		Limit:     params.Limit,
		Tech:      params.Filters.Tech,
		MinBudget: params.Filters.MinBudget,
		MaxBudget: params.Filters.MaxBudget,
	}
	if params.Filters.Status != "" && params.Filters.Status != FilterAll {
		q.Status = string(params.Filters.Status)
	}

	resp, err := b.client.ListProjects(ctx, q)
	if err != nil {
		return nil, err
	}
	items, err := FromWireList(resp.Items)
	if err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &Page{Projects: items, Total: resp.Total, HasTotal: resp.HasTotal}, nil
}

// Get calls GET /projects/{id}; a 404 becomes ErrNotFound
func (b *APIBackend) Get(ctx context.Context, id string) (*Project, error) {
	w, err := b.client.GetProject(ctx, id)
	if client.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b.fromWire(w)
}

// Create calls POST /projects
func (b *APIBackend) Create(ctx context.Context, in CreateInput) (*Project, error) {
	w, err := b.client.CreateProject(ctx, CreateRequest(in))
	if err != nil {
		return nil, err
	}
	return b.fromWire(w)
}

// Complete calls PATCH /projects/{id}/status with COMPLETED
func (b *APIBackend) Complete(ctx context.Context, id string) (*Project, error) {
	w, err := b.client.UpdateProjectStatus(ctx, id, string(StatusCompleted))
	if client.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b.fromWire(w)
}

func (b *APIBackend) fromWire(w *client.Project) (*Project, error) {
	p, err := FromWire(*w)
	if err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &p, nil
}
