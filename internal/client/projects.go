// ABOUTME: Project endpoints of the marketplace API
// ABOUTME: Wire types use the API's snake_case field names

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// Project is a project as it appears on the wire.
// created_at is kept as a string because the API emits naive timestamps.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	TechStack   []string `json:"tech_stack"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
}

// CreateProjectRequest is the POST /projects body
type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	TechStack   []string `json:"tech_stack"`
}

// UpdateStatusRequest is the PATCH /projects/{id}/status body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListProjectsParams are the server-side filter and paging parameters.
// Zero values are omitted from the query string.
type ListProjectsParams struct {
	Skip      int
	Limit     int
	Tech      string
	MinBudget *float64
	MaxBudget *float64
	Status    string
}

// ProjectPage is one page of GET /projects
type ProjectPage struct {
	Items []Project
	// Total is only meaningful when HasTotal is set; the plain-array
	// response shape carries no total
	Total    int
	HasTotal bool
}

// Query encodes the parameters using the API's query names
func (p ListProjectsParams) Query() url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Tech != "" {
		q.Set("tech", p.Tech)
	}
	if p.MinBudget != nil {
		q.Set("min_budget", strconv.FormatFloat(*p.MinBudget, 'f', -1, 64))
	}
	if p.MaxBudget != nil {
		q.Set("max_budget", strconv.FormatFloat(*p.MaxBudget, 'f', -1, 64))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	return q
}

// ListProjects calls GET /projects. Both a bare array and a
// {items, total} envelope are accepted.
func (c *Client) ListProjects(ctx context.Context, params ListProjectsParams) (*ProjectPage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/projects", params.Query(), nil, &raw); err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(raw)
	page := &ProjectPage{}
	switch {
	case parsed.IsArray():
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return nil, fmt.Errorf("invalid response from backend: %w", err)
		}
	case parsed.IsObject() && parsed.Get("items").IsArray():
		if err := json.Unmarshal([]byte(parsed.Get("items").Raw), &page.Items); err != nil {
			return nil, fmt.Errorf("invalid response from backend: %w", err)
		}
		if total := parsed.Get("total"); total.Exists() {
			page.Total = int(total.Int())
			page.HasTotal = true
		}
	default:
		return nil, fmt.Errorf("invalid response from backend: unexpected project list shape")
	}
	return page, nil
}

// GetProject calls GET /projects/{id}
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject calls POST /projects
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProjectStatus calls PATCH /projects/{id}/status
func (c *Client) UpdateProjectStatus(ctx context.Context, id, status string) (*Project, error) {
	var p Project
	path := "/projects/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, nil, UpdateStatusRequest{Status: status}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
