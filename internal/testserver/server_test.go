// ABOUTME: Smoke tests for the fake marketplace API
// ABOUTME: Exercises the routes through the real HTTP client wrapper

package testserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/freelancehub/freelancehub-cli/internal/client"
	"github.com/stretchr/testify/require"
)

type tokenFunc func() (string, bool)

func (f tokenFunc) Token() (string, bool) { return f() }

func TestServer_AuthFlow(t *testing.T) {
	srv := New(t)
	srv.AddUser("Ada", "Lovelace", "ada@example.com", "secret")
	ctx := context.Background()

	anon := client.New(srv.URL)
	_, err := anon.Login(ctx, "ada@example.com", "wrong")
	require.True(t, client.IsUnauthorized(err))
	require.Equal(t, "Invalid credentials", client.MessageOf(err, ""))

	resp, err := anon.Login(ctx, "ADA@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "Ada", resp.User.FirstName)

	authed := client.New(srv.URL, client.WithTokenSource(tokenFunc(func() (string, bool) { return resp.Token, true })))
	me, err := authed.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", me.Email)

	_, err = anon.CurrentUser(ctx)
	require.True(t, client.IsUnauthorized(err))
}

func TestServer_ExpiredToken(t *testing.T) {
	srv := New(t)
	srv.AddUser("Ada", "Lovelace", "ada@example.com", "secret")
	expired := srv.IssueToken("ada@example.com", -time.Minute)

	c := client.New(srv.URL, client.WithTokenSource(tokenFunc(func() (string, bool) { return expired, true })))
	_, err := c.CurrentUser(context.Background())
	require.True(t, client.IsUnauthorized(err))
	require.Equal(t, "Token expired", client.MessageOf(err, ""))
}

func TestServer_RegisterDuplicate(t *testing.T) {
	srv := New(t)
	c := client.New(srv.URL)
	req := client.RegisterRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "cobol"}

	_, err := c.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = c.Register(context.Background(), req)
	require.Equal(t, "Email already registered", client.MessageOf(err, ""))
}

func TestServer_ProjectsFiltersAndPaging(t *testing.T) {
	srv := New(t)
	srv.AddProject(client.Project{ID: "1", Title: "A", Budget: 100, TechStack: []string{"Go"}, CreatedAt: "2025-01-01T00:00:00.000000"})
	srv.AddProject(client.Project{ID: "2", Title: "B", Budget: 900, TechStack: []string{"Go"}, Status: "COMPLETED", CreatedAt: "2025-01-03T00:00:00.000000"})
	srv.AddProject(client.Project{ID: "3", Title: "C", Budget: 500, TechStack: []string{"React"}, CreatedAt: "2025-01-02T00:00:00.000000"})
	c := client.New(srv.URL)
	ctx := context.Background()

	page, err := c.ListProjects(ctx, client.ListProjectsParams{})
	require.NoError(t, err)
	require.Equal(t, []string{"2", "3", "1"}, projectIDs(page.Items))

	page, err = c.ListProjects(ctx, client.ListProjectsParams{Tech: "Go", Status: "OPEN"})
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, projectIDs(page.Items))

	lo := 500.0
	page, err = c.ListProjects(ctx, client.ListProjectsParams{MinBudget: &lo, Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"3"}, projectIDs(page.Items))

	_, err = c.ListProjects(ctx, client.ListProjectsParams{Limit: 500})
	require.Error(t, err)
	require.Equal(t, 4, srv.Calls("GET /projects"))
}

func TestServer_CreateGetComplete(t *testing.T) {
	srv := New(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	_, err := c.CreateProject(ctx, client.CreateProjectRequest{Title: "Tiny"})
	require.Equal(t, "ensure this value has at least 5 characters", client.MessageOf(err, ""))

	p, err := c.CreateProject(ctx, client.CreateProjectRequest{
		Title: "Build API", Description: "A REST API for the marketplace", Budget: 1000, TechStack: []string{"Go"},
	})
	require.NoError(t, err)
	require.Equal(t, "OPEN", p.Status)
	require.NotEmpty(t, p.CreatedAt)

	done, err := c.UpdateProjectStatus(ctx, p.ID, "COMPLETED")
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", done.Status)

	_, err = c.GetProject(ctx, "missing")
	require.True(t, client.IsNotFound(err))
}

func TestServer_FailNext(t *testing.T) {
	srv := New(t)
	srv.FailNext("GET /projects", http.StatusInternalServerError, `{"detail":"database unavailable"}`)
	c := client.New(srv.URL)

	_, err := c.ListProjects(context.Background(), client.ListProjectsParams{})
	require.Equal(t, "database unavailable", client.MessageOf(err, ""))

	_, err = c.ListProjects(context.Background(), client.ListProjectsParams{})
	require.NoError(t, err)
}

func projectIDs(ps []client.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
