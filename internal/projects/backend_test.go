// ABOUTME: Integration tests for the API backend against the fake marketplace API
// ABOUTME: Drives the store end to end over HTTP

package projects_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/freelancehub/freelancehub-cli/internal/client"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/testserver"
	"github.com/stretchr/testify/require"
)

func newAPIStore(t *testing.T) (*projects.Store, *testserver.Server) {
	t.Helper()
	srv := testserver.New(t)
	return projects.NewStore(projects.NewAPIBackend(client.New(srv.URL))), srv
}

func TestAPIBackend_FetchAllMapsWireRecords(t *testing.T) {
	store, srv := newAPIStore(t)
	srv.AddProject(client.Project{ID: "1", Title: "Build API", Budget: 5000, TechStack: []string{"Go"}, CreatedAt: "2025-02-01T10:00:00.000000"})
	srv.AddProject(client.Project{ID: "2", Title: "Fix CSS", Budget: 200, TechStack: []string{"CSS"}, Status: "COMPLETED", CreatedAt: "2025-01-01T10:00:00.000000"})

	require.NoError(t, store.FetchAll(context.Background()))
	st := store.State()
	require.Len(t, st.Projects, 2)
	require.Equal(t, []string{"Go"}, st.Projects[0].TechStack)
	require.Equal(t, 2025, st.Projects[0].CreatedAt.Year())
	require.Equal(t, projects.StatusCompleted, st.Projects[1].Status)
}

func TestAPIBackend_ServerSideFilters(t *testing.T) {
	store, srv := newAPIStore(t)
	srv.AddProject(client.Project{ID: "1", Title: "Go job", Budget: 5000, TechStack: []string{"Go"}})
	srv.AddProject(client.Project{ID: "2", Title: "React job", Budget: 5000, TechStack: []string{"React"}})

	store.SetFilters(projects.Filters{Tech: "React", Status: projects.FilterAll})
	require.NoError(t, store.FetchAll(context.Background()))
	st := store.State()
	require.Len(t, st.Projects, 1)
	require.Equal(t, "2", st.Projects[0].ID)
}

func TestAPIBackend_NotFoundIsResolution(t *testing.T) {
	store, _ := newAPIStore(t)

	_, err := store.FetchByID(context.Background(), "missing")
	require.ErrorIs(t, err, projects.ErrNotFound)
	require.Equal(t, "missing", store.State().NotFoundID)
	require.Empty(t, store.State().Error)
}

func TestAPIBackend_CreateAndComplete(t *testing.T) {
	store, srv := newAPIStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, projects.CreateInput{
		Title:       "Build API",
		Description: "A REST API for the marketplace backend",
		Budget:      1000,
		TechStack:   []string{"Go"},
	})
	require.NoError(t, err)
	require.Equal(t, projects.StatusOpen, created.Status)
	require.False(t, created.CreatedAt.IsZero())

	_, err = store.FetchByID(ctx, created.ID)
	require.NoError(t, err)

	done, err := store.UpdateStatus(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, projects.StatusCompleted, done.Status)
	require.Equal(t, projects.StatusCompleted, store.State().Selected.Status)

	// A second attempt never reaches the server
	before := srv.Calls("PATCH /projects/" + created.ID + "/status")
	_, err = store.UpdateStatus(ctx, created.ID)
	require.ErrorIs(t, err, projects.ErrAlreadyCompleted)
	require.Equal(t, before, srv.Calls("PATCH /projects/"+created.ID+"/status"))
}

func TestAPIBackend_ServerValidationMessage(t *testing.T) {
	store, _ := newAPIStore(t)

	_, err := store.Create(context.Background(), projects.CreateInput{
		Title: "Tiny", Description: "short", Budget: 10, TechStack: []string{"Go"},
	})
	require.Error(t, err)
	require.Equal(t, "ensure this value has at least 5 characters", client.MessageOf(err, ""))
	require.Equal(t, "Failed to create project", store.State().Error)
}

func TestAPIBackend_FetchAllFailureKeepsStaleData(t *testing.T) {
	store, srv := newAPIStore(t)
	srv.AddProject(client.Project{ID: "1", Title: "Go job", Budget: 5000, TechStack: []string{"Go"}})
	require.NoError(t, store.FetchAll(context.Background()))

	srv.FailNext("GET /projects", http.StatusInternalServerError, `{"detail":"database unavailable"}`)
	require.Error(t, store.FetchAll(context.Background()))

	st := store.State()
	require.Equal(t, projects.FetchFailed, st.Status)
	require.Len(t, st.Projects, 1)
}
