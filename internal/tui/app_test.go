// ABOUTME: Tests for the root TUI model
// ABOUTME: Runs commands against the mock backend to check routing, auth and project flows

package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/freelancehub/freelancehub-cli/internal/auth"
	"github.com/freelancehub/freelancehub-cli/internal/guard"
	"github.com/freelancehub/freelancehub-cli/internal/mockdata"
	"github.com/freelancehub/freelancehub-cli/internal/notify"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/session"
	"github.com/freelancehub/freelancehub-cli/internal/tui/browser"
	"github.com/freelancehub/freelancehub-cli/internal/tui/forms"
)

const (
	demoEmail    = "demo@freelancehub.dev"
	demoPassword = "demo1234"
)

type harness struct {
	app    *App
	api    *auth.MockAPI
	tokens *session.MemoryStore
	store  *projects.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, nil)
}

// failingGet fails the first fetch-by-id with a transport error
type failingGet struct {
	projects.Backend
	mu     sync.Mutex
	failed bool
}

func (f *failingGet) Get(ctx context.Context, id string) (*projects.Project, error) {
	f.mu.Lock()
	first := !f.failed
	f.failed = true
	f.mu.Unlock()
	if first {
		return nil, errors.New("cannot connect to backend")
	}
	return f.Backend.Get(ctx, id)
}

func newHarnessWith(t *testing.T, wrap func(projects.Backend) projects.Backend) *harness {
	t.Helper()
	set, err := mockdata.Default(time.Now())
	require.NoError(t, err)

	tokens := session.NewMemoryStore("")
	api, err := auth.NewMockAPI(tokens, set.Accounts)
	require.NoError(t, err)

	notes := notify.NewQueue()
	machine := auth.NewMachine(api, tokens, auth.WithNotifier(notes))
	var backend projects.Backend = projects.NewMockBackend(set.Projects)
	if wrap != nil {
		backend = wrap(backend)
	}
	store := projects.NewStore(backend, projects.WithNotifier(notes))

	app := New(Deps{
		Auth:     machine,
		Projects: store,
		Guard:    guard.New(machine, guard.WithNotifier(notes)),
		Notes:    notes,
		Backend:  "mock",
	})
	app.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return &harness{app: app, api: api, tokens: tokens, store: store}
}

// signIn persists a valid token as if an earlier run had logged in
func (h *harness) signIn(t *testing.T) {
	t.Helper()
	resp, err := h.api.Login(context.Background(), demoEmail, demoPassword)
	require.NoError(t, err)
	require.NoError(t, h.tokens.SetToken(resp.Token))
}

// runCmd runs c, giving up on commands that only wait for timers
func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(300 * time.Millisecond):
		return nil, false
	}
}

// settle runs cmd and feeds the app's own messages back into Update until
// no work is left. Widget ticks and huh internals are dropped.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	quit := false
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "commands did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok {
			continue
		}
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
		case tea.QuitMsg:
			quit = true
		case restoredMsg, fetchedMsg, projectMsg, createdMsg, completedMsg, authMsg, confirmedMsg,
			browser.OpenMsg, browser.PageMsg, browser.RefreshMsg, forms.CancelledMsg:
			_, next := h.app.Update(m)
			queue = append(queue, next)
		}
	}
	return quit
}

func (h *harness) send(t *testing.T, msg tea.Msg) bool {
	t.Helper()
	_, cmd := h.app.Update(msg)
	return h.settle(t, cmd)
}

func (h *harness) press(t *testing.T, k string) bool {
	t.Helper()
	return h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func TestApp_LoadingView(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ScreenLoading, h.app.Screen())
	require.Contains(t, h.app.View(), "Restoring session...")
}

func TestApp_AnonymousStartRedirectsToLogin(t *testing.T) {
	h := newHarness(t)
	h.settle(t, h.app.Init())

	require.Equal(t, ScreenLogin, h.app.Screen())
	require.Equal(t, guard.LoginPath, h.app.Route())
	require.Equal(t, guard.HomePath, h.app.from)
	require.NotNil(t, h.app.toast)
	require.Equal(t, "Authentication required", h.app.toast.Title)
	require.Equal(t, "Please login to access this page", h.app.toast.Description)

	// projects were fetched alongside the restore
	require.Len(t, h.store.State().Projects, 6)
}

func TestApp_LoginReturnsToRequestedRoute(t *testing.T) {
	h := newHarness(t)
	h.settle(t, h.app.Init())
	h.settle(t, h.app.navigate(guard.ProjectPath("2")))
	require.Equal(t, ScreenLogin, h.app.Screen())
	require.Equal(t, "/projects/2", h.app.from)

	h.send(t, forms.LoginSubmittedMsg{Email: demoEmail, Password: demoPassword})

	require.Equal(t, ScreenDetail, h.app.Screen())
	require.Equal(t, "/projects/2", h.app.Route())
	require.Empty(t, h.app.from)
	require.Equal(t, auth.PhaseConfirmed, h.app.deps.Auth.Session().Phase)

	sel := h.store.State().Selected
	require.NotNil(t, sel)
	require.Equal(t, "2", sel.ID)
	require.Contains(t, h.app.View(), sel.Title)
}

func TestApp_LoginFailureStaysOnForm(t *testing.T) {
	h := newHarness(t)
	h.settle(t, h.app.Init())

	h.send(t, forms.LoginSubmittedMsg{Email: demoEmail, Password: "wrong-password"})

	require.Equal(t, ScreenLogin, h.app.Screen())
	require.False(t, h.app.deps.Auth.IsAuthenticated())
	require.NotNil(t, h.app.toast)
	require.Equal(t, "Login failed", h.app.toast.Title)
	require.Equal(t, "Invalid credentials", h.app.toast.Description)
	require.Contains(t, h.app.View(), "Invalid credentials")
}

func TestApp_RestoredSessionOpensHome(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())

	require.Equal(t, ScreenHome, h.app.Screen())
	require.Equal(t, auth.PhaseConfirmed, h.app.deps.Auth.Session().Phase)

	view := h.app.View()
	require.Contains(t, view, "Latest open projects")
	require.Contains(t, view, "Demo User")
}

func TestApp_HomeOpensLatestProject(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())

	latest := projects.LatestOpen(h.store.State().Projects, latestCount)
	require.Len(t, latest, 3)

	h.press(t, "2")
	require.Equal(t, ScreenDetail, h.app.Screen())
	require.Equal(t, guard.ProjectPath(latest[1].ID), h.app.Route())
}

func TestApp_CompleteProject(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())
	h.settle(t, h.app.navigate(guard.ProjectPath("1")))
	require.Contains(t, h.app.View(), "c mark as completed")

	h.press(t, "c")

	sel := h.store.State().Selected
	require.NotNil(t, sel)
	require.Equal(t, projects.StatusCompleted, sel.Status)
	require.NotContains(t, h.app.View(), "c mark as completed")

	// completed projects offer no further action
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Nil(t, cmd)
}

func TestApp_ProjectNotFound(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())
	h.settle(t, h.app.navigate(guard.ProjectPath("999")))

	require.Equal(t, ScreenDetail, h.app.Screen())
	require.Equal(t, "999", h.store.State().NotFoundID)
	require.Contains(t, h.app.View(), "Project not found")

	h.press(t, "b")
	require.Equal(t, ScreenProjects, h.app.Screen())
	require.Nil(t, h.store.State().Selected)
}

func TestApp_DetailRetryAfterFailure(t *testing.T) {
	h := newHarnessWith(t, func(b projects.Backend) projects.Backend { return &failingGet{Backend: b} })
	h.signIn(t)
	h.settle(t, h.app.Init())
	h.settle(t, h.app.navigate(guard.ProjectPath("2")))

	require.Equal(t, projects.FetchFailed, h.store.State().Status)
	require.Contains(t, h.app.View(), "r retry")

	h.press(t, "r")

	sel := h.store.State().Selected
	require.NotNil(t, sel)
	require.Equal(t, "2", sel.ID)
	require.Contains(t, h.app.View(), sel.Title)
}

func TestApp_PostProject(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())

	h.press(t, "n")
	require.Equal(t, ScreenPost, h.app.Screen())

	h.send(t, forms.PostSubmittedMsg{Input: projects.CreateInput{
		Title:       "Terminal dashboard",
		Description: "Build a terminal dashboard for marketplace analytics",
		Budget:      42000,
		TechStack:   []string{"Go"},
	}})

	require.Equal(t, ScreenProjects, h.app.Screen())
	var titles []string
	for _, p := range h.store.State().Projects {
		titles = append(titles, p.Title)
	}
	require.Contains(t, titles, "Terminal dashboard")
}

func TestApp_LogoutGoesToLogin(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())

	h.press(t, "l")

	require.Equal(t, ScreenLogin, h.app.Screen())
	require.False(t, h.app.deps.Auth.IsAuthenticated())
	_, ok := h.tokens.Token()
	require.False(t, ok)
	require.NotNil(t, h.app.toast)
	require.Equal(t, "Logged out", h.app.toast.Title)
}

func TestApp_CancelLoginWhenAnonymousQuits(t *testing.T) {
	h := newHarness(t)
	h.settle(t, h.app.Init())

	quit := h.send(t, forms.CancelledMsg{})
	require.True(t, quit)
}

func TestApp_ProtectedNavigationAfterTokenLoss(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(t, h.app.Init())
	require.NoError(t, h.tokens.ClearToken())

	h.press(t, "p")

	require.Equal(t, ScreenLogin, h.app.Screen())
	require.Equal(t, guard.ProjectsPath, h.app.from)
}

func TestDetailID(t *testing.T) {
	require.Equal(t, "42", detailID("/projects/42"))
	require.Equal(t, "a b", detailID(guard.ProjectPath("a b")))
	require.Equal(t, "7", detailID("/projects/7/edit"))
}
