// ABOUTME: Process wiring for the freelancehub commands
// ABOUTME: Builds one instance of each core component from configuration

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/freelancehub/freelancehub-cli/internal/auth"
	"github.com/freelancehub/freelancehub-cli/internal/client"
	"github.com/freelancehub/freelancehub-cli/internal/config"
	"github.com/freelancehub/freelancehub-cli/internal/guard"
	"github.com/freelancehub/freelancehub-cli/internal/logger"
	"github.com/freelancehub/freelancehub-cli/internal/mockdata"
	"github.com/freelancehub/freelancehub-cli/internal/notify"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/session"
)

// errAuthRequired is returned when the guard redirects a command to login
var errAuthRequired = errors.New("authentication required: run 'freelancehub login' first")

// app holds the core components shared by every command in a process
type app struct {
	cfg      *config.Config
	client   *client.Client // nil in mock mode
	tokens   session.Store
	auth     *auth.Machine
	projects *projects.Store
	guard    *guard.Guard
}

// newApp wires the components. Notifications go to notes.
func newApp(cfg *config.Config, notes notify.Notifier) (*app, error) {
	a := &app{
		cfg:    cfg,
		tokens: session.NewFileStore(cfg.ConfigDir),
	}

	var (
		api     auth.API
		backend projects.Backend
	)
	if cfg.Mock {
		set, err := mockdata.Load(cfg.MockData, time.Now())
		if err != nil {
			return nil, err
		}
		mockAPI, err := auth.NewMockAPI(a.tokens, set.Accounts)
		if err != nil {
			return nil, fmt.Errorf("failed to seed mock accounts: %w", err)
		}
		api = mockAPI
		backend = projects.NewMockBackend(set.Projects, projects.WithLatency(cfg.MockLatency))
		slog.Debug("Using mock backend", "projects", len(set.Projects), "latency", cfg.MockLatency)
	} else {
		a.client = client.New(cfg.APIURL, client.WithTokenSource(a.tokens), client.WithTimeout(cfg.Timeout))
		api = a.client
		backend = projects.NewAPIBackend(a.client)
	}

	a.auth = auth.NewMachine(api, a.tokens, auth.WithNotifier(notes))
	a.projects = projects.NewStore(backend, projects.WithNotifier(notes), projects.WithPageLimit(cfg.PageLimit))
	a.guard = guard.New(a.auth, guard.WithNotifier(notes))
	return a, nil
}

// setup loads configuration, starts command-line logging and wires the app.
// Notifications are printed to w for humans and suppressed for JSON output.
func setup(w io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	var notes notify.Notifier = notify.Discard
	if !IsJSONOutput() {
		notes = notify.NewWriter(w)
	}
	return newApp(cfg, notes)
}

// start restores the session and, when fetch is set, loads the first page of
// projects at the same time. A failed fetch does not cancel the restore.
func (a *app) start(ctx context.Context, fetch bool) error {
	var g errgroup.Group
	g.Go(func() error {
		a.auth.Initialize(ctx)
		return nil
	})
	if fetch {
		g.Go(func() error {
			return a.projects.FetchAll(ctx)
		})
	}
	return g.Wait()
}

// navigate consults the guard for path
func (a *app) navigate(path string) error {
	if d := a.guard.Check(path); !d.Allow {
		return errAuthRequired
	}
	return nil
}

// exitCode maps an operation error to the process exit status
func exitCode(err error) int {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errAuthRequired),
		errors.Is(err, projects.ErrInvalidInput),
		errors.Is(err, auth.ErrInvalidInput):
		return 2
	case errors.As(err, &apiErr),
		errors.Is(err, projects.ErrNotFound),
		errors.Is(err, projects.ErrAlreadyCompleted):
		return 1
	default:
		// transport failures: cannot connect, timeouts
		return 2
	}
}

// fail prints err and returns its exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCode(err)
}
