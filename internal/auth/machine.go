// ABOUTME: Auth session state machine wrapping login, register, logout and session restore
// ABOUTME: Persists the bearer token through the session store and reports outcomes as notifications

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/freelancehub/freelancehub-cli/internal/client"
	"github.com/freelancehub/freelancehub-cli/internal/notify"
	"github.com/freelancehub/freelancehub-cli/internal/session"
)

const (
	loginFallback    = "Login failed. Please check your credentials."
	registerFallback = "Registration failed. Please try again."
)

// ErrInvalidInput is returned when credentials fail client-side validation
var ErrInvalidInput = errors.New("invalid credentials input")

// Error is a failed auth operation. Its text is the message shown to the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// API is the subset of the marketplace API the machine needs
type API interface {
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
	CurrentUser(ctx context.Context) (*client.User, error)
}

// Profile is the registration input
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Machine owns the session state. One instance per process.
type Machine struct {
	api      API
	tokens   session.Store
	notifier notify.Notifier
	now      func() time.Time

	mu    sync.Mutex
	state Session
}

// Option configures a Machine
type Option func(*Machine)

// WithNotifier routes session notifications to n
func WithNotifier(n notify.Notifier) Option {
	return func(m *Machine) {
		m.notifier = n
	}
}

// WithClock overrides the clock used for the local token expiry check
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine creates an anonymous machine
func NewMachine(api API, tokens session.Store, opts ...Option) *Machine {
	m := &Machine{
		api:      api,
		tokens:   tokens,
		notifier: notify.Discard,
		now:      time.Now,
		state:    Session{Phase: PhaseAnonymous},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dispatch applies a through Reduce and returns the resulting snapshot
func (m *Machine) Dispatch(a Action) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = Reduce(m.state, a)
	slog.Debug("Auth session transition", "action", fmt.Sprintf("%T", a), "phase", m.state.Phase)
	return m.snapshot()
}

// Session returns a snapshot of the current state
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Machine) snapshot() Session {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// IsAuthenticated requires both a persisted token and a resolved user
func (m *Machine) IsAuthenticated() bool {
	if _, ok := m.tokens.Token(); !ok {
		return false
	}
	return m.Session().User != nil
}

// Initialize restores the session from a persisted token. It never fails:
// any problem leaves the session anonymous with the token purged.
func (m *Machine) Initialize(ctx context.Context) {
	token, ok := m.tokens.Token()
	if !ok {
		slog.Debug("No persisted token, starting anonymous")
		return
	}

	m.Dispatch(RestoreStarted{})
	if session.Expired(token, m.now()) {
		slog.Info("Persisted token expired, signing out")
		m.purge()
		m.Dispatch(RestoreFailed{})
		return
	}

	u, err := m.api.CurrentUser(ctx)
	if err != nil {
		slog.Warn("Session restore failed, signing out", "error", err)
		m.purge()
		m.Dispatch(RestoreFailed{})
		return
	}
	m.Dispatch(RestoreSucceeded{User: fromClient(*u)})
}

// Login authenticates with email and password. On failure the user is
// notified and the error, carrying the message shown, is returned.
func (m *Machine) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if password == "" {
		return fmt.Errorf("%w: Password is required", ErrInvalidInput)
	}

	m.Dispatch(AttemptStarted{})
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return m.fail("Login failed", loginFallback, err)
	}

	u := m.accept(resp)
	m.notifier.Notify(notify.Notification{
		Kind:        notify.Success,
		Title:       "Login successful",
		Description: fmt.Sprintf("Welcome back %s!", u.FirstName),
	})
	return nil
}

// Register creates an account and signs it in
func (m *Machine) Register(ctx context.Context, p Profile) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	if p.FirstName == "" || p.LastName == "" || p.Email == "" || p.Password == "" {
		return fmt.Errorf("%w: first name, last name, email and password are required", ErrInvalidInput)
	}
	if err := ValidateEmail(p.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m.Dispatch(AttemptStarted{})
	resp, err := m.api.Register(ctx, client.RegisterRequest{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Password:  p.Password,
	})
	if err != nil {
		return m.fail("Registration failed", registerFallback, err)
	}

	m.accept(resp)
	m.notifier.Notify(notify.Notification{
		Kind:        notify.Success,
		Title:       "Registration successful",
		Description: fmt.Sprintf("Welcome to FreelanceHub, %s!", p.FirstName),
	})
	return nil
}

// Confirm validates an optimistic session against the server. A rejected
// token signs the session out; a transport failure leaves it optimistic.
func (m *Machine) Confirm(ctx context.Context) error {
	if m.Session().Phase != PhaseOptimistic {
		return nil
	}

	u, err := m.api.CurrentUser(ctx)
	if client.IsUnauthorized(err) {
		slog.Warn("Token rejected during confirmation", "error", err)
		m.purge()
		m.Dispatch(ConfirmRejected{})
		return &Error{Message: client.MessageOf(err, "Session expired. Please log in again."), Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to confirm session: %w", err)
	}
	m.Dispatch(Confirmed{User: fromClient(*u)})
	return nil
}

// Logout signs out locally. It cannot fail.
func (m *Machine) Logout() {
	m.purge()
	m.Dispatch(LoggedOut{})
	m.notifier.Notify(notify.Notification{
		Kind:        notify.Success,
		Title:       "Logged out",
		Description: "You have been logged out successfully",
	})
}

// accept persists the token and enters the optimistic phase
func (m *Machine) accept(resp *client.AuthResponse) User {
	if err := m.tokens.SetToken(resp.Token); err != nil {
		slog.Warn("Could not persist token, session will not survive a restart", "error", err)
	}
	u := fromClient(resp.User)
	m.Dispatch(AttemptSucceeded{User: u})
	return u
}

func (m *Machine) fail(title, fallback string, err error) error {
	msg := client.MessageOf(err, fallback)
	slog.Warn(title, "error", err)
	m.Dispatch(AttemptFailed{})
	m.notifier.Notify(notify.Notification{Kind: notify.Failure, Title: title, Description: msg})
	return &Error{Message: msg, Err: err}
}

func (m *Machine) purge() {
	if err := m.tokens.ClearToken(); err != nil {
		slog.Warn("Could not clear persisted token", "error", err)
	}
}

// ValidateEmail checks that s is a bare, syntactically valid address
func ValidateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

func fromClient(u client.User) User {
	return User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}
