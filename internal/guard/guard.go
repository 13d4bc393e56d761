// ABOUTME: Route guard that gates navigation on the current auth session
// ABOUTME: Unauthenticated access to a non-exempt route redirects to login, remembering the target

package guard

import (
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/freelancehub/freelancehub-cli/internal/notify"
)

// Route paths shared by the command line and the terminal UI
const (
	HomePath     = "/"
	ProjectsPath = "/projects"
	PostPath     = "/post-project"
	LoginPath    = "/login"
	RegisterPath = "/register"
)

// ProjectPath returns the detail route for id
func ProjectPath(id string) string {
	return ProjectsPath + "/" + url.PathEscape(id)
}

// Authenticator reports the live session state
type Authenticator interface {
	IsAuthenticated() bool
}

// Decision is the outcome of one navigation attempt
type Decision struct {
	Allow bool
	// RedirectTo is set when Allow is false
	RedirectTo string
	// From is the path originally requested, for returning after login
	From string
}

// Guard decides navigation. It holds no cached answer: every Check reads
// the authenticator again.
type Guard struct {
	auth     Authenticator
	notifier notify.Notifier
}

// Option configures a Guard
type Option func(*Guard)

// WithNotifier reports redirects to n
func WithNotifier(n notify.Notifier) Option {
	return func(g *Guard) {
		g.notifier = n
	}
}

// New creates a guard over auth
func New(auth Authenticator, opts ...Option) *Guard {
	g := &Guard{auth: auth, notifier: notify.Discard}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check decides whether navigation to target may proceed
func (g *Guard) Check(target string) Decision {
	p := Normalize(target)
	if IsExempt(p) || g.auth.IsAuthenticated() {
		return Decision{Allow: true}
	}

	slog.Debug("Navigation blocked, redirecting to login", "from", p)
	g.notifier.Notify(notify.Notification{
		Kind:        notify.Failure,
		Title:       "Authentication required",
		Description: "Please login to access this page",
	})
	return Decision{RedirectTo: LoginPath, From: p}
}

// IsExempt reports whether p is reachable without a session
func IsExempt(p string) bool {
	switch Normalize(p) {
	case LoginPath, RegisterPath:
		return true
	}
	return false
}

// Normalize cleans p into an absolute path without query or trailing slash
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// ReturnPath picks where to go after a successful login
func ReturnPath(from string) string {
	if from == "" || IsExempt(from) {
		return HomePath
	}
	return Normalize(from)
}
