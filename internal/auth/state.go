// ABOUTME: Auth session state and its pure reducer
// ABOUTME: Authenticated is split into optimistic (trusted after login) and confirmed (validated by the server)

package auth

// Phase is the lifecycle stage of the session
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	// PhaseOptimistic is entered straight after login or register, before
	// the token has been validated through the current-user endpoint
	PhaseOptimistic Phase = "authenticated-optimistic"
	PhaseConfirmed  Phase = "authenticated-confirmed"
)

// Authenticated reports whether p is either authenticated phase
func (p Phase) Authenticated() bool {
	return p == PhaseOptimistic || p == PhaseConfirmed
}

// User is the identity of the signed-in account
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Name returns the display name
func (u User) Name() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Session is a snapshot of the auth state. User is non-nil only in an authenticated phase.
type Session struct {
	Phase   Phase `json:"phase"`
	User    *User `json:"user,omitempty"`
	Loading bool  `json:"loading"`

	// resume is the phase to fall back to when an attempt fails
	resume Phase
}

// Action is a session transition handled by Reduce
type Action interface {
	action()
}

type (
	RestoreStarted   struct{}
	RestoreSucceeded struct{ User User }
	RestoreFailed    struct{}

	// AttemptStarted begins a login or registration
	AttemptStarted   struct{}
	AttemptSucceeded struct{ User User }
	AttemptFailed    struct{}

	Confirmed       struct{ User User }
	ConfirmRejected struct{}

	LoggedOut struct{}
)

func (RestoreStarted) action()   {}
func (RestoreSucceeded) action() {}
func (RestoreFailed) action()    {}
func (AttemptStarted) action()   {}
func (AttemptSucceeded) action() {}
func (AttemptFailed) action()    {}
func (Confirmed) action()        {}
func (ConfirmRejected) action()  {}
func (LoggedOut) action()        {}

// Reduce returns the session that results from applying a to s
func Reduce(s Session, a Action) Session {
	next := s
	if s.User != nil {
		u := *s.User
		next.User = &u
	}
	if next.Phase == "" {
		next.Phase = PhaseAnonymous
	}

	switch a := a.(type) {
	case RestoreStarted:
		next.resume = PhaseAnonymous
		next.Phase = PhaseAuthenticating
		next.Loading = true

	case RestoreSucceeded:
		u := a.User
		next.Phase = PhaseConfirmed
		next.User = &u
		next.Loading = false

	case RestoreFailed, ConfirmRejected, LoggedOut:
		next.Phase = PhaseAnonymous
		next.User = nil
		next.Loading = false

	case AttemptStarted:
		next.resume = s.Phase
		if next.resume == "" || next.resume == PhaseAuthenticating {
			next.resume = PhaseAnonymous
		}
		next.Phase = PhaseAuthenticating
		next.Loading = true

	case AttemptSucceeded:
		u := a.User
		next.Phase = PhaseOptimistic
		next.User = &u
		next.Loading = false

	case AttemptFailed:
		next.Phase = next.resume
		if next.Phase == "" {
			next.Phase = PhaseAnonymous
		}
		if !next.Phase.Authenticated() {
			next.User = nil
		}
		next.Loading = false

	case Confirmed:
		if next.Phase != PhaseOptimistic && next.Phase != PhaseConfirmed {
			break
		}
		u := a.User
		next.Phase = PhaseConfirmed
		next.User = &u
	}
	return next
}
