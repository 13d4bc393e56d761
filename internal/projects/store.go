// ABOUTME: Project collection store: one process-wide instance behind a single dispatch point
// ABOUTME: Async operations dispatch pending before the call and fulfilled/rejected after it

package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/freelancehub/freelancehub-cli/internal/client"
	"github.com/freelancehub/freelancehub-cli/internal/notify"
)

// Store holds the project collection. Concurrent operations are allowed;
// reducer steps are serialised, so whichever response lands last wins.
type Store struct {
	backend  Backend
	notifier notify.Notifier

	mu    sync.Mutex
	state State
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithNotifier routes create and status-change notifications to n
func WithNotifier(n notify.Notifier) StoreOption {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithPageLimit sets the initial page size
func WithPageLimit(limit int) StoreOption {
	return func(s *Store) {
		if limit > 0 {
			s.state.Pagination.Limit = limit
		}
	}
}

// NewStore creates an idle store fetching from backend
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		notifier: notify.Discard,
		state:    InitialState(DefaultPageLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies a through Reduce and returns the resulting snapshot
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	slog.Debug("Project store transition", "action", fmt.Sprintf("%T", a), "status", s.state.Status)
	return s.state.clone()
}

// State returns a snapshot of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// FetchAll replaces the collection with the page selected by the current
// filters and cursor. On failure the previous collection is kept.
func (s *Store) FetchAll(ctx context.Context) error {
	st := s.Dispatch(FetchAllPending{})
	params := ListParams{
		Skip:    st.Pagination.Skip,
		Limit:   st.Pagination.Limit,
		Filters: st.Filters,
	}

	page, err := s.backend.List(ctx, params)
	if err != nil {
		const msg = "Failed to fetch projects"
		slog.Warn(msg, "error", err)
		s.Dispatch(FetchAllRejected{Error: msg})
		return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
	}

	// A bare-array page carries no total: count what has been seen so far
	// and assume more exist while pages come back full.
	total := params.Skip + len(page.Projects)
	hasMore := params.Limit > 0 && len(page.Projects) >= params.Limit
	if page.HasTotal {
		total = page.Total
		hasMore = params.Skip+len(page.Projects) < total
	}
	s.Dispatch(FetchAllFulfilled{
		Projects: page.Projects,
		Skip:     params.Skip,
		Limit:    params.Limit,
		Total:    total,
		HasMore:  hasMore,
	})
	return nil
}

// FetchByID selects the project with id. An id that resolves to nothing is
// not an error state: NotFoundID is set and ErrNotFound returned.
func (s *Store) FetchByID(ctx context.Context, id string) (*Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}

	s.Dispatch(FetchByIDPending{ID: id})
	p, err := s.backend.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.Dispatch(FetchByIDFulfilled{ID: id})
		return nil, err
	}
	if err != nil {
		msg := "Failed to fetch project with ID: " + id
		slog.Warn(msg, "error", err)
		s.Dispatch(FetchByIDRejected{ID: id, Error: msg})
		return nil, fmt.Errorf("failed to fetch project %s: %w", id, err)
	}

	st := s.Dispatch(FetchByIDFulfilled{ID: id, Project: p})
	if st.Selected == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	selected := st.Selected.clone()
	return &selected, nil
}

// Create posts a new project and prepends it to the collection.
// Invalid input is rejected before anything is dispatched.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.Dispatch(CreatePending{})
	p, err := s.backend.Create(ctx, in)
	if err != nil {
		const msg = "Failed to create project"
		slog.Warn(msg, "error", err)
		s.Dispatch(CreateRejected{Error: msg})
		s.notifier.Notify(notify.Notification{Kind: notify.Failure, Title: msg, Description: describe(err)})
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	st := s.Dispatch(CreateFulfilled{Project: *p})
	s.notifier.Notify(notify.Notification{
		Kind:        notify.Success,
		Title:       "Project created",
		Description: "Your project has been posted successfully",
	})
	created, _ := st.Find(p.ID)
	return &created, nil
}

// UpdateStatus marks id COMPLETED. A project the store already knows to be
// completed is rejected with ErrAlreadyCompleted before any call is made.
func (s *Store) UpdateStatus(ctx context.Context, id string) (*Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if s.State().IsCompleted(id) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCompleted, id)
	}

	s.Dispatch(UpdateStatusPending{ID: id})
	p, err := s.backend.Complete(ctx, id)
	if err != nil {
		const msg = "Failed to update project status"
		slog.Warn(msg, "id", id, "error", err)
		s.Dispatch(UpdateStatusRejected{ID: id, Error: msg})
		s.notifier.Notify(notify.Notification{Kind: notify.Failure, Title: msg, Description: describe(err)})
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}

	st := s.Dispatch(UpdateStatusFulfilled{ID: id})
	s.notifier.Notify(notify.Notification{
		Kind:        notify.Success,
		Title:       "Project completed",
		Description: p.Title + " is now marked as completed",
	})

	done := p.clone()
	done.Status = StatusCompleted
	if found, ok := st.Find(id); ok {
		done = found
	} else if st.Selected != nil && st.Selected.ID == id {
		done = st.Selected.clone()
	}
	return &done, nil
}

// ClearSelected drops the selected project; a no-op when none is selected
func (s *Store) ClearSelected() {
	s.Dispatch(ClearSelected{})
}

// SetFilters replaces the filter criteria and rewinds the cursor
func (s *Store) SetFilters(f Filters) {
	s.Dispatch(SetFilters{Filters: f})
}

// SetPage moves the cursor
func (s *Store) SetPage(skip, limit int) {
	s.Dispatch(SetPage{Skip: skip, Limit: limit})
}

// NextPage advances the cursor by one page. It reports false when the last
// fetch reached the end of the collection.
func (s *Store) NextPage() bool {
	p := s.State().Pagination
	if !p.HasMore {
		return false
	}
	s.Dispatch(SetPage{Skip: p.Skip + p.Limit})
	return true
}

// PrevPage moves the cursor back one page. It reports false on the first page.
func (s *Store) PrevPage() bool {
	p := s.State().Pagination
	if p.Skip == 0 {
		return false
	}
	skip := p.Skip - p.Limit
	if skip < 0 {
		skip = 0
	}
	s.Dispatch(SetPage{Skip: skip})
	return true
}

// describe extracts a user-facing message from an operation error
func describe(err error) string {
	return client.MessageOf(err, err.Error())
}
