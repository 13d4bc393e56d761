// ABOUTME: Project collection state, its actions, and the pure reducer
// ABOUTME: Every state change goes through Reduce via Store.Dispatch

package projects

import (
	"fmt"
	"strings"
)

// FetchStatus is the lifecycle tag of the most recent collection-level operation
type FetchStatus string

const (
	FetchIdle      FetchStatus = "idle"
	FetchLoading   FetchStatus = "loading"
	FetchSucceeded FetchStatus = "succeeded"
	FetchFailed    FetchStatus = "failed"
)

// StatusFilter selects projects by status; ALL disables the predicate
type StatusFilter string

const (
	FilterAll       StatusFilter = "ALL"
	FilterOpen      StatusFilter = "OPEN"
	FilterCompleted StatusFilter = "COMPLETED"
)

// ParseStatusFilter accepts ALL, OPEN or COMPLETED in any case; empty means ALL
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", fmt.Errorf("%w: status filter must be ALL, OPEN or COMPLETED", ErrInvalidInput)
	}
	return StatusFilter(st), nil
}

// Filters are the criteria applied server-side in API mode and by the derived view
type Filters struct {
	Tech      string       `json:"tech,omitempty"`
	Status    StatusFilter `json:"status"`
	MinBudget *float64     `json:"minBudget,omitempty"`
	MaxBudget *float64     `json:"maxBudget,omitempty"`
}

// Pagination is the server-side paging cursor
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	// HasMore is set when the last fetch suggests another page exists
	HasMore bool `json:"hasMore"`
}

// DefaultPageLimit matches the API's default page size
const DefaultPageLimit = 10

// State is the project collection. Values returned by Store are snapshots.
type State struct {
	Projects []Project `json:"projects"`
	Selected *Project  `json:"selectedProject,omitempty"`
	// NotFoundID is set when the last fetch-by-id resolved without a project
	NotFoundID string      `json:"notFoundId,omitempty"`
	Status     FetchStatus `json:"status"`
	// Error is only set while Status is failed
	Error      string     `json:"error,omitempty"`
	Filters    Filters    `json:"filters"`
	Pagination Pagination `json:"pagination"`

	// completed remembers every id seen COMPLETED so a later payload cannot reopen it
	completed map[string]struct{}
}

// InitialState returns the idle state created at application start
func InitialState(pageLimit int) State {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	return State{
		Status:     FetchIdle,
		Filters:    Filters{Status: FilterAll},
		Pagination: Pagination{Limit: pageLimit},
	}
}

// Find returns the project with id from the collection
func (s State) Find(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// IsCompleted reports whether the store has seen id completed, in the
// collection, the selected project, or any earlier payload.
func (s State) IsCompleted(id string) bool {
	if _, ok := s.completed[id]; ok {
		return true
	}
	if p, ok := s.Find(id); ok && p.Status == StatusCompleted {
		return true
	}
	return s.Selected != nil && s.Selected.ID == id && s.Selected.Status == StatusCompleted
}

// Action is a state transition request handled by Reduce
type Action interface {
	action()
}

type (
	FetchAllPending   struct{}
	FetchAllFulfilled struct {
		Projects []Project
		Skip     int
		Limit    int
		Total    int
		HasMore  bool
	}
	FetchAllRejected struct{ Error string }

	FetchByIDPending   struct{ ID string }
	FetchByIDFulfilled struct {
		ID string
		// Project is nil when the id resolved to nothing
		Project *Project
	}
	FetchByIDRejected struct {
		ID    string
		Error string
	}

	CreatePending   struct{}
	CreateFulfilled struct{ Project Project }
	CreateRejected  struct{ Error string }

	UpdateStatusPending   struct{ ID string }
	UpdateStatusFulfilled struct{ ID string }
	UpdateStatusRejected  struct {
		ID    string
		Error string
	}

	ClearSelected struct{}
	SetFilters    struct{ Filters Filters }
	SetPage       struct{ Skip, Limit int }
)

func (FetchAllPending) action()       {}
func (FetchAllFulfilled) action()     {}
func (FetchAllRejected) action()      {}
func (FetchByIDPending) action()      {}
func (FetchByIDFulfilled) action()    {}
func (FetchByIDRejected) action()     {}
func (CreatePending) action()         {}
func (CreateFulfilled) action()       {}
func (CreateRejected) action()        {}
func (UpdateStatusPending) action()   {}
func (UpdateStatusFulfilled) action() {}
func (UpdateStatusRejected) action()  {}
func (ClearSelected) action()         {}
func (SetFilters) action()            {}
func (SetPage) action()               {}

// Reduce returns the state that results from applying a to s.
// It never mutates s or anything reachable from it.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch a := a.(type) {
	case FetchAllPending:
		next.Status = FetchLoading
		next.Error = ""

	case FetchAllFulfilled:
		next.Status = FetchSucceeded
		next.Error = ""
		next.Projects = next.settle(a.Projects)
		next.Pagination.Skip = a.Skip
		if a.Limit > 0 {
			next.Pagination.Limit = a.Limit
		}
		next.Pagination.Total = a.Total
		next.Pagination.HasMore = a.HasMore

	case FetchAllRejected:
		// Stale data stays available
		next.Status = FetchFailed
		next.Error = a.Error

	case FetchByIDPending:
		next.Status = FetchLoading
		next.Error = ""
		next.NotFoundID = ""

	case FetchByIDFulfilled:
		next.Status = FetchSucceeded
		next.Error = ""
		if a.Project == nil {
			next.Selected = nil
			next.NotFoundID = a.ID
			break
		}
		settled := next.settle([]Project{*a.Project})[0]
		next.Selected = &settled
		next.NotFoundID = ""
		if settled.Status == StatusCompleted {
			next.markCompleted(settled.ID)
		}

	case FetchByIDRejected:
		next.Status = FetchFailed
		next.Error = a.Error

	case CreatePending:
		next.Status = FetchLoading
		next.Error = ""

	case CreateFulfilled:
		next.Status = FetchSucceeded
		next.Error = ""
		created := next.settle([]Project{a.Project})[0]
		rest := make([]Project, 0, len(next.Projects)+1)
		rest = append(rest, created)
		for _, p := range next.Projects {
			if p.ID != created.ID {
				rest = append(rest, p)
			}
		}
		next.Projects = rest

	case CreateRejected:
		next.Status = FetchFailed
		next.Error = a.Error

	case UpdateStatusPending:
		next.Status = FetchLoading
		next.Error = ""

	case UpdateStatusFulfilled:
		next.Status = FetchSucceeded
		next.Error = ""
		next.markCompleted(a.ID)

	case UpdateStatusRejected:
		next.Status = FetchFailed
		next.Error = a.Error

	case ClearSelected:
		next.Selected = nil
		next.NotFoundID = ""

	case SetFilters:
		f := Filters{Tech: a.Filters.Tech, Status: a.Filters.Status}
		if a.Filters.MinBudget != nil {
			v := *a.Filters.MinBudget
			f.MinBudget = &v
		}
		if a.Filters.MaxBudget != nil {
			v := *a.Filters.MaxBudget
			f.MaxBudget = &v
		}
		if f.Status == "" {
			f.Status = FilterAll
		}
		next.Filters = f
		next.Pagination.Skip = 0

	case SetPage:
		if a.Skip >= 0 {
			next.Pagination.Skip = a.Skip
		}
		if a.Limit > 0 {
			next.Pagination.Limit = a.Limit
		}
	}

	return next
}

// settle copies incoming projects, drops duplicate ids (first wins) and
// keeps every id already seen completed as COMPLETED.
func (s *State) settle(in []Project) []Project {
	out := make([]Project, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		p = p.clone()
		if s.IsCompleted(p.ID) {
			p.Status = StatusCompleted
		}
		if p.Status == StatusCompleted {
			s.rememberCompleted(p.ID)
		}
		out = append(out, p)
	}
	return out
}

// markCompleted sets id COMPLETED on both the collection entry and the
// selected project so the two copies cannot diverge.
func (s *State) markCompleted(id string) {
	s.rememberCompleted(id)
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			s.Projects[i].Status = StatusCompleted
		}
	}
	if s.Selected != nil && s.Selected.ID == id {
		s.Selected.Status = StatusCompleted
	}
}

func (s *State) rememberCompleted(id string) {
	if s.completed == nil {
		s.completed = make(map[string]struct{})
	}
	s.completed[id] = struct{}{}
}

// clone deep-copies the state so a reducer step can modify it freely
func (s State) clone() State {
	next := s
	if s.Projects != nil {
		next.Projects = make([]Project, len(s.Projects))
		for i, p := range s.Projects {
			next.Projects[i] = p.clone()
		}
	}
	if s.Selected != nil {
		sel := s.Selected.clone()
		next.Selected = &sel
	}
	if s.Filters.MinBudget != nil {
		v := *s.Filters.MinBudget
		next.Filters.MinBudget = &v
	}
	if s.Filters.MaxBudget != nil {
		v := *s.Filters.MaxBudget
		next.Filters.MaxBudget = &v
	}
	if s.completed != nil {
		next.completed = make(map[string]struct{}, len(s.completed))
		for id := range s.completed {
			next.completed[id] = struct{}{}
		}
	}
	return next
}
