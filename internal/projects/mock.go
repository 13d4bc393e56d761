// ABOUTME: In-memory backend used in mock mode
// ABOUTME: Ignores server-side filters and paging; ids are generated client-side

package projects

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockBackend serves a static project set from memory
type MockBackend struct {
	mu       sync.Mutex
	projects []Project
	latency  time.Duration
	now      func() time.Time
}

// MockOption configures a MockBackend
type MockOption func(*MockBackend)

// WithLatency delays every call by d to imitate a network round trip
func WithLatency(d time.Duration) MockOption {
	return func(m *MockBackend) {
		m.latency = d
	}
}

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) MockOption {
	return func(m *MockBackend) {
		m.now = now
	}
}

// NewMockBackend creates a mock backend seeded with a copy of seed
func NewMockBackend(seed []Project, opts ...MockOption) *MockBackend {
	m := &MockBackend{now: time.Now}
	for _, p := range seed {
		m.projects = append(m.projects, p.clone())
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// wait simulates latency and honours cancellation
func (m *MockBackend) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// List returns the whole set; params are ignored in mock mode
func (m *MockBackend) List(ctx context.Context, _ ListParams) (*Page, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Project, len(m.projects))
	for i, p := range m.projects {
		out[i] = p.clone()
	}
	return &Page{Projects: out, Total: len(out), HasTotal: true}, nil
}

// Get resolves id against the set
func (m *MockBackend) Get(ctx context.Context, id string) (*Project, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.projects {
		if p.ID == id {
			found := p.clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create adds an OPEN project with a generated id at the front of the set
func (m *MockBackend) Create(ctx context.Context, in CreateInput) (*Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p := Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		TechStack:   append([]string(nil), in.TechStack...),
		Status:      StatusOpen,
		CreatedAt:   m.now().UTC(),
	}
	m.projects = append([]Project{p}, m.projects...)
	created := p.clone()
	return &created, nil
}

// Complete marks id COMPLETED
func (m *MockBackend) Complete(ctx context.Context, id string) (*Project, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects[i].Status = StatusCompleted
			done := m.projects[i].clone()
			return &done, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
