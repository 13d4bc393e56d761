// ABOUTME: Transient user-facing notifications for state-changing operations
// ABOUTME: Writer prints them for the CLI, Queue buffers them for the TUI

package notify

import (
	"fmt"
	"io"
	"sync"
)

// Kind classifies a notification for presentation
type Kind int

const (
	Success Kind = iota
	Failure
	Info
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "info"
	}
}

// Notification is one transient message
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

// Notifier receives notifications
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification
var Discard Notifier = Func(func(Notification) {})

// Writer prints one line per notification
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer printing to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Notify(n Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()

	marker := "✓"
	switch n.Kind {
	case Failure:
		marker = "✗"
	case Info:
		marker = "•"
	}
	if n.Description == "" {
		fmt.Fprintf(w.w, "%s %s\n", marker, n.Title)
		return
	}
	fmt.Fprintf(w.w, "%s %s: %s\n", marker, n.Title, n.Description)
}

// Queue buffers notifications until drained
type Queue struct {
	mu      sync.Mutex
	pending []Notification
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

// Drain returns and clears everything queued so far
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
