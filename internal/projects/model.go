// ABOUTME: Project domain model held by the collection store
// ABOUTME: Field names are camelCase; the wire mapping lives in mapping.go

package projects

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status is the lifecycle state of a project. OPEN moves to COMPLETED and never back.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus converts a wire or flag value into a Status
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown project status %q", s)
	}
}

// Project is a unit of work posted by a client
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	TechStack   []string  `json:"techStack"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsOpen reports whether the project still accepts work
func (p Project) IsOpen() bool {
	return p.Status == StatusOpen
}

// HasTech reports whether tech is one of the project's tags (exact match)
func (p Project) HasTech(tech string) bool {
	for _, t := range p.TechStack {
		if t == tech {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no slices with p
func (p Project) clone() Project {
	if p.TechStack != nil {
		p.TechStack = append([]string(nil), p.TechStack...)
	}
	return p
}

// CreateInput is what a caller supplies to create a project; the server
// assigns id, status and creation time.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	TechStack   []string `json:"techStack"`
}

// Validate checks the store-level constraints. Form-level rules such as
// minimum lengths are in validate.go.
func (in CreateInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case !(in.Budget > 0) || math.IsInf(in.Budget, 1):
		return fmt.Errorf("%w: budget must be greater than 0", ErrInvalidInput)
	case len(in.TechStack) == 0:
		return fmt.Errorf("%w: at least one technology is required", ErrInvalidInput)
	}
	for _, t := range in.TechStack {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: technology tags must not be empty", ErrInvalidInput)
		}
	}
	return nil
}
