// ABOUTME: Mapping between the API's snake_case wire records and the domain model
// ABOUTME: The field table is fixed; timestamps may arrive without a zone

package projects

import (
	"fmt"
	"strings"
	"time"

	"github.com/freelancehub/freelancehub-cli/internal/client"
)

// WireFields maps each wire key of a project record to its domain key
var WireFields = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"budget":      "budget",
	"tech_stack":  "techStack",
	"status":      "status",
	"created_at":  "createdAt",
}

// timestampLayouts are tried in order. The API emits naive ISO timestamps,
// which are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an API timestamp; the empty string yields the zero time
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FromWire converts an API project record into the domain model
func FromWire(w client.Project) (Project, error) {
	status, err := ParseStatus(w.Status)
	if err != nil {
		return Project{}, fmt.Errorf("project %s: %w", w.ID, err)
	}
	created, err := ParseTimestamp(w.CreatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("project %s: %w", w.ID, err)
	}
	tech := w.TechStack
	if tech == nil {
		tech = []string{}
	}
	return Project{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Budget:      w.Budget,
		TechStack:   append([]string(nil), tech...),
		Status:      status,
		CreatedAt:   created,
	}, nil
}

// FromWireList converts a page of API records, failing on the first bad record
func FromWireList(ws []client.Project) ([]Project, error) {
	out := make([]Project, 0, len(ws))
	for _, w := range ws {
		p, err := FromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ToWire converts a domain project back into its wire record
func ToWire(p Project) client.Project {
	created := ""
	if !p.CreatedAt.IsZero() {
		created = p.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return client.Project{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		TechStack:   append([]string(nil), p.TechStack...),
		Status:      string(p.Status),
		CreatedAt:   created,
	}
}

// CreateRequest converts creation input into the POST /projects body
func CreateRequest(in CreateInput) client.CreateProjectRequest {
	return client.CreateProjectRequest{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Budget:      in.Budget,
		TechStack:   append([]string(nil), in.TechStack...),
	}
}
