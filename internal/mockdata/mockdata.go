// ABOUTME: Static data set served in mock mode
// ABOUTME: Embeds the default projects and demo accounts; a JSON file of the same shape can replace them

package mockdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/freelancehub/freelancehub-cli/internal/auth"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
)

//go:embed projects.json
var builtin []byte

// Set is a loaded data set
type Set struct {
	Projects []projects.Project
	Accounts []auth.Account
}

type file struct {
	Projects []projectEntry `json:"projects"`
	Users    []userEntry    `json:"users"`
}

// projectEntry dates a project either absolutely or relative to load time
type projectEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	TechStack   []string `json:"techStack"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	AgeDays     int      `json:"ageDays,omitempty"`
}

type userEntry struct {
	auth.User
	Password string `json:"password"`
}

// Default returns the embedded data set dated relative to now
func Default(now time.Time) (*Set, error) {
	return Parse(builtin, now)
}

// Load reads a data set from path, or the embedded one when path is empty
func Load(path string, now time.Time) (*Set, error) {
	if path == "" {
		return Default(now)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock data: %w", err)
	}
	return Parse(data, now)
}

// Parse decodes a data set
func Parse(data []byte, now time.Time) (*Set, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mock data: %w", err)
	}

	set := &Set{
		Projects: make([]projects.Project, 0, len(f.Projects)),
		Accounts: make([]auth.Account, 0, len(f.Users)),
	}
	seen := make(map[string]bool, len(f.Projects))
	for i, e := range f.Projects {
		p, err := e.project(now)
		if err != nil {
			return nil, fmt.Errorf("mock project %d: %w", i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("mock project %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		set.Projects = append(set.Projects, p)
	}
	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("mock user %d: email and password are required", i)
		}
		set.Accounts = append(set.Accounts, auth.Account{User: u.User, Password: u.Password})
	}
	return set, nil
}

func (e projectEntry) project(now time.Time) (projects.Project, error) {
	if strings.TrimSpace(e.ID) == "" {
		return projects.Project{}, fmt.Errorf("id is required")
	}
	status, err := projects.ParseStatus(e.Status)
	if err != nil {
		return projects.Project{}, err
	}

	created := now.UTC().Add(-time.Duration(e.AgeDays) * 24 * time.Hour)
	if e.CreatedAt != "" {
		if created, err = projects.ParseTimestamp(e.CreatedAt); err != nil {
			return projects.Project{}, err
		}
	}

	tech := e.TechStack
	if tech == nil {
		tech = []string{}
	}
	return projects.Project{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Budget:      e.Budget,
		TechStack:   tech,
		Status:      status,
		CreatedAt:   created,
	}, nil
}
