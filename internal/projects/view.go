// ABOUTME: Derived filter/query view over the project collection
// ABOUTME: Pure functions; the collection order is preserved unless a view says otherwise

package projects

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Query combines transient search text with the filter criteria
type Query struct {
	Search  string
	Filters Filters
}

// Matches reports whether p satisfies every active predicate
func (q Query) Matches(p Project) bool {
	return q.matchesText(p) &&
		q.matchesTech(p) &&
		q.matchesStatus(p) &&
		q.matchesBudget(p)
}

func (q Query) matchesText(p Project) bool {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func (q Query) matchesTech(p Project) bool {
	return q.Filters.Tech == "" || p.HasTech(q.Filters.Tech)
}

func (q Query) matchesStatus(p Project) bool {
	f := q.Filters.Status
	return f == "" || f == FilterAll || Status(f) == p.Status
}

func (q Query) matchesBudget(p Project) bool {
	if q.Filters.MinBudget != nil && p.Budget < *q.Filters.MinBudget {
		return false
	}
	if q.Filters.MaxBudget != nil && p.Budget > *q.Filters.MaxBudget {
		return false
	}
	return true
}

// Filter returns the projects matching q in collection order. The result
// never aliases the input.
func Filter(projects []Project, q Query) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if q.Matches(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

// LatestOpen returns up to n OPEN projects, newest first
func LatestOpen(projects []Project, n int) []Project {
	open := Filter(projects, Query{Filters: Filters{Status: FilterOpen}})
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].CreatedAt.After(open[j].CreatedAt)
	})
	if n >= 0 && len(open) > n {
		open = open[:n]
	}
	return open
}

// TechStacks returns every distinct tag in the collection, sorted
func TechStacks(projects []Project) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range projects {
		for _, t := range p.TechStack {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Summary aggregates a set of projects
type Summary struct {
	Count        int     `json:"count"`
	Open         int     `json:"open"`
	Completed    int     `json:"completed"`
	TotalBudget  float64 `json:"totalBudget"`
	MeanBudget   float64 `json:"meanBudget"`
	MedianBudget float64 `json:"medianBudget"`
	MinBudget    float64 `json:"minBudget"`
	MaxBudget    float64 `json:"maxBudget"`
}

// Summarize counts projects by status and computes budget statistics.
// An empty set yields the zero Summary.
func Summarize(projects []Project) Summary {
	s := Summary{Count: len(projects)}
	if len(projects) == 0 {
		return s
	}

	budgets := make(stats.Float64Data, 0, len(projects))
	for _, p := range projects {
		if p.Status == StatusCompleted {
			s.Completed++
		} else {
			s.Open++
		}
		budgets = append(budgets, p.Budget)
	}

	// stats only errors on empty input, which is handled above
	s.TotalBudget, _ = budgets.Sum()
	s.MeanBudget, _ = budgets.Mean()
	s.MedianBudget, _ = budgets.Median()
	s.MinBudget, _ = budgets.Min()
	s.MaxBudget, _ = budgets.Max()
	return s
}
