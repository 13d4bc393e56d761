// ABOUTME: Tests for the derived filter/query view
// ABOUTME: Checks each predicate, their conjunction, and the latest-open and summary views

package projects_test

import (
	"testing"
	"time"

	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/stretchr/testify/require"
)

func fixture() []projects.Project {
	return []projects.Project{
		{ID: "1", Title: "E-commerce Website", Description: "Full-stack shop with React", Budget: 50000, TechStack: []string{"React", "Node.js"}, Status: projects.StatusOpen},
		{ID: "2", Title: "Mobile App UI Design", Description: "Wireframes and prototypes", Budget: 30000, TechStack: []string{"Figma"}, Status: projects.StatusOpen},
		{ID: "3", Title: "WordPress Migration", Description: "Zero downtime move", Budget: 5000, TechStack: []string{"WordPress", "PHP"}, Status: projects.StatusCompleted},
		{ID: "4", Title: "Frontend Bug Fixes", Description: "Fix issues in our react app", Budget: 8000, TechStack: []string{"React", "CSS"}, Status: projects.StatusCompleted},
	}
}

func ids(ps []projects.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestFilter_Predicates(t *testing.T) {
	tests := []struct {
		name  string
		query projects.Query
		want  []string
	}{
		{"no criteria keeps everything in order", projects.Query{}, []string{"1", "2", "3", "4"}},
		{"search is case-insensitive on title", projects.Query{Search: "WORDPRESS"}, []string{"3"}},
		{"search matches description", projects.Query{Search: "react"}, []string{"1", "4"}},
		{"tech is exact", projects.Query{Filters: projects.Filters{Tech: "React"}}, []string{"1", "4"}},
		{"tech does not substring match", projects.Query{Filters: projects.Filters{Tech: "Reac"}}, []string{}},
		{"status ALL", projects.Query{Filters: projects.Filters{Status: projects.FilterAll}}, []string{"1", "2", "3", "4"}},
		{"status OPEN", projects.Query{Filters: projects.Filters{Status: projects.FilterOpen}}, []string{"1", "2"}},
		{"budget bounds inclusive", projects.Query{Filters: projects.Filters{MinBudget: ptr(5000), MaxBudget: ptr(30000)}}, []string{"2", "3", "4"}},
		{"min only", projects.Query{Filters: projects.Filters{MinBudget: ptr(30000)}}, []string{"1", "2"}},
		{"combined", projects.Query{Search: "react", Filters: projects.Filters{Tech: "React", Status: projects.FilterCompleted, MaxBudget: ptr(8000)}}, []string{"4"}},
		{"empty result is valid", projects.Query{Search: "blockchain"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(projects.Filter(fixture(), tt.query)))
		})
	}
}

func TestFilter_ConjunctionOverAllCombinations(t *testing.T) {
	searches := []string{"", "react", "fix"}
	techs := []string{"", "React", "Figma"}
	statuses := []projects.StatusFilter{projects.FilterAll, projects.FilterOpen, projects.FilterCompleted}
	mins := []*float64{nil, ptr(8000)}
	maxs := []*float64{nil, ptr(30000)}

	all := fixture()
	for _, s := range searches {
		for _, tech := range techs {
			for _, st := range statuses {
				for _, lo := range mins {
					for _, hi := range maxs {
						f := projects.Filters{Tech: tech, Status: st, MinBudget: lo, MaxBudget: hi}
						got := projects.Filter(all, projects.Query{Search: s, Filters: f})

						// Intersect each predicate applied on its own
						want := all
						for _, single := range []projects.Query{
							{Search: s},
							{Filters: projects.Filters{Tech: tech}},
							{Filters: projects.Filters{Status: st}},
							{Filters: projects.Filters{MinBudget: lo}},
							{Filters: projects.Filters{MaxBudget: hi}},
						} {
							want = projects.Filter(want, single)
						}
						require.Equal(t, ids(want), ids(got), "search=%q tech=%q status=%s", s, tech, st)
					}
				}
			}
		}
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	all := fixture()
	out := projects.Filter(all, projects.Query{})
	out[0].TechStack[0] = "Vue"
	require.Equal(t, "React", all[0].TechStack[0])
}

func TestLatestOpen(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	all := []projects.Project{
		{ID: "old", Status: projects.StatusOpen, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "done", Status: projects.StatusCompleted, CreatedAt: now},
		{ID: "newest", Status: projects.StatusOpen, CreatedAt: now},
		{ID: "mid", Status: projects.StatusOpen, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "older", Status: projects.StatusOpen, CreatedAt: now.Add(-48 * time.Hour)},
	}

	require.Equal(t, []string{"newest", "mid", "older"}, ids(projects.LatestOpen(all, 3)))
	require.Equal(t, []string{"old", "done", "newest", "mid", "older"}, ids(all), "input order is untouched")
	require.Len(t, projects.LatestOpen(all, 10), 4)
}

func TestTechStacks(t *testing.T) {
	require.Equal(t, []string{"CSS", "Figma", "Node.js", "PHP", "React", "WordPress"}, projects.TechStacks(fixture()))
	require.Empty(t, projects.TechStacks(nil))
}

func TestSummarize(t *testing.T) {
	s := projects.Summarize(fixture())
	require.Equal(t, 4, s.Count)
	require.Equal(t, 2, s.Open)
	require.Equal(t, 2, s.Completed)
	require.InDelta(t, 93000, s.TotalBudget, 0.001)
	require.InDelta(t, 23250, s.MeanBudget, 0.001)
	require.InDelta(t, 19000, s.MedianBudget, 0.001)
	require.InDelta(t, 5000, s.MinBudget, 0.001)
	require.InDelta(t, 50000, s.MaxBudget, 0.001)

	require.Equal(t, projects.Summary{}, projects.Summarize(nil))
}
