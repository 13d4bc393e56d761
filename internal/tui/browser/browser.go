// ABOUTME: Project browser screen with search, technology and status filters
// ABOUTME: Shows the derived view of the store's projects and lets the user open one

package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/tui/icons"
	"github.com/freelancehub/freelancehub-cli/internal/tui/styles"
	"github.com/freelancehub/freelancehub-cli/internal/tui/widgets"
)

// OpenMsg asks the app to show one project
type OpenMsg struct {
	ID string
}

// PageMsg asks the app to move the server-side cursor by Delta pages
type PageMsg struct {
	Delta int
}

// RefreshMsg asks the app to fetch the current page again
type RefreshMsg struct{}

type keyMap struct {
	Up, Down, Open, Search, Tech, Status, Clear, Next, Prev, Refresh key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Open:    key.NewBinding(key.WithKeys("enter")),
	Search:  key.NewBinding(key.WithKeys("/")),
	Tech:    key.NewBinding(key.WithKeys("t")),
	Status:  key.NewBinding(key.WithKeys("s")),
	Clear:   key.NewBinding(key.WithKeys("x")),
	Next:    key.NewBinding(key.WithKeys("]")),
	Prev:    key.NewBinding(key.WithKeys("[")),
	Refresh: key.NewBinding(key.WithKeys("r")),
}

var statusCycle = []projects.StatusFilter{projects.FilterAll, projects.FilterOpen, projects.FilterCompleted}

// Browser is the project list screen
type Browser struct {
	search    textinput.Model
	all       []projects.Project
	techs     []string
	techIdx   int // -1 for any technology
	statusIdx int
	items     []projects.Project
	cursor    int
	page      projects.Pagination
	width     int
	height    int
}

// New creates an empty browser
func New() *Browser {
	ti := textinput.New()
	ti.Placeholder = "Search projects..."
	ti.Prompt = icons.Search.String() + " "
	ti.CharLimit = 100
	return &Browser{search: ti, techIdx: -1}
}

// SetProjects replaces the underlying collection and recomputes the view
func (b *Browser) SetProjects(all []projects.Project, page projects.Pagination) {
	b.all = all
	b.page = page
	b.techs = projects.TechStacks(all)
	if b.techIdx >= len(b.techs) {
		b.techIdx = -1
	}
	b.refilter()
}

// SetSize sets the available screen area
func (b *Browser) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Searching reports whether the search box has focus
func (b *Browser) Searching() bool {
	return b.search.Focused()
}

// Query returns the current derived view criteria
func (b *Browser) Query() projects.Query {
	q := projects.Query{
		Search:  b.search.Value(),
		Filters: projects.Filters{Status: statusCycle[b.statusIdx]},
	}
	if b.techIdx >= 0 {
		q.Filters.Tech = b.techs[b.techIdx]
	}
	return q
}

// Items returns the projects currently shown
func (b *Browser) Items() []projects.Project {
	return b.items
}

func (b *Browser) refilter() {
	b.items = projects.Filter(b.all, b.Query())
	if b.cursor >= len(b.items) {
		b.cursor = max(len(b.items)-1, 0)
	}
}

// Update handles keys for the browser
func (b *Browser) Update(msg tea.Msg) (*Browser, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	if b.search.Focused() {
		switch km.Type {
		case tea.KeyEsc, tea.KeyEnter:
			b.search.Blur()
			return b, nil
		}
		var cmd tea.Cmd
		b.search, cmd = b.search.Update(km)
		b.refilter()
		return b, cmd
	}

	switch {
	case key.Matches(km, keys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(km, keys.Down):
		if b.cursor < len(b.items)-1 {
			b.cursor++
		}
	case key.Matches(km, keys.Open):
		if len(b.items) > 0 {
			id := b.items[b.cursor].ID
			return b, func() tea.Msg { return OpenMsg{ID: id} }
		}
	case key.Matches(km, keys.Search):
		return b, b.search.Focus()
	case key.Matches(km, keys.Tech):
		b.techIdx++
		if b.techIdx >= len(b.techs) {
			b.techIdx = -1
		}
		b.refilter()
	case key.Matches(km, keys.Status):
		b.statusIdx = (b.statusIdx + 1) % len(statusCycle)
		b.refilter()
	case key.Matches(km, keys.Clear):
		b.search.SetValue("")
		b.techIdx = -1
		b.statusIdx = 0
		b.refilter()
	case key.Matches(km, keys.Next):
		if b.page.HasMore {
			return b, func() tea.Msg { return PageMsg{Delta: 1} }
		}
	case key.Matches(km, keys.Prev):
		if b.page.Skip > 0 {
			return b, func() tea.Msg { return PageMsg{Delta: -1} }
		}
	case key.Matches(km, keys.Refresh):
		return b, func() tea.Msg { return RefreshMsg{} }
	}
	return b, nil
}

// View renders the browser
func (b *Browser) View() string {
	var sb strings.Builder

	sb.WriteString(b.search.View())
	sb.WriteString("\n")
	sb.WriteString(b.filterLine())
	sb.WriteString("\n\n")

	if len(b.items) == 0 {
		sb.WriteString(styles.Subtitle.Render("No projects match your filters"))
		sb.WriteString("\n")
	}

	start, end := b.window()
	for i := start; i < end; i++ {
		sb.WriteString(b.row(b.items[i], i == b.cursor))
		sb.WriteString("\n")
	}

	summary := projects.Summarize(b.items)
	fmt.Fprintf(&sb, "\n%d shown • %d open • %d completed • page %d",
		summary.Count, summary.Open, summary.Completed, b.pageNumber())
	if b.page.HasMore {
		sb.WriteString(" • more available")
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("/ search • t tech • s status • x clear • enter open • [ ] page • r refresh"))
	return sb.String()
}

func (b *Browser) pageNumber() int {
	if b.page.Limit <= 0 {
		return 1
	}
	return b.page.Skip/b.page.Limit + 1
}

func (b *Browser) filterLine() string {
	q := b.Query()
	tech := "any"
	if q.Filters.Tech != "" {
		tech = q.Filters.Tech
	}
	return fmt.Sprintf("%s %s   Status: %s",
		styles.KeyStyle.Render("Tech:"), styles.TechChip.Render(tech),
		styles.ValueStyle.Render(strings.ToLower(string(q.Filters.Status))))
}

// window returns the visible slice of rows around the cursor
func (b *Browser) window() (int, int) {
	visible := len(b.items)
	if b.height > 8 {
		visible = min(visible, (b.height-8)/2)
	}
	if visible <= 0 {
		visible = len(b.items)
	}
	start := 0
	if b.cursor >= visible {
		start = b.cursor - visible + 1
	}
	return start, min(start+visible, len(b.items))
}

func (b *Browser) row(p projects.Project, selected bool) string {
	marker := "  "
	title := p.Title
	if selected {
		marker = styles.Selected.Render("> ")
		title = styles.Selected.Render(title)
	}
	line1 := fmt.Sprintf("%s%s %s %s", marker, widgets.ProjectBadge(p.Status), title,
		styles.BudgetStyle.Render(projects.FormatBudget(p.Budget)))
	line2 := "    " + styles.TechChip.Render(strings.Join(p.TechStack, " · "))
	return lipgloss.JoinVertical(lipgloss.Left, line1, line2)
}
