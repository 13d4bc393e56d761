// ABOUTME: Rendering for the TUI screens
// ABOUTME: Header and footer frame plus the home and project detail bodies

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/tui/icons"
	"github.com/freelancehub/freelancehub-cli/internal/tui/styles"
	"github.com/freelancehub/freelancehub-cli/internal/tui/widgets"
)

// View implements tea.Model
func (a *App) View() string {
	var body string
	switch {
	case !a.ready:
		body = a.spinner.View() + " Restoring session..."
	case a.form != nil:
		body = a.form.View()
	case a.screen == ScreenHome:
		body = a.viewHome()
	case a.screen == ScreenProjects:
		body = a.viewProjects()
	case a.screen == ScreenDetail:
		body = a.viewDetail()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderFooter())
}

func (a *App) frameWidth() int {
	return max(a.width-2, 60)
}

func (a *App) renderHeader() string {
	title := styles.Title.UnsetMarginBottom().Render(icons.App.String() + " FreelanceHub")
	user := styles.Subtitle.UnsetMarginBottom().Render("not logged in")
	if s := a.deps.Auth.Session(); s.User != nil {
		user = fmt.Sprintf("%s %s %s", icons.User, styles.ValueStyle.Render(s.User.Name()),
			styles.Subtitle.UnsetMarginBottom().Render("("+string(s.Phase)+")"))
	}
	backend := ""
	if a.deps.Backend != "" {
		backend = styles.Subtitle.UnsetMarginBottom().Render(" • " + a.deps.Backend)
	}

	left := title + backend
	gap := max(a.frameWidth()-lipgloss.Width(left)-lipgloss.Width(user)-2, 1)
	return styles.HeaderStyle.Width(a.frameWidth()).Render(left + strings.Repeat(" ", gap) + user)
}

func (a *App) renderFooter() string {
	line := styles.Help.UnsetMarginTop().Render("h home • p projects • n post • l login/logout • q quit")
	switch a.screen {
	case ScreenLogin:
		line = styles.Help.UnsetMarginTop().Render("ctrl+r create an account • esc quit")
	case ScreenRegister:
		line = styles.Help.UnsetMarginTop().Render("ctrl+l back to login • esc quit")
	}
	if a.toast != nil {
		line = widgets.Toast(*a.toast) + "\n" + line
	}
	return styles.FooterStyle.Width(a.frameWidth()).Render(line)
}

func (a *App) viewHome() string {
	st := a.deps.Projects.State()

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Find the perfect freelance project"))
	sb.WriteString("\n")

	sb.WriteString(styles.ValueStyle.Render("Latest open projects"))
	sb.WriteString("\n\n")
	latest := projects.LatestOpen(st.Projects, latestCount)
	switch {
	case st.Status == projects.FetchLoading && len(st.Projects) == 0:
		sb.WriteString(a.spinner.View() + " Loading projects...\n")
	case st.Status == projects.FetchFailed:
		sb.WriteString(styles.ErrorText.Render(st.Error) + "\n")
	case len(latest) == 0:
		sb.WriteString(styles.Subtitle.Render("No open projects yet. Press n to post one."))
	}
	for i, p := range latest {
		card := fmt.Sprintf("%s %s\n%s  %s\n%s",
			styles.KeyStyle.Render(fmt.Sprintf("[%d]", i+1)),
			styles.ValueStyle.Render(p.Title),
			styles.BudgetStyle.Render(projects.FormatBudget(p.Budget)),
			styles.Subtitle.UnsetMarginBottom().Render(projects.FormatAge(p.CreatedAt, a.now())),
			styles.TechChip.Render(strings.Join(p.TechStack, " · ")))
		sb.WriteString(styles.Panel.Width(a.frameWidth() - 4).Render(card))
		sb.WriteString("\n")
	}

	s := projects.Summarize(st.Projects)
	fmt.Fprintf(&sb, "\n%d projects • %d open • %d completed • median budget %s\n",
		s.Count, s.Open, s.Completed, projects.FormatBudget(s.MedianBudget))
	sb.WriteString(styles.Help.Render("1-3 open project • r refresh"))
	return sb.String()
}

func (a *App) viewProjects() string {
	st := a.deps.Projects.State()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Browse projects"))
	sb.WriteString("\n")
	if st.Status == projects.FetchLoading {
		sb.WriteString(a.spinner.View() + " Loading...\n")
	}
	if st.Status == projects.FetchFailed && st.Error != "" {
		sb.WriteString(styles.ErrorText.Render(st.Error) + "\n")
	}
	sb.WriteString(a.browser.View())
	return sb.String()
}

func (a *App) viewDetail() string {
	id := detailID(a.route)
	st := a.deps.Projects.State()

	switch {
	case st.NotFoundID == id:
		return styles.Title.Render("Project not found") + "\n" +
			styles.Subtitle.Render("The project you are looking for does not exist or has been removed.") +
			styles.Help.Render("b back to projects")
	case st.Selected == nil || st.Selected.ID != id:
		if st.Status == projects.FetchFailed {
			return styles.ErrorText.Render(st.Error) + "\n" + styles.Help.Render("r retry • b back to projects")
		}
		return a.spinner.View() + " Loading project..."
	}

	p := st.Selected
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(p.Title))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s  %s\n\n", widgets.ProjectBadge(p.Status), styles.BudgetStyle.Render(projects.FormatBudget(p.Budget)))
	fmt.Fprintf(&sb, "%s Posted %s (%s)\n", icons.Date, projects.FormatDate(p.CreatedAt), projects.FormatAge(p.CreatedAt, a.now()))
	fmt.Fprintf(&sb, "%s %s\n\n", icons.Tech, styles.TechChip.Render(strings.Join(p.TechStack, " · ")))
	sb.WriteString(lipgloss.NewStyle().Width(a.frameWidth() - 4).Render(p.Description))
	sb.WriteString("\n")

	if st.Status == projects.FetchLoading {
		sb.WriteString("\n" + a.spinner.View() + " Working...")
	}
	if st.Status == projects.FetchFailed && st.Error != "" {
		sb.WriteString("\n" + styles.ErrorText.Render(st.Error))
	}

	help := "r refresh • b back to projects"
	if p.IsOpen() {
		help = "c mark as completed • " + help
	}
	sb.WriteString(styles.Help.Render(help))
	return sb.String()
}
