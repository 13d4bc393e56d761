// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Renders project status badges and notification toasts

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/freelancehub/freelancehub-cli/internal/notify"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeFg        = lipgloss.Color("#FFFFFF")
)

func levelColor(level StatusLevel) lipgloss.Color {
	switch level {
	case StatusOK:
		return BadgeOKBg
	case StatusCritical:
		return BadgeCritBg
	case StatusInfo:
		return BadgeInfoBg
	default:
		return BadgeNeutralBg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	return lipgloss.NewStyle().
		Background(levelColor(level)).
		Foreground(BadgeFg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// ProjectBadge renders OPEN in green and COMPLETED in gray
func ProjectBadge(s projects.Status) string {
	if s == projects.StatusOpen {
		return Badge(string(s), StatusOK)
	}
	return Badge(string(s), StatusNeutral)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	style := lipgloss.NewStyle().Foreground(levelColor(level))
	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	default:
		return style.Render(icons.Info.String())
	}
}

// Toast renders a notification on one line
func Toast(n notify.Notification) string {
	level := StatusInfo
	switch n.Kind {
	case notify.Success:
		level = StatusOK
	case notify.Failure:
		level = StatusCritical
	}
	text := lipgloss.NewStyle().Foreground(levelColor(level)).Bold(true).Render(n.Title)
	if n.Description == "" {
		return fmt.Sprintf("%s %s", StatusIcon(level), text)
	}
	return fmt.Sprintf("%s %s %s", StatusIcon(level), text, n.Description)
}
