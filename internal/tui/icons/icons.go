// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	if env := os.Getenv("FREELANCEHUB_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"} {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Marketplace
	Project = Icon{"󰈙", "▤"} // nf-md-file_document
	Budget  = Icon{"󰆍", "₹"} // nf-md-cash
	Tech    = Icon{"", "⚙"} // nf-oct-code
	User    = Icon{"", "☺"} // nf-oct-person
	Date    = Icon{"", "◷"} // nf-oct-calendar

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "•"} // nf-oct-info

	// Actions
	Search  = Icon{"", "⌕"} // nf-oct-search
	Plus    = Icon{"", "+"} // nf-oct-plus
	Home    = Icon{"󰋜", "⌂"} // nf-md-home
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App = Icon{"󰖟", "◈"} // nf-md-web
)
