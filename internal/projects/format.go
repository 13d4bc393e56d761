// ABOUTME: Display formatting for project budgets and dates
// ABOUTME: Shared by the command line and the terminal UI

package projects

import (
	"time"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes every displayed budget
const CurrencySymbol = "₹"

// FormatBudget renders b with thousands separators, e.g. ₹50,000
func FormatBudget(b float64) string {
	return CurrencySymbol + humanize.Commaf(b)
}

// FormatDate renders the posting date, e.g. Mar 10, 2026
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("Jan 2, 2006")
}

// FormatAge renders how long ago t was relative to now, e.g. "2 days ago"
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
