package formatter

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)

	if title != "" {
		return boxStyle.Render(StyleTitle.Render(title) + "\n" + content)
	}
	return boxStyle.Render(content)
}

// Until renders the time from now to t as "in 45m", "in 2h 10m" or "now".
func Until(t, now time.Time) string {
	d := t.Sub(now)
	if d <= time.Minute && d >= -time.Minute {
		return "now"
	}
	if d < 0 {
		return FormatDuration(-d) + " ago"
	}
	return "in " + FormatDuration(d)
}

// FormatDuration renders d in hours and minutes, rounding to the minute.
func FormatDuration(d time.Duration) string {
	mins := int(math.Round(d.Minutes()))
	h, m := mins/60, mins%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatHUF renders a forint amount with space grouping, e.g. "12 500 Ft".
func FormatHUF(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out) + " Ft"
	}
	return string(out) + " Ft"
}
