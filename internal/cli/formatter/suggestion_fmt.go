package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/importer"
	"github.com/charmbracelet/lipgloss"
)

// FormatSuggestion renders a proactive suggestion, or a dim placeholder.
func FormatSuggestion(c *domain.TriggerCandidate, now time.Time) string {
	if c == nil {
		return Dim("Nothing to suggest right now.") + "\n"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s\n",
		StyleAccent.Render("✦"),
		StyleText.Render(c.Text),
		priorityStyle(c.Priority).Render(fmt.Sprintf("[%d]", c.Priority)),
	))
	if c.Action != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleAction.Render("→"), FormatAction(c.Action)))
	}
	b.WriteString(fmt.Sprintf("  %s\n", Dim(fmt.Sprintf("%s · %s · %s", c.Type, c.ID, now.Format("15:04")))))
	return b.String()
}

func priorityStyle(p int) lipgloss.Style {
	switch {
	case p >= 80:
		return StyleOK
	case p >= 55:
		return StyleWarn
	default:
		return StyleMuted
	}
}

// FormatEvents lists upcoming events as a table with relative start times.
func FormatEvents(events []domain.Event, now time.Time) string {
	if len(events) == 0 {
		return Dim("No upcoming events.") + "\n"
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.Title, e.Venue, e.StartsAt.Format("01-02 15:04"), Dim(Until(e.StartsAt, now))})
	}
	return Header("Upcoming events") + "\n" + RenderTable([]string{"Title", "Venue", "Starts", ""}, rows)
}

// FormatSeedSummary reports what a seed import wrote.
func FormatSeedSummary(path string, s importer.Summary) string {
	rows := [][]string{
		{"events", fmt.Sprint(s.Events)},
		{"restaurants", fmt.Sprint(s.Restaurants)},
		{"menu items", fmt.Sprint(s.MenuItems)},
		{"users", fmt.Sprint(s.Users)},
		{"vehicles", fmt.Sprint(s.Vehicles)},
	}
	return StyleOK.Render("✔ Imported ") + Bold(path) + "\n\n" + RenderTable([]string{"Dataset", "Rows"}, rows)
}
