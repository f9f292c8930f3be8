package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// FormatAnswer renders an assistant reply: the text in a box, then the
// suggested action and a dimmed analytics line.
func FormatAnswer(res domain.AssistantResult, mode domain.AppMode) string {
	var b strings.Builder
	b.WriteString(RenderBox("Kőszeg", StyleText.Render(res.Text)))
	b.WriteString("\n")

	if res.Action != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", StyleAction.Render("→"), FormatAction(res.Action)))
	}

	conf := ConfidenceStyle(res.Confidence).Render(fmt.Sprintf("%.0f%%", res.Confidence*100))
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", ModeBadge(mode), Dim("intent: "+res.Intent), conf))
	return b.String()
}

// FormatAction renders an action as "navigate_to_events (id=ostrom)".
// Params are sorted for stable output.
func FormatAction(a *domain.ActionRef) string {
	if a == nil {
		return ""
	}
	name := Bold(string(a.Type))
	if len(a.Params) == 0 {
		return name
	}
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, a.Params[k])
	}
	return name + " " + Dim("("+strings.Join(parts, ", ")+")")
}
