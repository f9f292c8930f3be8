package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette: castle stone, vineyard red and the green of the Írottkő hills.
var (
	ColorOK     = lipgloss.AdaptiveColor{Light: "#3f7d4e", Dark: "#7fbf7f"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#a86a00", Dark: "#e8b04b"}
	ColorAlert  = lipgloss.AdaptiveColor{Light: "#9b1c31", Dark: "#e0626f"}
	ColorAction = lipgloss.AdaptiveColor{Light: "#2f5f8a", Dark: "#7aa7cf"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#7a3e6c", Dark: "#c98bb9"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#7b746a", Dark: "#9a9186"}
	ColorText   = lipgloss.AdaptiveColor{Light: "#2b2620", Dark: "#ece3d4"}
	ColorTitle  = lipgloss.AdaptiveColor{Light: "#8c3b1f", Dark: "#e38b5a"}
)

var (
	StyleOK     = lipgloss.NewStyle().Foreground(ColorOK)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleAlert  = lipgloss.NewStyle().Foreground(ColorAlert)
	StyleAction = lipgloss.NewStyle().Foreground(ColorAction)
	StyleAccent = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleMuted  = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleText   = lipgloss.NewStyle().Foreground(ColorText)
	StyleTitle  = lipgloss.NewStyle().Foreground(ColorTitle).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
)

// ConfidenceStyle colors a reply by how sure the assistant was.
func ConfidenceStyle(c float64) lipgloss.Style {
	switch {
	case c >= 0.75:
		return StyleOK
	case c >= 0.4:
		return StyleWarn
	default:
		return StyleAlert
	}
}

// ModeBadge renders the app mode as "● CITY" and similar.
func ModeBadge(mode domain.AppMode) string {
	switch mode {
	case domain.ModeCity:
		return StyleOK.Render("● CITY")
	case domain.ModeApproaching:
		return StyleWarn.Render("● APPROACHING")
	case domain.ModeRemote:
		return StyleAction.Render("● REMOTE")
	default:
		return StyleMuted.Render("● UNKNOWN")
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleTitle.Render(upper), StyleMuted.Render(line))
}

func Dim(text string) string {
	return StyleMuted.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
