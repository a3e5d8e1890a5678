package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/tint/internal/colors"
)

// Styles contains lipgloss styles derived from a resolved theme.
type Styles struct {
	Theme        Theme
	Palette      Palette
	Title        lipgloss.Style
	Text         lipgloss.Style
	Muted        lipgloss.Style
	Accent       lipgloss.Style
	Panel        lipgloss.Style
	Border       lipgloss.Style
	Focus        lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Error        lipgloss.Style
	Info         lipgloss.Style
	Selected     lipgloss.Style
	StatusOK     lipgloss.Style
	StatusFailed lipgloss.Style
}

// BuildStyles resolves the theme and converts its roles into lipgloss styles.
func BuildStyles(theme Theme, resolver Resolver) Styles {
	p := Resolve(theme, resolver)

	return Styles{
		Theme:        theme,
		Palette:      p,
		Title:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("text"))).Bold(true),
		Text:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("text"))),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("text_muted"))),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("accent"))),
		Panel:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("text"))).Background(lipgloss.Color(p.color("panel"))).BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(p.color("border"))),
		Border:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("border"))),
		Focus:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("focus"))).Bold(true),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("success"))),
		Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("warning"))),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("error"))),
		Info:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("info"))),
		Selected:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("background"))).Background(lipgloss.Color(p.color("focus"))).Bold(true),
		StatusOK:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("success"))),
		StatusFailed: lipgloss.NewStyle().Foreground(lipgloss.Color(p.color("error"))),
	}
}

// Swatch renders a two-cell block filled with hex. Terminals have no alpha,
// so the alpha channel is dropped.
func Swatch(hex string) string {
	c, err := colors.ParseHex(hex)
	if err != nil {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.HexRGB())).Render("  ")
}
