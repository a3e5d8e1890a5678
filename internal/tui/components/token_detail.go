package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/tint/internal/colors"
	"github.com/opencode-ai/tint/internal/models"
	"github.com/opencode-ai/tint/internal/tui/styles"
)

// RenderTokenLine renders one row of the token list.
func RenderTokenLine(styleSet styles.Styles, entry models.SnapshotEntry, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	hex := fmt.Sprintf("%-9s", entry.Hex)
	pathWidth := width - lipgloss.Width(marker) - len(hex) - 6
	path := truncate(entry.Path, pathWidth)

	line := marker + styles.Swatch(entry.Hex) + " " + hex + " " + path
	if selected {
		return styleSet.Selected.Render(line)
	}
	if !entry.Resolved {
		return styleSet.Error.Render(line)
	}
	return styleSet.Text.Render(line)
}

// RenderTokenDetail renders the selected entry with its contrast against the
// theme background.
func RenderTokenDetail(styleSet styles.Styles, entry models.SnapshotEntry, width int) string {
	c := colors.HexToColor(entry.Hex)
	background := styleSet.Palette.Roles["background"].Color

	lines := []string{
		styleSet.Title.Render(entry.Path),
		fmt.Sprintf("%s %s", styles.Swatch(entry.Hex), RenderResolutionBadge(styleSet, entry.Resolved)),
		"",
		field(styleSet, "Layer", entry.Layer),
		field(styleSet, "Value", entry.Value),
		field(styleSet, "Hex", entry.Hex),
		field(styleSet, "RGBA", fmt.Sprintf("%d, %d, %d, %d", c.R, c.G, c.B, c.A)),
		field(styleSet, "Contrast", fmt.Sprintf("%.2f:1 on background", c.ContrastRatio(background))),
		field(styleSet, "Text", "use "+c.BetterContrast(colors.Black, colors.White).HexRGB()),
	}
	if entry.Error != "" {
		lines = append(lines, "", styleSet.Error.Render(truncate(entry.Error, width-4)))
	}

	return styleSet.Panel.Width(max(width-2, 10)).Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func field(styleSet styles.Styles, label, value string) string {
	return styleSet.Muted.Render(fmt.Sprintf("%-9s", label)) + " " + styleSet.Text.Render(value)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
