package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/tint/internal/tui/styles"
)

// RenderResolutionBadge renders whether a token resolved.
func RenderResolutionBadge(styleSet styles.Styles, resolved bool) string {
	icon, label, style := resolutionDescriptor(styleSet, resolved)
	return style.Render(fmt.Sprintf("%s %s", icon, label))
}

func resolutionDescriptor(styleSet styles.Styles, resolved bool) (string, string, lipgloss.Style) {
	if resolved {
		return "OK", "Resolved", styleSet.StatusOK
	}
	return "ERR", "Sentinel", styleSet.StatusFailed
}
