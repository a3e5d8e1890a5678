package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/opencode-ai/tint/internal/tui/styles"
)

func formatResolution(resolved bool, detail string) string {
	label := "OK"
	if !resolved {
		label = "ERR"
	}
	return formatStatusLabel(label, detail)
}

func formatStatusLabel(label, detail string) string {
	normalized := strings.TrimSpace(detail)
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}

// swatchCell renders a color block when color output is possible. Escape
// sequences skew tabwriter widths, so swatches belong in the last column.
func swatchCell(hex string) string {
	if !colorEnabled() {
		return ""
	}
	return styles.Swatch(hex)
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}
