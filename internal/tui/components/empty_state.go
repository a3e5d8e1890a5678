// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/tint/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are actionable commands the user can run.
	Suggestions []Suggestion
}

// Suggestion represents a suggested command with description.
type Suggestion struct {
	Command     string
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	lines := []string{styleSet.Muted.Render(e.Title)}
	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "", styleSet.Text.Render("Try:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// EmptyTokens is shown when the store has no leaves.
func EmptyTokens() EmptyState {
	return EmptyState{
		Title:    "No tokens loaded",
		Subtitle: "The palette and tokens documents contain no color entries.",
		Suggestions: []Suggestion{
			{Command: "tint --builtin ui", Description: "browse the bundled sample tokens"},
		},
	}
}

// EmptyFiltered is shown when the filter matches nothing.
func EmptyFiltered(filter string) EmptyState {
	return EmptyState{
		Title:    fmt.Sprintf("No tokens match '%s'", filter),
		Subtitle: "Press / to edit or esc to clear the filter.",
	}
}

// LoadFailed is shown when the token store cannot be loaded.
func LoadFailed(err error) EmptyState {
	return EmptyState{
		Title:    "Token store failed to load",
		Subtitle: err.Error(),
		Suggestions: []Suggestion{
			{Command: "tint --tokens-dir <dir> ui", Description: "point at the exported token files"},
			{Command: "r", Description: "retry loading"},
		},
	}
}
