package cli

import (
	"fmt"
	"strings"
)

// PreflightError is an actionable failure reported before any work starts.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\nhint: %s", e.Hint)
	}
	if e.NextStep != "" {
		fmt.Fprintf(&b, "\nnext: %s", e.NextStep)
	}
	return b.String()
}
