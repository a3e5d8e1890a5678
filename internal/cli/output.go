package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/opencode-ai/tint/internal/export"
)

const tablePadding = 2

// IsJSONOutput reports whether --json was requested.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsYAMLOutput reports whether --yaml was requested.
func IsYAMLOutput() bool {
	return yamlOutput
}

// IsStructuredOutput reports whether output should be machine-readable.
func IsStructuredOutput() bool {
	return jsonOutput || yamlOutput
}

// WriteOutput encodes v in the requested structured format.
func WriteOutput(out io.Writer, v any) error {
	if IsYAMLOutput() {
		return export.Write(out, export.FormatYAML, v)
	}
	return export.Write(out, export.FormatJSON, v)
}

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
