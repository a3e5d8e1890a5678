// Package export captures resolved token tables and writes them out.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opencode-ai/tint/internal/models"
	"github.com/opencode-ai/tint/internal/tokens"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatJSON, FormatYAML, FormatSQLite}

// Options describe the snapshot being built.
type Options struct {
	Name       string
	Source     string
	Diagnostic bool
	Prefix     string
	Now        func() time.Time
}

// Build resolves every leaf of the service's store into a snapshot.
func Build(svc *tokens.Service, opts Options) (*models.Snapshot, error) {
	store, err := svc.Store()
	if err != nil {
		return nil, fmt.Errorf("load token store: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = now().UTC().Format("20060102-150405")
	}

	snap := &models.Snapshot{
		Name:       name,
		Source:     opts.Source,
		Diagnostic: opts.Diagnostic,
		CreatedAt:  now().UTC(),
	}
	for _, leaf := range store.Leaves(opts.Prefix) {
		hex, err := svc.ResolveLeaf(leaf)
		entry := models.SnapshotEntry{
			Layer:    string(leaf.Layer),
			Path:     leaf.Path,
			Value:    leaf.Value,
			Hex:      hex,
			Resolved: err == nil,
		}
		if err != nil {
			entry.Error = err.Error()
		}
		snap.Entries = append(snap.Entries, entry)
	}
	snap.EntryCount = len(snap.Entries)
	return snap, nil
}

// Write encodes v as JSON or YAML.
func Write(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
