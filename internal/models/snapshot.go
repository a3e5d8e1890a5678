// Package models defines the persisted data shapes shared by tint packages.
package models

import "time"

// Snapshot is a resolved token table captured at one point in time.
type Snapshot struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	Source     string          `json:"source" yaml:"source"`
	Diagnostic bool            `json:"diagnostic" yaml:"diagnostic"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
	EntryCount int             `json:"entry_count" yaml:"entry_count"`
	Entries    []SnapshotEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// SnapshotEntry is one token or palette leaf and its resolution.
type SnapshotEntry struct {
	Layer    string `json:"layer" yaml:"layer"`
	Path     string `json:"path" yaml:"path"`
	Value    string `json:"value" yaml:"value"`
	Hex      string `json:"hex" yaml:"hex"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Unresolved returns the entries that fell back to the sentinel.
func (s *Snapshot) Unresolved() []SnapshotEntry {
	var out []SnapshotEntry
	for _, entry := range s.Entries {
		if !entry.Resolved {
			out = append(out, entry)
		}
	}
	return out
}
