package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opencode-ai/tint/internal/models"
)

// Snapshot repository errors.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)

// createdAtLayout keeps every fraction digit so created_at sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SnapshotRepository handles snapshot persistence.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create stores a snapshot and its entries in one transaction.
func (r *SnapshotRepository) Create(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil || snap.Name == "" {
		return ErrInvalidSnapshot
	}
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	} else {
		snap.CreatedAt = snap.CreatedAt.UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, source, diagnostic, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		snap.ID,
		snap.Name,
		snap.Source,
		boolToInt(snap.Diagnostic),
		snap.CreatedAt.Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entries (
			snapshot_id, position, layer, path, value, hex, resolved, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range snap.Entries {
		if _, err := stmt.ExecContext(ctx,
			snap.ID,
			i,
			entry.Layer,
			entry.Path,
			entry.Value,
			entry.Hex,
			boolToInt(entry.Resolved),
			nullString(entry.Error),
		); err != nil {
			return fmt.Errorf("failed to insert entry %s/%s: %w", entry.Layer, entry.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	snap.EntryCount = len(snap.Entries)
	return nil
}

// Get loads a snapshot with its entries.
func (r *SnapshotRepository) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.source, s.diagnostic, s.created_at,
			(SELECT COUNT(*) FROM snapshot_entries e WHERE e.snapshot_id = s.id)
		FROM snapshots s
		WHERE s.id = ?
	`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT layer, path, value, hex, resolved, error
		FROM snapshot_entries
		WHERE snapshot_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry    models.SnapshotEntry
			resolved int
			errText  sql.NullString
		)
		if err := rows.Scan(&entry.Layer, &entry.Path, &entry.Value, &entry.Hex, &resolved, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.Resolved = resolved != 0
		entry.Error = errText.String
		snap.Entries = append(snap.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}

// List returns snapshots newest first, without entries.
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]*models.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.source, s.diagnostic, s.created_at,
			(SELECT COUNT(*) FROM snapshot_entries e WHERE e.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.created_at DESC, s.id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// Delete removes a snapshot and its entries.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*models.Snapshot, error) {
	var (
		snap       models.Snapshot
		diagnostic int
		createdAt  string
	)
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Source, &diagnostic, &createdAt, &snap.EntryCount); err != nil {
		return nil, err
	}
	snap.Diagnostic = diagnostic != 0

	parsed, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	snap.CreatedAt = parsed
	return &snap, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
