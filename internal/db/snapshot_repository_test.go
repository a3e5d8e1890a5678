package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/opencode-ai/tint/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "tint.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func TestSnapshotRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	snap := &models.Snapshot{
		Name:       "release",
		Source:     "builtin",
		Diagnostic: true,
		Entries: []models.SnapshotEntry{
			{Layer: "tokens", Path: "system/text/light/high", Value: "{neutral.0}", Hex: "#FFFFFF", Resolved: true},
			{Layer: "tokens", Path: "broken", Value: "{nope}", Hex: "#FF00FFFF", Error: "token not found: nope"},
		},
	}
	if err := repo.Create(ctx, snap); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if snap.ID == "" {
		t.Fatalf("expected generated ID")
	}

	got, err := repo.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "release" || !got.Diagnostic || got.EntryCount != 2 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if len(got.Entries) != 2 || got.Entries[0].Path != "system/text/light/high" {
		t.Fatalf("unexpected entries: %+v", got.Entries)
	}
	if got.Entries[1].Resolved || got.Entries[1].Error == "" {
		t.Fatalf("expected unresolved entry with error, got %+v", got.Entries[1])
	}
	if len(got.Unresolved()) != 1 {
		t.Fatalf("expected one unresolved entry")
	}
}

func TestSnapshotRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		snap := &models.Snapshot{Name: name, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, snap); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Name != "third" || all[2].Name != "first" {
		t.Fatalf("unexpected order: %v, %v, %v", all[0].Name, all[1].Name, all[2].Name)
	}
	if !all[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("created_at round trip: %v", all[0].CreatedAt)
	}

	limited, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(limited))
	}
}

func TestSnapshotRepository_ListOrdersWithinOneSecond(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	whole := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)

	if err := repo.Create(ctx, &models.Snapshot{Name: "whole", CreatedAt: whole}); err != nil {
		t.Fatalf("Create whole: %v", err)
	}
	if err := repo.Create(ctx, &models.Snapshot{Name: "half", CreatedAt: half}); err != nil {
		t.Fatalf("Create half: %v", err)
	}

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Name != "half" || all[1].Name != "whole" {
		t.Fatalf("expected half then whole, got %+v", all)
	}
	if !all[0].CreatedAt.Equal(half) || !all[1].CreatedAt.Equal(whole) {
		t.Fatalf("created_at round trip: %v, %v", all[0].CreatedAt, all[1].CreatedAt)
	}
}

func TestSnapshotRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	snap := &models.Snapshot{Name: "gone", Entries: []models.SnapshotEntry{{Layer: "palette", Path: "a", Value: "#000000", Hex: "#000000", Resolved: true}}}
	if err := repo.Create(ctx, snap); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, snap.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, snap.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, snap.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound on second delete, got %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot_entries`).Scan(&count); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cascade delete, %d entries remain", count)
	}
}

func TestSnapshotRepository_CreateInvalid(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := NewSnapshotRepository(db).Create(context.Background(), &models.Snapshot{}); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}
