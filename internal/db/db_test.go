package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.ValidateSchema(); err != nil {
		t.Fatalf("ValidateSchema: %v", err)
	}
	version, err := db.GetSchemaVersion()
	if err != nil {
		t.Fatalf("GetSchemaVersion: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Migrations are idempotent across reopens.
	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if err := db.ValidateSchema(); err != nil {
		t.Fatalf("ValidateSchema after reopen: %v", err)
	}
}

func TestOpenUserDB(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	db, err := OpenUserDB()
	if err != nil {
		t.Fatalf("OpenUserDB: %v", err)
	}
	defer db.Close()

	wantPath := filepath.Join(home, ".patchlint", "history.db")
	if got := db.Path(); got != wantPath {
		t.Errorf("Path() = %q, want %q", got, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("expected db file to exist: %v", err)
	}
}

func TestValidateSchema_Mismatch(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`INSERT OR IGNORE INTO schema_migrations(version, applied_at) VALUES(999, ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.ValidateSchema(); err == nil {
		t.Fatalf("expected schema version mismatch error")
	}
}

func TestRecordAndListRuns(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	first := &Run{Filename: "0001.patch", Subject: "sample: fix", OK: true}
	if err := db.RecordRun(first); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if first.ID == "" {
		t.Errorf("expected assigned run id")
	}
	if first.CheckedAt.IsZero() {
		t.Errorf("expected assigned timestamp")
	}

	second := &Run{
		Filename:   "0002.patch",
		Subject:    "sample: break",
		OK:         false,
		ErrorCount: 2,
		CheckedAt:  time.Now().UTC().Add(time.Minute),
	}
	if err := db.RecordRun(second); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].Filename != "0002.patch" {
		t.Errorf("runs[0] = %+v", runs[0])
	}
	if runs[0].OK || runs[0].ErrorCount != 2 {
		t.Errorf("runs[0] = %+v", runs[0])
	}
}

func TestListRuns_DefaultLimit(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.ListRuns(0); err != nil {
		t.Fatalf("ListRuns(0): %v", err)
	}
}

func TestPruneRuns(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	old := &Run{Filename: "old.patch", OK: true, CheckedAt: time.Now().UTC().AddDate(0, 0, -100)}
	recent := &Run{Filename: "recent.patch", OK: true}
	if err := db.RecordRun(old); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordRun(recent); err != nil {
		t.Fatal(err)
	}

	n, err := db.PruneRuns(90)
	if err != nil {
		t.Fatalf("PruneRuns: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}

	// Non-positive retention keeps everything.
	if n, err := db.PruneRuns(0); err != nil || n != 0 {
		t.Errorf("PruneRuns(0) = %d, %v", n, err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Filename != "recent.patch" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestGetRunStats(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for _, r := range []*Run{
		{Filename: "a.patch", OK: true},
		{Filename: "b.patch", OK: true},
		{Filename: "c.patch", OK: false, ErrorCount: 1},
	} {
		if err := db.RecordRun(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := db.GetRunStats()
	if err != nil {
		t.Fatalf("GetRunStats: %v", err)
	}
	if stats.Total != 3 || stats.Passed != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
