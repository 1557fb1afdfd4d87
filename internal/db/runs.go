package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded check of a patch file.
type Run struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Subject    string    `json:"subject"`
	OK         bool      `json:"ok"`
	ErrorCount int       `json:"error_count"`
	CheckedAt  time.Time `json:"checked_at"`
}

// RecordRun inserts a run, assigning an id and timestamp when unset.
func (db *DB) RecordRun(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now().UTC()
	}

	_, err := db.Exec(`
		INSERT INTO runs (id, filename, subject, ok, error_count, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.Filename, r.Subject, boolToInt(r.OK), r.ErrorCount,
		r.CheckedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, filename, subject, ok, error_count, checked_at
		FROM runs ORDER BY checked_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			ok        int
			checkedAt string
		)
		if err := rows.Scan(&r.ID, &r.Filename, &r.Subject, &ok, &r.ErrorCount, &checkedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.OK = ok != 0
		if t, err := time.Parse(time.RFC3339, checkedAt); err == nil {
			r.CheckedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PruneRuns deletes runs older than the retention window. A non-positive
// retention keeps everything.
func (db *DB) PruneRuns(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339)
	res, err := db.Exec(`DELETE FROM runs WHERE checked_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return n, nil
}

// RunStats summarizes recorded runs.
type RunStats struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// GetRunStats returns aggregate pass/fail counts.
func (db *DB) GetRunStats() (RunStats, error) {
	var s RunStats
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN ok != 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END), 0)
		FROM runs
	`).Scan(&s.Total, &s.Passed, &s.Failed)
	if err != nil {
		return RunStats{}, fmt.Errorf("querying run stats: %w", err)
	}
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
