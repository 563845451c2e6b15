// Package reportcache stores analysis reports in a local SQLite file keyed by input fingerprint.
package reportcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// Cache is a fingerprint-keyed report store. Any change to the profile, the job or the
// scoring policy changes the fingerprint, so entries never go stale.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("reportcache: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("reportcache: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reportcache: init schema: %w", err)
	}
	return &Cache{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS report_cache (
		fingerprint TEXT PRIMARY KEY,
		report      TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`)
	return err
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached report for fingerprint. ok is false on a miss.
func (c *Cache) Get(ctx context.Context, fingerprint string) (report *types.AnalysisReport, ok bool, err error) {
	var raw string
	err = c.db.QueryRowContext(ctx,
		`SELECT report FROM report_cache WHERE fingerprint = ?`, fingerprint,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reportcache: get: %w", err)
	}

	var r types.AnalysisReport
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, false, fmt.Errorf("reportcache: decode report: %w", err)
	}
	return &r, true, nil
}

// Put stores report under fingerprint, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, fingerprint string, report *types.AnalysisReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("reportcache: encode report: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO report_cache (fingerprint, report, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		fingerprint, string(raw), c.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("reportcache: put: %w", err)
	}
	return nil
}

// Prune deletes entries older than maxAge and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := c.now().Add(-maxAge).UTC().Format(time.RFC3339)
	res, err := c.db.ExecContext(ctx, `DELETE FROM report_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("reportcache: prune: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of cached reports.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM report_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("reportcache: count: %w", err)
	}
	return n, nil
}
