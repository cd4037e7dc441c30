// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store maintains the per-run SQLite results index. The index
// is a run artifact like every other output file: it lives in the run's
// output directory and is recreated each run.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/eol-engine/pkg/types"
)

const dbFile = "results.db"

// Store wraps the results database for one run.
type Store struct {
	db    *sql.DB
	runID string
}

// Open creates or opens the results index in dir and registers runID.
// The returned Store satisfies the pipeline's record sink.
func Open(dir, runID string) (*Store, error) {
	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening results index: %w", err)
	}

	s := &Store{db: db, runID: runID}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}

	_, err = db.Exec(
		`INSERT OR IGNORE INTO runs (id, started_at) VALUES (?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id),
			model TEXT NOT NULL,
			vendor_name TEXT,
			end_of_sales TEXT,
			end_of_life TEXT,
			end_of_service TEXT,
			url TEXT,
			filename TEXT,
			candidate_count INTEGER,
			PRIMARY KEY (run_id, model)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_vendor ON records(vendor_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRecord upserts one model's summary record for the current run.
func (s *Store) SaveRecord(ctx context.Context, rec types.SummaryRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records
			(run_id, model, vendor_name, end_of_sales, end_of_life, end_of_service, url, filename, candidate_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, model) DO UPDATE SET
			vendor_name=excluded.vendor_name,
			end_of_sales=excluded.end_of_sales,
			end_of_life=excluded.end_of_life,
			end_of_service=excluded.end_of_service,
			url=excluded.url,
			filename=excluded.filename,
			candidate_count=excluded.candidate_count`,
		s.runID, rec.Model, rec.VendorName,
		rec.EndOfSales, rec.EndOfLife, rec.EndOfService,
		rec.URL, rec.Filename, rec.CandidateCount,
	)
	if err != nil {
		return fmt.Errorf("saving record for %s: %w", rec.Model, err)
	}
	return nil
}

// Filter narrows a records query. Zero value matches everything in the
// current run.
type Filter struct {
	// Vendor matches vendor_name case-insensitively when non-empty.
	Vendor string

	// Model substring-matches the model name when non-empty.
	Model string

	// OnlyDated keeps records with at least one resolved date.
	OnlyDated bool
}

// Records returns the current run's records matching f, in model order.
func (s *Store) Records(ctx context.Context, f Filter) ([]types.SummaryRecord, error) {
	query := `SELECT model, vendor_name, end_of_sales, end_of_life, end_of_service, url, filename, candidate_count
		FROM records WHERE run_id = ?`
	args := []any{s.runID}

	if f.Vendor != "" {
		query += ` AND vendor_name = ? COLLATE NOCASE`
		args = append(args, f.Vendor)
	}
	if f.Model != "" {
		query += ` AND model LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Model)+"%")
	}
	if f.OnlyDated {
		query += ` AND (end_of_sales != '' OR end_of_life != '' OR end_of_service != '')`
	}
	query += ` ORDER BY model`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.SummaryRecord
	for rows.Next() {
		var rec types.SummaryRecord
		if err := rows.Scan(
			&rec.Model, &rec.VendorName,
			&rec.EndOfSales, &rec.EndOfLife, &rec.EndOfService,
			&rec.URL, &rec.Filename, &rec.CandidateCount,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`%`, `\%`, `_`, `\_`, `\`, `\\`)
	return r.Replace(s)
}
