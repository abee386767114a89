// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog persists batch runs, their records and their failures in a SQLite database.
// A *Catalog is a batch.Sink.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/dicomscan/batch"
	"github.com/GoogleCloudPlatform/dicomscan/extract"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var _ batch.Sink = (*Catalog)(nil)

// Catalog wraps the SQLite connection
type Catalog struct {
	db *sql.DB
}

// dataSourceName returns a file: URI for path, escaped so that '?' and '#' stay part of the name
func dataSourceName(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve catalog path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
	}
	return u.String(), nil
}

// Open opens the catalog at path, creating the file and its directory if needed
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	dsn, err := dataSourceName(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			workers INTEGER NOT NULL,
			total INTEGER NOT NULL,
			succeeded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			pixel_shape TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS attributes (
			record_id TEXT NOT NULL REFERENCES records(id),
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (record_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id TEXT NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			op TEXT NOT NULL,
			error TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id)`,
	}
	for i, m := range migrations {
		if _, err := c.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Start records a new run
func (c *Catalog) Start(ctx context.Context, run batch.RunInfo) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, workers, total) VALUES (?, ?, ?, ?, ?)`,
		run.ID.String(), run.Root, run.Started.UTC().Format(time.RFC3339Nano), run.Workers, run.TotalDiscovered,
	)
	return err
}

// Succeeded stores a record and its attributes in one transaction
func (c *Catalog) Succeeded(ctx context.Context, runID string, rec *extract.Record) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	recordID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (id, run_id, path, pixel_shape) VALUES (?, ?, ?, ?)`,
		recordID, runID, rec.Path, pixelShape(rec),
	); err != nil {
		return fmt.Errorf("insert record %s: %w", rec.Path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO attributes (record_id, name, kind, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	names := make([]string, 0, len(rec.Attributes))
	for name := range rec.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := rec.Attributes[name]
		if _, err := stmt.ExecContext(ctx, recordID, name, v.Kind().String(), v.String()); err != nil {
			return fmt.Errorf("insert attribute %s of %s: %w", name, rec.Path, err)
		}
	}
	return tx.Commit()
}

// Failed stores a file failure
func (c *Catalog) Failed(ctx context.Context, runID string, fe *batch.FileError) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO failures (run_id, path, op, error) VALUES (?, ?, ?, ?)`,
		runID, fe.Path, fe.Op, fe.Err.Error(),
	)
	return err
}

// Finish stores the totals of a completed run
func (c *Catalog) Finish(ctx context.Context, report *batch.BatchReport) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE runs SET succeeded = ?, failed = ?, elapsed_ms = ?, finished = 1 WHERE id = ?`,
		len(report.Succeeded), len(report.Failed), report.Elapsed.Milliseconds(), report.ID.String(),
	)
	return err
}

func pixelShape(rec *extract.Record) string {
	if rec.Pixels == nil {
		return ""
	}
	dims := make([]string, 0, rec.Pixels.NDim())
	for _, d := range rec.Pixels.Shape() {
		dims = append(dims, strconv.Itoa(d))
	}
	return strings.Join(dims, "x")
}
