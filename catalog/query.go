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

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run is a stored run
type Run struct {
	ID        string
	Root      string
	Started   time.Time
	Workers   int
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
	Finished  bool
}

// Attribute is a stored attribute value in its rendered form
type Attribute struct {
	Kind  string
	Value string
}

// Record is a stored record
type Record struct {
	Path       string
	PixelShape string
	Attributes map[string]Attribute
}

// Failure is a stored file failure
type Failure struct {
	Path  string
	Op    string
	Error string
}

// Runs returns every run, most recent first
func (c *Catalog) Runs(ctx context.Context) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, root, started_at, workers, total, succeeded, failed, elapsed_ms, finished
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var elapsedMS int64
		if err := rows.Scan(&r.ID, &r.Root, &started, &r.Workers, &r.Total, &r.Succeeded, &r.Failed,
			&elapsedMS, &r.Finished); err != nil {
			return nil, err
		}
		if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %s: malformed start time %q: %w", r.ID, started, err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records returns the records of a run keyed by path
func (c *Catalog) Records(ctx context.Context, runID string) (map[string]*Record, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT r.path, r.pixel_shape, a.name, a.kind, a.value
		 FROM records r LEFT JOIN attributes a ON a.record_id = r.id
		 WHERE r.run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := map[string]*Record{}
	for rows.Next() {
		var path, shape string
		var name, kind, value sql.NullString
		if err := rows.Scan(&path, &shape, &name, &kind, &value); err != nil {
			return nil, err
		}
		rec, ok := records[path]
		if !ok {
			rec = &Record{Path: path, PixelShape: shape, Attributes: map[string]Attribute{}}
			records[path] = rec
		}
		if name.Valid {
			rec.Attributes[name.String] = Attribute{Kind: kind.String, Value: value.String}
		}
	}
	return records, rows.Err()
}

// Failures returns the failures of a run ordered by path
func (c *Catalog) Failures(ctx context.Context, runID string) ([]Failure, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT path, op, error FROM failures WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Path, &f.Op, &f.Error); err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
