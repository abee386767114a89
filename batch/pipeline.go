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

package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
	"github.com/GoogleCloudPlatform/dicomscan/extract"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Opener opens and parses one file
type Opener func(path string) (*dicom.DataSet, error)

// Pipeline extracts records from every file below a root directory with a bounded pool of
// workers. A Pipeline can run any number of times.
type Pipeline struct {
	workers    int
	attributes []dicom.DataElementTag
	log        logrus.FieldLogger
	progress   Progress
	open       Opener
	sink       Sink
	pixels     bool
}

// Option configures a Pipeline
type Option struct {
	apply func(*Pipeline)
}

// DefaultWorkers leaves one processor free, with a minimum of one worker
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// WithWorkers sets the number of files processed concurrently. Values below 1 select
// DefaultWorkers.
func WithWorkers(n int) Option {
	return Option{func(p *Pipeline) {
		if n < 1 {
			n = DefaultWorkers()
		}
		p.workers = n
	}}
}

// WithAttributes sets the attributes extracted from every file
func WithAttributes(tags []dicom.DataElementTag) Option {
	return Option{func(p *Pipeline) { p.attributes = tags }}
}

// WithLogger sets the logger. Per-file failures are logged at warn level and pixel diagnostics
// at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return Option{func(p *Pipeline) { p.log = log }}
}

// WithProgress sets the observer of file completions
func WithProgress(progress Progress) Option {
	return Option{func(p *Pipeline) { p.progress = progress }}
}

// WithOpener replaces dicom.Open
func WithOpener(open Opener) Option {
	return Option{func(p *Pipeline) { p.open = open }}
}

// WithSink forwards every outcome to sink
func WithSink(sink Sink) Option {
	return Option{func(p *Pipeline) { p.sink = sink }}
}

// WithoutPixels skips pixel data. The default opener does not buffer pixel data either.
func WithoutPixels() Option {
	return Option{func(p *Pipeline) { p.pixels = false }}
}

// NewPipeline returns a Pipeline configured by opts
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		workers:    DefaultWorkers(),
		attributes: extract.DefaultAttributes,
		log:        discardLogger(),
		progress:   noProgress{},
		pixels:     true,
	}
	for _, opt := range opts {
		opt.apply(p)
	}
	if p.open == nil {
		p.open = p.defaultOpener()
	}
	return p
}

func (p *Pipeline) defaultOpener() Opener {
	if !p.pixels {
		return func(path string) (*dicom.DataSet, error) {
			return dicom.Open(path, dicom.DropPixelData)
		}
	}
	return func(path string) (*dicom.DataSet, error) {
		return dicom.Open(path)
	}
}

// Workers returns the size of the worker pool
func (p *Pipeline) Workers() int {
	return p.workers
}

type outcome struct {
	record *extract.Record
	err    *FileError
}

// Run discovers the files below root and processes each of them. It returns once every file has
// either succeeded or failed; a failing file never stops the others. The returned error is an
// ErrSetup when the run could not start, in which case the report is nil, or an ErrSink when the
// sink rejected an outcome, in which case the report is still complete.
//
// Cancelling ctx fails the files that have not started yet with the context error.
func (p *Pipeline) Run(ctx context.Context, root string) (*BatchReport, error) {
	runID := uuid.New()
	log := p.log.WithField("run_id", runID.String())

	paths, err := Discover(root, log)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{RunInfo: RunInfo{
		ID:              runID,
		Root:            root,
		Started:         time.Now(),
		Workers:         p.workers,
		TotalDiscovered: len(paths),
	}}
	// the sink also records the failures caused by cancelling ctx
	sinkCtx := context.WithoutCancel(ctx)
	if p.sink != nil {
		if err := p.sink.Start(sinkCtx, report.RunInfo); err != nil {
			return nil, fmt.Errorf("%w: starting sink: %v", ErrSetup, err)
		}
	}
	log.WithFields(logrus.Fields{"root": root, "files": len(paths), "workers": p.workers}).Info("run started")

	outcomes := make(chan outcome, p.workers)
	aggregated := make(chan error)
	go func() {
		aggregated <- p.aggregate(sinkCtx, report, outcomes, log)
	}()

	units := make([]*unit, len(paths))
	var done atomic.Int64
	total := len(paths)

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for i, path := range paths {
		u := newUnit(path)
		units[i] = u
		g.Go(func() error {
			o := p.process(ctx, u, log.WithField("path", path))
			p.progress.Observe(int(done.Add(1)), total)
			outcomes <- o
			return nil
		})
	}
	_ = g.Wait()
	close(outcomes)
	sinkErr := <-aggregated

	for _, u := range units {
		if !u.State().Terminal() {
			log.WithField("path", u.path).Errorf("file left in state %v", u.State())
		}
	}

	report.Elapsed = time.Since(report.Started)
	log.WithFields(logrus.Fields{
		"succeeded": len(report.Succeeded),
		"failed":    len(report.Failed),
		"elapsed":   report.Elapsed,
	}).Info("run finished")

	if p.sink != nil {
		if err := p.sink.Finish(sinkCtx, report); err != nil && sinkErr == nil {
			sinkErr = err
		}
	}
	if sinkErr != nil {
		return report, fmt.Errorf("%w: %v", ErrSink, sinkErr)
	}
	return report, nil
}

// aggregate is the only writer of report.Succeeded and report.Failed. It returns the first sink
// error and keeps draining outcomes after it.
func (p *Pipeline) aggregate(ctx context.Context, report *BatchReport, outcomes <-chan outcome, log logrus.FieldLogger) error {
	var sinkErr error
	for o := range outcomes {
		var err error
		if o.err != nil {
			report.Failed = append(report.Failed, o.err)
			if p.sink != nil {
				err = p.sink.Failed(ctx, report.ID.String(), o.err)
			}
		} else {
			report.Succeeded = append(report.Succeeded, o.record)
			if p.sink != nil {
				err = p.sink.Succeeded(ctx, report.ID.String(), o.record)
			}
		}
		if err != nil {
			log.WithError(err).Error("writing outcome to sink")
			if sinkErr == nil {
				sinkErr = err
			}
		}
	}
	return sinkErr
}

func (p *Pipeline) process(ctx context.Context, u *unit, log logrus.FieldLogger) (o outcome) {
	u.advance(Discovered, InProgress)
	defer func() {
		if r := recover(); r != nil {
			o = p.failed(u, OpDecode, fmt.Errorf("panic: %v", r), log)
		}
	}()

	if err := ctx.Err(); err != nil {
		return p.failed(u, OpOpen, err, log)
	}

	ds, err := p.open(u.path)
	if err != nil {
		return p.failed(u, failedOp(err), err, log)
	}

	opts := []extract.AssembleOption{extract.WithLogger(log)}
	if !p.pixels {
		opts = append(opts, extract.WithoutPixels())
	}
	rec := extract.Assemble(ds, u.path, p.attributes, opts...)
	u.advance(InProgress, Succeeded)
	return outcome{record: rec}
}

func (p *Pipeline) failed(u *unit, op string, err error, log logrus.FieldLogger) outcome {
	u.fail()
	log.WithError(err).WithField("op", op).Warn("file failed")
	return outcome{err: &FileError{Path: u.path, Op: op, Err: err}}
}

// failedOp tells file system errors apart from errors in the file contents
func failedOp(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return OpOpen
	}
	return OpDecode
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
