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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
	"github.com/GoogleCloudPlatform/dicomscan/dicom/dicomtest"
	"github.com/GoogleCloudPlatform/dicomscan/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBatch writes good valid slices and bad files that are not DICOM below a new directory
func writeBatch(t *testing.T, good, bad int) string {
	t.Helper()
	root := t.TempDir()
	for i := 0; i < good; i++ {
		path := filepath.Join(root, fmt.Sprintf("series%d", i%3), fmt.Sprintf("slice%03d.dcm", i))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		elems := dicomtest.Slice(fmt.Sprintf("1.2.840.99999.1.1.%d", i), 2, 2, []uint16{0, 1, 2, uint16(i)})
		require.NoError(t, dicomtest.WriteFile(path, dicom.ExplicitVRLittleEndianUID, elems...))
	}
	for i := 0; i < bad; i++ {
		touch(t, filepath.Join(root, fmt.Sprintf("notes%03d.txt", i)))
	}
	touch(t, filepath.Join(root, ".DS_Store"))
	return root
}

type progressLog struct {
	mu     sync.Mutex
	seen   map[int]int
	totals map[int]bool
}

func newProgressLog() *progressLog {
	return &progressLog{seen: map[int]int{}, totals: map[int]bool{}}
}

func (l *progressLog) Observe(done, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[done]++
	l.totals[total] = true
}

func paths(report *BatchReport) (succeeded, failed []string) {
	for _, r := range report.Succeeded {
		succeeded = append(succeeded, r.Path)
	}
	for _, fe := range report.Failed {
		failed = append(failed, fe.Path)
	}
	sort.Strings(succeeded)
	sort.Strings(failed)
	return succeeded, failed
}

func TestRun_PartitionAndProgress(t *testing.T) {
	const good, bad = 7, 3
	root := writeBatch(t, good, bad)

	for workers := 1; workers <= good+bad; workers++ {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			progress := newProgressLog()
			p := NewPipeline(WithWorkers(workers), WithProgress(progress))

			report, err := p.Run(context.Background(), root)
			require.NoError(t, err)

			assert.Equal(t, good+bad, report.TotalDiscovered)
			assert.Len(t, report.Succeeded, good)
			assert.Len(t, report.Failed, bad)
			assert.Equal(t, workers, report.Workers)

			for done := 1; done <= good+bad; done++ {
				assert.Equalf(t, 1, progress.seen[done], "progress value %d", done)
			}
			assert.Len(t, progress.seen, good+bad)
			assert.Equal(t, map[int]bool{good + bad: true}, progress.totals)

			for _, fe := range report.Failed {
				assert.Equal(t, OpDecode, fe.Op)
				assert.True(t, strings.HasSuffix(fe.Path, ".txt"))
			}
			for _, rec := range report.Succeeded {
				assert.Len(t, rec.Attributes, len(extract.DefaultAttributes))
				require.NotNil(t, rec.Pixels)
				assert.Equal(t, []int{1, 2, 2, 1}, rec.Pixels.Shape())
			}
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	root := writeBatch(t, 5, 2)
	p := NewPipeline(WithWorkers(3))

	first, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), root)
	require.NoError(t, err)

	s1, f1 := paths(first)
	s2, f2 := paths(second)
	assert.Equal(t, s1, s2)
	assert.Equal(t, f1, f2)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRun_EmptyDirectory(t *testing.T) {
	report, err := NewPipeline().Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalDiscovered)
	assert.Empty(t, report.Succeeded)
	assert.Empty(t, report.Failed)
}

func TestRun_MissingRoot(t *testing.T) {
	report, err := NewPipeline().Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrSetup)
	assert.Nil(t, report)
}

func TestRun_OpenerFailures(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"ok.dcm", "gone.dcm", "panics.dcm", "garbled.dcm"} {
		touch(t, filepath.Join(root, name))
	}
	open := func(path string) (*dicom.DataSet, error) {
		switch filepath.Base(path) {
		case "gone.dcm":
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		case "panics.dcm":
			panic("corrupt state")
		case "garbled.dcm":
			return nil, errors.New("parsing: bad magic")
		}
		return &dicom.DataSet{Elements: map[dicom.DataElementTag]*dicom.DataElement{}}, nil
	}

	report, err := NewPipeline(WithOpener(open), WithWorkers(2)).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, report.Succeeded, 1)
	assert.Equal(t, filepath.Join(root, "ok.dcm"), report.Succeeded[0].Path)
	assert.Nil(t, report.Succeeded[0].Pixels)

	ops := map[string]string{}
	for _, fe := range report.Failed {
		ops[filepath.Base(fe.Path)] = fe.Op
	}
	assert.Equal(t, map[string]string{"gone.dcm": OpOpen, "panics.dcm": OpDecode, "garbled.dcm": OpDecode}, ops)

	for _, fe := range report.Failed {
		if filepath.Base(fe.Path) == "gone.dcm" {
			assert.ErrorIs(t, fe, fs.ErrNotExist)
		}
		if filepath.Base(fe.Path) == "panics.dcm" {
			assert.ErrorContains(t, fe, "corrupt state")
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	root := writeBatch(t, 4, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	progress := newProgressLog()
	report, err := NewPipeline(WithWorkers(2), WithProgress(progress)).Run(ctx, root)
	require.NoError(t, err)

	assert.Empty(t, report.Succeeded)
	assert.Len(t, report.Failed, 4)
	for _, fe := range report.Failed {
		assert.ErrorIs(t, fe, context.Canceled)
	}
	assert.Len(t, progress.seen, 4)
}

func TestRun_WithoutPixels(t *testing.T) {
	root := writeBatch(t, 2, 0)
	attrs := []dicom.DataElementTag{dicom.PatientNameTag, dicom.RowsTag}

	report, err := NewPipeline(WithoutPixels(), WithAttributes(attrs)).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, report.Succeeded, 2)
	for _, rec := range report.Succeeded {
		assert.Nil(t, rec.Pixels)
		assert.Len(t, rec.Attributes, 2)
		name, _ := rec.Attributes["PatientName"].Text()
		assert.Equal(t, "Doe^Jane", name)
	}
}

func TestWithWorkers_Default(t *testing.T) {
	assert.Equal(t, DefaultWorkers(), NewPipeline(WithWorkers(0)).Workers())
	assert.Equal(t, DefaultWorkers(), NewPipeline(WithWorkers(-3)).Workers())
	assert.Equal(t, 5, NewPipeline(WithWorkers(5)).Workers())
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}

type recordingSink struct {
	started   int
	succeeded []string
	failed    []string
	finished  *BatchReport
	runIDs    map[string]bool
	failOn    string
	startErr  error
}

func (s *recordingSink) Start(_ context.Context, run RunInfo) error {
	s.started++
	s.runIDs = map[string]bool{run.ID.String(): true}
	return s.startErr
}

func (s *recordingSink) Succeeded(_ context.Context, runID string, rec *extract.Record) error {
	s.runIDs[runID] = true
	s.succeeded = append(s.succeeded, rec.Path)
	if s.failOn != "" && strings.HasSuffix(rec.Path, s.failOn) {
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingSink) Failed(_ context.Context, runID string, fe *FileError) error {
	s.runIDs[runID] = true
	s.failed = append(s.failed, fe.Path)
	return nil
}

func (s *recordingSink) Finish(_ context.Context, report *BatchReport) error {
	s.finished = report
	return nil
}

func TestRun_Sink(t *testing.T) {
	root := writeBatch(t, 3, 2)
	sink := &recordingSink{}

	report, err := NewPipeline(WithSink(sink), WithWorkers(4)).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, sink.started)
	assert.Len(t, sink.succeeded, 3)
	assert.Len(t, sink.failed, 2)
	assert.Same(t, report, sink.finished)
	assert.Equal(t, map[string]bool{report.ID.String(): true}, sink.runIDs)
}

func TestRun_SinkErrors(t *testing.T) {
	root := writeBatch(t, 3, 0)

	sink := &recordingSink{failOn: "slice001.dcm"}
	report, err := NewPipeline(WithSink(sink)).Run(context.Background(), root)
	assert.ErrorIs(t, err, ErrSink)
	require.NotNil(t, report)
	assert.Len(t, report.Succeeded, 3)
	assert.Len(t, sink.succeeded, 3)

	report, err = NewPipeline(WithSink(&recordingSink{startErr: errors.New("locked")})).Run(context.Background(), root)
	assert.ErrorIs(t, err, ErrSetup)
	assert.Nil(t, report)
}
