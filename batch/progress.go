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
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Progress observes the completion of files. Observe is called once per finished file with done
// taking each value from 1 to total exactly once, possibly from several goroutines at a time.
type Progress interface {
	Observe(done, total int)
}

// ProgressFunc adapts a function to Progress
type ProgressFunc func(done, total int)

// Observe calls f(done, total)
func (f ProgressFunc) Observe(done, total int) {
	f(done, total)
}

type noProgress struct{}

func (noProgress) Observe(int, int) {}

// Tracker renders a progress bar for a batch with go-pretty. Call Stop once the run returns.
type Tracker struct {
	pw      progress.Writer
	message string

	once     sync.Once
	tracker  *progress.Tracker
	rendered chan struct{}
}

// NewTracker returns a Tracker writing to w. Nothing is rendered until the first file completes.
func NewTracker(w io.Writer, message string) *Tracker {
	pw := progress.NewWriter()
	pw.SetOutputWriter(w)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true
	pw.Style().Options.PercentFormat = "%4.1f%%"
	return &Tracker{pw: pw, message: message}
}

func (t *Tracker) start(total int) {
	t.tracker = &progress.Tracker{Message: t.message, Total: int64(total), Units: progress.UnitsDefault}
	t.pw.AppendTracker(t.tracker)
	t.rendered = make(chan struct{})
	go func() {
		defer close(t.rendered)
		t.pw.Render()
	}()
}

// Observe advances the bar by one file
func (t *Tracker) Observe(done, total int) {
	t.once.Do(func() { t.start(total) })
	t.tracker.Increment(1)
}

// Stop marks the bar as done and waits for the final render. The writer stops rendering by
// itself once its only tracker is done.
func (t *Tracker) Stop() {
	if t.tracker == nil {
		return
	}
	t.tracker.MarkAsDone()
	<-t.rendered
}
