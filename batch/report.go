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
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/GoogleCloudPlatform/dicomscan/extract"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RunInfo describes a run before any file is processed
type RunInfo struct {
	ID              uuid.UUID
	Root            string
	Started         time.Time
	Workers         int
	TotalDiscovered int
}

// BatchReport is the outcome of a run. Every discovered file appears exactly once, either in
// Succeeded or in Failed, in completion order.
type BatchReport struct {
	RunInfo

	Succeeded []*extract.Record
	Failed    []*FileError
	Elapsed   time.Duration
}

// Render writes a summary table followed by one row per failed file, sorted by path
func (r *BatchReport) Render(w io.Writer) error {
	summary := table.NewWriter()
	summary.SetTitle("run " + r.ID.String())
	summary.AppendHeader(table.Row{"Root", "Files", "Succeeded", "Failed", "Workers", "Elapsed"})
	summary.AppendRow(table.Row{
		r.Root, r.TotalDiscovered, len(r.Succeeded), len(r.Failed), r.Workers, r.Elapsed.Round(time.Millisecond),
	})
	summary.SetStyle(table.StyleLight)
	summary.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	if _, err := fmt.Fprintln(w, summary.Render()); err != nil {
		return err
	}

	if len(r.Failed) == 0 {
		return nil
	}

	failed := append([]*FileError(nil), r.Failed...)
	sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })

	failures := table.NewWriter()
	failures.AppendHeader(table.Row{"Path", "Op", "Error"})
	for _, fe := range failed {
		failures.AppendRow(table.Row{fe.Path, fe.Op, fe.Err.Error()})
	}
	failures.SetStyle(table.StyleLight)
	failures.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Error", WidthMax: 72, WidthMaxEnforcer: text.WrapSoft},
	})
	failures.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	_, err := fmt.Fprintln(w, failures.Render())
	return err
}
