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

	"github.com/GoogleCloudPlatform/dicomscan/extract"
)

// Sink receives the outcomes of a run in addition to the BatchReport. All calls come from a
// single goroutine: Start once before any file is processed, then one Succeeded or Failed call per
// file, then Finish with the complete report.
type Sink interface {
	Start(ctx context.Context, run RunInfo) error
	Succeeded(ctx context.Context, runID string, rec *extract.Record) error
	Failed(ctx context.Context, runID string, fe *FileError) error
	Finish(ctx context.Context, report *BatchReport) error
}
