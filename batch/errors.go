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
	"errors"
	"fmt"
)

var (
	// ErrSetup is returned by Run when the batch cannot start: the root is missing or not a
	// directory, or the sink cannot be opened
	ErrSetup = errors.New("batch setup failed")

	// ErrSink is returned by Run, together with a complete report, when forwarding outcomes to the
	// sink failed
	ErrSink = errors.New("writing to sink failed")
)

// Operations recorded in FileError.Op
const (
	OpOpen   = "open"
	OpDecode = "decode"
)

// FileError is the failure of a single file. The batch continues past it.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
