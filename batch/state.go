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
	"sync/atomic"
)

// State is the lifecycle stage of one file in a batch
type State int32

// States, in lifecycle order. Succeeded and Failed are terminal.
const (
	Discovered State = iota
	InProgress
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Discovered:
		return "discovered"
	case InProgress:
		return "in progress"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

// unit is one file moving through the pipeline
type unit struct {
	path  string
	state atomic.Int32
}

func newUnit(path string) *unit {
	return &unit{path: path}
}

func (u *unit) State() State {
	return State(u.state.Load())
}

// advance moves the unit from one state to the next. It reports false if the unit was not in from.
func (u *unit) advance(from, to State) bool {
	return u.state.CompareAndSwap(int32(from), int32(to))
}

// fail moves a non terminal unit to Failed
func (u *unit) fail() bool {
	for {
		cur := u.State()
		if cur.Terminal() {
			return false
		}
		if u.advance(cur, Failed) {
			return true
		}
	}
}
