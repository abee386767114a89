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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnit_Transitions(t *testing.T) {
	u := newUnit("a.dcm")
	assert.Equal(t, Discovered, u.State())

	assert.False(t, u.advance(InProgress, Succeeded))
	assert.True(t, u.advance(Discovered, InProgress))
	assert.True(t, u.advance(InProgress, Succeeded))
	assert.True(t, u.State().Terminal())

	assert.False(t, u.fail(), "terminal units cannot fail")
	assert.Equal(t, Succeeded, u.State())
}

func TestUnit_Fail(t *testing.T) {
	u := newUnit("a.dcm")
	assert.True(t, u.fail())
	assert.Equal(t, Failed, u.State())
	assert.False(t, u.advance(Discovered, InProgress))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "discovered", Discovered.String())
	assert.Equal(t, "in progress", InProgress.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
