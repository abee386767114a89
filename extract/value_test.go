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

package extract

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Accessors(t *testing.T) {
	i, ok := IntegerValue(-3).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(-3), i)

	_, ok = IntegerValue(-3).Uint()
	assert.False(t, ok)

	u, ok := UnsignedValue(9).Uint()
	assert.True(t, ok)
	assert.Equal(t, uint64(9), u)

	f, ok := FloatValue(1.5).Float()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	_, ok = StringValue("x").Time()
	assert.False(t, ok)

	d, ok := DateValue(time.Date(2020, 2, 29, 13, 0, 0, 0, time.UTC), false).Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), d)
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{StringValue("Doe^Jane"), "Doe^Jane"},
		{IntegerValue(-12), "-12"},
		{UnsignedValue(4095), "4095"},
		{FloatValue(2.5), "2.5"},
		{DateValue(time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), false), "2023-04-15"},
		{DateValue(time.Date(2023, 4, 15, 14, 30, 0, 0, time.UTC), true), "2023-04-15 14:30:00"},
		{DateValue(time.Date(2023, 4, 15, 14, 30, 0, 120000000, time.UTC), true), "2023-04-15 14:30:00.12"},
		{TimeValue(clock(14, 30, 0, 500000000)), "14:30:00.5"},
		{TimeValue(clock(8, 5, 9, 0)), "08:05:09"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.v.String())
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, UnsignedValue(1).Equal(UnsignedValue(1)))
	assert.False(t, UnsignedValue(1).Equal(IntegerValue(1)))
	assert.False(t, StringValue("1").Equal(IntegerValue(1)))

	day := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, DateValue(day, false).Equal(DateValue(day, true)))
}

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{StringValue("CT"), `{"kind":"string","value":"CT"}`},
		{IntegerValue(-1), `{"kind":"integer","value":-1}`},
		{UnsignedValue(512), `{"kind":"unsigned","value":512}`},
		{FloatValue(0.5), `{"kind":"float","value":0.5}`},
		{FloatValue(math.Inf(1)), `{"kind":"float","value":"+Inf"}`},
		{DateValue(time.Date(2019, 3, 14, 0, 0, 0, 0, time.UTC), false), `{"kind":"date","value":"2019-03-14"}`},
		{TimeValue(clock(10, 15, 30, 0)), `{"kind":"time","value":"10:15:30"}`},
	}
	for _, tc := range tests {
		got, err := json.Marshal(tc.v)
		require.NoError(t, err)
		assert.JSONEq(t, tc.want, string(got))
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unsigned", UnsignedKind.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
