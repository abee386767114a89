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
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies which payload of a Value is populated
type Kind int

// Value kinds
const (
	StringKind Kind = iota
	IntegerKind
	UnsignedKind
	FloatKind
	DateKind
	TimeKind
)

var kindNames = map[Kind]string{
	StringKind:   "string",
	IntegerKind:  "integer",
	UnsignedKind: "unsigned",
	FloatKind:    "float",
	DateKind:     "date",
	TimeKind:     "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one decoded attribute. Exactly one payload is populated, selected by Kind. Values are
// built with the constructors below and never change afterwards.
type Value struct {
	kind Kind
	text string
	i    int64
	u    uint64
	f    float64

	// t holds the date of a DateKind value and the time of day of a TimeKind value. hasTime is set
	// on DateKind values that carry a time of day as well.
	t       time.Time
	hasTime bool
}

// StringValue returns a textual Value
func StringValue(text string) Value {
	return Value{kind: StringKind, text: text}
}

// IntegerValue returns a signed integer Value
func IntegerValue(i int64) Value {
	return Value{kind: IntegerKind, i: i}
}

// UnsignedValue returns an unsigned integer Value
func UnsignedValue(u uint64) Value {
	return Value{kind: UnsignedKind, u: u}
}

// FloatValue returns a floating point Value
func FloatValue(f float64) Value {
	return Value{kind: FloatKind, f: f}
}

// DateValue returns a calendar date Value. When withTime is false the time of day of t is
// dropped and the date is held at midnight.
func DateValue(t time.Time, withTime bool) Value {
	if !withTime {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return Value{kind: DateKind, t: t, hasTime: withTime}
}

// TimeValue returns a time of day Value. Only the clock of t is kept.
func TimeValue(t time.Time) Value {
	return Value{kind: TimeKind, t: time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// Kind returns the populated variant
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the payload of a StringKind value
func (v Value) Text() (string, bool) {
	return v.text, v.kind == StringKind
}

// Int returns the payload of an IntegerKind value
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == IntegerKind
}

// Uint returns the payload of an UnsignedKind value
func (v Value) Uint() (uint64, bool) {
	return v.u, v.kind == UnsignedKind
}

// Float returns the payload of a FloatKind value
func (v Value) Float() (float64, bool) {
	return v.f, v.kind == FloatKind
}

// Time returns the payload of a DateKind or TimeKind value. For TimeKind values only the clock
// is meaningful.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == DateKind || v.kind == TimeKind
}

// HasTimeOfDay reports whether a DateKind value also carries a time of day
func (v Value) HasTimeOfDay() bool {
	return v.kind == DateKind && v.hasTime
}

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05.999999999"
	dateTimeLayout = dateLayout + " " + clockLayout
)

// String renders the value for reports and the catalog
func (v Value) String() string {
	switch v.kind {
	case IntegerKind:
		return strconv.FormatInt(v.i, 10)
	case UnsignedKind:
		return strconv.FormatUint(v.u, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case DateKind:
		if v.hasTime {
			return v.t.Format(dateTimeLayout)
		}
		return v.t.Format(dateLayout)
	case TimeKind:
		return v.t.Format(clockLayout)
	default:
		return v.text
	}
}

// Equal reports whether both values have the same kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case IntegerKind:
		return v.i == o.i
	case UnsignedKind:
		return v.u == o.u
	case FloatKind:
		return v.f == o.f
	case DateKind:
		return v.hasTime == o.hasTime && v.t.Equal(o.t)
	case TimeKind:
		return v.t.Equal(o.t)
	default:
		return v.text == o.text
	}
}

type jsonValue struct {
	Kind  string      `json:"kind"`
	Value interface{} `json:"value"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}. Numbers stay numbers, dates and
// times use the String rendering.
func (v Value) MarshalJSON() ([]byte, error) {
	out := jsonValue{Kind: v.kind.String()}
	switch v.kind {
	case IntegerKind:
		out.Value = v.i
	case UnsignedKind:
		out.Value = v.u
	case FloatKind:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			out.Value = v.String()
		} else {
			out.Value = v.f
		}
	default:
		out.Value = v.String()
	}
	return json.Marshal(out)
}
