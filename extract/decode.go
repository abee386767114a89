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
	"fmt"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
)

// Sentinel texts substituted for attributes that cannot be decoded
const (
	ParseErrorText  = "<parse error>"
	UnsupportedText = "<binary/unsupported>"
)

// vrClass groups VR codes that share a decoding policy
type vrClass int

const (
	otherClass vrClass = iota
	textClass
	dateClass
	timeClass
	dateTimeClass
	unsignedShortClass
	unsignedLongClass
	integerStringClass
	floatClass
)

var vrClasses = map[string]vrClass{
	"PN": textClass,
	"LO": textClass,
	"SH": textClass,
	"CS": textClass,
	"UI": textClass,
	"DA": dateClass,
	"TM": timeClass,
	"DT": dateTimeClass,
	"US": unsignedShortClass,
	"UL": unsignedLongClass,
	"IS": integerStringClass,
	"DS": floatClass,
	"FL": floatClass,
	"FD": floatClass,
}

func classOf(vr *dicom.VR) vrClass {
	if vr == nil {
		return otherClass
	}
	return vrClasses[vr.Name]
}

// layout is a fixed width time format. Go accepts fractional seconds the layout does not ask
// for, so the width is checked before parsing.
type layout struct {
	format string
	width  int
}

var dateLayouts = []layout{{"20060102", 8}}

var timeLayouts = []layout{
	{"150405", 6},
	{"150405.0", 8},
	{"150405.000", 10},
	{"150405.000000", 13},
}

var dateTimeLayouts = []layout{
	{"20060102150405", 14},
	{"20060102150405.0", 16},
	{"20060102150405.00", 17},
	{"20060102150405.000", 18},
	{"20060102150405.0000", 19},
	{"20060102150405.00000", 20},
	{"20060102150405.000000", 21},
}

// firstMatch returns the result of the first layout that parses s
func firstMatch(s string, layouts []layout) (time.Time, bool) {
	for _, l := range layouts {
		if len(s) != l.width {
			continue
		}
		if t, err := time.Parse(l.format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Decode converts a data element into a Value according to its VR. It never fails: attributes
// that cannot be converted become a StringValue holding the raw text or a sentinel.
func Decode(elem *dicom.DataElement) (v Value) {
	defer func() {
		if r := recover(); r != nil {
			v = StringValue(ParseErrorText)
		}
	}()

	switch classOf(elem.VR) {
	case textClass:
		text, err := elem.Text()
		if err != nil {
			return StringValue(ParseErrorText)
		}
		return StringValue(text)
	case dateClass:
		return decodeTemporal(elem, dateLayouts, func(t time.Time) Value { return DateValue(t, false) })
	case timeClass:
		return decodeTemporal(elem, timeLayouts, TimeValue)
	case dateTimeClass:
		return decodeTemporal(elem, dateTimeLayouts, func(t time.Time) Value { return DateValue(t, true) })
	case unsignedShortClass:
		return decodeUnsigned(elem, 16)
	case unsignedLongClass:
		return decodeUnsigned(elem, 32)
	case integerStringClass:
		i, err := elem.IntValue(32)
		if err != nil {
			return StringValue(ParseErrorText)
		}
		return IntegerValue(i)
	case floatClass:
		f, err := elem.FloatValue()
		if err != nil {
			return StringValue(ParseErrorText)
		}
		return FloatValue(f)
	default:
		text, err := elem.Text()
		if err != nil {
			return StringValue(UnsupportedText)
		}
		return StringValue(text)
	}
}

func decodeTemporal(elem *dicom.DataElement, layouts []layout, build func(time.Time) Value) Value {
	raw, err := elem.Text()
	if err != nil {
		return StringValue(ParseErrorText)
	}
	if t, ok := firstMatch(strings.TrimSpace(raw), layouts); ok {
		return build(t)
	}
	return StringValue(raw)
}

func decodeUnsigned(elem *dicom.DataElement, bitSize int) Value {
	u, err := elem.UintValue(bitSize)
	if err != nil {
		return StringValue(ParseErrorText)
	}
	return UnsignedValue(u)
}

// DecodeAttribute decodes the element with the given tag. A missing element yields a StringValue
// describing the absence.
func DecodeAttribute(ds *dicom.DataSet, tag dicom.DataElementTag) Value {
	elem, err := ds.Element(tag)
	if err != nil {
		return StringValue(fmt.Sprintf("no such data element with tag %v", tag))
	}
	return Decode(elem)
}
