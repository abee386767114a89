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

package dicom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

var errEmptyValue = errors.New("value field is empty")

// StringValue returns the first value of a textual DataElement
func (e *DataElement) StringValue() (string, error) {
	strs, ok := e.ValueField.([]string)
	if !ok {
		return "", fmt.Errorf("wrong type for string value: got %T, want []string", e.ValueField)
	}
	return first(strs)
}

// Text returns all values of the DataElement rendered as text and joined by the DICOM value
// delimiter "\". Binary numbers are formatted in decimal. Bulk data and sequences have no text
// representation and return an error.
func (e *DataElement) Text() (string, error) {
	switch v := e.ValueField.(type) {
	case []string:
		return strings.Join(v, "\\"), nil
	case []int16:
		return joinNumbers(v, func(n int16) string { return strconv.FormatInt(int64(n), 10) }), nil
	case []uint16:
		return joinNumbers(v, func(n uint16) string { return strconv.FormatUint(uint64(n), 10) }), nil
	case []int32:
		return joinNumbers(v, func(n int32) string { return strconv.FormatInt(int64(n), 10) }), nil
	case []uint32:
		if e.VR == ATVR {
			return joinNumbers(v, func(n uint32) string { return DataElementTag(n).String() }), nil
		}
		return joinNumbers(v, func(n uint32) string { return strconv.FormatUint(uint64(n), 10) }), nil
	case []float32:
		return joinNumbers(v, func(n float32) string { return strconv.FormatFloat(float64(n), 'g', -1, 32) }), nil
	case []float64:
		return joinNumbers(v, func(n float64) string { return strconv.FormatFloat(n, 'g', -1, 64) }), nil
	default:
		return "", fmt.Errorf("value of type %T has no text representation", e.ValueField)
	}
}

// IntValue returns the first value of the DataElement as a signed integer that fits in bitSize
// bits. Integer strings (IS) are parsed; binary integers are range checked.
func (e *DataElement) IntValue(bitSize int) (int64, error) {
	var v int64
	var err error
	switch field := e.ValueField.(type) {
	case []string:
		s, ferr := first(field)
		if ferr != nil {
			return 0, ferr
		}
		return strconv.ParseInt(strings.TrimSpace(s), 10, bitSize)
	case []int16:
		v, err = firstAsInt64(field)
	case []int32:
		v, err = firstAsInt64(field)
	case []uint16:
		v, err = firstAsInt64(field)
	case []uint32:
		v, err = firstAsInt64(field)
	default:
		return 0, fmt.Errorf("wrong type for integer value: %T", e.ValueField)
	}
	if err != nil {
		return 0, err
	}
	if bitSize < 64 && (v < -(1<<(bitSize-1)) || v > 1<<(bitSize-1)-1) {
		return 0, fmt.Errorf("value %d overflows %d-bit signed integer", v, bitSize)
	}
	return v, nil
}

// UintValue returns the first value of the DataElement as an unsigned integer that fits in
// bitSize bits.
func (e *DataElement) UintValue(bitSize int) (uint64, error) {
	var v int64
	var err error
	switch field := e.ValueField.(type) {
	case []string:
		s, ferr := first(field)
		if ferr != nil {
			return 0, ferr
		}
		return strconv.ParseUint(strings.TrimSpace(s), 10, bitSize)
	case []uint16:
		v, err = firstAsInt64(field)
	case []uint32:
		v, err = firstAsInt64(field)
	case []int16:
		v, err = firstAsInt64(field)
	case []int32:
		v, err = firstAsInt64(field)
	default:
		return 0, fmt.Errorf("wrong type for unsigned integer value: %T", e.ValueField)
	}
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d for unsigned integer", v)
	}
	if bitSize < 64 && uint64(v) > 1<<bitSize-1 {
		return 0, fmt.Errorf("value %d overflows %d-bit unsigned integer", v, bitSize)
	}
	return uint64(v), nil
}

// FloatValue returns the first value of the DataElement as a float64. Decimal strings (DS) are
// parsed.
func (e *DataElement) FloatValue() (float64, error) {
	switch field := e.ValueField.(type) {
	case []string:
		s, err := first(field)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("decimal string %q is not finite", s)
		}
		return f, nil
	case []float32:
		f, err := first(field)
		return float64(f), err
	case []float64:
		return first(field)
	case []int16:
		i, err := firstAsInt64(field)
		return float64(i), err
	case []uint16:
		i, err := firstAsInt64(field)
		return float64(i), err
	case []int32:
		i, err := firstAsInt64(field)
		return float64(i), err
	case []uint32:
		i, err := firstAsInt64(field)
		return float64(i), err
	default:
		return 0, fmt.Errorf("wrong type for float value: %T", e.ValueField)
	}
}

func first[T any](values []T) (T, error) {
	var zero T
	if len(values) == 0 {
		return zero, errEmptyValue
	}
	return values[0], nil
}

// firstAsInt64 only accepts integer types of at most 32 bits so the conversion is exact
func firstAsInt64[T int16 | uint16 | int32 | uint32](values []T) (int64, error) {
	v, err := first(values)
	return int64(v), err
}

func joinNumbers[T constraints.Integer | constraints.Float](values []T, format func(T) string) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = format(v)
	}
	return strings.Join(strs, "\\")
}
