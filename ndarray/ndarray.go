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

// Package ndarray provides a minimal owned multi-dimensional numeric array: a flat row-major
// buffer plus a shape.
package ndarray

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// Number is the set of element types an Array can hold
type Number interface {
	constraints.Integer | constraints.Float
}

// Array is a row-major multi-dimensional array. The zero value is not usable; use New.
type Array[T Number] struct {
	data    []T
	shape   []int
	strides []int
}

// New returns an Array owning data with the given shape. Every dimension must be positive and
// their product must equal len(data). With no shape the array is one dimensional.
func New[T Number](data []T, shape ...int) (*Array[T], error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	n, err := product(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v holds %d elements, got %d", shape, n, len(data))
	}
	s := append([]int(nil), shape...)
	return &Array[T]{data: data, shape: s, strides: stridesOf(s)}, nil
}

func product(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("invalid shape %v: dimensions must be positive", shape)
		}
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("invalid shape %v: size overflows int", shape)
		}
		n *= d
	}
	return n, nil
}

func stridesOf(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// Shape returns a copy of the dimensions of the array
func (a *Array[T]) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Data returns the underlying row-major buffer. It is shared with the array.
func (a *Array[T]) Data() []T {
	return a.data
}

// Len returns the number of elements
func (a *Array[T]) Len() int {
	return len(a.data)
}

// NDim returns the number of dimensions
func (a *Array[T]) NDim() int {
	return len(a.shape)
}

// At returns the element at the given index. It panics if the number of indices does not match
// NDim or any index is out of range, like a slice index would.
func (a *Array[T]) At(idx ...int) T {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndarray: %d indices for %d dimensions", len(idx), len(a.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("ndarray: index %d out of range [0,%d) in dimension %d", x, a.shape[i], i))
		}
		off += x * a.strides[i]
	}
	return a.data[off]
}

// Reshape returns an array sharing the same buffer with a new shape of the same size
func (a *Array[T]) Reshape(shape ...int) (*Array[T], error) {
	return New(a.data, shape...)
}

func (a *Array[T]) String() string {
	dims := make([]string, len(a.shape))
	for i, d := range a.shape {
		dims[i] = fmt.Sprint(d)
	}
	var zero T
	return fmt.Sprintf("Array[%T](%s)", zero, strings.Join(dims, "x"))
}

// Map returns a new array of the same shape holding fn applied to every element
func Map[S, T Number](a *Array[S], fn func(S) T) *Array[T] {
	out := make([]T, len(a.data))
	for i, v := range a.data {
		out[i] = fn(v)
	}
	return &Array[T]{data: out, shape: a.Shape(), strides: append([]int(nil), a.strides...)}
}

// Convert widens or narrows every element with a Go conversion. Float to integer conversions
// truncate toward zero.
func Convert[S, T Number](a *Array[S]) *Array[T] {
	return Map(a, func(v S) T { return T(v) })
}
