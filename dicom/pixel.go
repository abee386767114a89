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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of sample types a SampleBuffer can hold
type Number interface {
	constraints.Integer | constraints.Float
}

// SampleBuffer holds the decoded native pixel samples of a data set in frame, row, column, sample
// order. Data is one of []uint8, []int8, []uint16, []int16, []uint32, []int32, []float32 or
// []float64 depending on BitsAllocated, PixelRepresentation and the pixel data element used.
type SampleBuffer struct {
	Frames          int
	Rows            int
	Columns         int
	SamplesPerPixel int

	// BitsAllocated and PixelRepresentation are the values declared by the image pixel module
	// http://dicom.nema.org/medical/dicom/current/output/chtml/part03/sect_C.7.6.3.html
	BitsAllocated       int
	PixelRepresentation int

	Data interface{}
}

// Shape returns the dimensions of the buffer as [frames, rows, columns, samplesPerPixel]
func (b *SampleBuffer) Shape() []int {
	return []int{b.Frames, b.Rows, b.Columns, b.SamplesPerPixel}
}

// Len returns the number of samples in the buffer
func (b *SampleBuffer) Len() int {
	return b.Frames * b.Rows * b.Columns * b.SamplesPerPixel
}

// Samples returns the samples of the buffer if they are stored as T
func Samples[T Number](buf *SampleBuffer) ([]T, error) {
	data, ok := buf.Data.([]T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("samples are %T, not []%T", buf.Data, zero)
	}
	return data, nil
}

type imagePixelModule struct {
	rows                int
	columns             int
	frames              int
	samplesPerPixel     int
	bitsAllocated       int
	pixelRepresentation int
	planarConfiguration int
}

type moduleField struct {
	tag DataElementTag
	dst *int
}

// DecodeSamples decodes the native (uncompressed) pixel data of the data set. It uses Pixel Data
// (7FE0,0010), Float Pixel Data (7FE0,0008) or Double Float Pixel Data (7FE0,0009), in that order
// of preference. ErrNoPixelData is returned when none is present and ErrUnsupportedPixelData when
// the samples are encapsulated or not byte aligned.
func DecodeSamples(ds *DataSet) (*SampleBuffer, error) {
	var elem *DataElement
	for _, tag := range []DataElementTag{PixelDataTag, FloatPixelDataTag, DoubleFloatPixelDataTag} {
		if e, err := ds.Element(tag); err == nil {
			elem = e
			break
		}
	}
	if elem == nil {
		return nil, ErrNoPixelData
	}

	module, err := readImagePixelModule(ds, elem.Tag)
	if err != nil {
		return nil, err
	}

	buf := &SampleBuffer{
		Frames:              module.frames,
		Rows:                module.rows,
		Columns:             module.columns,
		SamplesPerPixel:     module.samplesPerPixel,
		BitsAllocated:       module.bitsAllocated,
		PixelRepresentation: module.pixelRepresentation,
	}
	n, err := sampleCount(module)
	if err != nil {
		return nil, err
	}
	planar := module.planarConfiguration == 1 && module.samplesPerPixel > 1
	frameLen := module.rows * module.columns

	switch v := elem.ValueField.(type) {
	case *BulkDataBuffer:
		if v.Encapsulated() {
			return nil, fmt.Errorf("%w: encapsulated pixel data", ErrUnsupportedPixelData)
		}
		order := ds.transferSyntax().ByteOrder
		if elem.VR == OBVR {
			// OB is a stream of bytes, so the file byte order does not apply
			order = binary.LittleEndian
		}
		buf.Data, err = decodeNative(v.Bytes(), order, module, n)
		if err != nil {
			return nil, err
		}
	case []float32:
		buf.BitsAllocated = 32
		buf.Data, err = truncate(v, n)
	case []float64:
		buf.BitsAllocated = 64
		buf.Data, err = truncate(v, n)
	default:
		return nil, fmt.Errorf("%w: value of type %T", ErrUnsupportedPixelData, elem.ValueField)
	}
	if err != nil {
		return nil, err
	}

	if planar {
		buf.Data = interleaveAny(buf.Data, buf.Frames, frameLen, buf.SamplesPerPixel)
	}
	return buf, nil
}

func readImagePixelModule(ds *DataSet, pixelTag DataElementTag) (imagePixelModule, error) {
	m := imagePixelModule{frames: 1, samplesPerPixel: 1}

	required := []moduleField{{RowsTag, &m.rows}, {ColumnsTag, &m.columns}}
	if pixelTag == PixelDataTag {
		required = append(required, moduleField{BitsAllocatedTag, &m.bitsAllocated})
	}
	for _, r := range required {
		v, err := uintAttribute(ds, r.tag)
		if err != nil {
			return m, fmt.Errorf("reading %v: %w", NameOf(r.tag), err)
		}
		*r.dst = int(v)
	}

	optional := []moduleField{
		{SamplesPerPixelTag, &m.samplesPerPixel},
		{PixelRepresentationTag, &m.pixelRepresentation},
		{PlanarConfigurationTag, &m.planarConfiguration},
	}
	for _, o := range optional {
		if !ds.Has(o.tag) {
			continue
		}
		v, err := uintAttribute(ds, o.tag)
		if err != nil {
			return m, fmt.Errorf("reading %v: %w", NameOf(o.tag), err)
		}
		*o.dst = int(v)
	}

	if ds.Has(NumberOfFramesTag) {
		elem, _ := ds.Element(NumberOfFramesTag)
		frames, err := elem.IntValue(32)
		if err != nil {
			return m, fmt.Errorf("reading NumberOfFrames: %w", err)
		}
		m.frames = int(frames)
	}

	if m.rows <= 0 || m.columns <= 0 || m.frames <= 0 || m.samplesPerPixel <= 0 {
		return m, fmt.Errorf("invalid image dimensions: %d frames of %dx%d with %d samples per pixel",
			m.frames, m.rows, m.columns, m.samplesPerPixel)
	}
	return m, nil
}

// maxSamples bounds the sample count of a single data set
const maxSamples = math.MaxInt32

// sampleCount multiplies the image dimensions, failing once the product leaves maxSamples
func sampleCount(m imagePixelModule) (int, error) {
	n := int64(1)
	for _, d := range []int{m.frames, m.rows, m.columns, m.samplesPerPixel} {
		n *= int64(d)
		if n > maxSamples {
			return 0, fmt.Errorf("%w: %d frames of %dx%d with %d samples per pixel exceed %d samples",
				ErrUnsupportedPixelData, m.frames, m.rows, m.columns, m.samplesPerPixel, maxSamples)
		}
	}
	return int(n), nil
}

func uintAttribute(ds *DataSet, tag DataElementTag) (uint64, error) {
	elem, err := ds.Element(tag)
	if err != nil {
		return 0, err
	}
	return elem.UintValue(16)
}

func decodeNative(raw []byte, order binary.ByteOrder, m imagePixelModule, n int) (interface{}, error) {
	if m.bitsAllocated != 8 && m.bitsAllocated != 16 && m.bitsAllocated != 32 {
		return nil, fmt.Errorf("%w: %d bits allocated", ErrUnsupportedPixelData, m.bitsAllocated)
	}
	want := int64(n) * int64(m.bitsAllocated/8)
	if int64(len(raw)) < want {
		return nil, fmt.Errorf("pixel data too short: got %d bytes, want %d", len(raw), want)
	}

	signed := m.pixelRepresentation == 1
	var data interface{}
	switch {
	case m.bitsAllocated == 8 && signed:
		data = make([]int8, n)
	case m.bitsAllocated == 8:
		data = make([]uint8, n)
	case m.bitsAllocated == 16 && signed:
		data = make([]int16, n)
	case m.bitsAllocated == 16:
		data = make([]uint16, n)
	case signed:
		data = make([]int32, n)
	default:
		data = make([]uint32, n)
	}

	// trailing bytes are padding to an even length
	if err := binary.Read(bytes.NewReader(raw[:want]), order, data); err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return data, nil
}

func truncate[T Number](samples []T, n int) ([]T, error) {
	if len(samples) < n {
		return nil, fmt.Errorf("pixel data too short: got %d samples, want %d", len(samples), n)
	}
	return samples[:n], nil
}

// interleaveAny converts color-by-plane samples to color-by-pixel order
func interleaveAny(data interface{}, frames, frameLen, spp int) interface{} {
	switch v := data.(type) {
	case []int8:
		return interleave(v, frames, frameLen, spp)
	case []uint8:
		return interleave(v, frames, frameLen, spp)
	case []int16:
		return interleave(v, frames, frameLen, spp)
	case []uint16:
		return interleave(v, frames, frameLen, spp)
	case []int32:
		return interleave(v, frames, frameLen, spp)
	case []uint32:
		return interleave(v, frames, frameLen, spp)
	case []float32:
		return interleave(v, frames, frameLen, spp)
	case []float64:
		return interleave(v, frames, frameLen, spp)
	}
	return data
}

func interleave[T Number](planes []T, frames, frameLen, spp int) []T {
	out := make([]T, len(planes))
	for f := 0; f < frames; f++ {
		base := f * frameLen * spp
		for s := 0; s < spp; s++ {
			for p := 0; p < frameLen; p++ {
				out[base+p*spp+s] = planes[base+s*frameLen+p]
			}
		}
	}
	return out
}
