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
	"errors"
	"reflect"
	"testing"
)

func imageDataSet(rows, columns uint16, bitsAllocated uint16, pixelRepresentation uint16, extra ...*DataElement) *DataSet {
	ds := &DataSet{Elements: map[DataElementTag]*DataElement{
		RowsTag:                {RowsTag, USVR, []uint16{rows}, 2},
		ColumnsTag:             {ColumnsTag, USVR, []uint16{columns}, 2},
		BitsAllocatedTag:       {BitsAllocatedTag, USVR, []uint16{bitsAllocated}, 2},
		PixelRepresentationTag: {PixelRepresentationTag, USVR, []uint16{pixelRepresentation}, 2},
	}}
	for _, e := range extra {
		ds.Elements[e.Tag] = e
	}
	return ds
}

func pixelData(order binary.ByteOrder, samples interface{}) *DataElement {
	var buf bytes.Buffer
	binary.Write(&buf, order, samples)
	return &DataElement{PixelDataTag, OWVR, NewBulkDataBuffer(buf.Bytes()), uint32(buf.Len())}
}

func TestDecodeSamples(t *testing.T) {
	tests := []struct {
		name      string
		ds        *DataSet
		wantShape []int
		want      interface{}
	}{
		{
			"unsigned 16 bit",
			imageDataSet(2, 2, 16, 0, pixelData(binary.LittleEndian, []uint16{0, 1, 4095, 65535})),
			[]int{1, 2, 2, 1},
			[]uint16{0, 1, 4095, 65535},
		},
		{
			"signed 16 bit",
			imageDataSet(1, 2, 16, 1, pixelData(binary.LittleEndian, []int16{-1024, 3071})),
			[]int{1, 1, 2, 1},
			[]int16{-1024, 3071},
		},
		{
			"big endian transfer syntax",
			imageDataSet(1, 2, 16, 0,
				&DataElement{TransferSyntaxUIDTag, UIVR, []string{ExplicitVRBigEndianUID}, 20},
				pixelData(binary.BigEndian, []uint16{258, 7})),
			[]int{1, 1, 2, 1},
			[]uint16{258, 7},
		},
		{
			"unsigned 8 bit with padding byte",
			imageDataSet(1, 3, 8, 0, &DataElement{PixelDataTag, OBVR, NewBulkDataBuffer([]byte{1, 2, 3, 0}), 4}),
			[]int{1, 1, 3, 1},
			[]uint8{1, 2, 3},
		},
		{
			"signed 32 bit",
			imageDataSet(1, 1, 32, 1, pixelData(binary.LittleEndian, []int32{-70000})),
			[]int{1, 1, 1, 1},
			[]int32{-70000},
		},
		{
			"multi-frame",
			imageDataSet(1, 2, 16, 0,
				&DataElement{NumberOfFramesTag, ISVR, []string{"2"}, 2},
				pixelData(binary.LittleEndian, []uint16{1, 2, 3, 4})),
			[]int{2, 1, 2, 1},
			[]uint16{1, 2, 3, 4},
		},
		{
			"color by plane is interleaved",
			imageDataSet(1, 2, 8, 0,
				&DataElement{SamplesPerPixelTag, USVR, []uint16{3}, 2},
				&DataElement{PlanarConfigurationTag, USVR, []uint16{1}, 2},
				&DataElement{PixelDataTag, OBVR, NewBulkDataBuffer([]byte{10, 11, 20, 21, 30, 31}), 6}),
			[]int{1, 1, 2, 3},
			[]uint8{10, 20, 30, 11, 21, 31},
		},
		{
			"float pixel data",
			&DataSet{Elements: map[DataElementTag]*DataElement{
				RowsTag:           {RowsTag, USVR, []uint16{1}, 2},
				ColumnsTag:        {ColumnsTag, USVR, []uint16{2}, 2},
				FloatPixelDataTag: {FloatPixelDataTag, OFVR, []float32{0.5, -2}, 8},
			}},
			[]int{1, 1, 2, 1},
			[]float32{0.5, -2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := DecodeSamples(tc.ds)
			if err != nil {
				t.Fatalf("DecodeSamples(_) => %v", err)
			}
			if !reflect.DeepEqual(buf.Shape(), tc.wantShape) {
				t.Fatalf("got shape %v, want %v", buf.Shape(), tc.wantShape)
			}
			if !reflect.DeepEqual(buf.Data, tc.want) {
				t.Fatalf("got %v, want %v", buf.Data, tc.want)
			}
		})
	}
}

func TestDecodeSamples_errors(t *testing.T) {
	tests := []struct {
		name string
		ds   *DataSet
		want error
	}{
		{
			"no pixel data",
			imageDataSet(1, 1, 16, 0),
			ErrNoPixelData,
		},
		{
			"encapsulated pixel data",
			imageDataSet(1, 1, 8, 0, &DataElement{PixelDataTag, OBVR, NewEncapsulatedBulkDataBuffer(nil, []byte{0xFF, 0xD8}), UndefinedLength}),
			ErrUnsupportedPixelData,
		},
		{
			"bit packed samples",
			imageDataSet(1, 8, 1, 0, &DataElement{PixelDataTag, OBVR, NewBulkDataBuffer([]byte{0xFF, 0x00}), 2}),
			ErrUnsupportedPixelData,
		},
		{
			"dimensions overflow the sample count",
			imageDataSet(65535, 65535, 16, 0,
				&DataElement{SamplesPerPixelTag, USVR, []uint16{65535}, 2},
				&DataElement{NumberOfFramesTag, ISVR, []string{"39596"}, 6},
				pixelData(binary.LittleEndian, []uint16{1, 2})),
			ErrUnsupportedPixelData,
		},
		{
			"missing rows",
			&DataSet{Elements: map[DataElementTag]*DataElement{
				ColumnsTag:       {ColumnsTag, USVR, []uint16{1}, 2},
				BitsAllocatedTag: {BitsAllocatedTag, USVR, []uint16{8}, 2},
				PixelDataTag:     {PixelDataTag, OBVR, NewBulkDataBuffer([]byte{1, 0}), 2},
			}},
			ErrElementNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeSamples(tc.ds); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeSamples_tooShort(t *testing.T) {
	ds := imageDataSet(2, 2, 16, 0, pixelData(binary.LittleEndian, []uint16{1, 2, 3}))
	if _, err := DecodeSamples(ds); err == nil {
		t.Fatalf("expected error for pixel data shorter than rows*columns")
	}
}

func TestSamples(t *testing.T) {
	buf := &SampleBuffer{Frames: 1, Rows: 1, Columns: 2, SamplesPerPixel: 1, Data: []uint16{1, 2}}
	got, err := Samples[uint16](buf)
	if err != nil {
		t.Fatalf("Samples[uint16](_) => %v", err)
	}
	if !reflect.DeepEqual(got, []uint16{1, 2}) {
		t.Fatalf("got %v, want %v", got, []uint16{1, 2})
	}
	if _, err := Samples[int16](buf); err == nil {
		t.Fatalf("expected error for mismatched sample type")
	}
}
