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
	"testing"
)

func TestDataElement_Text(t *testing.T) {
	tests := []struct {
		name    string
		elem    *DataElement
		want    string
		wantErr bool
	}{
		{"strings are joined", &DataElement{ImageTypeTag, CSVR, []string{"ORIGINAL", "PRIMARY"}, 16}, "ORIGINAL\\PRIMARY", false},
		{"empty strings", &DataElement{PatientIDTag, LOVR, []string{}, 0}, "", false},
		{"unsigned shorts", &DataElement{RowsTag, USVR, []uint16{512, 3}, 4}, "512\\3", false},
		{"signed shorts", &DataElement{0, SSVR, []int16{-4}, 2}, "-4", false},
		{"doubles", &DataElement{0, FDVR, []float64{1.25}, 8}, "1.25", false},
		{"floats", &DataElement{0, FLVR, []float32{0.5}, 4}, "0.5", false},
		{"attribute tags", &DataElement{0, ATVR, []uint32{uint32(PatientNameTag)}, 4}, "(0010,0010)", false},
		{"bulk data has no text", &DataElement{PixelDataTag, OWVR, NewBulkDataBuffer([]byte{1, 2}), 2}, "", true},
		{"sequences have no text", &DataElement{ReferencedImageSequenceTag, SQVR, &Sequence{}, 0}, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.elem.Text()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Text() => %v, want error %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDataElement_StringValue(t *testing.T) {
	elem := &DataElement{PatientNameTag, PNVR, []string{"Doe^John", "Doe^J"}, 14}
	got, err := elem.StringValue()
	if err != nil {
		t.Fatalf("StringValue() => %v", err)
	}
	if got != "Doe^John" {
		t.Fatalf("got %v, want %v", got, "Doe^John")
	}

	empty := &DataElement{PatientNameTag, PNVR, []string{}, 0}
	if _, err := empty.StringValue(); !errors.Is(err, errEmptyValue) {
		t.Fatalf("got %v, want %v", err, errEmptyValue)
	}

	binary := &DataElement{RowsTag, USVR, []uint16{1}, 2}
	if _, err := binary.StringValue(); err == nil {
		t.Fatalf("expected error for non text value")
	}
}

func TestDataElement_IntValue(t *testing.T) {
	tests := []struct {
		name    string
		elem    *DataElement
		bitSize int
		want    int64
		wantErr bool
	}{
		{"integer string", &DataElement{InstanceNumberTag, ISVR, []string{" 42"}, 4}, 32, 42, false},
		{"negative integer string", &DataElement{InstanceNumberTag, ISVR, []string{"-7"}, 2}, 32, -7, false},
		{"integer string overflow", &DataElement{InstanceNumberTag, ISVR, []string{"2147483648"}, 10}, 32, 0, true},
		{"malformed integer string", &DataElement{InstanceNumberTag, ISVR, []string{"4x"}, 2}, 32, 0, true},
		{"signed short", &DataElement{0, SSVR, []int16{-3}, 2}, 16, -3, false},
		{"unsigned long out of range", &DataElement{0, ULVR, []uint32{70000}, 4}, 16, 0, true},
		{"empty value", &DataElement{InstanceNumberTag, ISVR, []string{}, 0}, 32, 0, true},
		{"float value", &DataElement{0, FDVR, []float64{1}, 8}, 32, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.elem.IntValue(tc.bitSize)
			if (err != nil) != tc.wantErr {
				t.Fatalf("IntValue(%d) => %v, want error %v", tc.bitSize, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDataElement_UintValue(t *testing.T) {
	tests := []struct {
		name    string
		elem    *DataElement
		bitSize int
		want    uint64
		wantErr bool
	}{
		{"unsigned short", &DataElement{RowsTag, USVR, []uint16{65535}, 2}, 16, 65535, false},
		{"unsigned long", &DataElement{0, ULVR, []uint32{4294967295}, 4}, 32, 4294967295, false},
		{"unsigned long into 16 bits", &DataElement{0, ULVR, []uint32{65536}, 4}, 16, 0, true},
		{"negative signed short", &DataElement{0, SSVR, []int16{-1}, 2}, 16, 0, true},
		{"string", &DataElement{0, ISVR, []string{"12"}, 2}, 16, 12, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.elem.UintValue(tc.bitSize)
			if (err != nil) != tc.wantErr {
				t.Fatalf("UintValue(%d) => %v, want error %v", tc.bitSize, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDataElement_FloatValue(t *testing.T) {
	tests := []struct {
		name    string
		elem    *DataElement
		want    float64
		wantErr bool
	}{
		{"decimal string", &DataElement{SliceThicknessTag, DSVR, []string{"2.5 "}, 4}, 2.5, false},
		{"decimal string exponent", &DataElement{SliceThicknessTag, DSVR, []string{"1e-3"}, 4}, 0.001, false},
		{"decimal string NaN", &DataElement{SliceThicknessTag, DSVR, []string{"NaN"}, 4}, 0, true},
		{"malformed decimal string", &DataElement{SliceThicknessTag, DSVR, []string{"abc"}, 4}, 0, true},
		{"float", &DataElement{0, FLVR, []float32{0.5}, 4}, 0.5, false},
		{"double", &DataElement{0, FDVR, []float64{-1.75}, 8}, -1.75, false},
		{"unsigned short", &DataElement{0, USVR, []uint16{3}, 2}, 3, false},
		{"bulk data", &DataElement{PixelDataTag, OWVR, NewBulkDataBuffer(nil), 0}, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.elem.FloatValue()
			if (err != nil) != tc.wantErr {
				t.Fatalf("FloatValue() => %v, want error %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
