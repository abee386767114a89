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
	"reflect"
	"strings"
	"testing"
)

func testDataSet() *DataSet {
	return &DataSet{Elements: map[DataElementTag]*DataElement{
		PatientNameTag:       {PatientNameTag, PNVR, []string{"Doe^Jane"}, 8},
		TransferSyntaxUIDTag: {TransferSyntaxUIDTag, UIVR, []string{ExplicitVRBigEndianUID}, 20},
		RowsTag:              {RowsTag, USVR, []uint16{2}, 2},
	}}
}

func TestDataSet_Element(t *testing.T) {
	ds := testDataSet()
	elem, err := ds.Element(RowsTag)
	if err != nil {
		t.Fatalf("Element(_) => %v", err)
	}
	if elem.Tag != RowsTag {
		t.Fatalf("got %v, want %v", elem.Tag, RowsTag)
	}

	_, err = ds.Element(PatientIDTag)
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("got %v, want %v", err, ErrElementNotFound)
	}
	if want := "no such data element with tag (0010,0020)"; err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestDataSet_SortedTags(t *testing.T) {
	got := testDataSet().SortedTags()
	want := []DataElementTag{TransferSyntaxUIDTag, PatientNameTag, RowsTag}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDataSet_MetaElements(t *testing.T) {
	meta := testDataSet().MetaElements()
	if got := meta.SortedTags(); !reflect.DeepEqual(got, []DataElementTag{TransferSyntaxUIDTag}) {
		t.Fatalf("got %v, want only the transfer syntax", got)
	}
}

func TestDataSet_transferSyntax(t *testing.T) {
	if got := testDataSet().transferSyntax(); got != explicitVRBigEndian {
		t.Fatalf("got %v, want %v", got, explicitVRBigEndian)
	}
	empty := &DataSet{Elements: map[DataElementTag]*DataElement{}}
	if got := empty.transferSyntax(); got != explicitVRLittleEndian {
		t.Fatalf("got %v, want %v", got, explicitVRLittleEndian)
	}
}

func TestDataSet_String(t *testing.T) {
	s := testDataSet().String()
	if !strings.Contains(s, "(0010,0010) PN #8 [Doe^Jane]") {
		t.Fatalf("unexpected data set string %q", s)
	}
}
