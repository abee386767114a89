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
	"fmt"
	"sort"
	"strings"
)

// DataElement models a DICOM Data Element as defined in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataElement struct {
	Tag DataElementTag

	// Value Representation
	VR *VR

	// ValueField represents the field within a Data Element that contains its value(s)
	// After Parse it is one of the following types:
	// []string,
	// []int16,
	// []uint16,
	// []int32,
	// []uint32,
	// []float32,
	// []float64,
	// *BulkDataBuffer
	// *Sequence
	// While streaming from a DataElementIterator it may also be a BulkDataIterator or a
	// SequenceIterator.
	ValueField interface{}

	// ValueLength is equal to the length of the ValueField in bytes.
	// Can be equal to 0xFFFFFFFF to represent an undefined length:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
	ValueLength uint32
}

func (e *DataElement) String() string {
	return e.string(0)
}

func (e *DataElement) string(indentLvl int) string {
	prefix := strings.Repeat(">", indentLvl)
	header := fmt.Sprintf("%s%v %v #%d", prefix, e.Tag, e.VR, e.ValueLength)
	if seq, ok := e.ValueField.(*Sequence); ok {
		return header + " " + seq.string(indentLvl)
	}
	return fmt.Sprintf("%s %v", header, e.ValueField)
}

// DataSet models a DICOM Data Set as defined
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataSet struct {
	// Elements is a map of DataElement tags to *DataElement
	Elements map[DataElementTag]*DataElement

	// Length is the number of bytes the data set occupies in the file, or UndefinedLength
	Length uint32
}

// Element returns the DataElement with the given tag. If the data set does not contain the tag,
// the returned error wraps ErrElementNotFound.
func (ds *DataSet) Element(tag DataElementTag) (*DataElement, error) {
	if elem, ok := ds.Elements[tag]; ok && elem != nil {
		return elem, nil
	}
	return nil, fmt.Errorf("%w with tag %v", ErrElementNotFound, tag)
}

// Has reports whether the data set contains the tag
func (ds *DataSet) Has(tag DataElementTag) bool {
	_, ok := ds.Elements[tag]
	return ok
}

// SortedTags returns the tags of the data set in ascending order
func (ds *DataSet) SortedTags() []DataElementTag {
	tags := make([]DataElementTag, 0, len(ds.Elements))
	for tag := range ds.Elements {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// SortedElements returns the elements of the data set in ascending tag order
func (ds *DataSet) SortedElements() []*DataElement {
	elems := make([]*DataElement, 0, len(ds.Elements))
	for _, tag := range ds.SortedTags() {
		elems = append(elems, ds.Elements[tag])
	}
	return elems
}

// MetaElements returns a DataSet containing only the file meta elements (0002,xxxx)
func (ds *DataSet) MetaElements() *DataSet {
	meta := &DataSet{Elements: map[DataElementTag]*DataElement{}}
	for tag, elem := range ds.Elements {
		if tag.IsMetaElement() {
			meta.Elements[tag] = elem
		}
	}
	return meta
}

func (ds *DataSet) transferSyntax() transferSyntax {
	elem, err := ds.Element(TransferSyntaxUIDTag)
	if err != nil {
		return explicitVRLittleEndian
	}
	uid, err := elem.StringValue()
	if err != nil {
		return explicitVRLittleEndian
	}
	return lookupTransferSyntax(uid)
}

func (ds *DataSet) String() string {
	return ds.string(0)
}

func (ds *DataSet) string(indentLvl int) string {
	lines := make([]string, 0, len(ds.Elements))
	for _, elem := range ds.SortedElements() {
		lines = append(lines, elem.string(indentLvl))
	}
	return strings.Join(lines, "\n")
}
