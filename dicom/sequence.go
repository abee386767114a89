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
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Sequence models a DICOM sequence
type Sequence struct {
	Items []*DataSet
}

func (seq *Sequence) String() string {
	return seq.string(0)
}

func (seq *Sequence) string(indentLvl int) string {
	var b strings.Builder
	for _, item := range seq.Items {
		b.WriteString("\n")
		b.WriteString(item.string(indentLvl + 1))
	}
	return b.String()
}

func (seq *Sequence) append(dataSet *DataSet) {
	seq.Items = append(seq.Items, dataSet)
}

// SequenceIterator is an iterator over a DICOM Sequence of Items in the order in which they appear
// in the DICOM file.
type SequenceIterator interface {
	// Next returns the next item in the DICOM Sequence of Items. If there is no next item, the error
	// io.EOF is returned. In addition, any previously returned iterators from Next are emptied.
	Next() (DataElementIterator, error)

	// Close discards all remaining items in the iterator. In addition, any previously returned
	// iterators from calls to Next are emptied.
	Close() error
}

// itemIterator walks the items of a sequence. A sequence of explicit length reads from a reader
// limited to that length and ends at its EOF. A sequence of undefined length ends at the sequence
// delimitation item.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type itemIterator struct {
	dr      *dcmReader
	meta    dicomMetaData
	bounded bool
	current DataElementIterator
	done    bool
}

func newSequenceIterator(dr *dcmReader, length uint32, meta dicomMetaData) (SequenceIterator, error) {
	if length == UndefinedLength {
		return &itemIterator{dr: dr, meta: meta}, nil
	}
	return &itemIterator{dr: dr.Limit(int64(length)), meta: meta, bounded: true}, nil
}

func (it *itemIterator) Next() (DataElementIterator, error) {
	if it.done {
		return nil, io.EOF
	}
	if it.current != nil {
		if err := it.current.Close(); err != nil {
			return nil, err
		}
		it.current = nil
	}

	tag, err := readItemTag(it.dr, it.meta.syntax.ByteOrder)
	switch {
	case err == io.EOF && it.bounded:
		it.done = true
		return nil, io.EOF
	case err == io.EOF:
		return nil, fmt.Errorf("sequence of undefined length ended without a delimitation item")
	case err != nil:
		return nil, err
	case tag == SequenceDelimitationItemTag && it.bounded:
		return nil, fmt.Errorf("sequence delimitation item in a sequence of explicit length")
	case tag == SequenceDelimitationItemTag:
		return nil, it.finish()
	}

	it.current, err = openItem(it.dr, it.meta)
	return it.current, err
}

// finish consumes the zero length of the sequence delimitation item. Marking the iterator done
// keeps later calls to Next from reading past the sequence.
func (it *itemIterator) finish() error {
	length, err := it.dr.UInt32(it.meta.syntax.ByteOrder)
	if err != nil {
		return fmt.Errorf("reading length of sequence delimitation item: %v", err)
	}
	if length != 0 {
		return fmt.Errorf("sequence delimitation item length: got %d, want 0", length)
	}
	it.done = true
	return io.EOF
}

func (it *itemIterator) Close() error {
	for {
		if _, err := it.Next(); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// readItemTag reads the tag opening an item, which must be an item or a sequence delimiter
func readItemTag(dr *dcmReader, order binary.ByteOrder) (DataElementTag, error) {
	tag, err := dr.Tag(order)
	if err == io.EOF {
		return tag, io.EOF
	}
	if err != nil {
		return tag, fmt.Errorf("reading item tag: %v", err)
	}
	if tag != ItemTag && tag != SequenceDelimitationItemTag {
		return tag, fmt.Errorf("invalid item tag in sequence: got %v, want %v or %v",
			tag, ItemTag, SequenceDelimitationItemTag)
	}
	return tag, nil
}

// openItem reads the item length and returns an iterator over the item's data elements
func openItem(dr *dcmReader, meta dicomMetaData) (DataElementIterator, error) {
	length, err := dr.UInt32(meta.syntax.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("reading item length: %v", err)
	}
	if length == UndefinedLength {
		return newDataElementIterator(dr, meta, length), nil
	}
	return newDataElementIterator(dr.Limit(int64(length)), meta, length), nil
}
