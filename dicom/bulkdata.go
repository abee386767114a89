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
	"io"
)

// BulkDataReader represents a streamable contiguous sequence of bytes within a file
type BulkDataReader struct {
	io.Reader

	// Offset is the number of bytes in the file preceding the bulk data described
	// by the BulkDataReader
	Offset int64
}

// Close discards all bytes in the reader
func (r *BulkDataReader) Close() error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// BulkDataIterator represents a sequence of BulkDataReaders.
type BulkDataIterator interface {
	// Next returns the next BulkDataReader in the iterator and discards all bytes from all previous
	// BulkDataReaders returned from Next. If there are no remaining BulkDataReader in the iterator,
	// the error io.EOF is returned
	Next() (*BulkDataReader, error)

	// Close discards all remaining BulkDataReaders in the iterator. Any previously returned
	// BulkDataReaders from calls to Next are also emptied.
	Close() error

	// ToBuffer reads all remaining BulkDataReaders into memory. The iterator is empty afterwards.
	ToBuffer() (*BulkDataBuffer, error)
}

// BulkDataBuffer holds the bytes of a bulk data element in memory. Native encodings hold a single
// fragment. Encapsulated pixel data holds one fragment per item, the first being the basic offset
// table (possibly empty).
type BulkDataBuffer struct {
	fragments    [][]byte
	encapsulated bool
}

// NewBulkDataBuffer returns a native (single stream) BulkDataBuffer over the concatenation of the
// given byte slices
func NewBulkDataBuffer(data ...[]byte) *BulkDataBuffer {
	return &BulkDataBuffer{fragments: [][]byte{bytes.Join(data, nil)}}
}

// NewEncapsulatedBulkDataBuffer returns a BulkDataBuffer for encapsulated pixel data. The first
// fragment is the basic offset table.
func NewEncapsulatedBulkDataBuffer(fragments ...[]byte) *BulkDataBuffer {
	return &BulkDataBuffer{fragments: fragments, encapsulated: true}
}

// Data returns the fragments of the buffer
func (b *BulkDataBuffer) Data() [][]byte {
	return b.fragments
}

// Bytes returns the concatenation of all fragments
func (b *BulkDataBuffer) Bytes() []byte {
	if len(b.fragments) == 1 {
		return b.fragments[0]
	}
	return bytes.Join(b.fragments, nil)
}

// Encapsulated reports whether the buffer holds encapsulated (compressed) pixel data fragments
func (b *BulkDataBuffer) Encapsulated() bool {
	return b.encapsulated
}

func (b *BulkDataBuffer) String() string {
	if b.encapsulated {
		return fmt.Sprintf("<%d encapsulated fragments>", len(b.fragments))
	}
	return fmt.Sprintf("<%d bytes>", len(b.Bytes()))
}

// oneShotIterator is a BulkDataIterator that contains exactly one BulkDataReader
type oneShotIterator struct {
	cr    *countReader
	empty bool
}

func newOneShotIterator(r *countReader) BulkDataIterator {
	return &oneShotIterator{r, false}
}

func (it *oneShotIterator) Next() (*BulkDataReader, error) {
	if it.empty {
		return nil, io.EOF
	}

	it.empty = true

	return &BulkDataReader{it.cr, it.cr.bytesRead}, nil
}

func (it *oneShotIterator) Close() error {
	if _, err := io.Copy(io.Discard, it.cr); err != nil {
		return fmt.Errorf("closing bulk data: %v", err)
	}

	it.empty = true

	return nil
}

func (it *oneShotIterator) ToBuffer() (*BulkDataBuffer, error) {
	fragments, err := collectFragments(it)
	if err != nil {
		return nil, err
	}
	return NewBulkDataBuffer(fragments...), nil
}

// encapsulatedFormatIterator represents image pixel data (7FE0,0010) in encapsulated format as
// described in http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4.
type encapsulatedFormatIterator struct {
	dr            *dcmReader
	currentReader *BulkDataReader
	empty         bool
}

func newEncapsulatedFormatIterator(dr *dcmReader) BulkDataIterator {
	return &encapsulatedFormatIterator{dr, nil, false}
}

// Next returns the next fragment of the pixel data. The first return from Next will be the
// Basic Offset Table if present or an empty BulkDataReader otherwise. When Next is called,
// any previously returned BulkDataReaders from previous calls to Next will be emptied. When there
// are no remaining fragments in the iterator, the error io.EOF is returned.
func (it *encapsulatedFormatIterator) Next() (*BulkDataReader, error) {
	if it.empty {
		return nil, io.EOF
	}

	if it.currentReader != nil {
		if err := it.currentReader.Close(); err != nil {
			return nil, err
		}
	}

	tag, err := readItemTag(it.dr, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("reading tag in encapsulated format fragment: %v", err)
	}
	if tag == SequenceDelimitationItemTag {
		return nil, it.terminate()
	}

	length, err := it.dr.UInt32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if length >= UndefinedLength {
		return nil, fmt.Errorf("expected fragment to be of explicit length")
	}

	currentReaderBytes := limitCountReader(it.dr.cr, int64(length))
	it.currentReader = &BulkDataReader{currentReaderBytes, currentReaderBytes.bytesRead}

	return it.currentReader, nil
}

// Close discards all fragments in the iterator
func (it *encapsulatedFormatIterator) Close() error {
	for r, err := it.Next(); err != io.EOF; r, err = it.Next() {
		if err != nil {
			return fmt.Errorf("reading next reader: %v", err)
		}
		if err := r.Close(); err != nil {
			return fmt.Errorf("discarding reader on Close: %v", err)
		}
	}

	return nil
}

func (it *encapsulatedFormatIterator) ToBuffer() (*BulkDataBuffer, error) {
	fragments, err := collectFragments(it)
	if err != nil {
		return nil, err
	}
	return NewEncapsulatedBulkDataBuffer(fragments...), nil
}

func (it *encapsulatedFormatIterator) terminate() error {
	_, err := it.dr.UInt32(binary.LittleEndian)
	if err != nil {
		return fmt.Errorf("reading 32 bit length of sequence delimitation item: %v", err)
	}
	it.empty = true
	return io.EOF
}

func collectFragments(iter BulkDataIterator) ([][]byte, error) {
	buff := make([][]byte, 0)
	for r, err := iter.Next(); err != io.EOF; r, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		fragment, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading fragment: %v", err)
		}
		buff = append(buff, fragment)
	}
	return buff, nil
}
