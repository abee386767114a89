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


// Package dicomtest encodes data elements as DICOM files so tests can exercise the reader on real
// byte streams.
package dicomtest

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
)

// ImplementationClassUID identifies files written by this package
const ImplementationClassUID = "1.2.826.0.1.3680043.10.1152.1"

const secondaryCaptureImageStorage = "1.2.840.10008.5.1.4.1.1.7"

type syntax struct {
	order    binary.ByteOrder
	implicit bool
	deflated bool
}

func lookupSyntax(uid string) syntax {
	switch uid {
	case dicom.ImplicitVRLittleEndianUID:
		return syntax{order: binary.LittleEndian, implicit: true}
	case dicom.ExplicitVRBigEndianUID:
		return syntax{order: binary.BigEndian}
	case dicom.DeflatedExplicitVRLittleEndianUID:
		return syntax{order: binary.LittleEndian, deflated: true}
	}
	return syntax{order: binary.LittleEndian}
}

// Element returns a DataElement whose VR is resolved from the data dictionary when written
func Element(tag dicom.DataElementTag, value interface{}) *dicom.DataElement {
	return &dicom.DataElement{Tag: tag, ValueField: value}
}

// ElementVR returns a DataElement with an explicit VR
func ElementVR(tag dicom.DataElementTag, vr *dicom.VR, value interface{}) *dicom.DataElement {
	return &dicom.DataElement{Tag: tag, VR: vr, ValueField: value}
}

// WriteFile writes the elements to path as a DICOM file in the given transfer syntax
func WriteFile(path, transferSyntaxUID string, elems ...*dicom.DataElement) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, transferSyntaxUID, elems...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the preamble, the file meta group and the elements to w. File meta elements among
// elems are ignored; the meta group is generated from the transfer syntax and the SOP Class and
// Instance UIDs of the data set.
func Encode(w io.Writer, transferSyntaxUID string, elems ...*dicom.DataElement) error {
	body := make([]*dicom.DataElement, 0, len(elems))
	for _, e := range elems {
		if !e.Tag.IsMetaElement() {
			body = append(body, e)
		}
	}
	sort.Slice(body, func(i, j int) bool { return body[i].Tag < body[j].Tag })

	if _, err := w.Write(make([]byte, 128)); err != nil {
		return fmt.Errorf("writing preamble: %v", err)
	}
	if _, err := io.WriteString(w, "DICM"); err != nil {
		return fmt.Errorf("writing magic: %v", err)
	}
	if err := writeMetaGroup(w, transferSyntaxUID, body); err != nil {
		return fmt.Errorf("writing meta group: %v", err)
	}

	s := lookupSyntax(transferSyntaxUID)
	if !s.deflated {
		return writeElements(&dcmWriter{w, s.order}, s, body)
	}

	fw, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return err
	}
	if err := writeElements(&dcmWriter{fw, s.order}, s, body); err != nil {
		return err
	}
	return fw.Close()
}

func writeMetaGroup(w io.Writer, transferSyntaxUID string, body []*dicom.DataElement) error {
	sopClass, sopInstance := secondaryCaptureImageStorage, "1.2.3.4"
	for _, e := range body {
		switch e.Tag {
		case dicom.SOPClassUIDTag:
			sopClass = firstString(e, sopClass)
		case dicom.SOPInstanceUIDTag:
			sopInstance = firstString(e, sopInstance)
		}
	}

	explicitLE := syntax{order: binary.LittleEndian}
	var group bytes.Buffer
	meta := []*dicom.DataElement{
		ElementVR(dicom.FileMetaInformationVersionTag, dicom.OBVR, []byte{0x00, 0x01}),
		ElementVR(dicom.MediaStorageSOPClassUIDTag, dicom.UIVR, []string{sopClass}),
		ElementVR(dicom.MediaStorageSOPInstanceUIDTag, dicom.UIVR, []string{sopInstance}),
		ElementVR(dicom.TransferSyntaxUIDTag, dicom.UIVR, []string{transferSyntaxUID}),
		ElementVR(dicom.ImplementationClassUIDTag, dicom.UIVR, []string{ImplementationClassUID}),
	}
	if err := writeElements(&dcmWriter{&group, binary.LittleEndian}, explicitLE, meta); err != nil {
		return err
	}

	lengthElem := ElementVR(dicom.FileMetaInformationGroupLengthTag, dicom.ULVR, []uint32{uint32(group.Len())})
	if err := writeElement(&dcmWriter{w, binary.LittleEndian}, explicitLE, lengthElem); err != nil {
		return err
	}
	_, err := w.Write(group.Bytes())
	return err
}

func firstString(e *dicom.DataElement, fallback string) string {
	if s, err := e.StringValue(); err == nil {
		return s
	}
	return fallback
}

func writeElements(dw *dcmWriter, s syntax, elems []*dicom.DataElement) error {
	for _, e := range elems {
		if err := writeElement(dw, s, e); err != nil {
			return fmt.Errorf("writing %v: %v", e.Tag, err)
		}
	}
	return nil
}

func writeElement(dw *dcmWriter, s syntax, elem *dicom.DataElement) error {
	vr := elem.VR
	if vr == nil {
		vr = elem.Tag.DictionaryVR()
	}

	switch v := elem.ValueField.(type) {
	case *dicom.Sequence:
		if err := writeHeader(dw, s, elem.Tag, vr, dicom.UndefinedLength); err != nil {
			return err
		}
		return writeSequence(dw, s, v)
	case *dicom.BulkDataBuffer:
		if v.Encapsulated() {
			if err := writeHeader(dw, s, elem.Tag, vr, dicom.UndefinedLength); err != nil {
				return err
			}
			return writeFragments(dw, v.Data())
		}
	}

	value, err := encodeValue(s, vr, elem.ValueField)
	if err != nil {
		return err
	}
	if len(value) >= math.MaxUint32 {
		return fmt.Errorf("value of %d bytes is too long", len(value))
	}
	if err := writeHeader(dw, s, elem.Tag, vr, uint32(len(value))); err != nil {
		return err
	}
	return dw.Bytes(value)
}

func writeHeader(dw *dcmWriter, s syntax, tag dicom.DataElementTag, vr *dicom.VR, length uint32) error {
	if err := dw.Tag(tag); err != nil {
		return fmt.Errorf("writing tag: %v", err)
	}
	if s.implicit {
		return dw.UInt32(length)
	}
	if err := dw.String(vr.Name); err != nil {
		return fmt.Errorf("writing vr: %v", err)
	}
	if has32BitLength(vr) {
		if err := dw.UInt16(0); err != nil {
			return fmt.Errorf("writing reserved field: %v", err)
		}
		return dw.UInt32(length)
	}
	if length > math.MaxUint16 {
		return fmt.Errorf("value length %d exceeds 16 bit length field of vr %v", length, vr)
	}
	return dw.UInt16(uint16(length))
}

// has32BitLength mirrors
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func has32BitLength(vr *dicom.VR) bool {
	switch vr.Name {
	case "OB", "OD", "OF", "OL", "OW", "SQ", "UC", "UR", "UT", "UN":
		return true
	}
	return false
}

func encodeValue(s syntax, vr *dicom.VR, value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	switch v := value.(type) {
	case nil:
	case []string:
		padding := " "
		if vr.Name == "UI" {
			padding = "\x00"
		}
		text := strings.Join(v, "\\")
		if len(text)%2 != 0 {
			text += padding
		}
		buf.WriteString(text)
	case []byte:
		buf.Write(v)
	case *dicom.BulkDataBuffer:
		buf.Write(v.Bytes())
	case []uint32:
		if vr.Name == "AT" {
			for _, t := range v {
				tag := dicom.DataElementTag(t)
				binary.Write(&buf, s.order, []uint16{tag.GroupNumber(), tag.ElementNumber()})
			}
			break
		}
		if err := binary.Write(&buf, s.order, v); err != nil {
			return nil, err
		}
	case []int8, []int16, []uint16, []int32, []float32, []float64:
		if err := binary.Write(&buf, s.order, v); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
	if buf.Len()%2 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

func writeSequence(dw *dcmWriter, s syntax, seq *dicom.Sequence) error {
	for _, item := range seq.Items {
		if err := dw.Tag(dicom.ItemTag); err != nil {
			return fmt.Errorf("writing item tag: %v", err)
		}
		if err := dw.UInt32(dicom.UndefinedLength); err != nil {
			return fmt.Errorf("writing item length: %v", err)
		}
		if err := writeElements(dw, s, item.SortedElements()); err != nil {
			return fmt.Errorf("writing sequence item: %v", err)
		}
		if err := dw.Delimiter(dicom.ItemDelimitationItemTag); err != nil {
			return fmt.Errorf("writing item delimitation item: %v", err)
		}
	}
	if err := dw.Delimiter(dicom.SequenceDelimitationItemTag); err != nil {
		return fmt.Errorf("writing sequence delimitation item: %v", err)
	}
	return nil
}

// writeFragments writes encapsulated pixel data items. The first fragment is the basic offset
// table. Encapsulated fragments are always little endian.
func writeFragments(dw *dcmWriter, fragments [][]byte) error {
	le := &dcmWriter{dw.Writer, binary.LittleEndian}
	for _, fragment := range fragments {
		if err := le.Tag(dicom.ItemTag); err != nil {
			return fmt.Errorf("writing fragment tag: %v", err)
		}
		padded := fragment
		if len(padded)%2 != 0 {
			padded = append(append([]byte{}, fragment...), 0)
		}
		if err := le.UInt32(uint32(len(padded))); err != nil {
			return fmt.Errorf("writing fragment length: %v", err)
		}
		if err := le.Bytes(padded); err != nil {
			return fmt.Errorf("writing fragment: %v", err)
		}
	}
	return le.Delimiter(dicom.SequenceDelimitationItemTag)
}
