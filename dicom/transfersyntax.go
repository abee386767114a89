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
)

// list of transfer syntaxes obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_A
const (
	// ImplicitVRLittleEndianUID is the Implicit VR Little Endian UID
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	// ExplicitVRLittleEndianUID is the Explicit VR Little Endian UID
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	// ExplicitVRBigEndianUID is the Explicit VR Big Endian UID
	ExplicitVRBigEndianUID = "1.2.840.10008.1.2.2"
	// DeflatedExplicitVRLittleEndianUID is the Deflated Explicit VR Little Endian UID
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
	// JPEGBaselineUID is the JPEG Baseline (Process 1) transfer syntax UID
	JPEGBaselineUID = "1.2.840.10008.1.2.4.50"
)

// transferSyntax describes how the data set following the file meta header is encoded
type transferSyntax struct {
	ByteOrder binary.ByteOrder
	Implicit  bool
	Deflated  bool

	// Encapsulated syntaxes store pixel data as compressed fragments
	Encapsulated bool
}

var (
	explicitVRLittleEndian         = transferSyntax{ByteOrder: binary.LittleEndian}
	deflatedExplicitVRLittleEndian = transferSyntax{ByteOrder: binary.LittleEndian, Deflated: true}
	implicitVRLittleEndian         = transferSyntax{ByteOrder: binary.LittleEndian, Implicit: true}
	explicitVRBigEndian            = transferSyntax{ByteOrder: binary.BigEndian}
	encapsulatedExplicitVRLittle   = transferSyntax{ByteOrder: binary.LittleEndian, Encapsulated: true}
)

func lookupTransferSyntax(uid string) transferSyntax {
	switch uid {
	case ExplicitVRLittleEndianUID:
		return explicitVRLittleEndian
	case ImplicitVRLittleEndianUID:
		return implicitVRLittleEndian
	case ExplicitVRBigEndianUID:
		return explicitVRBigEndian
	case DeflatedExplicitVRLittleEndianUID:
		return deflatedExplicitVRLittleEndian
	}

	// any other syntax should be explicit VR little endian according to PS3.5 A.4, with pixel
	// data in the encapsulated format
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
	return encapsulatedExplicitVRLittle
}

const (
	vrSize  = 2
	tagSize = 4
)

func readVR(dr *dcmReader, tag DataElementTag, syntax transferSyntax) (*VR, error) {
	if syntax.Implicit {
		return tag.DictionaryVR(), nil
	}

	vrString, err := dr.String(vrSize)
	if err != nil {
		return nil, fmt.Errorf("reading vr: %v", err)
	}

	return LookupVR(vrString)
}

func readValueLength(dr *dcmReader, vr *VR, syntax transferSyntax) (uint32, error) {
	if syntax.Implicit {
		return dr.UInt32(syntax.ByteOrder)
	}

	if has32BitLength(vr) {
		if _, err := dr.UInt16(syntax.ByteOrder); err != nil {
			return 0, fmt.Errorf("reading reserved field %v", err)
		}

		length, err := dr.UInt32(syntax.ByteOrder)
		if err != nil {
			return 0, fmt.Errorf("reading 32 bit length: %v", err)
		}
		return length, nil
	}

	length, err := dr.UInt16(syntax.ByteOrder)
	if err != nil {
		return 0, fmt.Errorf("reading 16 bit length: %v", err)
	}
	return uint32(length), nil
}

// has32BitLength reports whether an explicit VR element stores its length in a 32 bit field
// rather than a 16 bit field. The 2 cases are defined at the link:
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func has32BitLength(vr *VR) bool {
	switch vr {
	case OBVR, ODVR, OFVR, OLVR, OWVR, SQVR, UCVR, URVR, UTVR, UNVR:
		return true
	default:
		return false
	}
}
