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
)

// vrType is to group common encodings together
type vrType int

const (
	// textVR is for value fields that will be interpreted as simple text with space padding
	textVR vrType = iota

	// numberBinaryVR is for value fields that are parsed as binary numbers
	numberBinaryVR

	// bulkDataVR groups sequences of binary numbers
	bulkDataVR

	// uniqueIdentifierVR is for VR: UI. It has null padding
	uniqueIdentifierVR

	// sequenceVR is for VR: SQ
	sequenceVR

	// tagVR is for tags. Distinct from numberBinaryVR due to little endian byte ordering
	tagVR
)

// UndefinedLength as specified
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength = 0xffffffff

// VR models the DICOM Value representations (VR)
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
type VR struct {
	// Name represents the 2-character VR Code
	Name string

	kind vrType

	// extendedCharset is true for VRs whose values are encoded with the Specific Character Set
	// (0008,0005) rather than the default repertoire.
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.1.2.3
	extendedCharset bool
}

func (vr *VR) String() string {
	if vr == nil {
		return "??"
	}
	return vr.Name
}

var vrLookupMap = map[string]*VR{}

func newVR(text string, kind vrType, extendedCharset bool) *VR {
	vr := &VR{text, kind, extendedCharset}
	vrLookupMap[vr.Name] = vr

	return vr
}

// LookupVR returns the VR with the given 2-character code
func LookupVR(name string) (*VR, error) {
	r, ok := vrLookupMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown vr name: %q", name)
	}
	return r, nil
}

// VR list obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	// textual VRs
	CSVR = newVR("CS", textVR, false)
	SHVR = newVR("SH", textVR, true)
	LOVR = newVR("LO", textVR, true)
	STVR = newVR("ST", textVR, true)
	LTVR = newVR("LT", textVR, true)
	ASVR = newVR("AS", textVR, false)

	// person name
	PNVR = newVR("PN", textVR, true)

	// application entity
	AEVR = newVR("AE", textVR, false)

	// dates/time VR
	DAVR = newVR("DA", textVR, false)
	TMVR = newVR("TM", textVR, false)
	DTVR = newVR("DT", textVR, false)

	// textual numbers
	ISVR = newVR("IS", textVR, false)
	DSVR = newVR("DS", textVR, false)

	// binary numbers
	SSVR = newVR("SS", numberBinaryVR, false)
	USVR = newVR("US", numberBinaryVR, false)
	SLVR = newVR("SL", numberBinaryVR, false)
	ULVR = newVR("UL", numberBinaryVR, false)
	FLVR = newVR("FL", numberBinaryVR, false)
	FDVR = newVR("FD", numberBinaryVR, false)

	// large binary sequences
	OBVR = newVR("OB", bulkDataVR, false)
	ODVR = newVR("OD", bulkDataVR, false)
	OLVR = newVR("OL", bulkDataVR, false)
	OWVR = newVR("OW", bulkDataVR, false)
	OFVR = newVR("OF", bulkDataVR, false)

	// unlimited char
	UCVR = newVR("UC", bulkDataVR, true)

	// unknown
	UNVR = newVR("UN", bulkDataVR, false)

	// URL
	URVR = newVR("UR", bulkDataVR, false)

	// unlimited text
	UTVR = newVR("UT", bulkDataVR, true)

	// attribute tag
	ATVR = newVR("AT", tagVR, false)

	// unique identifier
	UIVR = newVR("UI", uniqueIdentifierVR, false)

	// sequence
	SQVR = newVR("SQ", sequenceVR, false)
)
