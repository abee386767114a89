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
	"golang.org/x/text/encoding"
)

// dicomMetaData represents information about how objects within the DICOM file are stored. Nested
// data sets receive a copy, so a Specific Character Set inside a sequence item only applies to that
// item.
type dicomMetaData struct {
	syntax   transferSyntax
	encoding encoding.Encoding
}

var defaultMetaData = dicomMetaData{explicitVRLittleEndian, defaultCharacterRepertoire}

// observe updates the metadata with any element that changes how subsequent elements are decoded.
// Unrecognized character sets fall back to the default repertoire.
func (m *dicomMetaData) observe(elem *DataElement) {
	if elem.Tag != SpecificCharacterSetTag {
		return
	}
	coding, err := encodingForElement(elem)
	if err != nil {
		coding = defaultCharacterRepertoire
	}
	m.encoding = coding
}
