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
)

var sampleBytes = []byte{1, 2, 3, 4}

func dcmReaderFromBytes(data []byte) *dcmReader {
	return newDcmReader(bytes.NewBuffer(data))
}

func metaDataWithSyntax(syntax transferSyntax) dicomMetaData {
	return dicomMetaData{syntax, defaultCharacterRepertoire}
}

// explicitLE encodes an explicit VR little endian element header followed by value
func explicitLE(tag DataElementTag, vr string, value []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []uint16{tag.GroupNumber(), tag.ElementNumber()})
	buf.WriteString(vr)
	if has32BitLength(vrLookupMap[vr]) {
		binary.Write(&buf, binary.LittleEndian, uint16(0))
		binary.Write(&buf, binary.LittleEndian, uint32(len(value)))
	} else {
		binary.Write(&buf, binary.LittleEndian, uint16(len(value)))
	}
	buf.Write(value)
	return buf.Bytes()
}

// itemLE encodes a sequence item or delimiter with the given length
func itemLE(tag DataElementTag, length uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []uint16{tag.GroupNumber(), tag.ElementNumber()})
	binary.Write(&buf, binary.LittleEndian, length)
	return buf.Bytes()
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
