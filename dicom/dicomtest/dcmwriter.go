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


package dicomtest

import (
	"encoding/binary"
	"io"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
)

type dcmWriter struct {
	io.Writer
	order binary.ByteOrder
}

func (dw *dcmWriter) Tag(tag dicom.DataElementTag) error {
	if err := dw.UInt16(tag.GroupNumber()); err != nil {
		return err
	}
	return dw.UInt16(tag.ElementNumber())
}

// Delimiter writes an item or sequence delimitation item
func (dw *dcmWriter) Delimiter(tag dicom.DataElementTag) error {
	if err := dw.Tag(tag); err != nil {
		return err
	}
	return dw.UInt32(0)
}

func (dw *dcmWriter) UInt16(v uint16) error {
	buf := make([]byte, 2)
	dw.order.PutUint16(buf, v)
	return dw.Bytes(buf)
}

func (dw *dcmWriter) UInt32(v uint32) error {
	buf := make([]byte, 4)
	dw.order.PutUint32(buf, v)
	return dw.Bytes(buf)
}

func (dw *dcmWriter) String(s string) error {
	_, err := io.WriteString(dw, s)
	return err
}

func (dw *dcmWriter) Bytes(b []byte) error {
	_, err := dw.Write(b)
	return err
}
