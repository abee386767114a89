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


// Package dicom provides functions and data structures for reading the DICOM file format.
// The package provides a high level and low level API for parsing. The high level API consists of
// functions such as Open and Parse which by default operate on DICOM Data Elements buffered into
// memory as a DataSet. The low level API consists of streaming interfaces like the
// DataElementIterator which do not require buffering and can operate on DataElements one at a time.
//
// The Parse function and the DataElementIterator represent the ValueField of DataElements
// differently. The Parse function by default buffers VRs of potentially enormous size
// (SQ, OX, UN, UT, UR, UC) into memory. In contrast, the DataElementIterator does not buffer these
// VRs and instead represents them as streaming interfaces. This is particularly useful for heavy
// image processing.
//
// Native pixel data is decoded into a SampleBuffer by DecodeSamples. Encapsulated (compressed)
// pixel data is read as raw fragments but not decoded.
package dicom
