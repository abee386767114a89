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

import "errors"

var (
	// ErrElementNotFound is returned when a data set does not contain a requested tag
	ErrElementNotFound = errors.New("no such data element")

	// ErrNoPixelData is returned by DecodeSamples when the data set has no pixel data element
	ErrNoPixelData = errors.New("no pixel data")

	// ErrUnsupportedPixelData is returned by DecodeSamples for pixel data it cannot decode, such
	// as encapsulated (compressed) transfer syntaxes or bit-packed samples
	ErrUnsupportedPixelData = errors.New("unsupported pixel data")
)
