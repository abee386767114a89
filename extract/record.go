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

package extract

import (
	"io"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
	"github.com/GoogleCloudPlatform/dicomscan/ndarray"
	"github.com/sirupsen/logrus"
)

// Record is the extraction result of one file. It is not modified after Assemble returns.
type Record struct {
	Path       string
	Attributes map[string]Value

	// Pixels is nil when the file has no decodable pixel data or pixels were not requested
	Pixels *ndarray.Array[int32]
}

// AssembleOption configures Assemble
type AssembleOption struct {
	apply func(*assembler)
}

type assembler struct {
	pixels bool
	log    logrus.FieldLogger
}

// WithoutPixels skips pixel extraction
func WithoutPixels() AssembleOption {
	return AssembleOption{func(a *assembler) { a.pixels = false }}
}

// WithLogger sets the logger receiving pixel diagnostics
func WithLogger(log logrus.FieldLogger) AssembleOption {
	return AssembleOption{func(a *assembler) { a.log = log }}
}

// Assemble decodes the given attributes of ds and then its pixel data. Attributes are keyed by
// their dictionary keyword; tags missing from the dictionary are keyed "Unknown Tag (gggg,eeee)" so
// that keys stay unique. Assemble never fails.
func Assemble(ds *dicom.DataSet, path string, tags []dicom.DataElementTag, opts ...AssembleOption) *Record {
	a := assembler{pixels: true, log: discardLogger()}
	for _, opt := range opts {
		opt.apply(&a)
	}

	attrs := make(map[string]Value, len(tags))
	for _, tag := range tags {
		attrs[attributeName(tag)] = DecodeAttribute(ds, tag)
	}

	rec := &Record{Path: path, Attributes: attrs}
	if a.pixels {
		rec.Pixels = Pixels(ds, a.log)
	}
	return rec
}

func attributeName(tag dicom.DataElementTag) string {
	name := dicom.NameOf(tag)
	if name == dicom.UnknownTagName {
		return name + " " + tag.String()
	}
	return name
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
