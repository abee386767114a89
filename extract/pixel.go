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
	"github.com/GoogleCloudPlatform/dicomscan/dicom"
	"github.com/GoogleCloudPlatform/dicomscan/ndarray"
	"github.com/sirupsen/logrus"
)

// candidate is one sample type the pixel extractor tries
type candidate struct {
	name  string
	probe func(data interface{}, shape []int) (*ndarray.Array[int32], bool)
}

// candidates are tried in order and the first that holds every sample exactly wins. float32 to
// int32 truncates toward zero.
var candidates = []candidate{
	{"uint16", probe[uint16]},
	{"uint8", probe[uint8]},
	{"int16", probe[int16]},
	{"float32", probe[float32]},
}

// Pixels decodes the native pixel samples of ds into a [frames, rows, columns, samples] array of
// int32. It returns nil when the data set has no pixel data, when decoding fails or when no
// candidate type can represent the samples. Failures, decoder panics included, are logged at debug
// level only.
func Pixels(ds *dicom.DataSet, log logrus.FieldLogger) (arr *ndarray.Array[int32]) {
	if log == nil {
		log = discardLogger()
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Debug("pixel data not decoded")
			arr = nil
		}
	}()
	if !hasPixelData(ds) {
		return nil
	}

	var name string
	buf, err := dicom.DecodeSamples(ds)
	if err != nil {
		log.WithError(err).Debug("pixel data not decoded")
		return nil
	}

	arr, name = pickCandidate(buf.Data, buf.Shape())
	if arr == nil {
		log.WithField("samples", typeName(buf.Data)).Debug("no candidate type holds the pixel samples")
		return nil
	}
	log.WithFields(logrus.Fields{
		"shape":          arr.Shape(),
		"ndim":           arr.NDim(),
		"candidate":      name,
		"bits_allocated": buf.BitsAllocated,
	}).Debug("decoded pixel data")
	return arr
}

func hasPixelData(ds *dicom.DataSet) bool {
	return ds.Has(dicom.PixelDataTag) || ds.Has(dicom.FloatPixelDataTag) || ds.Has(dicom.DoubleFloatPixelDataTag)
}

func pickCandidate(data interface{}, shape []int) (*ndarray.Array[int32], string) {
	for _, c := range candidates {
		if arr, ok := c.probe(data, shape); ok {
			return arr, c.name
		}
	}
	return nil, ""
}

func probe[T ndarray.Number](data interface{}, shape []int) (*ndarray.Array[int32], bool) {
	samples, ok := exactly[T](data)
	if !ok {
		return nil, false
	}
	flat, err := ndarray.New(samples)
	if err != nil {
		return nil, false
	}
	arr, err := flat.Reshape(shape...)
	if err != nil {
		return nil, false
	}
	return ndarray.Convert[T, int32](arr), true
}

// exactly converts the samples to T if every one of them survives the round trip
func exactly[T ndarray.Number](data interface{}) ([]T, bool) {
	switch v := data.(type) {
	case []uint8:
		return convertExact[uint8, T](v)
	case []int8:
		return convertExact[int8, T](v)
	case []uint16:
		return convertExact[uint16, T](v)
	case []int16:
		return convertExact[int16, T](v)
	case []uint32:
		return convertExact[uint32, T](v)
	case []int32:
		return convertExact[int32, T](v)
	case []float32:
		return convertExact[float32, T](v)
	case []float64:
		return convertExact[float64, T](v)
	}
	return nil, false
}

func convertExact[S, T ndarray.Number](src []S) ([]T, bool) {
	out := make([]T, len(src))
	for i, v := range src {
		t := T(v)
		if S(t) != v || (v < 0) != (t < 0) {
			return nil, false
		}
		out[i] = t
	}
	return out, true
}

func typeName(data interface{}) string {
	switch data.(type) {
	case []uint8:
		return "uint8"
	case []int8:
		return "int8"
	case []uint16:
		return "uint16"
	case []int16:
		return "int16"
	case []uint32:
		return "uint32"
	case []int32:
		return "int32"
	case []float32:
		return "float32"
	case []float64:
		return "float64"
	}
	return "unknown"
}
