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
	"os"
	"path/filepath"
	"testing"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAttributes(t *testing.T) {
	assert.Len(t, DefaultAttributes, 57)

	seen := map[dicom.DataElementTag]bool{}
	for _, tag := range DefaultAttributes {
		assert.Falsef(t, seen[tag], "duplicate tag %v", tag)
		seen[tag] = true
		assert.NotEqualf(t, dicom.UnknownTagName, dicom.NameOf(tag), "tag %v has no keyword", tag)
	}
}

func TestParseAttributes(t *testing.T) {
	raw := []byte(`attributes:
  - "(0010,0010)"
  - "00080060"
  - "0010,0010"
`)
	got, err := ParseAttributes(raw)
	require.NoError(t, err)
	assert.Equal(t, []dicom.DataElementTag{dicom.PatientNameTag, dicom.ModalityTag}, got)
}

func TestParseAttributes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no list", "attributes: []"},
		{"bad tag", "attributes: [\"(0010,00)\"]"},
		{"not yaml", "attributes: [unterminated"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAttributes([]byte(tc.raw))
			assert.ErrorIs(t, err, ErrAttributeFile)
		})
	}
}

func TestLoadAttributes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attributes:\n  - \"(0028,0010)\"\n"), 0o644))

	got, err := LoadAttributes(path)
	require.NoError(t, err)
	assert.Equal(t, []dicom.DataElementTag{dicom.RowsTag}, got)

	_, err = LoadAttributes(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrAttributeFile)
}
