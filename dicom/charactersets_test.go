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
	"testing"
)

func TestLookupEncoding(t *testing.T) {
	for term := range lookupLabelByTerm {
		t.Run(term, func(t *testing.T) {
			if _, err := lookupEncoding(term); err != nil {
				t.Fatalf("lookupEncoding(%q) => %v", term, err)
			}
		})
	}
}

func TestLookupEncoding_unknownTerm(t *testing.T) {
	if _, err := lookupEncoding("ISO_IR 999"); err == nil {
		t.Fatalf("expected error for unknown defined term")
	}
}

func TestDicomMetaData_observe(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		in    string
		want  string
	}{
		{"latin-1", []string{"ISO_IR 100"}, "\xe9", "é"},
		{"empty first term selects the next one", []string{"", "ISO_IR 192"}, "\xc3\xa9", "é"},
		{"unknown term falls back to the default repertoire", []string{"ISO_IR 999"}, "\xe9", "é"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := defaultMetaData
			meta.observe(&DataElement{SpecificCharacterSetTag, CSVR, tc.terms, 0})
			got, err := decodeText(tc.in, meta.encoding)
			if err != nil {
				t.Fatalf("decodeText(_, _) => %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDicomMetaData_observeIgnoresOtherTags(t *testing.T) {
	meta := defaultMetaData
	meta.observe(&DataElement{PatientIDTag, LOVR, []string{"ISO_IR 192"}, 10})
	if meta.encoding != defaultCharacterRepertoire {
		t.Fatalf("got %v, want %v", meta.encoding, defaultCharacterRepertoire)
	}
}
