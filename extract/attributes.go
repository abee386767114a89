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
	"errors"
	"fmt"
	"os"

	"github.com/GoogleCloudPlatform/dicomscan/dicom"
	"gopkg.in/yaml.v3"
)

// ErrAttributeFile is returned by LoadAttributes for unreadable or malformed attribute files
var ErrAttributeFile = errors.New("invalid attribute file")

// DefaultAttributes are extracted from every file unless a different list is configured
var DefaultAttributes = []dicom.DataElementTag{
	dicom.StudyInstanceUIDTag,
	dicom.SeriesInstanceUIDTag,
	dicom.SOPInstanceUIDTag,
	dicom.InstanceNumberTag,
	dicom.ModalityTag,
	dicom.StudyDescriptionTag,
	dicom.SeriesDescriptionTag,
	dicom.BodyPartExaminedTag,
	dicom.ScanOptionsTag,
	dicom.SliceThicknessTag,
	dicom.PerformedProcedureStepDescTag,
	dicom.WindowCenterTag,
	dicom.WindowWidthTag,
	dicom.ImagePositionPatientTag,
	dicom.ProtocolNameTag,
	dicom.RescaleInterceptTag,
	dicom.RescaleSlopeTag,
	dicom.InstitutionNameTag,
	dicom.InstitutionAddressTag,
	dicom.PixelSpacingTag,
	dicom.PatientNameTag,
	dicom.PatientBirthDateTag,
	dicom.PatientSexTag,
	dicom.PatientAgeTag,
	dicom.PatientIDTag,
	dicom.StudyDateTag,
	dicom.SeriesDateTag,
	dicom.AcquisitionDateTag,
	dicom.ContentDateTag,
	dicom.InstanceCreationDateTag,
	dicom.StudyTimeTag,
	dicom.SeriesTimeTag,
	dicom.AcquisitionTimeTag,
	dicom.ContentTimeTag,
	dicom.InstanceCreationTimeTag,
	dicom.AccessionNumberTag,
	dicom.TimezoneOffsetFromUTCTag,
	dicom.ReferringPhysicianNameTag,
	dicom.ImageOrientationPatientTag,
	dicom.PhotometricInterpretationTag,
	dicom.RequestedProcedureDescTag,
	dicom.SeriesNumberTag,
	dicom.SpacingBetweenSlicesTag,
	dicom.ManufacturerTag,
	dicom.ManufacturerModelNameTag,
	dicom.PatientPositionTag,
	dicom.ConvolutionKernelTag,
	dicom.ReconstructionDiameterTag,
	dicom.KVPTag,
	dicom.NumberOfFramesTag,
	dicom.PerFrameFunctionalGroupsSeqTag,
	dicom.SharedFunctionalGroupsSeqTag,
	dicom.PlaneOrientationSequenceTag,
	dicom.PlanePositionSequenceTag,
	dicom.ImageTypeTag,
	dicom.ColumnsTag,
	dicom.RowsTag,
}

type attributeFile struct {
	Attributes []string `yaml:"attributes"`
}

// LoadAttributes reads an attribute list from a YAML file of the form
//
//	attributes:
//	  - "(0010,0010)"
//	  - "00080060"
//
// Duplicate tags are kept once, in first-seen order.
func LoadAttributes(path string) ([]dicom.DataElementTag, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttributeFile, err)
	}
	return ParseAttributes(raw)
}

// ParseAttributes parses the YAML attribute list format read by LoadAttributes
func ParseAttributes(raw []byte) ([]dicom.DataElementTag, error) {
	var file attributeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttributeFile, err)
	}
	if len(file.Attributes) == 0 {
		return nil, fmt.Errorf("%w: no attributes listed", ErrAttributeFile)
	}

	seen := make(map[dicom.DataElementTag]bool, len(file.Attributes))
	tags := make([]dicom.DataElementTag, 0, len(file.Attributes))
	for _, s := range file.Attributes {
		tag, err := dicom.ParseTag(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttributeFile, err)
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}
