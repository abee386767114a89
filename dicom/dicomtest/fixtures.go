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
	"github.com/GoogleCloudPlatform/dicomscan/dicom"
)

// CTImageStorageUID is the SOP Class UID of CT Image Storage
const CTImageStorageUID = "1.2.840.10008.5.1.4.1.1.2"

// Slice returns the elements of a small single frame monochrome image with unsigned 16 bit
// samples. rows*columns must equal len(samples).
func Slice(instanceUID string, rows, columns int, samples []uint16) []*dicom.DataElement {
	return []*dicom.DataElement{
		Element(dicom.SpecificCharacterSetTag, []string{"ISO_IR 100"}),
		Element(dicom.ImageTypeTag, []string{"ORIGINAL", "PRIMARY", "AXIAL"}),
		Element(dicom.SOPClassUIDTag, []string{CTImageStorageUID}),
		Element(dicom.SOPInstanceUIDTag, []string{instanceUID}),
		Element(dicom.StudyDateTag, []string{"20190314"}),
		Element(dicom.StudyTimeTag, []string{"101530.25"}),
		Element(dicom.ModalityTag, []string{"CT"}),
		Element(dicom.ManufacturerTag, []string{"ACME"}),
		Element(dicom.PatientNameTag, []string{"Doe^Jane"}),
		Element(dicom.PatientIDTag, []string{"PAT-001"}),
		Element(dicom.PatientBirthDateTag, []string{"19700101"}),
		Element(dicom.SliceThicknessTag, []string{"2.5"}),
		Element(dicom.KVPTag, []string{"120"}),
		Element(dicom.StudyInstanceUIDTag, []string{"1.2.840.99999.1"}),
		Element(dicom.SeriesInstanceUIDTag, []string{"1.2.840.99999.1.1"}),
		Element(dicom.InstanceNumberTag, []string{"7"}),
		Element(dicom.SamplesPerPixelTag, []uint16{1}),
		Element(dicom.PhotometricInterpretationTag, []string{"MONOCHROME2"}),
		Element(dicom.RowsTag, []uint16{uint16(rows)}),
		Element(dicom.ColumnsTag, []uint16{uint16(columns)}),
		Element(dicom.BitsAllocatedTag, []uint16{16}),
		Element(dicom.BitsStoredTag, []uint16{12}),
		Element(dicom.HighBitTag, []uint16{11}),
		Element(dicom.PixelRepresentationTag, []uint16{0}),
		Element(dicom.RescaleInterceptTag, []string{"-1024"}),
		Element(dicom.RescaleSlopeTag, []string{"1"}),
		Element(dicom.PixelDataTag, samples),
	}
}
