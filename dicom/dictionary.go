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

// Tags from the DICOM data dictionary
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_6
const (
	FileMetaInformationGroupLengthTag DataElementTag = 0x00020000
	FileMetaInformationVersionTag     DataElementTag = 0x00020001
	MediaStorageSOPClassUIDTag        DataElementTag = 0x00020002
	MediaStorageSOPInstanceUIDTag     DataElementTag = 0x00020003
	TransferSyntaxUIDTag              DataElementTag = 0x00020010
	ImplementationClassUIDTag         DataElementTag = 0x00020012
	ImplementationVersionNameTag      DataElementTag = 0x00020013

	SpecificCharacterSetTag        DataElementTag = 0x00080005
	ImageTypeTag                   DataElementTag = 0x00080008
	InstanceCreationDateTag        DataElementTag = 0x00080012
	InstanceCreationTimeTag        DataElementTag = 0x00080013
	SOPClassUIDTag                 DataElementTag = 0x00080016
	SOPInstanceUIDTag              DataElementTag = 0x00080018
	StudyDateTag                   DataElementTag = 0x00080020
	SeriesDateTag                  DataElementTag = 0x00080021
	AcquisitionDateTag             DataElementTag = 0x00080022
	ContentDateTag                 DataElementTag = 0x00080023
	AcquisitionDateTimeTag         DataElementTag = 0x0008002A
	StudyTimeTag                   DataElementTag = 0x00080030
	SeriesTimeTag                  DataElementTag = 0x00080031
	AcquisitionTimeTag             DataElementTag = 0x00080032
	ContentTimeTag                 DataElementTag = 0x00080033
	AccessionNumberTag             DataElementTag = 0x00080050
	ModalityTag                    DataElementTag = 0x00080060
	ManufacturerTag                DataElementTag = 0x00080070
	InstitutionNameTag             DataElementTag = 0x00080080
	InstitutionAddressTag          DataElementTag = 0x00080081
	ReferringPhysicianNameTag      DataElementTag = 0x00080090
	TimezoneOffsetFromUTCTag       DataElementTag = 0x00080201
	StudyDescriptionTag            DataElementTag = 0x00081030
	SeriesDescriptionTag           DataElementTag = 0x0008103E
	ManufacturerModelNameTag       DataElementTag = 0x00081090
	ReferencedImageSequenceTag     DataElementTag = 0x00081140
	ReferencedSOPInstanceUIDTag    DataElementTag = 0x00081155
	PatientNameTag                 DataElementTag = 0x00100010
	PatientIDTag                   DataElementTag = 0x00100020
	PatientBirthDateTag            DataElementTag = 0x00100030
	PatientSexTag                  DataElementTag = 0x00100040
	PatientAgeTag                  DataElementTag = 0x00101010
	BodyPartExaminedTag            DataElementTag = 0x00180015
	ScanOptionsTag                 DataElementTag = 0x00180022
	SliceThicknessTag              DataElementTag = 0x00180050
	KVPTag                         DataElementTag = 0x00180060
	SpacingBetweenSlicesTag        DataElementTag = 0x00180088
	ProtocolNameTag                DataElementTag = 0x00181030
	ReconstructionDiameterTag      DataElementTag = 0x00181100
	ConvolutionKernelTag           DataElementTag = 0x00181210
	PatientPositionTag             DataElementTag = 0x00185100
	StudyInstanceUIDTag            DataElementTag = 0x0020000D
	SeriesInstanceUIDTag           DataElementTag = 0x0020000E
	SeriesNumberTag                DataElementTag = 0x00200011
	InstanceNumberTag              DataElementTag = 0x00200013
	ImagePositionPatientTag        DataElementTag = 0x00200032
	ImageOrientationPatientTag     DataElementTag = 0x00200037
	FrameOfReferenceUIDTag         DataElementTag = 0x00200052
	PlanePositionSequenceTag       DataElementTag = 0x00209113
	PlaneOrientationSequenceTag    DataElementTag = 0x00209116
	SamplesPerPixelTag             DataElementTag = 0x00280002
	PhotometricInterpretationTag   DataElementTag = 0x00280004
	PlanarConfigurationTag         DataElementTag = 0x00280006
	NumberOfFramesTag              DataElementTag = 0x00280008
	RowsTag                        DataElementTag = 0x00280010
	ColumnsTag                     DataElementTag = 0x00280011
	PixelSpacingTag                DataElementTag = 0x00280030
	BitsAllocatedTag               DataElementTag = 0x00280100
	BitsStoredTag                  DataElementTag = 0x00280101
	HighBitTag                     DataElementTag = 0x00280102
	PixelRepresentationTag         DataElementTag = 0x00280103
	WindowCenterTag                DataElementTag = 0x00281050
	WindowWidthTag                 DataElementTag = 0x00281051
	RescaleInterceptTag            DataElementTag = 0x00281052
	RescaleSlopeTag                DataElementTag = 0x00281053
	RequestedProcedureDescTag      DataElementTag = 0x00321060
	PerformedProcedureStepDescTag  DataElementTag = 0x00400254
	SharedFunctionalGroupsSeqTag   DataElementTag = 0x52009229
	PerFrameFunctionalGroupsSeqTag DataElementTag = 0x52009230
	FloatPixelDataTag              DataElementTag = 0x7FE00008
	DoubleFloatPixelDataTag        DataElementTag = 0x7FE00009
	PixelDataTag                   DataElementTag = 0x7FE00010

	ItemTag                     DataElementTag = 0xFFFEE000
	ItemDelimitationItemTag     DataElementTag = 0xFFFEE00D
	SequenceDelimitationItemTag DataElementTag = 0xFFFEE0DD
)

// UnknownTagName is returned by NameOf for tags missing from the dictionary
const UnknownTagName = "Unknown Tag"

type dictionaryEntry struct {
	keyword string
	vr      *VR
}

// dictionary is the subset of the DICOM data dictionary this package knows about. Tags outside of
// it are still parsed; in implicit VR syntaxes they are read as UN.
var dictionary = map[DataElementTag]dictionaryEntry{
	FileMetaInformationGroupLengthTag: {"FileMetaInformationGroupLength", ULVR},
	FileMetaInformationVersionTag:     {"FileMetaInformationVersion", OBVR},
	MediaStorageSOPClassUIDTag:        {"MediaStorageSOPClassUID", UIVR},
	MediaStorageSOPInstanceUIDTag:     {"MediaStorageSOPInstanceUID", UIVR},
	TransferSyntaxUIDTag:              {"TransferSyntaxUID", UIVR},
	ImplementationClassUIDTag:         {"ImplementationClassUID", UIVR},
	ImplementationVersionNameTag:      {"ImplementationVersionName", SHVR},

	SpecificCharacterSetTag:        {"SpecificCharacterSet", CSVR},
	ImageTypeTag:                   {"ImageType", CSVR},
	InstanceCreationDateTag:        {"InstanceCreationDate", DAVR},
	InstanceCreationTimeTag:        {"InstanceCreationTime", TMVR},
	SOPClassUIDTag:                 {"SOPClassUID", UIVR},
	SOPInstanceUIDTag:              {"SOPInstanceUID", UIVR},
	StudyDateTag:                   {"StudyDate", DAVR},
	SeriesDateTag:                  {"SeriesDate", DAVR},
	AcquisitionDateTag:             {"AcquisitionDate", DAVR},
	ContentDateTag:                 {"ContentDate", DAVR},
	AcquisitionDateTimeTag:         {"AcquisitionDateTime", DTVR},
	StudyTimeTag:                   {"StudyTime", TMVR},
	SeriesTimeTag:                  {"SeriesTime", TMVR},
	AcquisitionTimeTag:             {"AcquisitionTime", TMVR},
	ContentTimeTag:                 {"ContentTime", TMVR},
	AccessionNumberTag:             {"AccessionNumber", SHVR},
	ModalityTag:                    {"Modality", CSVR},
	ManufacturerTag:                {"Manufacturer", LOVR},
	InstitutionNameTag:             {"InstitutionName", LOVR},
	InstitutionAddressTag:          {"InstitutionAddress", STVR},
	ReferringPhysicianNameTag:      {"ReferringPhysicianName", PNVR},
	TimezoneOffsetFromUTCTag:       {"TimezoneOffsetFromUTC", SHVR},
	StudyDescriptionTag:            {"StudyDescription", LOVR},
	SeriesDescriptionTag:           {"SeriesDescription", LOVR},
	ManufacturerModelNameTag:       {"ManufacturerModelName", LOVR},
	ReferencedImageSequenceTag:     {"ReferencedImageSequence", SQVR},
	ReferencedSOPInstanceUIDTag:    {"ReferencedSOPInstanceUID", UIVR},
	PatientNameTag:                 {"PatientName", PNVR},
	PatientIDTag:                   {"PatientID", LOVR},
	PatientBirthDateTag:            {"PatientBirthDate", DAVR},
	PatientSexTag:                  {"PatientSex", CSVR},
	PatientAgeTag:                  {"PatientAge", ASVR},
	BodyPartExaminedTag:            {"BodyPartExamined", CSVR},
	ScanOptionsTag:                 {"ScanOptions", CSVR},
	SliceThicknessTag:              {"SliceThickness", DSVR},
	KVPTag:                         {"KVP", DSVR},
	SpacingBetweenSlicesTag:        {"SpacingBetweenSlices", DSVR},
	ProtocolNameTag:                {"ProtocolName", LOVR},
	ReconstructionDiameterTag:      {"ReconstructionDiameter", DSVR},
	ConvolutionKernelTag:           {"ConvolutionKernel", SHVR},
	PatientPositionTag:             {"PatientPosition", CSVR},
	StudyInstanceUIDTag:            {"StudyInstanceUID", UIVR},
	SeriesInstanceUIDTag:           {"SeriesInstanceUID", UIVR},
	SeriesNumberTag:                {"SeriesNumber", ISVR},
	InstanceNumberTag:              {"InstanceNumber", ISVR},
	ImagePositionPatientTag:        {"ImagePositionPatient", DSVR},
	ImageOrientationPatientTag:     {"ImageOrientationPatient", DSVR},
	FrameOfReferenceUIDTag:         {"FrameOfReferenceUID", UIVR},
	PlanePositionSequenceTag:       {"PlanePositionSequence", SQVR},
	PlaneOrientationSequenceTag:    {"PlaneOrientationSequence", SQVR},
	SamplesPerPixelTag:             {"SamplesPerPixel", USVR},
	PhotometricInterpretationTag:   {"PhotometricInterpretation", CSVR},
	PlanarConfigurationTag:         {"PlanarConfiguration", USVR},
	NumberOfFramesTag:              {"NumberOfFrames", ISVR},
	RowsTag:                        {"Rows", USVR},
	ColumnsTag:                     {"Columns", USVR},
	PixelSpacingTag:                {"PixelSpacing", DSVR},
	BitsAllocatedTag:               {"BitsAllocated", USVR},
	BitsStoredTag:                  {"BitsStored", USVR},
	HighBitTag:                     {"HighBit", USVR},
	PixelRepresentationTag:         {"PixelRepresentation", USVR},
	WindowCenterTag:                {"WindowCenter", DSVR},
	WindowWidthTag:                 {"WindowWidth", DSVR},
	RescaleInterceptTag:            {"RescaleIntercept", DSVR},
	RescaleSlopeTag:                {"RescaleSlope", DSVR},
	RequestedProcedureDescTag:      {"RequestedProcedureDescription", LOVR},
	PerformedProcedureStepDescTag:  {"PerformedProcedureStepDescription", LOVR},
	SharedFunctionalGroupsSeqTag:   {"SharedFunctionalGroupsSequence", SQVR},
	PerFrameFunctionalGroupsSeqTag: {"PerFrameFunctionalGroupsSequence", SQVR},
	FloatPixelDataTag:              {"FloatPixelData", OFVR},
	DoubleFloatPixelDataTag:        {"DoubleFloatPixelData", ODVR},
	PixelDataTag:                   {"PixelData", OWVR},
}

// NameOf returns the dictionary keyword of the tag, or UnknownTagName if the tag is not
// registered.
func NameOf(tag DataElementTag) string {
	if entry, ok := dictionary[tag]; ok {
		return entry.keyword
	}
	return UnknownTagName
}

// DictionaryVR returns the VR of the tag as defined in the DICOM data dictionary. It is used to
// recover VRs in implicit VR transfer syntaxes. Group length elements are UL, private creator
// elements are LO and any other unregistered tag is UN.
func (t DataElementTag) DictionaryVR() *VR {
	if entry, ok := dictionary[t]; ok {
		return entry.vr
	}
	if t.ElementNumber() == 0x0000 {
		return ULVR
	}
	if t.IsPrivate() && t.ElementNumber() >= 0x0010 && t.ElementNumber() <= 0x00FF {
		return LOVR
	}
	return UNVR
}
