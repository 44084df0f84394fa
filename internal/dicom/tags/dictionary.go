package tags

import (
	"sort"
	"strings"
)

// Tag describes one attribute of the DICOM data dictionary: its 8-hex-digit
// code, the standard keyword, and the value representation.
type Tag struct {
	Code    string
	Keyword string
	VR      string
}

// Codes the rest of the gateway refers to by name.
const (
	QueryRetrieveLevel = "00080052"
	StudyInstanceUID   = "0020000D"
	SeriesInstanceUID  = "0020000E"
	SOPInstanceUID     = "00080018"
	InstanceNumber     = "00200013"
	WindowCenter       = "00281050"
	WindowWidth        = "00281051"
	RescaleIntercept   = "00281052"
	RescaleSlope       = "00281053"
)

// dictionary holds the attributes the gateway can match on or return. The
// slice keeps a stable order for display; the maps below index it.
var dictionary = []Tag{
	{"00080005", "SpecificCharacterSet", "CS"},
	{"00080008", "ImageType", "CS"},
	{"00080016", "SOPClassUID", "UI"},
	{"00080018", "SOPInstanceUID", "UI"},
	{"00080020", "StudyDate", "DA"},
	{"00080021", "SeriesDate", "DA"},
	{"00080023", "ContentDate", "DA"},
	{"00080030", "StudyTime", "TM"},
	{"00080031", "SeriesTime", "TM"},
	{"00080033", "ContentTime", "TM"},
	{"00080050", "AccessionNumber", "SH"},
	{"00080052", "QueryRetrieveLevel", "CS"},
	{"00080054", "RetrieveAETitle", "AE"},
	{"00080056", "InstanceAvailability", "CS"},
	{"00080060", "Modality", "CS"},
	{"00080061", "ModalitiesInStudy", "CS"},
	{"00080090", "ReferringPhysicianName", "PN"},
	{"00081030", "StudyDescription", "LO"},
	{"0008103E", "SeriesDescription", "LO"},
	{"00081190", "RetrieveURL", "UR"},
	{"00100010", "PatientName", "PN"},
	{"00100020", "PatientID", "LO"},
	{"00100030", "PatientBirthDate", "DA"},
	{"00100040", "PatientSex", "CS"},
	{"0020000D", "StudyInstanceUID", "UI"},
	{"0020000E", "SeriesInstanceUID", "UI"},
	{"00200010", "StudyID", "SH"},
	{"00200011", "SeriesNumber", "IS"},
	{"00200013", "InstanceNumber", "IS"},
	{"00200032", "ImagePositionPatient", "DS"},
	{"00200037", "ImageOrientationPatient", "DS"},
	{"00201206", "NumberOfStudyRelatedSeries", "IS"},
	{"00201208", "NumberOfStudyRelatedInstances", "IS"},
	{"00201209", "NumberOfSeriesRelatedInstances", "IS"},
	{"00280002", "SamplesPerPixel", "US"},
	{"00280004", "PhotometricInterpretation", "CS"},
	{"00280008", "NumberOfFrames", "IS"},
	{"00280010", "Rows", "US"},
	{"00280011", "Columns", "US"},
	{"00280030", "PixelSpacing", "DS"},
	{"00280100", "BitsAllocated", "US"},
	{"00280101", "BitsStored", "US"},
	{"00280102", "HighBit", "US"},
	{"00280103", "PixelRepresentation", "US"},
	{"00281050", "WindowCenter", "DS"},
	{"00281051", "WindowWidth", "DS"},
	{"00281052", "RescaleIntercept", "DS"},
	{"00281053", "RescaleSlope", "DS"},
	{"7FE00010", "PixelData", "OW"},
}

var (
	byKeyword = make(map[string]Tag, len(dictionary))
	byCode    = make(map[string]Tag, len(dictionary))
)

func init() {
	for _, tag := range dictionary {
		byKeyword[strings.ToLower(tag.Keyword)] = tag
		byCode[tag.Code] = tag
	}
}

// Lookup resolves a keyword or a literal 8-hex-digit tag code. Keyword
// matching is case-insensitive; codes are matched after uppercasing.
func Lookup(nameOrCode string) (Tag, bool) {
	trimmed := strings.TrimSpace(nameOrCode)
	if trimmed == "" {
		return Tag{}, false
	}
	if tag, ok := byKeyword[strings.ToLower(trimmed)]; ok {
		return tag, true
	}
	if len(trimmed) == 8 {
		if tag, ok := byCode[strings.ToUpper(trimmed)]; ok {
			return tag, true
		}
	}
	return Tag{}, false
}

// All returns the dictionary entries sorted by tag code.
func All() []Tag {
	out := make([]Tag, len(dictionary))
	copy(out, dictionary)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
