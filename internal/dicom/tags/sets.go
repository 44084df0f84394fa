package tags

// The tag sets below are the fixed ordered return-key lists sent with each
// query level. Order is insertion order and is carried into the outgoing find
// request unchanged; some archives order their replies by it.

var studySet = []string{
	"00080005",
	"00080020",
	"00080030",
	"00080050",
	"00080054",
	"00080056",
	"00080061",
	"00080090",
	"00081030",
	"00081190",
	"00100010",
	"00100020",
	"00100030",
	"00100040",
	"0020000D",
	"00200010",
	"00201206",
	"00201208",
}

var seriesSet = []string{
	"00080005",
	"00080054",
	"00080056",
	"00080060",
	"0008103E",
	"00081190",
	"0020000D",
	"0020000E",
	"00200011",
	"00201209",
}

var imageSet = []string{
	"00080016",
	"00080018",
	"00080060",
	"0020000D",
	"0020000E",
	"00200013",
	"00280010",
	"00280011",
}

var imageMetadataSet = []string{
	"00080008",
	"00080016",
	"00080018",
	"00080023",
	"00080033",
	"00080060",
	"0020000D",
	"0020000E",
	"00200013",
	"00200032",
	"00200037",
	"00280002",
	"00280004",
	"00280008",
	"00280010",
	"00280011",
	"00280030",
	"00280100",
	"00280101",
	"00280102",
	"00280103",
	"00281050",
	"00281051",
	"00281052",
	"00281053",
}

func copySet(set []string) []string {
	out := make([]string, len(set))
	copy(out, set)
	return out
}

// StudySet returns the ordered return keys for study-level queries.
func StudySet() []string { return copySet(studySet) }

// SeriesSet returns the ordered return keys for series-level queries.
func SeriesSet() []string { return copySet(seriesSet) }

// ImageSet returns the ordered return keys for instance-level queries.
func ImageSet() []string { return copySet(imageSet) }

// ImageMetadataSet returns the ordered return keys for instance metadata
// queries, covering the display attributes viewers expect.
func ImageMetadataSet() []string { return copySet(imageMetadataSet) }
