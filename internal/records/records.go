package records

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jinftw64/dicomweb-pacs/internal/dicom/tags"
)

// Attribute is one entry of a DICOM JSON record: a value representation and
// an ordered list of primitive values. A nil or empty Value means the
// attribute is present without a value.
type Attribute struct {
	VR    string `json:"vr"`
	Value []any  `json:"Value,omitempty"`
}

// Record maps 8-hex-digit tag codes to attributes and represents one study,
// series, or instance as produced by the protocol engine.
type Record map[string]Attribute

// ApplyDefault sets the attribute at code to a single-valued default unless
// the record already carries a non-empty value there. Idempotent and
// order-independent across distinct codes.
func ApplyDefault(rec Record, code, vr string, def any) {
	if attr, ok := rec[code]; ok && len(attr.Value) > 0 {
		return
	}
	rec[code] = Attribute{VR: vr, Value: []any{def}}
}

// FixResponse fills in the display attributes downstream viewers require but
// archives frequently omit. Length and order of the input are preserved and
// no existing attribute is removed.
func FixResponse(recs []Record) []Record {
	for _, rec := range recs {
		ApplyDefault(rec, tags.WindowCenter, "DS", "100.0")
		ApplyDefault(rec, tags.WindowWidth, "DS", "100.0")
		ApplyDefault(rec, tags.RescaleIntercept, "DS", "1.0")
		ApplyDefault(rec, tags.RescaleSlope, "DS", "1.0")
	}
	return recs
}

// SortByInstanceNumber stably sorts records in place by the integer value of
// the instance number attribute. Records without one, or with a non-numeric
// value, sort as 0.
func SortByInstanceNumber(recs []Record) []Record {
	sort.SliceStable(recs, func(i, j int) bool {
		return instanceNumber(recs[i]) < instanceNumber(recs[j])
	})
	return recs
}

func instanceNumber(rec Record) int {
	attr, ok := rec[tags.InstanceNumber]
	if !ok || len(attr.Value) == 0 {
		return 0
	}
	switch v := attr.Value[0].(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
