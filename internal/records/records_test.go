package records

import (
	"testing"

	"github.com/jinftw64/dicomweb-pacs/internal/dicom/tags"
)

func TestFixResponseFillsMissingDefaults(t *testing.T) {
	rec := Record{}
	FixResponse([]Record{rec})

	wants := map[string]string{
		tags.WindowCenter:     "100.0",
		tags.WindowWidth:      "100.0",
		tags.RescaleIntercept: "1.0",
		tags.RescaleSlope:     "1.0",
	}
	for code, want := range wants {
		attr, ok := rec[code]
		if !ok {
			t.Fatalf("attribute %s not defaulted", code)
		}
		if attr.VR != "DS" {
			t.Errorf("attribute %s VR = %q, want DS", code, attr.VR)
		}
		if len(attr.Value) != 1 || attr.Value[0] != want {
			t.Errorf("attribute %s value = %v, want [%s]", code, attr.Value, want)
		}
	}
}

func TestFixResponsePreservesExistingValues(t *testing.T) {
	rec := Record{
		tags.WindowCenter: {VR: "DS", Value: []any{"40.0"}},
	}
	FixResponse([]Record{rec})
	if got := rec[tags.WindowCenter].Value[0]; got != "40.0" {
		t.Fatalf("existing window center overwritten: %v", got)
	}
}

func TestFixResponseReplacesNullValue(t *testing.T) {
	rec := Record{
		tags.WindowWidth: {VR: "DS", Value: nil},
	}
	FixResponse([]Record{rec})
	if got := rec[tags.WindowWidth].Value; len(got) != 1 || got[0] != "100.0" {
		t.Fatalf("null-valued attribute not defaulted: %v", got)
	}
}

func TestFixResponseKeepsLengthAndOrder(t *testing.T) {
	a := Record{tags.StudyInstanceUID: {VR: "UI", Value: []any{"1.2.3"}}}
	b := Record{tags.StudyInstanceUID: {VR: "UI", Value: []any{"1.2.4"}}}
	out := FixResponse([]Record{a, b})
	if len(out) != 2 {
		t.Fatalf("length changed: %d", len(out))
	}
	if out[0][tags.StudyInstanceUID].Value[0] != "1.2.3" {
		t.Fatal("order changed")
	}
}

func withInstanceNumber(v any) Record {
	if v == nil {
		return Record{}
	}
	return Record{tags.InstanceNumber: {VR: "IS", Value: []any{v}}}
}

func TestSortByInstanceNumber(t *testing.T) {
	recs := []Record{
		withInstanceNumber("3"),
		withInstanceNumber("1"),
		withInstanceNumber("2"),
	}
	SortByInstanceNumber(recs)
	got := []any{
		recs[0][tags.InstanceNumber].Value[0],
		recs[1][tags.InstanceNumber].Value[0],
		recs[2][tags.InstanceNumber].Value[0],
	}
	if got[0] != "1" || got[1] != "2" || got[2] != "3" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSortByInstanceNumberIsIdempotent(t *testing.T) {
	recs := []Record{
		withInstanceNumber("10"),
		withInstanceNumber("2"),
		withInstanceNumber("7"),
	}
	SortByInstanceNumber(recs)
	first := []any{
		recs[0][tags.InstanceNumber].Value[0],
		recs[1][tags.InstanceNumber].Value[0],
		recs[2][tags.InstanceNumber].Value[0],
	}
	SortByInstanceNumber(recs)
	second := []any{
		recs[0][tags.InstanceNumber].Value[0],
		recs[1][tags.InstanceNumber].Value[0],
		recs[2][tags.InstanceNumber].Value[0],
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sorting twice changed order: %v vs %v", first, second)
		}
	}
}

func TestSortTreatsMissingAndGarbageAsZero(t *testing.T) {
	missing := withInstanceNumber(nil)
	garbage := withInstanceNumber("abc")
	positive := withInstanceNumber("1")
	recs := []Record{positive, missing, garbage}
	SortByInstanceNumber(recs)

	// missing and garbage both sort as 0, keeping their relative order
	// ahead of any positive instance number.
	if _, ok := recs[0][tags.InstanceNumber]; ok && recs[0][tags.InstanceNumber].Value[0] == "1" {
		t.Fatal("positive instance number sorted before zero-valued records")
	}
	if recs[2][tags.InstanceNumber].Value[0] != "1" {
		t.Fatalf("expected instance 1 last, got %v", recs[2])
	}
}

func TestSortHandlesNumericJSONValues(t *testing.T) {
	recs := []Record{
		withInstanceNumber(float64(5)),
		withInstanceNumber(float64(2)),
	}
	SortByInstanceNumber(recs)
	if recs[0][tags.InstanceNumber].Value[0] != float64(2) {
		t.Fatalf("numeric values not sorted: %v", recs)
	}
}
