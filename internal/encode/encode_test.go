package encode

import (
	"errors"
	"testing"

	"premiumd/pkg/types"
)

func TestParseSmoker(t *testing.T) {
	if s, err := ParseSmoker("yes"); err != nil || s != SmokerYes {
		t.Fatalf("yes: %v %v", s, err)
	}
	if s, err := ParseSmoker("no"); err != nil || s != SmokerNo {
		t.Fatalf("no: %v %v", s, err)
	}
	if _, err := ParseSmoker("sometimes"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseRegionUnknown(t *testing.T) {
	_, err := ParseRegion("midwest")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	var pe ParseError
	if !errors.As(err, &pe) || pe.Field != "region" || pe.Value != "midwest" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVectorSmokerFlag(t *testing.T) {
	for _, tc := range []struct {
		smoker Smoker
		want   float64
	}{
		{SmokerYes, 1},
		{SmokerNo, 0},
	} {
		v := Vector(Record{Smoker: tc.smoker})
		if v[ColSmoker] != tc.want {
			t.Fatalf("smoker=%v flag=%v want %v", tc.smoker, v[ColSmoker], tc.want)
		}
	}
}

func TestVectorSexFlag(t *testing.T) {
	if v := Vector(Record{Sex: SexMale}); v[ColSexMale] != 1 {
		t.Fatalf("male flag=%v", v[ColSexMale])
	}
	if v := Vector(Record{Sex: SexFemale}); v[ColSexMale] != 0 {
		t.Fatalf("female flag=%v", v[ColSexMale])
	}
}

func TestVectorRegionFlags(t *testing.T) {
	cases := []struct {
		region Region
		col    int
	}{
		{RegionNorthwest, ColRegionNorthwest},
		{RegionSoutheast, ColRegionSoutheast},
		{RegionSouthwest, ColRegionSouthwest},
	}
	for _, tc := range cases {
		v := Vector(Record{Region: tc.region})
		for col := ColRegionNorthwest; col <= ColRegionSouthwest; col++ {
			want := 0.0
			if col == tc.col {
				want = 1
			}
			if v[col] != want {
				t.Fatalf("region=%v col=%d got %v want %v", tc.region, col, v[col], want)
			}
		}
	}
}

// The artifacts carry no column for northeast; it encodes to all-zero
// region flags rather than an error.
func TestVectorNortheastAllZero(t *testing.T) {
	v := Vector(Record{Region: RegionNortheast})
	if v[ColRegionNorthwest] != 0 || v[ColRegionSoutheast] != 0 || v[ColRegionSouthwest] != 0 {
		t.Fatalf("northeast flags: %v", v[ColRegionNorthwest:])
	}
}

func TestVectorExample(t *testing.T) {
	rec, err := FromRequest(types.PredictRequest{
		Age: 35, BMI: 27.5, Children: 2,
		Smoker: "yes", Sex: "female", Region: "southeast",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := Vector(rec)
	want := FeatureVector{35, 27.5, 2, 1, 0, 0, 1, 0}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestVectorIdempotent(t *testing.T) {
	rec := Record{Age: 52, BMI: 31.2, Children: 3, Smoker: SmokerNo, Sex: SexMale, Region: RegionSouthwest}
	if Vector(rec) != Vector(rec) {
		t.Fatalf("encode not deterministic")
	}
}

func TestFromRequestRejectsUnknown(t *testing.T) {
	_, err := FromRequest(types.PredictRequest{Smoker: "no", Sex: "female", Region: "atlantis"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFeatureColumnsCopy(t *testing.T) {
	cols := FeatureColumns()
	if len(cols) != 8 || cols[0] != "age" || cols[7] != "region_southwest" {
		t.Fatalf("columns: %v", cols)
	}
	cols[0] = "mutated"
	if FeatureColumns()[0] != "age" {
		t.Fatalf("FeatureColumns must return a copy")
	}
}
