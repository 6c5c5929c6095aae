// Package encode converts raw policyholder fields into the fixed-width
// feature vector the regression artifacts were trained on.
package encode

import (
	"fmt"

	"premiumd/pkg/types"
)

// Smoker is the smoker indicator of a policyholder.
type Smoker int

const (
	SmokerNo Smoker = iota
	SmokerYes
)

// Sex is the recorded sex of a policyholder.
type Sex int

const (
	SexFemale Sex = iota
	SexMale
)

// Region is the residential region of a policyholder.
type Region int

const (
	RegionNorthwest Region = iota
	RegionSoutheast
	RegionSouthwest
	// RegionNortheast is a valid real-world region that the training
	// encoding has no column for; it maps to all-zero region flags.
	// Whether that was an intentional baseline or a dropped category is
	// not recoverable from the artifacts, so the gap is kept as-is.
	RegionNortheast
)

// ParseError reports a categorical literal outside the known domain.
type ParseError struct {
	Field string
	Value string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("unknown %s value: %q", e.Field, e.Value)
}

// ParseSmoker maps "yes"/"no" to a Smoker.
func ParseSmoker(s string) (Smoker, error) {
	switch s {
	case "yes":
		return SmokerYes, nil
	case "no":
		return SmokerNo, nil
	}
	return SmokerNo, ParseError{Field: "smoker", Value: s}
}

// ParseSex maps "male"/"female" to a Sex.
func ParseSex(s string) (Sex, error) {
	switch s {
	case "male":
		return SexMale, nil
	case "female":
		return SexFemale, nil
	}
	return SexFemale, ParseError{Field: "sex", Value: s}
}

// ParseRegion maps a region literal to a Region.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "northwest":
		return RegionNorthwest, nil
	case "southeast":
		return RegionSoutheast, nil
	case "southwest":
		return RegionSouthwest, nil
	case "northeast":
		return RegionNortheast, nil
	}
	return RegionNorthwest, ParseError{Field: "region", Value: s}
}

// Record is a fully parsed prediction input. Constructing one from a
// wire request is the only place categorical strings are interpreted;
// past this point no defensive branching is needed.
type Record struct {
	Age      int
	BMI      float64
	Children int
	Smoker   Smoker
	Sex      Sex
	Region   Region
}

// FromRequest parses the categorical fields of a wire request.
func FromRequest(req types.PredictRequest) (Record, error) {
	smoker, err := ParseSmoker(req.Smoker)
	if err != nil {
		return Record{}, err
	}
	sex, err := ParseSex(req.Sex)
	if err != nil {
		return Record{}, err
	}
	region, err := ParseRegion(req.Region)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Age:      req.Age,
		BMI:      req.BMI,
		Children: req.Children,
		Smoker:   smoker,
		Sex:      sex,
		Region:   region,
	}, nil
}

// FeatureVector is the fixed 8-column input row the artifacts score.
type FeatureVector [8]float64

// Feature column indices. The scorer and the artifacts must agree on
// this order exactly; a mismatch silently produces garbage estimates.
const (
	ColAge = iota
	ColBMI
	ColChildren
	ColSmoker
	ColSexMale
	ColRegionNorthwest
	ColRegionSoutheast
	ColRegionSouthwest
)

var featureColumns = [8]string{
	"age",
	"bmi",
	"children",
	"smoker",
	"sex_male",
	"region_northwest",
	"region_southeast",
	"region_southwest",
}

// FeatureColumns returns the canonical column names in scoring order.
func FeatureColumns() []string {
	cols := make([]string, len(featureColumns))
	copy(cols, featureColumns[:])
	return cols
}

// Vector one-hot encodes a record. Pure and deterministic: numeric
// fields pass through, categoricals become 0/1 indicator columns.
func Vector(rec Record) FeatureVector {
	var v FeatureVector
	v[ColAge] = float64(rec.Age)
	v[ColBMI] = rec.BMI
	v[ColChildren] = float64(rec.Children)
	if rec.Smoker == SmokerYes {
		v[ColSmoker] = 1
	}
	if rec.Sex == SexMale {
		v[ColSexMale] = 1
	}
	switch rec.Region {
	case RegionNorthwest:
		v[ColRegionNorthwest] = 1
	case RegionSoutheast:
		v[ColRegionSoutheast] = 1
	case RegionSouthwest:
		v[ColRegionSouthwest] = 1
	case RegionNortheast:
		// no column; see RegionNortheast.
	}
	return v
}
