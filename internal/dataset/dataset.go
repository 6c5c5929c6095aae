// Package dataset reads the reference insurance CSV and derives the
// series behind the analytics charts. The dataset is optional: absence
// is an expected, handled condition, distinct from a malformed file.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Record is one observation of the reference dataset.
type Record struct {
	Age      int
	Sex      string
	BMI      float64
	Children int
	Smoker   string
	Region   string
	Charges  float64
}

// malformedError marks a dataset that exists but cannot be parsed.
type malformedError struct {
	path string
	msg  string
}

func (e malformedError) Error() string {
	return fmt.Sprintf("malformed dataset %s: %s", e.path, e.msg)
}

// IsMalformed reports whether err indicates a present-but-unparseable
// dataset, as opposed to an absent one (os.IsNotExist).
func IsMalformed(err error) bool {
	_, ok := err.(malformedError)
	return ok
}

// columns the loader requires. Extra columns are ignored and column
// order does not matter; lookup is by header name.
var required = []string{"age", "sex", "bmi", "children", "smoker", "region", "charges"}

// Load parses an insurance CSV. Absence surfaces as the underlying
// os.Open error so callers can fall back; any parse failure is a
// malformedError.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := parse(f)
	if err != nil {
		return nil, malformedError{path: path, msg: err.Error()}
	}
	return recs, nil
}

func parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %v", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int) (Record, error) {
	age, err := strconv.Atoi(strings.TrimSpace(row[idx["age"]]))
	if err != nil {
		return Record{}, fmt.Errorf("age: %v", err)
	}
	bmi, err := strconv.ParseFloat(strings.TrimSpace(row[idx["bmi"]]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("bmi: %v", err)
	}
	children, err := strconv.Atoi(strings.TrimSpace(row[idx["children"]]))
	if err != nil {
		return Record{}, fmt.Errorf("children: %v", err)
	}
	charges, err := strconv.ParseFloat(strings.TrimSpace(row[idx["charges"]]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("charges: %v", err)
	}
	return Record{
		Age:      age,
		Sex:      strings.TrimSpace(row[idx["sex"]]),
		BMI:      bmi,
		Children: children,
		Smoker:   strings.TrimSpace(row[idx["smoker"]]),
		Region:   strings.TrimSpace(row[idx["region"]]),
		Charges:  charges,
	}, nil
}
