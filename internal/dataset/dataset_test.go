package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `age,sex,bmi,children,smoker,region,charges
19,female,27.9,0,yes,southwest,16884.924
18,male,33.77,1,no,southeast,1725.5523
28,male,33.0,3,no,southeast,4449.462
33,female,22.705,0,no,northwest,21984.47061
32,male,28.88,0,no,northwest,3866.8552
31,female,25.74,0,yes,southeast,3756.6216
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "insurance.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad(t *testing.T) {
	recs, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 6 {
		t.Fatalf("rows=%d want 6", len(recs))
	}
	first := recs[0]
	if first.Age != 19 || first.Sex != "female" || first.BMI != 27.9 || first.Smoker != "yes" {
		t.Fatalf("first row: %+v", first)
	}
}

func TestLoadReorderedAndExtraColumns(t *testing.T) {
	csv := `charges,region,smoker,children,bmi,sex,age,notes
100.5,southwest,no,0,25.0,male,40,hello
`
	recs, err := Load(writeCSV(t, csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 1 || recs[0].Age != 40 || recs[0].Charges != 100.5 {
		t.Fatalf("rows: %+v", recs)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil || !os.IsNotExist(err) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	if IsMalformed(err) {
		t.Fatalf("absence must not classify as malformed")
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"missing column": "age,sex,bmi\n19,female,27.9\n",
		"bad age":        "age,sex,bmi,children,smoker,region,charges\nold,female,27.9,0,yes,sw,1.0\n",
		"bad charges":    "age,sex,bmi,children,smoker,region,charges\n19,female,27.9,0,yes,sw,lots\n",
	}
	for name, content := range cases {
		_, err := Load(writeCSV(t, content))
		if err == nil || !IsMalformed(err) {
			t.Fatalf("%s: expected malformed, got %v", name, err)
		}
	}
}

func TestSummary(t *testing.T) {
	recs, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := Summary(recs)
	if s.Rows != 6 || s.Smokers != 2 {
		t.Fatalf("summary: %+v", s)
	}
	if s.MeanAge < 26 || s.MeanAge > 27 {
		t.Fatalf("mean age: %v", s.MeanAge)
	}
}

func TestScatterSeries(t *testing.T) {
	recs, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	age := AgeChargesBySex(recs)
	if age.XLabel != "age" || len(age.Points) != 6 {
		t.Fatalf("age series: %+v", age)
	}
	if age.Points[0].Group != "female" || age.Points[0].X != 19 {
		t.Fatalf("age point: %+v", age.Points[0])
	}
	bmi := BMIChargesBySmoker(recs)
	if bmi.XLabel != "bmi" || bmi.Points[1].Group != "no" {
		t.Fatalf("bmi series: %+v", bmi.Points[1])
	}
}

func TestSmokerBoxStats(t *testing.T) {
	recs, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	boxes := SmokerBoxStats(recs)
	if len(boxes) != 2 {
		t.Fatalf("boxes: %+v", boxes)
	}
	if boxes[0].Group != "no" || boxes[0].Count != 4 {
		t.Fatalf("no box: %+v", boxes[0])
	}
	if boxes[1].Group != "yes" || boxes[1].Count != 2 {
		t.Fatalf("yes box: %+v", boxes[1])
	}
	no := boxes[0]
	if no.Min > no.Q1 || no.Q1 > no.Median || no.Median > no.Q3 || no.Q3 > no.Max {
		t.Fatalf("quartiles out of order: %+v", no)
	}
}

func TestPreview(t *testing.T) {
	resp, err := Preview(strings.NewReader(sampleCSV), 3)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(resp.Columns) != 7 || resp.Columns[0] != "age" {
		t.Fatalf("columns: %v", resp.Columns)
	}
	if len(resp.Rows) != 3 || resp.TotalRows != 6 || !resp.Truncated {
		t.Fatalf("preview: %+v", resp)
	}
}

func TestPreviewArbitrarySchema(t *testing.T) {
	resp, err := Preview(strings.NewReader("a,b\n1,2\n3,4,5\n"), 10)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if resp.TotalRows != 2 || resp.Truncated {
		t.Fatalf("preview: %+v", resp)
	}
}

func TestPreviewEmpty(t *testing.T) {
	if _, err := Preview(strings.NewReader(""), 10); err == nil {
		t.Fatalf("expected error for empty upload")
	}
}
