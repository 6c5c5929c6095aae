package dataset

import (
	"sort"

	"premiumd/pkg/types"
)

// Summary computes headline figures for the analytics page.
func Summary(recs []Record) types.DatasetSummary {
	s := types.DatasetSummary{Rows: len(recs)}
	if len(recs) == 0 {
		return s
	}
	var age, bmi, charge float64
	for _, r := range recs {
		age += float64(r.Age)
		bmi += r.BMI
		charge += r.Charges
		if r.Smoker == "yes" {
			s.Smokers++
		}
	}
	n := float64(len(recs))
	s.MeanAge = age / n
	s.MeanBMI = bmi / n
	s.MeanCharge = charge / n
	return s
}

// AgeChargesBySex is the age-vs-charges scatter, grouped by sex.
func AgeChargesBySex(recs []Record) types.ScatterSeries {
	series := types.ScatterSeries{XLabel: "age", YLabel: "charges"}
	for _, r := range recs {
		series.Points = append(series.Points, types.ScatterPoint{
			X: float64(r.Age), Y: r.Charges, Group: r.Sex,
		})
	}
	return series
}

// BMIChargesBySmoker is the bmi-vs-charges scatter, grouped by smoker.
func BMIChargesBySmoker(recs []Record) types.ScatterSeries {
	series := types.ScatterSeries{XLabel: "bmi", YLabel: "charges"}
	for _, r := range recs {
		series.Points = append(series.Points, types.ScatterPoint{
			X: r.BMI, Y: r.Charges, Group: r.Smoker,
		})
	}
	return series
}

// SmokerBoxStats summarizes the charge distribution per smoker group
// for the smoker-impact box plot. Groups appear in "no", "yes" order
// when present.
func SmokerBoxStats(recs []Record) []types.BoxStats {
	byGroup := map[string][]float64{}
	for _, r := range recs {
		byGroup[r.Smoker] = append(byGroup[r.Smoker], r.Charges)
	}
	var out []types.BoxStats
	for _, group := range []string{"no", "yes"} {
		charges, ok := byGroup[group]
		if !ok {
			continue
		}
		out = append(out, boxStats(group, charges))
	}
	return out
}

func boxStats(group string, values []float64) types.BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	lower := sorted[:n/2]
	upper := sorted[(n+1)/2:]
	return types.BoxStats{
		Group:  group,
		Count:  n,
		Min:    sorted[0],
		Q1:     median(lower),
		Median: median(sorted),
		Q3:     median(upper),
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
	}
}

// median of a sorted slice. Empty input (single-element boxes produce
// empty halves) returns 0.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
