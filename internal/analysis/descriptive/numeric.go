// Package descriptive computes per-column summary statistics.
package descriptive

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"zoostat/domain/core"
)

// minShapeSample is the smallest sample for which skewness and kurtosis are reported
const minShapeSample = 10

// outlierFence is the IQR multiplier for outlier detection
const outlierFence = 1.5

// NumericStats summarizes one numeric column
type NumericStats struct {
	Count        int       `json:"count"`
	ValidCount   int       `json:"valid_count"`
	MissingCount int       `json:"missing_count"`
	Sum          float64   `json:"sum"`
	Mean         float64   `json:"mean"`
	Median       float64   `json:"median"`
	Mode         *float64  `json:"mode,omitempty"`
	StdDev       float64   `json:"std_dev"`
	Variance     float64   `json:"variance"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Range        float64   `json:"range"`
	Q1           float64   `json:"q1"`
	Q3           float64   `json:"q3"`
	IQR          float64   `json:"iqr"`
	CV           float64   `json:"cv"`
	Skewness     *float64  `json:"skewness,omitempty"`
	Kurtosis     *float64  `json:"kurtosis,omitempty"`
	Outliers     []float64 `json:"outliers"`
}

// CalculateNumericStats parses raw cells leniently and summarizes the valid numbers.
// Unparsable cells count as missing. It fails only when no valid number remains.
func CalculateNumericStats(values []interface{}) (NumericStats, error) {
	numbers, missing := core.ParseNumbers(values)
	if len(numbers) == 0 {
		return NumericStats{}, core.NewStructuralErrorf("descriptive.CalculateNumericStats", core.ErrNoValidNumeric,
			"%d values, none numeric", len(values))
	}
	s := summarize(numbers)
	s.Count = len(values)
	s.MissingCount = missing
	return s, nil
}

// FromFloats summarizes values that are already numeric
func FromFloats(values []float64) (NumericStats, error) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return NumericStats{}, core.NewStructuralError("descriptive.FromFloats", core.ErrNoValidNumeric)
	}
	s := summarize(clean)
	s.Count = len(values)
	s.MissingCount = len(values) - len(clean)
	return s, nil
}

// summarize expects at least one finite value. The input slice is not modified.
func summarize(data []float64) NumericStats {
	n := len(data)
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	sum, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(sorted)

	variance := 0.0
	if n > 1 {
		variance, _ = stats.SampleVariance(data)
	}
	stdDev := math.Sqrt(variance)

	q1 := sorted[n/4]
	q3 := sorted[(n*3)/4]
	iqr := q3 - q1

	s := NumericStats{
		ValidCount: n,
		Sum:        sum,
		Mean:       mean,
		Median:     median,
		Mode:       mode(data),
		StdDev:     stdDev,
		Variance:   variance,
		Min:        sorted[0],
		Max:        sorted[n-1],
		Range:      sorted[n-1] - sorted[0],
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		Outliers:   outliers(data, q1-outlierFence*iqr, q3+outlierFence*iqr),
	}

	if mean != 0 {
		s.CV = stdDev / math.Abs(mean) * 100
	}

	if n >= minShapeSample {
		skew, kurt := shape(data, mean)
		s.Skewness = &skew
		s.Kurtosis = &kurt
	}
	return s
}

// mode returns the most frequent value, first seen on ties; nil when every value is unique
func mode(data []float64) *float64 {
	counts := make(map[float64]int, len(data))
	best, bestCount := 0.0, 1
	for _, v := range data {
		counts[v]++
	}
	for _, v := range data {
		if c := counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	if bestCount < 2 {
		return nil
	}
	return &best
}

// outliers returns the values outside [lower, upper] in input order
func outliers(data []float64, lower, upper float64) []float64 {
	out := []float64{}
	for _, v := range data {
		if v < lower || v > upper {
			out = append(out, v)
		}
	}
	return out
}

// shape computes the adjusted Fisher-Pearson skewness and the sample excess kurtosis.
// A constant sample has zero for both.
func shape(data []float64, mean float64) (float64, float64) {
	n := float64(len(data))
	var m2, m3, m4 float64
	for _, x := range data {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n
	if m2 == 0 {
		return 0, 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	skew := g1 * math.Sqrt(n*(n-1)) / (n - 2)

	g2 := m4/(m2*m2) - 3
	kurt := ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
	return skew, kurt
}
