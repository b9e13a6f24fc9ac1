package inferential

import (
	"math"

	"zoostat/internal/analysis/descriptive"
)

// StatsWithCI is a compact summary with a 95% interval for the mean
type StatsWithCI struct {
	Mean   float64            `json:"mean"`
	Median float64            `json:"median"`
	StdDev float64            `json:"std_dev"`
	N      int                `json:"n"`
	CI95   ConfidenceInterval `json:"ci95"`
}

// CalculateStatsWithCI summarizes values with a t-based 95% interval for the mean.
// A single value has a zero-width interval.
func CalculateStatsWithCI(values []float64) (StatsWithCI, error) {
	s, err := descriptive.FromFloats(values)
	if err != nil {
		return StatsWithCI{}, err
	}

	n := s.ValidCount
	margin := 0.0
	if n > 1 {
		margin = CriticalValue(n-1, Level95) * s.StdDev / math.Sqrt(float64(n))
	}
	return StatsWithCI{
		Mean:   s.Mean,
		Median: s.Median,
		StdDev: s.StdDev,
		N:      n,
		CI95:   newInterval(s.Mean, margin, Level95),
	}, nil
}
