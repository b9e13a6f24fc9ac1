package descriptive

import (
	"math"

	"zoostat/domain/core"
)

// CategoricalStats summarizes one qualitative column
type CategoricalStats struct {
	Distribution map[string]int     `json:"distribution"`
	Frequencies  map[string]float64 `json:"frequencies"` // percent of valid values
	Categories   []string           `json:"categories"`  // first-seen order
	MostCommon   string             `json:"most_common"`
	LeastCommon  string             `json:"least_common"`
	UniqueValues int                `json:"unique_values"`
	Entropy      float64            `json:"entropy"` // Shannon, bits
	ValidCount   int                `json:"valid_count"`
	MissingCount int                `json:"missing_count"`
}

// CalculateCategoricalStats counts trimmed values, skipping blanks and the literal
// "null"/"undefined". Ties for most and least common go to the first value seen.
func CalculateCategoricalStats(values []interface{}) CategoricalStats {
	s := CategoricalStats{
		Distribution: make(map[string]int),
		Frequencies:  make(map[string]float64),
		Categories:   []string{},
	}

	for _, raw := range values {
		if core.IsMissing(raw) {
			s.MissingCount++
			continue
		}
		v := core.ToString(raw)
		if v == "" {
			s.MissingCount++
			continue
		}
		if _, seen := s.Distribution[v]; !seen {
			s.Categories = append(s.Categories, v)
		}
		s.Distribution[v]++
		s.ValidCount++
	}

	s.UniqueValues = len(s.Categories)
	if s.ValidCount == 0 {
		return s
	}

	mostCount, leastCount := -1, math.MaxInt
	total := float64(s.ValidCount)
	for _, c := range s.Categories {
		count := s.Distribution[c]
		p := float64(count) / total
		s.Frequencies[c] = p * 100
		s.Entropy -= p * math.Log2(p)

		if count > mostCount {
			s.MostCommon, mostCount = c, count
		}
		if count < leastCount {
			s.LeastCommon, leastCount = c, count
		}
	}
	// a single category leaves -0
	s.Entropy = math.Abs(s.Entropy)
	return s
}
