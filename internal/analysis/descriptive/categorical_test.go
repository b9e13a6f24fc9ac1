package descriptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCategoricalStats(t *testing.T) {
	values := []interface{}{" Nelore", "Angus", "Nelore ", "null", "", nil, "Angus", "Brahman", "UNDEFINED"}

	s := CalculateCategoricalStats(values)

	assert.Equal(t, 5, s.ValidCount)
	assert.Equal(t, 4, s.MissingCount)
	assert.Equal(t, 3, s.UniqueValues)
	assert.Equal(t, []string{"Nelore", "Angus", "Brahman"}, s.Categories)
	assert.Equal(t, map[string]int{"Nelore": 2, "Angus": 2, "Brahman": 1}, s.Distribution)
	assert.InDelta(t, 40.0, s.Frequencies["Nelore"], 1e-12)
	assert.InDelta(t, 20.0, s.Frequencies["Brahman"], 1e-12)
	assert.Equal(t, "Nelore", s.MostCommon, "ties go to the first value seen")
	assert.Equal(t, "Brahman", s.LeastCommon)
	assert.InDelta(t, 1.5219280949, s.Entropy, 1e-9)
}

func TestCategoricalEntropyBounds(t *testing.T) {
	single := CalculateCategoricalStats([]interface{}{"a", "a", "a"})
	assert.Equal(t, 0.0, single.Entropy)

	uniform := CalculateCategoricalStats([]interface{}{"a", "b", "c", "d"})
	assert.InDelta(t, 2.0, uniform.Entropy, 1e-12)
	assert.Equal(t, "a", uniform.MostCommon)
	assert.Equal(t, "a", uniform.LeastCommon)
}

func TestCategoricalEmpty(t *testing.T) {
	s := CalculateCategoricalStats([]interface{}{nil, " "})
	assert.Equal(t, 0, s.ValidCount)
	assert.Equal(t, 2, s.MissingCount)
	assert.Empty(t, s.MostCommon)
	assert.Empty(t, s.Categories)
}
