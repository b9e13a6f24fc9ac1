package crossval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestValidateGPD(t *testing.T) {
	t.Run("final weight below initial", func(t *testing.T) {
		r := ValidateGPD(450, 300, 100, nil)
		assert.False(t, r.Valid)
		require.NotEmpty(t, r.Errors)
		assert.Contains(t, r.Errors[0], "menor")
		assert.Nil(t, r.Calculated)
	})

	t.Run("gross mismatch", func(t *testing.T) {
		r := ValidateGPD(300, 450, 100, f(3.0))
		assert.False(t, r.Valid)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0], "difere significativamente")
		require.NotNil(t, r.Calculated)
		assert.InDelta(t, 1.5, *r.Calculated, 1e-12)
		require.NotNil(t, r.DifferencePct)
		assert.InDelta(t, 100.0, *r.DifferencePct, 1e-9)
	})

	t.Run("warning band", func(t *testing.T) {
		r := ValidateGPD(300, 450, 100, f(1.65))
		assert.True(t, r.Valid)
		assert.Len(t, r.Warnings, 1)
		assert.Empty(t, r.Errors)
	})

	t.Run("within tolerance", func(t *testing.T) {
		r := ValidateGPD(300, 450, 100, f(1.52))
		assert.True(t, r.Valid)
		assert.Empty(t, r.Warnings)
		assert.Empty(t, r.Suggestions)
	})

	t.Run("nothing reported suggests calculated", func(t *testing.T) {
		r := ValidateGPD(300, 450, 100, nil)
		assert.True(t, r.Valid)
		require.Len(t, r.Suggestions, 1)
		assert.Contains(t, r.Suggestions[0], "1.500")
	})

	t.Run("reported in grams per day", func(t *testing.T) {
		r := ValidateGPD(300, 450, 100, f(1500))
		assert.False(t, r.Valid)
		assert.Contains(t, r.Suggestions[len(r.Suggestions)-1], "g/dia")
	})

	t.Run("zero days", func(t *testing.T) {
		r := ValidateGPD(300, 450, 0, nil)
		assert.False(t, r.Valid)
		assert.Nil(t, r.Calculated)
	})
}

func TestValidateFCR(t *testing.T) {
	r := ValidateFCR(900, 150, f(6.0))
	assert.True(t, r.Valid)
	require.NotNil(t, r.Calculated)
	assert.InDelta(t, 6.0, *r.Calculated, 1e-12)

	r = ValidateFCR(900, 150, f(7.0))
	assert.False(t, r.Valid, "16.7% off is beyond the 15% band")

	r = ValidateFCR(900, 150, f(6.6))
	assert.True(t, r.Valid)
	assert.Len(t, r.Warnings, 1, "10% off is a warning")

	r = ValidateFCR(900, 0, nil)
	assert.False(t, r.Valid)
	assert.Contains(t, r.Errors[0], "maior que zero")
}

func TestValidateIEP(t *testing.T) {
	// 95 * 2.8 / (42 * 1.65) * 100
	r := ValidateIEP(95, 2.8, 42, 1.65, nil)
	assert.True(t, r.Valid)
	require.NotNil(t, r.Calculated)
	assert.InDelta(t, 383.8383, *r.Calculated, 1e-3)

	r = ValidateIEP(95, 2.8, 42, 1.65, f(410))
	assert.True(t, r.Valid)
	assert.Len(t, r.Warnings, 1, "6.8% off is inside the IEP warning band")

	r = ValidateIEP(95, 2.8, 42, 1.65, f(430))
	assert.False(t, r.Valid, "12% off exceeds the 10% IEP band")

	r = ValidateIEP(0.95, 2.8, 42, 1.65, nil)
	assert.InDelta(t, 383.8383, *r.Calculated, 1e-3)
	assert.Len(t, r.Suggestions, 2)

	r = ValidateIEP(95, 2.8, 0, 1.65, nil)
	assert.False(t, r.Valid)
}

func TestCheckPlausibility(t *testing.T) {
	r, ok := CheckPlausibility("gpd", 3.5, "bovino")
	require.True(t, ok)
	assert.False(t, r.Valid)
	assert.Len(t, r.Errors, 1)

	r, ok = CheckPlausibility("gpd", 2.5, "Bovinos")
	require.True(t, ok)
	assert.True(t, r.Valid)
	assert.Len(t, r.Warnings, 1)

	r, ok = CheckPlausibility("gpd", 3, "bovino")
	require.True(t, ok)
	assert.True(t, r.Valid, "hard bounds are inclusive")

	r, ok = CheckPlausibility("gpd", 1.1, "bovino")
	require.True(t, ok)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)

	_, ok = CheckPlausibility("altura", 130, "bovino")
	assert.False(t, ok)
	_, ok = CheckPlausibility("gpd", 1, "equino")
	assert.False(t, ok)
}
