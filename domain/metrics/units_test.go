package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	c := NewConverter(nil)

	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1, "kg", "g", 1000},
		{1000, "g", "kg", 1},
		{2.5, "Kg", "gramas", 2500},
		{1, "t", "kg", 1000},
		{1, "lb", "kg", 0.45359237},
		{85, "%", "decimal", 0.85},
		{0.9, "decimal", "%", 90},
		{2, "semanas", "dias", 14},
		{1, "anos", "dias", 365.25},
		{850, "g/dia", "kg/dia", 0.85},
		{1, "L", "ml", 1000},
		{1.5, "m", "cm", 150},
		{30, "mm", "cm", 3},
	}

	for _, tt := range tests {
		got := c.Convert(tt.value, tt.from, tt.to)
		assert.InDelta(t, tt.want, got, 1e-9, "%v %s -> %s", tt.value, tt.from, tt.to)
	}
}

func TestConvertIdentity(t *testing.T) {
	c := NewConverter(nil)
	for _, u := range []string{"kg", "%", "pontos", "unidade_desconhecida"} {
		assert.Equal(t, 42.5, c.Convert(42.5, u, u))
	}
}

func TestConvertUnknownPairReturnsValue(t *testing.T) {
	c := NewConverter(nil)

	got, ok := c.TryConvert(10, "kg", "dias")
	assert.False(t, ok)
	assert.Equal(t, 10.0, got)

	assert.Equal(t, 10.0, c.Convert(10, "furlong", "kg"))
	assert.False(t, Convertible("kg", "cm"))
	assert.True(t, Convertible("kg/d", "g/dia"))
}
