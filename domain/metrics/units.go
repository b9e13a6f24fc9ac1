package metrics

import (
	"zoostat/domain/core"
	"zoostat/internal"
)

type dimension string

const (
	dimMass       dimension = "mass"
	dimProportion dimension = "proportion"
	dimTime       dimension = "time"
	dimDailyRate  dimension = "daily_rate"
	dimVolume     dimension = "volume"
	dimLength     dimension = "length"
)

type unitDef struct {
	dim dimension
	// factor to the dimension's base unit; bases are the smallest unit so most factors are whole numbers
	factor float64
}

var unitTable = map[string]unitDef{
	"mg": {dimMass, 0.001},
	"g":  {dimMass, 1},
	"kg": {dimMass, 1000},
	"t":  {dimMass, 1e6},
	"lb": {dimMass, 453.59237},

	"%":       {dimProportion, 1},
	"decimal": {dimProportion, 100},

	"dias":    {dimTime, 1},
	"semanas": {dimTime, 7},
	"meses":   {dimTime, 30.4375},
	"anos":    {dimTime, 365.25},

	"g/dia":  {dimDailyRate, 1},
	"kg/dia": {dimDailyRate, 1000},

	"ml": {dimVolume, 1},
	"l":  {dimVolume, 1000},

	"mm": {dimLength, 1},
	"cm": {dimLength, 10},
	"m":  {dimLength, 1000},
}

var unitAliases = map[string]string{
	"kilo":        "kg",
	"quilo":       "kg",
	"quilos":      "kg",
	"quilograma":  "kg",
	"quilogramas": "kg",
	"kilogram":    "kg",
	"kgs":         "kg",

	"grama":  "g",
	"gramas": "g",
	"gram":   "g",
	"grams":  "g",

	"miligrama": "mg",

	"ton":       "t",
	"tonelada":  "t",
	"toneladas": "t",

	"lbs":    "lb",
	"libra":  "lb",
	"libras": "lb",
	"pound":  "lb",
	"pounds": "lb",

	"percent":     "%",
	"porcentagem": "%",
	"percentual":  "%",
	"pct":         "%",

	"fracao":    "decimal",
	"fraction":  "decimal",
	"proporcao": "decimal",

	"dia":  "dias",
	"d":    "dias",
	"day":  "dias",
	"days": "dias",

	"semana": "semanas",
	"sem":    "semanas",
	"week":   "semanas",
	"weeks":  "semanas",

	"mes":    "meses",
	"month":  "meses",
	"months": "meses",

	"ano":   "anos",
	"year":  "anos",
	"years": "anos",

	"kg/d":   "kg/dia",
	"kg/day": "kg/dia",
	"kgdia":  "kg/dia",

	"g/d":   "g/dia",
	"g/day": "g/dia",
	"gdia":  "g/dia",

	"litro":  "l",
	"litros": "l",
	"liter":  "l",
	"liters": "l",

	"mililitro":  "ml",
	"mililitros": "ml",

	"centimetro":  "cm",
	"centimetros": "cm",

	"metro":  "m",
	"metros": "m",

	"milimetro":  "mm",
	"milimetros": "mm",
}

// CanonicalUnit folds spelling variants ("Kg", "quilos", "g/d") onto the table's names.
// Unknown units come back normalized but otherwise unchanged.
func CanonicalUnit(unit string) string {
	u := core.NormalizeUnit(unit)
	if alias, ok := unitAliases[u]; ok {
		return alias
	}
	return u
}

// Converter converts values between units of the same dimension
type Converter struct {
	logger *internal.Logger
}

// NewConverter creates a converter; logger may be nil
func NewConverter(logger *internal.Logger) *Converter {
	return &Converter{logger: logger.OrNop()}
}

// TryConvert converts value and reports whether the unit pair is known.
// Identical units always succeed, even when neither is in the table.
func (c *Converter) TryConvert(value float64, from, to string) (float64, bool) {
	f, t := CanonicalUnit(from), CanonicalUnit(to)
	if f == t {
		return value, true
	}
	fromDef, ok := unitTable[f]
	if !ok {
		return value, false
	}
	toDef, ok := unitTable[t]
	if !ok || toDef.dim != fromDef.dim {
		return value, false
	}
	return value * fromDef.factor / toDef.factor, true
}

// Convert converts value between units; an unknown pair returns the value unchanged
// and logs a warning.
func (c *Converter) Convert(value float64, from, to string) float64 {
	converted, ok := c.TryConvert(value, from, to)
	if !ok {
		c.logger.Warn("no conversion from %q to %q, value returned unchanged", from, to)
	}
	return converted
}

// Convertible reports whether a conversion between the two units exists
func Convertible(from, to string) bool {
	f, t := CanonicalUnit(from), CanonicalUnit(to)
	if f == t {
		return true
	}
	fromDef, okFrom := unitTable[f]
	toDef, okTo := unitTable[t]
	return okFrom && okTo && fromDef.dim == toDef.dim
}
