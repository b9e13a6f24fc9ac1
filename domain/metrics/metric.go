package metrics

import (
	"fmt"
	"strings"

	"zoostat/domain/core"
)

// ValidationRules bound the acceptable values of a metric. Bounds are inclusive.
type ValidationRules struct {
	MustBePositive bool     `yaml:"must_be_positive" json:"must_be_positive,omitempty"`
	Min            *float64 `yaml:"min" json:"min,omitempty"`
	Max            *float64 `yaml:"max" json:"max,omitempty"`
}

// Metric is a canonical zootechnical measurement
type Metric struct {
	Key           string           `yaml:"key" json:"key"`
	Name          string           `yaml:"name" json:"name"`
	Aliases       []string         `yaml:"aliases" json:"aliases"`
	Unit          string           `yaml:"unit" json:"unit"`
	AcceptedUnits []string         `yaml:"accepted_units" json:"accepted_units"`
	Species       []string         `yaml:"species" json:"species"`
	Category      string           `yaml:"category" json:"category"`
	Rules         *ValidationRules `yaml:"rules" json:"rules,omitempty"`
}

// AppliesTo reports whether the metric is defined for the canonical species key
func (m Metric) AppliesTo(speciesKey string) bool {
	for _, s := range m.Species {
		if s == speciesKey {
			return true
		}
	}
	return false
}

// AcceptsUnit reports whether unit is one of the metric's accepted units
func (m Metric) AcceptsUnit(unit string) bool {
	u := core.NormalizeUnit(unit)
	if u == core.NormalizeUnit(m.Unit) {
		return true
	}
	for _, accepted := range m.AcceptedUnits {
		if core.NormalizeUnit(accepted) == u {
			return true
		}
	}
	return false
}

// ValueValidation is the outcome of checking a value against a metric's rules
type ValueValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateMetricValue applies the metric's rules; a metric without rules accepts anything
func ValidateMetricValue(value float64, m Metric) ValueValidation {
	result := ValueValidation{Valid: true, Errors: []string{}}
	if m.Rules == nil {
		return result
	}

	label := m.Name
	if label == "" {
		label = m.Key
	}

	if m.Rules.MustBePositive && value <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%s deve ser positivo (valor: %s)", label, formatValue(value)))
	}
	if m.Rules.Min != nil && value < *m.Rules.Min {
		result.Errors = append(result.Errors, fmt.Sprintf("%s abaixo do mínimo permitido %s %s (valor: %s)",
			label, formatValue(*m.Rules.Min), m.Unit, formatValue(value)))
	}
	if m.Rules.Max != nil && value > *m.Rules.Max {
		result.Errors = append(result.Errors, fmt.Sprintf("%s acima do máximo permitido %s %s (valor: %s)",
			label, formatValue(*m.Rules.Max), m.Unit, formatValue(value)))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func formatValue(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
