package reference

import (
	"fmt"
	"sort"
	"strconv"

	"zoostat/domain/core"
	"zoostat/domain/metrics"
	"zoostat/domain/species"
)

// Status classifies a value against its reference range
type Status string

const (
	StatusExcellent    Status = "excellent"
	StatusGood         Status = "good"
	StatusAcceptable   Status = "acceptable"
	StatusBelowMinimum Status = "below_minimum"
	StatusAboveMaximum Status = "above_maximum"
	StatusNoReference  Status = "no_reference"
)

// Overall statuses of a multi-metric comparison beyond the per-value tiers
const (
	OverallAttention = "attention"
	OverallNoData    = "no_data"
)

// tierRank orders the in-range tiers; lower is better
var tierRank = map[Status]int{
	StatusExcellent:   0,
	StatusGood:        1,
	StatusAcceptable:  2,
	StatusNoReference: 3,
}

// Validation is the result of comparing one value
type Validation struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Valid     bool    `json:"valid"`
	Status    Status  `json:"status"`
	Reference *Range  `json:"reference,omitempty"`
	Species   string  `json:"species"`
	Subtype   string  `json:"subtype,omitempty"`
	Message   string  `json:"message"`
}

// Comparison aggregates a set of validations
type Comparison struct {
	Species       string         `json:"species"`
	Subtype       string         `json:"subtype,omitempty"`
	Results       []Validation   `json:"results"`
	Summary       map[Status]int `json:"summary"`
	OverallStatus string         `json:"overall_status"`
}

// Service compares values against the reference tables. Metric names are resolved
// through the registry when one is given, so column names and aliases work as keys.
type Service struct {
	tables   *Tables
	registry *metrics.Registry
}

// NewService creates a reference service; registry may be nil
func NewService(tables *Tables, registry *metrics.Registry) *Service {
	return &Service{tables: tables, registry: registry}
}

// ValidateMetric classifies value for (species, subtype, metric). A missing benchmark
// yields StatusNoReference and is still valid.
func (s *Service) ValidateMetric(value float64, speciesRaw, metricKey, subtype string) Validation {
	sp, ok := species.Normalize(speciesRaw)
	if !ok {
		sp = core.NormalizeKey(speciesRaw)
	}
	key := s.canonicalMetric(metricKey, sp)

	v := Validation{Metric: key, Value: value, Species: sp, Valid: true, Status: StatusNoReference}

	rng, sub, found := s.tables.Lookup(sp, subtype, key)
	v.Subtype = sub
	if !found {
		v.Message = fmt.Sprintf("Sem referência para %s (%s%s)", key, sp, subtypeSuffix(sub))
		return v
	}

	ref := rng
	v.Reference = &ref
	v.Status = Classify(value, rng)
	v.Valid = v.Status != StatusBelowMinimum && v.Status != StatusAboveMaximum
	v.Message = describe(key, value, v.Status, rng)
	return v
}

// CompareMultipleMetrics validates every entry of data and derives the overall status:
// "attention" when any value is out of range, otherwise the best tier reached.
// Results are ordered by metric name.
func (s *Service) CompareMultipleMetrics(data map[string]float64, speciesRaw, subtype string) Comparison {
	sp, ok := species.Normalize(speciesRaw)
	if !ok {
		sp = core.NormalizeKey(speciesRaw)
	}
	cmp := Comparison{
		Species: sp,
		Subtype: subtype,
		Results: make([]Validation, 0, len(data)),
		Summary: make(map[Status]int),
	}
	if len(data) == 0 {
		cmp.OverallStatus = OverallNoData
		return cmp
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	outOfRange := false
	best := StatusNoReference
	for _, name := range names {
		v := s.ValidateMetric(data[name], speciesRaw, name, subtype)
		if cmp.Subtype == "" {
			cmp.Subtype = v.Subtype
		}
		cmp.Results = append(cmp.Results, v)
		cmp.Summary[v.Status]++

		if !v.Valid {
			outOfRange = true
			continue
		}
		if tierRank[v.Status] < tierRank[best] {
			best = v.Status
		}
	}

	if outOfRange {
		cmp.OverallStatus = OverallAttention
	} else {
		cmp.OverallStatus = string(best)
	}
	return cmp
}

// Classify places value in a range. Bounds are inclusive. Between a bound and the
// ideal band, the half nearer the band is good and the outer half acceptable.
func Classify(value float64, rng Range) Status {
	if value < rng.Min {
		return StatusBelowMinimum
	}
	if value > rng.Max {
		return StatusAboveMaximum
	}
	if !rng.HasIdeal() {
		return StatusAcceptable
	}

	lo, hi := rng.Min, rng.Max
	if rng.IdealMin != nil {
		lo = *rng.IdealMin
	}
	if rng.IdealMax != nil {
		hi = *rng.IdealMax
	}

	switch {
	case value >= lo && value <= hi:
		return StatusExcellent
	case value < lo:
		if value >= (rng.Min+lo)/2 {
			return StatusGood
		}
		return StatusAcceptable
	default:
		if value <= (hi+rng.Max)/2 {
			return StatusGood
		}
		return StatusAcceptable
	}
}

// Tables exposes the underlying reference tables
func (s *Service) Tables() *Tables {
	return s.tables
}

func (s *Service) canonicalMetric(raw, sp string) string {
	if s.registry != nil {
		if m, ok := s.registry.ResolveMetric(raw, sp); ok {
			return m.Key
		}
	}
	return core.NormalizeKey(raw)
}

func describe(key string, value float64, status Status, rng Range) string {
	val := num(value)
	switch status {
	case StatusBelowMinimum:
		return fmt.Sprintf("%s = %s %s abaixo do mínimo de referência (%s %s; %s)", key, val, rng.Unit, num(rng.Min), rng.Unit, rng.Source)
	case StatusAboveMaximum:
		return fmt.Sprintf("%s = %s %s acima do máximo de referência (%s %s; %s)", key, val, rng.Unit, num(rng.Max), rng.Unit, rng.Source)
	case StatusExcellent:
		return fmt.Sprintf("%s = %s %s dentro da faixa ideal", key, val, rng.Unit)
	case StatusGood:
		return fmt.Sprintf("%s = %s %s próximo da faixa ideal", key, val, rng.Unit)
	default:
		return fmt.Sprintf("%s = %s %s dentro da faixa aceitável (%s a %s %s)", key, val, rng.Unit, num(rng.Min), num(rng.Max), rng.Unit)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func subtypeSuffix(sub string) string {
	if sub == "" {
		return ""
	}
	return "/" + sub
}
