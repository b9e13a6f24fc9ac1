// Package reference compares metric values against species and subtype benchmark ranges.
package reference

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"zoostat/domain/core"
	"zoostat/domain/species"
)

//go:embed reference.yaml
var embeddedTables []byte

// Range is a benchmark interval for one (species, subtype, metric)
type Range struct {
	Min      float64  `yaml:"min" json:"min"`
	Max      float64  `yaml:"max" json:"max"`
	IdealMin *float64 `yaml:"ideal_min" json:"ideal_min,omitempty"`
	IdealMax *float64 `yaml:"ideal_max" json:"ideal_max,omitempty"`
	Unit     string   `yaml:"unit" json:"unit"`
	Source   string   `yaml:"source" json:"source"`
}

// HasIdeal reports whether either side of the ideal band is defined
func (r Range) HasIdeal() bool {
	return r.IdealMin != nil || r.IdealMax != nil
}

type speciesTable struct {
	DefaultSubtype string                      `yaml:"default_subtype"`
	Subtypes       map[string]map[string]Range `yaml:"subtypes"`
}

type tablesFile struct {
	Species map[string]speciesTable `yaml:"species"`
}

// Tables is the read-only set of reference ranges
type Tables struct {
	species map[string]speciesTable
}

var (
	tablesOnce    sync.Once
	defaultTables *Tables
	tablesErr     error
)

// LoadTables returns the embedded reference tables, decoded once per process
func LoadTables() (*Tables, error) {
	tablesOnce.Do(func() {
		defaultTables, tablesErr = ParseTables(embeddedTables)
	})
	return defaultTables, tablesErr
}

// ParseTables decodes and checks a YAML reference document
func ParseTables(data []byte) (*Tables, error) {
	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode reference tables: %w", err)
	}

	t := &Tables{species: make(map[string]speciesTable, len(file.Species))}
	for rawSpecies, table := range file.Species {
		sp, ok := species.Normalize(rawSpecies)
		if !ok {
			return nil, fmt.Errorf("reference tables: unknown species %q", rawSpecies)
		}

		normalized := speciesTable{
			DefaultSubtype: core.NormalizeKey(table.DefaultSubtype),
			Subtypes:       make(map[string]map[string]Range, len(table.Subtypes)),
		}
		for rawSubtype, ranges := range table.Subtypes {
			sub := core.NormalizeKey(rawSubtype)
			out := make(map[string]Range, len(ranges))
			for rawMetric, rng := range ranges {
				if err := checkRange(rng); err != nil {
					return nil, fmt.Errorf("reference tables: %s/%s/%s: %w", sp, sub, rawMetric, err)
				}
				out[core.NormalizeKey(rawMetric)] = rng
			}
			normalized.Subtypes[sub] = out
		}
		if _, ok := normalized.Subtypes[normalized.DefaultSubtype]; !ok {
			return nil, fmt.Errorf("reference tables: default subtype %q missing for %s", normalized.DefaultSubtype, sp)
		}
		t.species[sp] = normalized
	}
	return t, nil
}

func checkRange(r Range) error {
	if r.Min > r.Max {
		return fmt.Errorf("min %v greater than max %v", r.Min, r.Max)
	}
	lo, hi := r.Min, r.Max
	if r.IdealMin != nil {
		lo = *r.IdealMin
	}
	if r.IdealMax != nil {
		hi = *r.IdealMax
	}
	if lo < r.Min || hi > r.Max || lo > hi {
		return fmt.Errorf("ideal band [%v, %v] outside [%v, %v]", lo, hi, r.Min, r.Max)
	}
	return nil
}

// Lookup finds the range for a canonical species, subtype and metric key.
// An empty subtype selects the species default. The resolved subtype is returned.
func (t *Tables) Lookup(speciesKey, subtype, metricKey string) (Range, string, bool) {
	table, ok := t.species[speciesKey]
	if !ok {
		return Range{}, "", false
	}
	sub := core.NormalizeKey(subtype)
	if sub == "" {
		sub = table.DefaultSubtype
	}
	ranges, ok := table.Subtypes[sub]
	if !ok {
		return Range{}, sub, false
	}
	rng, ok := ranges[core.NormalizeKey(metricKey)]
	return rng, sub, ok
}

// Subtypes lists the subtypes known for a species, sorted
func (t *Tables) Subtypes(speciesKey string) []string {
	table, ok := t.species[speciesKey]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(table.Subtypes))
	for sub := range table.Subtypes {
		out = append(out, sub)
	}
	sort.Strings(out)
	return out
}

// DefaultSubtype returns the subtype used when the caller gives none
func (t *Tables) DefaultSubtype(speciesKey string) string {
	return t.species[speciesKey].DefaultSubtype
}

// Ranges returns a copy of every range for the species and subtype
func (t *Tables) Ranges(speciesKey, subtype string) map[string]Range {
	table, ok := t.species[speciesKey]
	if !ok {
		return map[string]Range{}
	}
	sub := core.NormalizeKey(subtype)
	if sub == "" {
		sub = table.DefaultSubtype
	}
	out := make(map[string]Range, len(table.Subtypes[sub]))
	for k, v := range table.Subtypes[sub] {
		out[k] = v
	}
	return out
}
