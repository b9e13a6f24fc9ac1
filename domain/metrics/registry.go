package metrics

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"zoostat/domain/core"
	"zoostat/domain/species"
)

// minSubstringAlias keeps one-letter aliases out of the substring pass
const minSubstringAlias = 2

type aliasEntry struct {
	alias  string
	tokens []string
	index  int
}

// Registry is the immutable, precomputed lookup over a metric catalog.
// It is safe for concurrent use once built.
type Registry struct {
	metrics []Metric
	byKey   map[string]int
	exact   map[string]int // normalized alias -> metric index
	ordered []aliasEntry   // keys and aliases, longest first, for the substring pass
}

// NewRegistry builds the alias index. Duplicate keys, or an alias claimed by two
// different metrics, are rejected so lookups can never be ambiguous.
func NewRegistry(catalog []Metric) (*Registry, error) {
	r := &Registry{
		metrics: make([]Metric, 0, len(catalog)),
		byKey:   make(map[string]int, len(catalog)),
		exact:   make(map[string]int),
	}

	for _, m := range catalog {
		key := core.NormalizeKey(m.Key)
		if key == "" {
			return nil, fmt.Errorf("metric with empty key (name %q)", m.Name)
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate metric key %q", key)
		}
		m.Key = key
		m.Species = append([]string(nil), m.Species...)
		for i, s := range m.Species {
			if canonical, ok := species.Normalize(s); ok {
				m.Species[i] = canonical
			}
		}

		idx := len(r.metrics)
		r.metrics = append(r.metrics, m)
		r.byKey[key] = idx
	}

	// Keys first so an alias can never shadow another metric's key.
	for idx, m := range r.metrics {
		r.exact[m.Key] = idx
	}
	for idx, m := range r.metrics {
		for _, raw := range m.Aliases {
			alias := core.NormalizeKey(raw)
			if alias == "" {
				continue
			}
			if owner, taken := r.exact[alias]; taken && owner != idx {
				return nil, fmt.Errorf("alias %q of metric %q already maps to %q", alias, m.Key, r.metrics[owner].Key)
			}
			r.exact[alias] = idx
		}
	}

	for alias, idx := range r.exact {
		if utf8.RuneCountInString(alias) < minSubstringAlias {
			continue
		}
		r.ordered = append(r.ordered, aliasEntry{alias: alias, tokens: strings.Split(alias, "_"), index: idx})
	}
	sort.Slice(r.ordered, func(i, j int) bool {
		li, lj := len(r.ordered[i].alias), len(r.ordered[j].alias)
		if li != lj {
			return li > lj
		}
		return r.ordered[i].alias < r.ordered[j].alias
	})

	return r, nil
}

// ResolveMetric maps a raw column name or key to its canonical metric.
//
// Matching order: exact key or alias after normalization, then the longest key or
// alias contained in the name as a whole run of '_'-separated tokens. When speciesKey
// is non-empty, metrics not applicable to that species are skipped, so a mismatched
// metric is never returned.
func (r *Registry) ResolveMetric(raw string, speciesKey string) (Metric, bool) {
	name := core.NormalizeKey(raw)
	if name == "" {
		return Metric{}, false
	}

	filter := ""
	if strings.TrimSpace(speciesKey) != "" {
		if canonical, ok := species.Normalize(speciesKey); ok {
			filter = canonical
		} else {
			filter = core.NormalizeKey(speciesKey)
		}
	}
	applicable := func(idx int) bool {
		return filter == "" || r.metrics[idx].AppliesTo(filter)
	}

	if idx, ok := r.exact[name]; ok && applicable(idx) {
		return r.metrics[idx], true
	}

	tokens := strings.Split(name, "_")
	for _, entry := range r.ordered {
		if !applicable(entry.index) {
			continue
		}
		if containsTokenRun(tokens, entry.tokens) {
			return r.metrics[entry.index], true
		}
	}
	return Metric{}, false
}

// Get returns the metric stored under the canonical key
func (r *Registry) Get(key string) (Metric, bool) {
	idx, ok := r.byKey[core.NormalizeKey(key)]
	if !ok {
		return Metric{}, false
	}
	return r.metrics[idx], true
}

// MetricsForSpecies lists, in catalog order, every metric applicable to the species
func (r *Registry) MetricsForSpecies(speciesKey string) []Metric {
	canonical, ok := species.Normalize(speciesKey)
	if !ok {
		return []Metric{}
	}
	out := make([]Metric, 0, len(r.metrics))
	for _, m := range r.metrics {
		if m.AppliesTo(canonical) {
			out = append(out, m)
		}
	}
	return out
}

// All returns every metric in catalog order
func (r *Registry) All() []Metric {
	out := make([]Metric, len(r.metrics))
	copy(out, r.metrics)
	return out
}

// Len returns the catalog size
func (r *Registry) Len() int {
	return len(r.metrics)
}

func containsTokenRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, tok := range needle {
			if haystack[i+j] != tok {
				continue outer
			}
		}
		return true
	}
	return false
}
