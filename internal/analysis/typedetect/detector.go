// Package typedetect classifies raw columns into semantic variable types.
package typedetect

import (
	"math"
	"strings"
	"time"
	"unicode"

	"zoostat/domain/core"
	"zoostat/domain/metrics"
)

// Detector classifies columns. It never fails: an empty or ambiguous column is nominal.
type Detector struct {
	config   DetectionConfig
	registry *metrics.Registry
}

// NewDetector creates a detector; registry may be nil, in which case units come only
// from the name table
func NewDetector(config DetectionConfig, registry *metrics.Registry) *Detector {
	return &Detector{config: config, registry: registry}
}

// DetectVariableType classifies a named column from its raw values.
//
// Precedence: temporal, identifier, quantitative (discrete or continuous), then
// qualitative (ordinal or nominal). A numeric column resolving to a catalog metric is
// never an identifier.
func (d *Detector) DetectVariableType(column string, values []interface{}) VariableTypeInfo {
	info := VariableTypeInfo{Type: TypeNominal, RawType: RawString}

	name := core.NormalizeKey(column)
	tokens := strings.Split(name, "_")
	d.annotateDomain(&info, column, tokens)

	present := make([]interface{}, 0, len(values))
	for _, v := range values {
		if !core.IsMissing(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return info
	}

	if allTemporal(present) {
		info.Type = TypeTemporal
		info.RawType = RawDate
		return info
	}

	texts := make([]string, len(present))
	unique := make(map[string]struct{}, len(present))
	for i, v := range present {
		texts[i] = core.ToString(v)
		unique[texts[i]] = struct{}{}
	}
	uniqueRatio := float64(len(unique)) / float64(len(present))

	numbers, numericRatio := strictNumbers(present)

	// numeric columns that resolve to a catalog metric are measurements, whatever the name says
	measurement := info.MetricKey != "" && numericRatio >= d.config.NumericThreshold
	if !measurement && d.isIdentifier(tokens, texts, uniqueRatio) {
		info.Type = TypeIdentifier
		if numericRatio == 1 {
			info.RawType = RawNumeric
		}
		return info
	}

	if numericRatio >= d.config.NumericThreshold {
		info.RawType = RawNumeric
		info.Type = d.quantitativeKind(numbers)
		return info
	}

	if isOrdinal(unique) {
		info.Type = TypeOrdinal
	}
	return info
}

func (d *Detector) annotateDomain(info *VariableTypeInfo, column string, tokens []string) {
	if d.registry != nil {
		if m, ok := d.registry.ResolveMetric(column, ""); ok {
			info.IsZootechnical = true
			info.MetricKey = m.Key
			info.Unit = m.Unit
			return
		}
	}

	for _, tok := range tokens {
		if _, ok := zootechnicalTerms[tok]; ok {
			info.IsZootechnical = true
			break
		}
	}
	for _, entry := range nameUnits {
		if containsTokenRun(tokens, entry.tokens) {
			info.IsZootechnical = true
			info.Unit = entry.unit
			return
		}
	}
}

func (d *Detector) isIdentifier(tokens, texts []string, uniqueRatio float64) bool {
	if idLikeName(tokens) && uniqueRatio >= d.config.IdentifierUniqueness {
		return true
	}
	if len(texts) < d.config.MinCodeSample || uniqueRatio < d.config.CodeUniqueness {
		return false
	}
	for _, s := range texts {
		if !isAlphanumericCode(s) {
			return false
		}
	}
	return true
}

func (d *Detector) quantitativeKind(numbers []float64) VariableType {
	distinct := make(map[float64]struct{}, len(numbers))
	for _, v := range numbers {
		if v != math.Trunc(v) {
			return TypeContinuous
		}
		distinct[v] = struct{}{}
	}
	limit := len(numbers) / 2
	if limit < 2 {
		limit = 2
	}
	if len(distinct) <= d.config.MaxDiscreteValues && len(distinct) <= limit {
		return TypeDiscrete
	}
	return TypeContinuous
}

func strictNumbers(values []interface{}) ([]float64, float64) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !core.IsStrictNumber(v) {
			continue
		}
		if f, ok := core.ParseLenientNumber(v); ok {
			out = append(out, f)
		}
	}
	return out, float64(len(out)) / float64(len(values))
}

func idLikeName(tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := identifierTerms[tok]; ok {
			return true
		}
	}
	return false
}

// isAlphanumericCode matches compact codes that mix letters and digits, such as
// "BR-0012" or "A17"
func isAlphanumericCode(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	letters, digits := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		case r == '-' || r == '_' || r == '/' || r == '.':
		default:
			return false
		}
	}
	return letters > 0 && digits > 0
}

func isOrdinal(unique map[string]struct{}) bool {
	normalized := make([]string, 0, len(unique))
	for v := range unique {
		normalized = append(normalized, core.NormalizeKey(v))
	}
	for _, scale := range ordinalScales {
		if subsetOf(normalized, scale) {
			return true
		}
	}
	return false
}

func subsetOf(values, scale []string) bool {
	for _, v := range values {
		found := false
		for _, s := range scale {
			if v == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"02/01/2006 15:04",
	"02-Jan-2006",
}

// ParseDate parses the ISO-like and day-first layouts common in farm records
func ParseDate(raw interface{}) (time.Time, bool) {
	if t, ok := raw.(time.Time); ok {
		return t, !t.IsZero()
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func allTemporal(values []interface{}) bool {
	for _, v := range values {
		if _, ok := ParseDate(v); !ok {
			return false
		}
	}
	return true
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
