package crossval

import (
	"context"
	"sort"

	"zoostat/domain/core"
	"zoostat/domain/dataset"
	"zoostat/domain/metrics"
	"zoostat/internal"
)

// RowResult collects every rule evaluated on one row
type RowResult struct {
	Index    int      `json:"index"`
	Results  []Result `json:"results"`
	Valid    bool     `json:"valid"`
	Warnings int      `json:"warnings"`
	Errors   int      `json:"errors"`
}

// Report aggregates row results over a dataset
type Report struct {
	Species          string         `json:"species"`
	Rows             []RowResult    `json:"rows"`
	RowsChecked      int            `json:"rows_checked"`
	RowsWithIssues   int            `json:"rows_with_issues"`
	TotalValidations int            `json:"total_validations"`
	TotalWarnings    int            `json:"total_warnings"`
	TotalErrors      int            `json:"total_errors"`
	ErrorsByRule     map[string]int `json:"errors_by_rule"`
	OverallValid     bool           `json:"overall_valid"`
}

// Validator maps row columns to canonical metrics and applies the rules
type Validator struct {
	registry *metrics.Registry
	logger   *internal.Logger
}

// NewValidator creates a validator; logger may be nil
func NewValidator(registry *metrics.Registry, logger *internal.Logger) *Validator {
	return &Validator{registry: registry, logger: logger.OrNop()}
}

// ValidateRow evaluates the GPD, FCR, IEP and plausibility rules whose inputs are present.
// A row with none of them yields no results and is valid.
func (v *Validator) ValidateRow(row dataset.Row, speciesRaw string) []Result {
	values := v.metricValues(row, speciesRaw)
	results := []Result{}

	initial, hasInitial := values["peso_inicial"]
	final, hasFinal := values["peso_final"]
	days, hasDays := values["dias"]

	if hasInitial && hasFinal && hasDays {
		results = append(results, ValidateGPD(initial, final, days, optional(values, "gpd")))
	}

	if feed, ok := values["consumo_racao"]; ok {
		gain, hasGain := values["ganho_total"]
		if !hasGain && hasInitial && hasFinal {
			gain, hasGain = final-initial, true
		}
		if hasGain {
			results = append(results, ValidateFCR(feed, gain, optional(values, "conversao_alimentar")))
		}
	}

	if r, ok := v.iep(values); ok {
		results = append(results, r)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if r, ok := CheckPlausibility(k, values[k], speciesRaw); ok {
			results = append(results, r)
		}
	}
	return results
}

// PerformCrossValidation validates every row. Rows are independent; the dataset is
// valid when no rule produced an error.
func (v *Validator) PerformCrossValidation(ctx context.Context, ds *dataset.Dataset, speciesRaw string) (Report, error) {
	if err := ds.Validate(); err != nil {
		return Report{}, err
	}

	report := Report{
		Species:      speciesRaw,
		Rows:         make([]RowResult, 0, ds.Len()),
		ErrorsByRule: make(map[string]int),
	}
	for i, row := range ds.Rows {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
		}
		rr := RowResult{Index: i, Results: v.ValidateRow(row, speciesRaw), Valid: true}
		for _, r := range rr.Results {
			rr.Warnings += len(r.Warnings)
			rr.Errors += len(r.Errors)
			if len(r.Errors) > 0 {
				report.ErrorsByRule[r.Rule]++
			}
		}
		rr.Valid = rr.Errors == 0

		report.RowsChecked++
		report.TotalValidations += len(rr.Results)
		report.TotalWarnings += rr.Warnings
		report.TotalErrors += rr.Errors
		if rr.Errors > 0 || rr.Warnings > 0 {
			report.RowsWithIssues++
		}
		report.Rows = append(report.Rows, rr)
	}
	report.OverallValid = report.TotalErrors == 0

	v.logger.Debug("cross-validation: %d rows, %d validations, %d warnings, %d errors",
		report.RowsChecked, report.TotalValidations, report.TotalWarnings, report.TotalErrors)
	return report, nil
}

// metricValues resolves each column to a canonical metric and parses its value.
// Unparsable cells are left out so their rules are skipped. When two columns map to
// the same metric the first in sorted column order wins.
func (v *Validator) metricValues(row dataset.Row, speciesRaw string) map[string]float64 {
	columns := make([]string, 0, len(row))
	for c := range row {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	out := make(map[string]float64, len(columns))
	for _, c := range columns {
		key := core.NormalizeKey(c)
		if v.registry != nil {
			m, ok := v.registry.ResolveMetric(c, speciesRaw)
			if !ok {
				continue
			}
			key = m.Key
		}
		if _, taken := out[key]; taken {
			continue
		}
		if f, ok := core.ParseLenientNumber(row[c]); ok {
			out[key] = f
		}
	}
	return out
}

func (v *Validator) iep(values map[string]float64) (Result, bool) {
	viability, ok := values["viabilidade"]
	if !ok {
		mortality, hasMortality := values["mortalidade"]
		if !hasMortality {
			return Result{}, false
		}
		viability = 100 - mortality
	}
	weight, ok := values["peso_final"]
	if !ok {
		if weight, ok = values["peso_vivo"]; !ok {
			return Result{}, false
		}
	}
	age, ok := values["idade"]
	if !ok {
		return Result{}, false
	}
	conversion, ok := values["conversao_alimentar"]
	if !ok {
		return Result{}, false
	}
	return ValidateIEP(viability, weight, age, conversion, optional(values, "iep")), true
}

func optional(values map[string]float64, key string) *float64 {
	if v, ok := values[key]; ok {
		return &v
	}
	return nil
}
