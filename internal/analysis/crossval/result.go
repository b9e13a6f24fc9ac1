// Package crossval recomputes derived zootechnical indices from their inputs and
// checks reported values and biological plausibility.
package crossval

// Rule names
const (
	RuleGPD          = "gpd"
	RuleFCR          = "conversao_alimentar"
	RuleIEP          = "iep"
	RulePlausibility = "plausibilidade"
)

// Tolerance bands as a fraction of the calculated value
const (
	standardErrorTolerance   = 0.15
	standardWarningTolerance = 0.075
	iepErrorTolerance        = 0.10
	iepWarningTolerance      = 0.05
)

// Result is the outcome of one rule on one row. Invalid data is reported here,
// never as an error.
type Result struct {
	Rule          string   `json:"rule"`
	Metric        string   `json:"metric,omitempty"`
	Valid         bool     `json:"valid"`
	Warnings      []string `json:"warnings"`
	Errors        []string `json:"errors"`
	Suggestions   []string `json:"suggestions"`
	Calculated    *float64 `json:"calculated,omitempty"`
	Reported      *float64 `json:"reported,omitempty"`
	DifferencePct *float64 `json:"difference_pct,omitempty"`
}

func newResult(rule string) Result {
	return Result{Rule: rule, Valid: true, Warnings: []string{}, Errors: []string{}, Suggestions: []string{}}
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Result) addSuggestion(msg string) {
	r.Suggestions = append(r.Suggestions, msg)
}

func ptr(v float64) *float64 {
	return &v
}
