// Package correlation discovers and ranks pairwise correlations between the numeric
// columns of a dataset, scoring each by its biological relevance for the species.
package correlation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"zoostat/domain/dataset"
	"zoostat/domain/metrics"
	"zoostat/domain/species"
	"zoostat/internal"
	"zoostat/internal/analysis/inferential"
	"zoostat/internal/analysis/typedetect"
)

// CategoryExploratory labels ad-hoc pairs whose metrics share no category
const CategoryExploratory = "exploratoria"

// Options filter and bound the discovery. Zero values take the defaults.
type Options struct {
	MinDataPoints     int     `json:"min_data_points"`
	MinRelevanceScore float64 `json:"min_relevance_score"`
	SignificanceLevel float64 `json:"significance_level"`
	OnlySignificant   bool    `json:"only_significant"`
	MaxCorrelations   int     `json:"max_correlations"` // 0 keeps all
	SkipAdHoc         bool    `json:"skip_ad_hoc"`
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{MinDataPoints: 10, SignificanceLevel: 0.05}
}

func (o Options) withDefaults() Options {
	if o.MinDataPoints < 3 {
		if o.MinDataPoints <= 0 {
			o.MinDataPoints = 10
		} else {
			o.MinDataPoints = 3
		}
	}
	if o.SignificanceLevel <= 0 || o.SignificanceLevel >= 1 {
		o.SignificanceLevel = 0.05
	}
	return o
}

// Point is one paired observation
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result describes one evaluated pair
type Result struct {
	Var1               string  `json:"var1"`
	Var2               string  `json:"var2"`
	Metric1            string  `json:"metric1,omitempty"`
	Metric2            string  `json:"metric2,omitempty"`
	Coefficient        float64 `json:"coefficient"`
	PValue             float64 `json:"p_value"`
	Significant        bool    `json:"significant"`
	Strength           string  `json:"strength"`
	Direction          string  `json:"direction"`
	RelevanceScore     float64 `json:"relevance_score"`
	Category           string  `json:"category"`
	Interpretation     string  `json:"interpretation"`
	ExpectedDirection  string  `json:"expected_direction,omitempty"`
	MatchesExpectation *bool   `json:"matches_expectation,omitempty"`
	Configured         bool    `json:"configured"`
	DataPoints         []Point `json:"data_points"`
}

// Report is the ranked output of a discovery run
type Report struct {
	Species         string   `json:"species"`
	Correlations    []Result `json:"correlations"`
	ColumnsAnalyzed []string `json:"columns_analyzed"`
	PairsEvaluated  int      `json:"pairs_evaluated"`
	TotalFound      int      `json:"total_found"`
	Warnings        []string `json:"warnings"`
}

// Engine runs correlation discovery. It is safe for concurrent use.
type Engine struct {
	registry *metrics.Registry
	detector *typedetect.Detector
	logger   *internal.Logger
}

// NewEngine creates an engine; logger may be nil
func NewEngine(registry *metrics.Registry, detector *typedetect.Detector, logger *internal.Logger) *Engine {
	return &Engine{registry: registry, detector: detector, logger: logger.OrNop()}
}

type numericColumn struct {
	name   string
	metric metrics.Metric
	known  bool
	values []float64
	ok     []bool
}

// Discover evaluates the configured pairs for the species plus, unless disabled, every
// other pair of usable numeric columns. Unknown species and datasets with fewer than
// two usable columns produce an empty report with a warning. Only context
// cancellation is returned as an error.
func (e *Engine) Discover(ctx context.Context, ds *dataset.Dataset, speciesRaw string, opts Options) (Report, error) {
	opts = opts.withDefaults()
	report := Report{Species: speciesRaw, Correlations: []Result{}, ColumnsAnalyzed: []string{}, Warnings: []string{}}

	sp, ok := species.Normalize(speciesRaw)
	if !ok {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Espécie desconhecida: %q; nenhuma correlação avaliada", speciesRaw))
		return report, nil
	}
	report.Species = sp

	if ds == nil || ds.Len() == 0 {
		report.Warnings = append(report.Warnings, "Conjunto de dados vazio")
		return report, nil
	}

	columns := e.usableColumns(ds, sp, opts.MinDataPoints)
	for _, c := range columns {
		report.ColumnsAnalyzed = append(report.ColumnsAnalyzed, c.name)
	}
	if len(columns) < 2 {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"São necessárias ao menos 2 colunas numéricas com %d ou mais observações; encontradas %d", opts.MinDataPoints, len(columns)))
		return report, nil
	}

	level := levelFor(opts.SignificanceLevel)

	byMetric := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, taken := byMetric[c.metric.Key]; c.known && !taken {
			byMetric[c.metric.Key] = i
		}
	}

	evaluated := make(map[[2]int]bool)
	var found []Result

	for _, spec := range PairsFor(sp) {
		i, ok1 := byMetric[spec.Var1]
		j, ok2 := byMetric[spec.Var2]
		if !ok1 || !ok2 || i == j {
			continue
		}
		evaluated[pairKey(i, j)] = true
		if r, ok := e.evaluate(columns[i], columns[j], &spec, opts.MinDataPoints, level); ok {
			found = append(found, r)
		}
		report.PairsEvaluated++
	}

	if !opts.SkipAdHoc {
		for i := 0; i < len(columns); i++ {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			for j := i + 1; j < len(columns); j++ {
				if evaluated[pairKey(i, j)] {
					continue
				}
				report.PairsEvaluated++
				if r, ok := e.evaluate(columns[i], columns[j], nil, opts.MinDataPoints, level); ok {
					found = append(found, r)
				}
			}
		}
	}

	report.TotalFound = len(found)
	report.Correlations = rank(found, opts)
	e.logger.Debug("correlation discovery (%s): %d columns, %d pairs, %d kept",
		sp, len(columns), report.PairsEvaluated, len(report.Correlations))
	return report, nil
}

func (e *Engine) usableColumns(ds *dataset.Dataset, sp string, minPoints int) []numericColumn {
	var out []numericColumn
	for _, name := range ds.Columns {
		raw := ds.Column(name)
		info := e.detector.DetectVariableType(name, raw)
		if !info.Type.IsQuantitative() {
			continue
		}
		values, ok := ds.NumericColumn(name)
		count := 0
		for _, b := range ok {
			if b {
				count++
			}
		}
		if count < minPoints {
			continue
		}
		col := numericColumn{name: name, values: values, ok: ok}
		if e.registry != nil {
			col.metric, col.known = e.registry.ResolveMetric(name, sp)
		}
		out = append(out, col)
	}
	return out
}

func (e *Engine) evaluate(a, b numericColumn, spec *PairSpec, minPoints, level int) (Result, bool) {
	xs := make([]float64, 0, len(a.values))
	ys := make([]float64, 0, len(a.values))
	for i := range a.values {
		if a.ok[i] && b.ok[i] {
			xs = append(xs, a.values[i])
			ys = append(ys, b.values[i])
		}
	}
	if len(xs) < minPoints {
		return Result{}, false
	}

	pr, err := inferential.PearsonCorrelation(xs, ys, level)
	if err != nil {
		e.logger.Debug("correlation %s x %s skipped: %v", a.name, b.name, err)
		return Result{}, false
	}

	r := Result{
		Var1:        a.name,
		Var2:        b.name,
		Coefficient: pr.Coefficient,
		PValue:      pr.PValue,
		Significant: pr.Significant,
		Strength:    pr.Strength,
		Direction:   pr.Direction,
		DataPoints:  make([]Point, len(xs)),
	}
	if a.known {
		r.Metric1 = a.metric.Key
	}
	if b.known {
		r.Metric2 = b.metric.Key
	}
	for i := range xs {
		r.DataPoints[i] = Point{X: xs[i], Y: ys[i]}
	}

	var base float64
	if spec != nil {
		base = spec.Importance
		r.Configured = true
		r.Category = spec.Category
		r.ExpectedDirection = spec.ExpectedDirection
		if r.Direction != inferential.DirectionNone {
			matches := r.Direction == spec.ExpectedDirection
			r.MatchesExpectation = &matches
		}
	} else {
		base, r.Category = adHocBaseline(a, b)
	}

	r.RelevanceScore = relevance(base, r)
	r.Interpretation = interpret(r, pr, spec)
	return r, true
}

// adHocBaseline scores pairs outside the catalog: 3 when both columns are known
// metrics, 2 when one is, 1 otherwise
func adHocBaseline(a, b numericColumn) (float64, string) {
	switch {
	case a.known && b.known:
		if a.metric.Category != "" && a.metric.Category == b.metric.Category {
			return 3, a.metric.Category
		}
		return 3, CategoryExploratory
	case a.known || b.known:
		return 2, CategoryExploratory
	default:
		return 1, CategoryExploratory
	}
}

// relevance weighs domain importance over statistical strength, clamped to [0, 10]
func relevance(base float64, r Result) float64 {
	score := base*0.6 + math.Abs(r.Coefficient)*3
	if r.Significant {
		score++
	}
	if r.MatchesExpectation != nil && !*r.MatchesExpectation {
		score--
	}
	score = math.Max(0, math.Min(10, score))
	return math.Round(score*100) / 100
}

func rank(found []Result, opts Options) []Result {
	kept := make([]Result, 0, len(found))
	for _, r := range found {
		if r.RelevanceScore < opts.MinRelevanceScore {
			continue
		}
		if opts.OnlySignificant && !r.Significant {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if ca, cb := math.Abs(a.Coefficient), math.Abs(b.Coefficient); ca != cb {
			return ca > cb
		}
		if a.Var1 != b.Var1 {
			return a.Var1 < b.Var1
		}
		return a.Var2 < b.Var2
	})

	if opts.MaxCorrelations > 0 && len(kept) > opts.MaxCorrelations {
		kept = kept[:opts.MaxCorrelations]
	}
	return kept
}

func interpret(r Result, pr inferential.CorrelationResult, spec *PairSpec) string {
	text := fmt.Sprintf("%s x %s: %s", r.Var1, r.Var2, pr.Interpretation)
	if spec == nil {
		return text
	}
	switch {
	case r.MatchesExpectation == nil:
		return text
	case *r.MatchesExpectation:
		return text + " Conforme o esperado: " + spec.Rationale + "."
	default:
		return text + " Contrária ao esperado; verifique os dados (" + spec.Rationale + ")."
	}
}

// levelFor snaps a significance level onto the 90/95/99 tables
func levelFor(alpha float64) int {
	switch {
	case alpha >= 0.1:
		return inferential.Level90
	case alpha <= 0.01:
		return inferential.Level99
	default:
		return inferential.Level95
	}
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}
