package correlation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoostat/domain/dataset"
	"zoostat/domain/metrics"
	"zoostat/internal/analysis/inferential"
	"zoostat/internal/analysis/typedetect"
)

var temperatures = []float64{20, 22, 19, 25, 21, 23, 18, 24, 20, 22, 21, 19}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	registry, err := metrics.LoadCatalog()
	require.NoError(t, err)
	return NewEngine(registry, typedetect.NewDetector(typedetect.DefaultDetectionConfig(), registry), nil)
}

// feedlot builds 12 animals where weight, gain and conversion move together.
// When conversionRises is set, conversion worsens as gain improves.
func feedlot(conversionRises bool) *dataset.Dataset {
	rows := make([]dataset.Row, 12)
	for i := range rows {
		fi := float64(i)
		fcr := 8 - 0.1*fi
		if conversionRises {
			fcr = 6 + 0.1*fi
		}
		rows[i] = dataset.Row{
			"animal_id":           fmt.Sprintf("BR-%03d", i+1),
			"peso_inicial":        200 + 10*fi,
			"peso_final":          400 + 15*fi,
			"gpd":                 1.0 + 0.05*fi,
			"conversao_alimentar": fcr,
			"temperatura":         temperatures[i],
		}
	}
	return dataset.New("confinamento",
		[]string{"animal_id", "peso_inicial", "peso_final", "gpd", "conversao_alimentar", "temperatura"}, rows)
}

func find(t *testing.T, results []Result, a, b string) Result {
	t.Helper()
	for _, r := range results {
		if (r.Var1 == a && r.Var2 == b) || (r.Var1 == b && r.Var2 == a) {
			return r
		}
	}
	t.Fatalf("pair %s x %s not found", a, b)
	return Result{}
}

func TestDiscover_ConfiguredPairs(t *testing.T) {
	engine := newTestEngine(t)
	report, err := engine.Discover(context.Background(), feedlot(false), "Bovino", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "bovino", report.Species)
	assert.Empty(t, report.Warnings)
	assert.NotContains(t, report.ColumnsAnalyzed, "animal_id")
	assert.Len(t, report.ColumnsAnalyzed, 5)
	assert.Equal(t, 10, report.PairsEvaluated)
	assert.Equal(t, 10, report.TotalFound)

	gain := find(t, report.Correlations, "gpd", "peso_final")
	assert.True(t, gain.Configured)
	assert.Equal(t, "desempenho", gain.Category)
	assert.InDelta(t, 1.0, gain.Coefficient, 1e-9)
	assert.True(t, gain.Significant)
	require.NotNil(t, gain.MatchesExpectation)
	assert.True(t, *gain.MatchesExpectation)
	assert.InDelta(t, 9.4, gain.RelevanceScore, 0.01)
	assert.Len(t, gain.DataPoints, 12)
	assert.Contains(t, gain.Interpretation, "Conforme o esperado")

	fcr := find(t, report.Correlations, "conversao_alimentar", "gpd")
	assert.InDelta(t, -1.0, fcr.Coefficient, 1e-9)
	require.NotNil(t, fcr.MatchesExpectation)
	assert.True(t, *fcr.MatchesExpectation)
}

func TestDiscover_ContradictedExpectationIsPenalized(t *testing.T) {
	engine := newTestEngine(t)
	report, err := engine.Discover(context.Background(), feedlot(true), "bovino", DefaultOptions())
	require.NoError(t, err)

	fcr := find(t, report.Correlations, "conversao_alimentar", "gpd")
	require.NotNil(t, fcr.MatchesExpectation)
	assert.False(t, *fcr.MatchesExpectation)
	assert.InDelta(t, 8.4, fcr.RelevanceScore, 0.01)
	assert.Contains(t, fcr.Interpretation, "Contrária ao esperado")
}

func TestDiscover_AdHocBaseline(t *testing.T) {
	engine := newTestEngine(t)
	report, err := engine.Discover(context.Background(), feedlot(false), "bovino", DefaultOptions())
	require.NoError(t, err)

	r := find(t, report.Correlations, "gpd", "temperatura")
	assert.False(t, r.Configured)
	assert.Equal(t, CategoryExploratory, r.Category)
	assert.Nil(t, r.MatchesExpectation)
	assert.Empty(t, r.ExpectedDirection)
	assert.LessOrEqual(t, r.RelevanceScore, 2*0.6+3+1)

	both := find(t, report.Correlations, "peso_inicial", "gpd")
	assert.False(t, both.Configured)
	assert.InDelta(t, 3*0.6+3+1, both.RelevanceScore, 0.01)
}

func TestDiscover_Ordering(t *testing.T) {
	engine := newTestEngine(t)
	report, err := engine.Discover(context.Background(), feedlot(false), "bovino", DefaultOptions())
	require.NoError(t, err)

	for i := 1; i < len(report.Correlations); i++ {
		assert.GreaterOrEqual(t, report.Correlations[i-1].RelevanceScore, report.Correlations[i].RelevanceScore)
	}
}

func TestDiscover_Options(t *testing.T) {
	engine := newTestEngine(t)
	ds := feedlot(false)

	opts := DefaultOptions()
	opts.SkipAdHoc = true
	report, err := engine.Discover(context.Background(), ds, "bovino", opts)
	require.NoError(t, err)
	assert.Len(t, report.Correlations, 3)
	for _, r := range report.Correlations {
		assert.True(t, r.Configured)
	}

	opts = DefaultOptions()
	opts.MaxCorrelations = 2
	report, err = engine.Discover(context.Background(), ds, "bovino", opts)
	require.NoError(t, err)
	assert.Len(t, report.Correlations, 2)
	assert.Equal(t, 10, report.TotalFound)

	opts = DefaultOptions()
	opts.MinRelevanceScore = 9
	report, err = engine.Discover(context.Background(), ds, "bovino", opts)
	require.NoError(t, err)
	for _, r := range report.Correlations {
		assert.GreaterOrEqual(t, r.RelevanceScore, 9.0)
	}

	opts = DefaultOptions()
	opts.OnlySignificant = true
	report, err = engine.Discover(context.Background(), ds, "bovino", opts)
	require.NoError(t, err)
	for _, r := range report.Correlations {
		assert.True(t, r.Significant)
	}
}

func TestDiscover_SignificanceMatchesPearson(t *testing.T) {
	engine := newTestEngine(t)
	for _, alpha := range []float64{0.1, 0.05, 0.01} {
		opts := DefaultOptions()
		opts.SignificanceLevel = alpha
		report, err := engine.Discover(context.Background(), feedlot(false), "bovino", opts)
		require.NoError(t, err)
		require.NotEmpty(t, report.Correlations)

		for _, r := range report.Correlations {
			xs := make([]float64, len(r.DataPoints))
			ys := make([]float64, len(r.DataPoints))
			for i, p := range r.DataPoints {
				xs[i], ys[i] = p.X, p.Y
			}
			pr, err := inferential.PearsonCorrelation(xs, ys, levelFor(alpha))
			require.NoError(t, err)
			assert.Equal(t, pr.Significant, r.Significant, "%s x %s alpha %v", r.Var1, r.Var2, alpha)
			assert.Equal(t, r.Significant, r.PValue < alpha, "%s x %s alpha %v p %v", r.Var1, r.Var2, alpha, r.PValue)
		}
	}
}

func TestDiscover_PairwiseCompleteObservations(t *testing.T) {
	engine := newTestEngine(t)
	ds := feedlot(false)
	ds.Rows[0]["gpd"] = nil
	ds.Rows[1]["peso_final"] = "n/d"

	opts := DefaultOptions()
	opts.SkipAdHoc = true
	report, err := engine.Discover(context.Background(), ds, "bovino", opts)
	require.NoError(t, err)

	r := find(t, report.Correlations, "gpd", "peso_final")
	assert.Len(t, r.DataPoints, 10)

	opts.MinDataPoints = 11
	report, err = engine.Discover(context.Background(), ds, "bovino", opts)
	require.NoError(t, err)
	for _, c := range report.Correlations {
		assert.False(t, c.Var1 == "gpd" && c.Var2 == "peso_final")
	}
}

func TestDiscover_EmptyOutcomes(t *testing.T) {
	engine := newTestEngine(t)

	report, err := engine.Discover(context.Background(), feedlot(false), "equino", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Correlations)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Espécie desconhecida")

	report, err = engine.Discover(context.Background(), dataset.New("vazio", nil, nil), "bovino", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Correlations)
	assert.NotEmpty(t, report.Warnings)

	small := dataset.FromRows("pequeno", []dataset.Row{{"gpd": 1.1, "lote": "A"}, {"gpd": 1.2, "lote": "B"}})
	report, err = engine.Discover(context.Background(), small, "bovino", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Correlations)
	assert.NotEmpty(t, report.Warnings)
}

func TestDiscover_Cancelled(t *testing.T) {
	engine := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Discover(ctx, feedlot(false), "bovino", DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelevanceClamp(t *testing.T) {
	assert.Equal(t, 10.0, relevance(10, Result{Coefficient: 1, Significant: true}))
	mismatch := false
	assert.Equal(t, 0.0, relevance(0, Result{Coefficient: 0, MatchesExpectation: &mismatch}))
}

func TestPairsFor(t *testing.T) {
	assert.NotEmpty(t, PairsFor("bovino"))
	assert.NotEmpty(t, PairsFor("Frango"))
	assert.Empty(t, PairsFor("equino"))
}
