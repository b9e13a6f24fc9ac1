package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"zoostat/domain/reference"
	"zoostat/internal/analysis"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/analysis/crossval"
	"zoostat/internal/analysis/descriptive"
	"zoostat/internal/analysis/typedetect"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Name:        "lote_7",
		Species:     "bovino",
		Subtype:     "corte",
		RowCount:    12345,
		DatasetHash: strings.Repeat("ab", 32),
		CreatedAt:   time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC),
		Summary: analysis.DatasetSummary{
			RowCount: 12345, ColumnCount: 2, Quantitative: 1, Qualitative: 1, Zootechnical: 1,
			Columns: []analysis.ColumnSummary{
				{Name: "gpd", Info: typedetect.VariableTypeInfo{Type: typedetect.TypeContinuous, Unit: "kg/dia"},
					Numeric: &descriptive.NumericStats{ValidCount: 10, Mean: 1.2, StdDev: 0.1, Min: 1, Max: 1.4}},
				{Name: "lote", Info: typedetect.VariableTypeInfo{Type: typedetect.TypeNominal},
					Categorical: &descriptive.CategoricalStats{ValidCount: 10}},
			},
		},
		CrossValidation: &crossval.Report{
			RowsChecked: 10, RowsWithIssues: 1, TotalValidations: 10, TotalErrors: 1,
			ErrorsByRule: map[string]int{crossval.RuleGPD: 1},
			Rows: []crossval.RowResult{{Index: 3, Errors: 1, Results: []crossval.Result{
				{Rule: crossval.RuleGPD, Errors: []string{"GPD informado difere significativamente"}},
			}}},
		},
		Correlations: &correlation.Report{
			PairsEvaluated: 3, TotalFound: 1,
			Correlations: []correlation.Result{{Var1: "gpd", Var2: "peso_final", Coefficient: 0.91, PValue: 0.0001,
				Strength: "very strong", RelevanceScore: 9.1, Category: "desempenho"}},
		},
		Reference: &reference.Comparison{
			OverallStatus: reference.OverallAttention,
			Results: []reference.Validation{{Metric: "gpd", Value: 1.2, Status: reference.StatusExcellent,
				Reference: &reference.Range{Min: 0.3, Max: 2, Unit: "kg/dia"}}},
		},
		Warnings: []string{"coluna sem dados"},
	}
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown(sampleReport(), DefaultOptions()))

	assert.Contains(t, md, "# Relatório de análise: lote\\_7")
	assert.Contains(t, md, "bovino (corte)")
	assert.Contains(t, md, "12,345")
	assert.Contains(t, md, "`abababababab`")
	assert.Contains(t, md, "attention")
	assert.Contains(t, md, "| 4 | gpd | **erro:** GPD informado difere significativamente |")
	assert.Contains(t, md, "| gpd x peso\\_final | 0.910 | < 0.001 | very strong | 9.1 | desempenho |")
	assert.Contains(t, md, "0.30 a 2.00 kg/dia")
	assert.Contains(t, md, "## Avisos")
	assert.NotContains(t, md, "truncado")
}

func TestMarkdownOptionalSections(t *testing.T) {
	r := sampleReport()
	r.CrossValidation = nil
	r.Reference = nil
	r.Correlations = &correlation.Report{Warnings: []string{"Espécie desconhecida"}}
	r.Truncated = true

	md := string(Markdown(r, DefaultOptions()))
	assert.NotContains(t, md, "## Validação cruzada")
	assert.NotContains(t, md, "## Comparação com referências")
	assert.Contains(t, md, "Nenhuma correlação relevante encontrada")
	assert.Contains(t, md, "truncado")
}

func TestHTML(t *testing.T) {
	page := string(HTML(sampleReport(), DefaultOptions()))
	assert.Contains(t, page, "<html")
	assert.Contains(t, page, "<title>Relatório de análise - lote_7</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "peso_final")
}
