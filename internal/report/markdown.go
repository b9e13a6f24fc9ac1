// Package report renders analysis reports as Markdown and standalone HTML pages.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"zoostat/domain/reference"
	"zoostat/internal/analysis"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/analysis/crossval"
)

// Options limit the size of the rendered tables
type Options struct {
	MaxIssueRows    int
	MaxCorrelations int
}

// DefaultOptions returns the rendering limits used by the API and CLI
func DefaultOptions() Options {
	return Options{MaxIssueRows: 20, MaxCorrelations: 15}
}

// Markdown renders the report as a Markdown document
func Markdown(r *analysis.Report, opts Options) []byte {
	var b strings.Builder
	title := r.Name
	if title == "" {
		title = "Conjunto de dados"
	}
	fmt.Fprintf(&b, "# Relatório de análise: %s\n\n", escape(title))
	fmt.Fprintf(&b, "- **Espécie:** %s", r.Species)
	if r.Subtype != "" {
		fmt.Fprintf(&b, " (%s)", r.Subtype)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Registros analisados:** %s\n", humanize.Comma(int64(r.RowCount)))
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Gerado em:** %s\n", r.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	if r.DatasetHash != "" {
		fmt.Fprintf(&b, "- **Impressão digital:** `%s`\n", shortHash(r.DatasetHash))
	}
	if status := r.OverallStatus(); status != "" {
		fmt.Fprintf(&b, "- **Situação geral:** %s\n", status)
	}
	if r.Truncated {
		b.WriteString("\n> O conjunto excedeu o limite de linhas e foi truncado antes da análise.\n")
	}
	b.WriteString("\n")

	writeSummary(&b, r.Summary)
	if r.CrossValidation != nil {
		writeCrossValidation(&b, r.CrossValidation, opts.MaxIssueRows)
	}
	if r.Correlations != nil {
		writeCorrelations(&b, r.Correlations, opts.MaxCorrelations)
	}
	if r.Reference != nil {
		writeReference(&b, r.Reference)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("## Avisos\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", escape(w))
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// HTML renders the report as a complete HTML page
func HTML(r *analysis.Report, opts Options) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: "Relatório de análise - " + r.Name,
	})
	return markdown.ToHTML(Markdown(r, opts), p, renderer)
}

func writeSummary(b *strings.Builder, s analysis.DatasetSummary) {
	b.WriteString("## Variáveis\n\n")
	fmt.Fprintf(b, "%s colunas: %d quantitativas, %d qualitativas, %d zootécnicas.\n\n",
		humanize.Comma(int64(s.ColumnCount)), s.Quantitative, s.Qualitative, s.Zootechnical)
	if len(s.Columns) == 0 {
		return
	}
	b.WriteString("| Coluna | Tipo | Unidade | Válidos | Média | DP | Mín | Máx |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---:|---:|\n")
	for _, c := range s.Columns {
		unit := c.Info.Unit
		if unit == "" {
			unit = "-"
		}
		if n := c.Numeric; n != nil {
			fmt.Fprintf(b, "| %s | %s | %s | %d | %s | %s | %s | %s |\n",
				escape(c.Name), c.Info.Type, unit, n.ValidCount,
				num(n.Mean), num(n.StdDev), num(n.Min), num(n.Max))
			continue
		}
		valid := 0
		if c.Categorical != nil {
			valid = c.Categorical.ValidCount
		}
		fmt.Fprintf(b, "| %s | %s | %s | %d | - | - | - | - |\n", escape(c.Name), c.Info.Type, unit, valid)
	}
	b.WriteString("\n")
}

func writeCrossValidation(b *strings.Builder, cv *crossval.Report, maxRows int) {
	b.WriteString("## Validação cruzada\n\n")
	fmt.Fprintf(b, "%s linhas verificadas, %s com problemas: %s avisos e %s erros em %s validações.\n\n",
		humanize.Comma(int64(cv.RowsChecked)), humanize.Comma(int64(cv.RowsWithIssues)),
		humanize.Comma(int64(cv.TotalWarnings)), humanize.Comma(int64(cv.TotalErrors)),
		humanize.Comma(int64(cv.TotalValidations)))

	if len(cv.ErrorsByRule) > 0 {
		rules := make([]string, 0, len(cv.ErrorsByRule))
		for rule := range cv.ErrorsByRule {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		b.WriteString("| Regra | Erros |\n|---|---:|\n")
		for _, rule := range rules {
			fmt.Fprintf(b, "| %s | %d |\n", rule, cv.ErrorsByRule[rule])
		}
		b.WriteString("\n")
	}

	shown := 0
	for _, row := range cv.Rows {
		if row.Warnings == 0 && row.Errors == 0 {
			continue
		}
		if shown == 0 {
			b.WriteString("| Linha | Regra | Mensagem |\n|---:|---|---|\n")
		}
		if maxRows > 0 && shown == maxRows {
			fmt.Fprintf(b, "\n_%s linhas com problemas omitidas._\n", humanize.Comma(int64(cv.RowsWithIssues-shown)))
			break
		}
		for _, res := range row.Results {
			for _, msg := range res.Errors {
				fmt.Fprintf(b, "| %d | %s | **erro:** %s |\n", row.Index+1, res.Rule, escape(msg))
			}
			for _, msg := range res.Warnings {
				fmt.Fprintf(b, "| %d | %s | aviso: %s |\n", row.Index+1, res.Rule, escape(msg))
			}
		}
		shown++
	}
	b.WriteString("\n")
}

func writeCorrelations(b *strings.Builder, cr *correlation.Report, limit int) {
	b.WriteString("## Correlações\n\n")
	if len(cr.Correlations) == 0 {
		b.WriteString("Nenhuma correlação relevante encontrada.\n\n")
		for _, w := range cr.Warnings {
			fmt.Fprintf(b, "- %s\n", escape(w))
		}
		if len(cr.Warnings) > 0 {
			b.WriteString("\n")
		}
		return
	}
	fmt.Fprintf(b, "%d pares avaliados, %d correlações encontradas.\n\n", cr.PairsEvaluated, cr.TotalFound)
	b.WriteString("| Variáveis | r | p | Força | Relevância | Categoria |\n|---|---:|---:|---|---:|---|\n")
	for i, c := range cr.Correlations {
		if limit > 0 && i == limit {
			break
		}
		p := fmt.Sprintf("%.4f", c.PValue)
		if c.PValue < 0.001 {
			p = "< 0.001"
		}
		fmt.Fprintf(b, "| %s x %s | %.3f | %s | %s | %.1f | %s |\n",
			escape(c.Var1), escape(c.Var2), c.Coefficient, p, c.Strength, c.RelevanceScore, c.Category)
	}
	b.WriteString("\n")
}

func writeReference(b *strings.Builder, cmp *reference.Comparison) {
	b.WriteString("## Comparação com referências\n\n")
	if len(cmp.Results) == 0 {
		b.WriteString("Nenhuma métrica comparável.\n\n")
		return
	}
	b.WriteString("| Métrica | Valor | Faixa | Situação |\n|---|---:|---|---|\n")
	for _, v := range cmp.Results {
		band := "-"
		if ref := v.Reference; ref != nil {
			band = fmt.Sprintf("%s a %s %s", num(ref.Min), num(ref.Max), ref.Unit)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", escape(v.Metric), num(v.Value), band, v.Status)
	}
	b.WriteString("\n")
}

func num(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

var mdEscaper = strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_", "`", "\\`")

func escape(s string) string {
	return mdEscaper.Replace(s)
}
