package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"zoostat/domain/metrics"
	"zoostat/domain/reference"
	"zoostat/internal/analysis"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/analysis/crossval"
)

var (
	heading = color.New(color.Bold, color.FgCyan).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

func num(v float64) string {
	return humanize.Commaf(math.Round(v*1000) / 1000)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// statusColor colors reference tiers and validity labels
func statusColor(status string) string {
	switch status {
	case string(reference.StatusExcellent), string(reference.StatusGood), "valid":
		return color.GreenString(status)
	case string(reference.StatusAcceptable), string(reference.StatusNoReference), reference.OverallNoData:
		return color.YellowString(status)
	default:
		return color.RedString(status)
	}
}

func printSummary(w io.Writer, s analysis.DatasetSummary) {
	fmt.Fprintf(w, "%s %s linhas, %d colunas (%d quantitativas, %d qualitativas, %d zootécnicas)\n\n",
		heading("Resumo:"), humanize.Comma(int64(s.RowCount)), s.ColumnCount, s.Quantitative, s.Qualitative, s.Zootechnical)

	tw := newTable(w)
	fmt.Fprintln(tw, "COLUNA\tTIPO\tUNIDADE\tN\tMÉDIA\tDP\tMÍN\tMÁX\tMODA")
	for _, c := range s.Columns {
		unit := c.Info.Unit
		if unit == "" {
			unit = "-"
		}
		switch {
		case c.Numeric != nil:
			n := c.Numeric
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t-\n",
				c.Name, c.Info.Type, unit, n.ValidCount, num(n.Mean), num(n.StdDev), num(n.Min), num(n.Max))
		case c.Categorical != nil:
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t-\t-\t-\t-\t%s\n",
				c.Name, c.Info.Type, unit, c.Categorical.ValidCount, c.Categorical.MostCommon)
		case c.Error != "":
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t%s\t\t\t\t\n", c.Name, c.Info.Type, unit, color.RedString(c.Error))
		default:
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t-\t-\t-\t-\t-\n", c.Name, c.Info.Type, unit)
		}
	}
	tw.Flush()
}

func printCrossValidation(w io.Writer, r crossval.Report) {
	status := "valid"
	if !r.OverallValid {
		status = "invalid"
	}
	fmt.Fprintf(w, "%s %s  linhas: %d  com problemas: %d  validações: %d  avisos: %d  erros: %d\n",
		heading("Validação cruzada:"), statusColor(status),
		r.RowsChecked, r.RowsWithIssues, r.TotalValidations, r.TotalWarnings, r.TotalErrors)

	for _, row := range r.Rows {
		for _, res := range row.Results {
			for _, msg := range res.Errors {
				fmt.Fprintf(w, "  linha %d %s %s: %s\n", row.Index+1, color.RedString("ERRO"), res.Rule, msg)
			}
			for _, msg := range res.Warnings {
				fmt.Fprintf(w, "  linha %d %s %s: %s\n", row.Index+1, color.YellowString("AVISO"), res.Rule, msg)
			}
			for _, msg := range res.Suggestions {
				fmt.Fprintf(w, "  linha %d %s\n", row.Index+1, faint(msg))
			}
		}
	}
}

func printCorrelations(w io.Writer, r correlation.Report) {
	fmt.Fprintf(w, "%s %d encontradas, %d pares avaliados, %d colunas\n",
		heading("Correlações:"), r.TotalFound, r.PairsEvaluated, len(r.ColumnsAnalyzed))
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("!"), warning)
	}
	if len(r.Correlations) == 0 {
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "PAR\tR\tP\tFORÇA\tRELEVÂNCIA\tCATEGORIA\tN")
	for _, c := range r.Correlations {
		p := fmt.Sprintf("%.4f", c.PValue)
		if c.PValue < 0.001 {
			p = "< 0.001"
		}
		if c.Significant {
			p = color.GreenString(p)
		}
		fmt.Fprintf(tw, "%s x %s\t%.3f\t%s\t%s\t%.1f\t%s\t%d\n",
			c.Var1, c.Var2, c.Coefficient, p, c.Strength, c.RelevanceScore, c.Category, len(c.DataPoints))
	}
	tw.Flush()
}

func printComparison(w io.Writer, cmp reference.Comparison) {
	sub := ""
	if cmp.Subtype != "" {
		sub = " (" + cmp.Subtype + ")"
	}
	fmt.Fprintf(w, "%s %s%s  situação geral: %s\n", heading("Referências:"), cmp.Species, sub, statusColor(cmp.OverallStatus))
	if len(cmp.Results) == 0 {
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "MÉTRICA\tMÉDIA\tFAIXA\tIDEAL\tSITUAÇÃO")
	for _, v := range cmp.Results {
		band, ideal := "-", "-"
		if ref := v.Reference; ref != nil {
			band = fmt.Sprintf("%s a %s %s", num(ref.Min), num(ref.Max), ref.Unit)
			if ref.HasIdeal() {
				lo, hi := ref.Min, ref.Max
				if ref.IdealMin != nil {
					lo = *ref.IdealMin
				}
				if ref.IdealMax != nil {
					hi = *ref.IdealMax
				}
				ideal = fmt.Sprintf("%s a %s", num(lo), num(hi))
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Metric, num(v.Value), band, ideal, statusColor(string(v.Status)))
	}
	tw.Flush()
}

func printMetrics(w io.Writer, list ...metrics.Metric) {
	tw := newTable(w)
	fmt.Fprintln(tw, "CHAVE\tNOME\tUNIDADE\tCATEGORIA\tESPÉCIES")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Key, m.Name, m.Unit, m.Category, strings.Join(m.Species, ","))
	}
	tw.Flush()
}
