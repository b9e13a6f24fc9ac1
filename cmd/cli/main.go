package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zoostat/app"
	"zoostat/domain/dataset"
	"zoostat/internal"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/config"
	"zoostat/internal/container"
)

// globals are the persistent flags shared by every command
type globals struct {
	configFile string
	jsonOutput bool
	noColor    bool
	maxRows    int
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("erro: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "zoostat",
		Short:         "Análise estatística de conjuntos de dados zootécnicos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				color.NoColor = true
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "optional YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVar(&g.maxRows, "max-rows", -1, "maximum rows to analyse (0 = unlimited, default from config)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(
		newSummarizeCmd(g),
		newValidateCmd(g),
		newCorrelateCmd(g),
		newReferenceCmd(g),
		newMetricsCmd(g),
		newConvertCmd(g),
		newReportCmd(g),
	)
	return rootCmd
}

// setup loads configuration and wires an in-memory container
func (g *globals) setup() (*container.Container, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, err
	}
	if g.maxRows >= 0 {
		cfg.Analysis.MaxRows = g.maxRows
	}
	cfg.Metrics.Enabled = false

	level := internal.LogLevelWarn
	if g.verbose {
		level = internal.LogLevelDebug
	}
	c, err := container.New(cfg, internal.NewLogger(level))
	if err != nil {
		return nil, err
	}
	if err := c.InitInMemory(); err != nil {
		return nil, err
	}
	return c, nil
}

func (g *globals) load(ctx context.Context, path string) (*container.Container, *dataset.Dataset, error) {
	c, err := g.setup()
	if err != nil {
		return nil, nil, err
	}
	ds, err := c.Loader.LoadFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return c, ds, nil
}

func (g *globals) emit(w io.Writer, v interface{}, text func(io.Writer)) error {
	if g.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func newSummarizeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <arquivo>",
		Short: "Classifica as colunas e calcula estatísticas descritivas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summary, err := c.Service.Summarize(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), summary, func(w io.Writer) { printSummary(w, summary) })
		},
	}
}

func newValidateCmd(g *globals) *cobra.Command {
	var speciesRaw string
	cmd := &cobra.Command{
		Use:   "validate <arquivo>",
		Short: "Valida índices zootécnicos calculados e a plausibilidade dos valores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := c.Service.CrossValidate(cmd.Context(), ds, speciesRaw)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), report, func(w io.Writer) { printCrossValidation(w, report) })
		},
	}
	cmd.Flags().StringVarP(&speciesRaw, "species", "s", "", "espécie (bovino, suino, aves, ovino, caprino)")
	return cmd
}

func newCorrelateCmd(g *globals) *cobra.Command {
	var (
		speciesRaw string
		opts       = correlation.DefaultOptions()
	)
	cmd := &cobra.Command{
		Use:   "correlate <arquivo>",
		Short: "Descobre e classifica correlações entre variáveis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := c.Service.DiscoverCorrelations(cmd.Context(), ds, speciesRaw, opts)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), report, func(w io.Writer) { printCorrelations(w, report) })
		},
	}
	cmd.Flags().StringVarP(&speciesRaw, "species", "s", "", "espécie")
	cmd.Flags().IntVar(&opts.MinDataPoints, "min-points", opts.MinDataPoints, "pares completos mínimos por correlação")
	cmd.Flags().Float64Var(&opts.SignificanceLevel, "alpha", opts.SignificanceLevel, "nível de significância")
	cmd.Flags().Float64Var(&opts.MinRelevanceScore, "min-relevance", 0, "relevância mínima (0-10)")
	cmd.Flags().BoolVar(&opts.OnlySignificant, "only-significant", false, "mostrar apenas correlações significativas")
	cmd.Flags().IntVar(&opts.MaxCorrelations, "limit", 0, "número máximo de correlações (0 = todas)")
	cmd.Flags().BoolVar(&opts.SkipAdHoc, "configured-only", false, "avaliar apenas os pares configurados para a espécie")
	return cmd
}

func newReferenceCmd(g *globals) *cobra.Command {
	var speciesRaw, subtype string
	cmd := &cobra.Command{
		Use:   "reference <arquivo>",
		Short: "Compara as médias das métricas com as faixas de referência",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmp, err := c.Service.CompareReference(cmd.Context(), ds, speciesRaw, subtype)
			if err != nil {
				return err
			}
			return g.emit(cmd.OutOrStdout(), cmp, func(w io.Writer) { printComparison(w, cmp) })
		},
	}
	cmd.Flags().StringVarP(&speciesRaw, "species", "s", "", "espécie")
	cmd.Flags().StringVar(&subtype, "subtype", "", "subtipo de produção (ex.: corte, leite, postura)")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}

func newMetricsCmd(g *globals) *cobra.Command {
	var speciesRaw, resolve string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Lista o catálogo de métricas ou resolve um nome de coluna",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.setup()
			if err != nil {
				return err
			}
			registry := c.Service.Registry()
			if resolve != "" {
				m, ok := registry.ResolveMetric(resolve, speciesRaw)
				if !ok {
					return fmt.Errorf("nenhuma métrica corresponde a %q", resolve)
				}
				return g.emit(cmd.OutOrStdout(), m, func(w io.Writer) { printMetrics(w, m) })
			}
			list := registry.All()
			if speciesRaw != "" {
				list = registry.MetricsForSpecies(speciesRaw)
			}
			return g.emit(cmd.OutOrStdout(), list, func(w io.Writer) { printMetrics(w, list...) })
		},
	}
	cmd.Flags().StringVarP(&speciesRaw, "species", "s", "", "filtrar por espécie")
	cmd.Flags().StringVar(&resolve, "resolve", "", "nome de coluna a resolver")
	return cmd
}

func newConvertCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <valor> <de> <para>",
		Short:   "Converte um valor entre unidades",
		Example: "zoostat convert 1500 g kg",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("valor inválido %q", args[0])
			}
			c, err := g.setup()
			if err != nil {
				return err
			}
			converted, ok := c.Service.Converter().TryConvert(value, args[1], args[2])
			if !ok {
				return fmt.Errorf("sem conversão de %q para %q", args[1], args[2])
			}
			out := map[string]interface{}{"value": value, "from": args[1], "to": args[2], "converted": converted}
			return g.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s = %s %s\n", num(value), args[1], color.GreenString(num(converted)), args[2])
			})
		},
	}
}

func newReportCmd(g *globals) *cobra.Command {
	var speciesRaw, subtype, format, outPath string
	cmd := &cobra.Command{
		Use:   "report <arquivo>",
		Short: "Executa a análise completa e gera o relatório",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ds, err := g.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rep, err := c.Service.Analyze(cmd.Context(), app.AnalyzeRequest{Dataset: ds, Species: speciesRaw, Subtype: subtype})
			if err != nil {
				return err
			}

			var body []byte
			if format == "json" || g.jsonOutput {
				body, err = json.MarshalIndent(rep, "", "  ")
			} else {
				body, _, err = c.Service.RenderReport(cmd.Context(), rep.ID.String(), format)
			}
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(outPath, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relatório %s gravado em %s (%s)\n", rep.ID, outPath, statusColor(rep.OverallStatus()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&speciesRaw, "species", "s", "", "espécie")
	cmd.Flags().StringVar(&subtype, "subtype", "", "subtipo de produção")
	cmd.Flags().StringVarP(&format, "format", "f", app.FormatMarkdown, "markdown, html ou json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "arquivo de saída (padrão: stdout)")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}
