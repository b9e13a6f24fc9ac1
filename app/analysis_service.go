package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"zoostat/domain/core"
	"zoostat/domain/dataset"
	"zoostat/domain/metrics"
	"zoostat/domain/reference"
	"zoostat/domain/species"
	"zoostat/internal"
	"zoostat/internal/analysis"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/analysis/crossval"
	"zoostat/internal/analysis/descriptive"
	"zoostat/internal/analysis/typedetect"
	"zoostat/internal/errors"
	"zoostat/internal/monitoring"
	"zoostat/internal/report"
	"zoostat/ports"
)

// Operation names used for metrics and error context
const (
	OpSummarize    = "summarize"
	OpCrossValid   = "cross_validation"
	OpCorrelations = "correlations"
	OpReference    = "reference"
	OpAnalyze      = "analyze"
)

// Render formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Options bound the work of the service
type Options struct {
	// MaxRows caps the rows analysed per dataset; 0 disables the cap
	MaxRows int
	// Workers bounds the per-column fan-out of Summarize
	Workers int
	// MaxConcurrent bounds simultaneous Analyze calls
	MaxConcurrent int64
	// Correlation holds the discovery defaults for Analyze
	Correlation correlation.Options
}

// DefaultOptions returns the service defaults
func DefaultOptions() Options {
	return Options{MaxRows: 100000, Workers: 4, MaxConcurrent: 4, Correlation: correlation.DefaultOptions()}
}

// Dependencies are the collaborators of the service. Reports, Recorder and Logger may
// be nil: reports are then not persisted.
type Dependencies struct {
	Registry *metrics.Registry
	Tables   *reference.Tables
	Reports  ports.ReportRepository
	Recorder *monitoring.Recorder
	Logger   *internal.Logger
}

// AnalyzeRequest describes a full analysis run
type AnalyzeRequest struct {
	Dataset     *dataset.Dataset
	Species     string
	Subtype     string
	Correlation *correlation.Options
}

// AnalysisService orchestrates the analysis core over whole datasets
type AnalysisService struct {
	registry  *metrics.Registry
	converter *metrics.Converter
	detector  *typedetect.Detector
	validator *crossval.Validator
	engine    *correlation.Engine
	reference *reference.Service
	reports   ports.ReportRepository
	recorder  *monitoring.Recorder
	logger    *internal.Logger
	options   Options
	slots     *semaphore.Weighted
	now       func() time.Time
}

// NewAnalysisService wires the analysis components
func NewAnalysisService(deps Dependencies, opts Options) (*AnalysisService, error) {
	if deps.Registry == nil || deps.Tables == nil {
		return nil, errors.InternalError("analysis service requires a metric registry and reference tables")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	logger := deps.Logger.OrNop()
	detector := typedetect.NewDetector(typedetect.DefaultDetectionConfig(), deps.Registry)

	return &AnalysisService{
		registry:  deps.Registry,
		converter: metrics.NewConverter(logger),
		detector:  detector,
		validator: crossval.NewValidator(deps.Registry, logger),
		engine:    correlation.NewEngine(deps.Registry, detector, logger),
		reference: reference.NewService(deps.Tables, deps.Registry),
		reports:   deps.Reports,
		recorder:  deps.Recorder,
		logger:    logger,
		options:   opts,
		slots:     semaphore.NewWeighted(opts.MaxConcurrent),
		now:       time.Now,
	}, nil
}

// Registry exposes the metric registry
func (s *AnalysisService) Registry() *metrics.Registry { return s.registry }

// Converter exposes the unit converter
func (s *AnalysisService) Converter() *metrics.Converter { return s.converter }

// Reference exposes the reference service
func (s *AnalysisService) Reference() *reference.Service { return s.reference }

// CorrelationDefaults returns the configured discovery options
func (s *AnalysisService) CorrelationDefaults() correlation.Options { return s.options.Correlation }

// Summarize classifies every column and computes its descriptive statistics. Columns
// are processed concurrently; a numeric column without valid values is recorded in
// its summary instead of failing the call.
func (s *AnalysisService) Summarize(ctx context.Context, ds *dataset.Dataset) (summary analysis.DatasetSummary, err error) {
	start := time.Now()
	defer func() { s.recorder.ObserveAnalysis(OpSummarize, "", err, time.Since(start)) }()

	if err := ds.Validate(); err != nil {
		return analysis.DatasetSummary{}, errors.FromAnalysis(OpSummarize, err)
	}
	ds, _ = s.bound(ds)

	columns := make([]analysis.ColumnSummary, len(ds.Columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.Workers)
	for i, name := range ds.Columns {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			columns[i] = s.summarizeColumn(name, ds.Column(name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return analysis.DatasetSummary{}, err
	}

	summary = analysis.DatasetSummary{RowCount: ds.Len(), ColumnCount: len(columns), Columns: columns}
	for _, c := range columns {
		switch {
		case c.Info.Type.IsQuantitative():
			summary.Quantitative++
		case c.Info.Type.IsQualitative():
			summary.Qualitative++
		}
		if c.Info.IsZootechnical {
			summary.Zootechnical++
		}
	}
	return summary, nil
}

func (s *AnalysisService) summarizeColumn(name string, values []interface{}) analysis.ColumnSummary {
	info := s.detector.DetectVariableType(name, values)
	col := analysis.ColumnSummary{Name: name, Info: info}
	switch {
	case info.Type.IsQuantitative():
		stats, err := descriptive.CalculateNumericStats(values)
		if err != nil {
			col.Error = err.Error()
			break
		}
		col.Numeric = &stats
	case info.Type.IsQualitative():
		stats := descriptive.CalculateCategoricalStats(values)
		col.Categorical = &stats
	}
	return col
}

// CrossValidate runs the cross-field rules over every row
func (s *AnalysisService) CrossValidate(ctx context.Context, ds *dataset.Dataset, speciesRaw string) (report crossval.Report, err error) {
	start := time.Now()
	defer func() { s.recorder.ObserveAnalysis(OpCrossValid, speciesRaw, err, time.Since(start)) }()

	ds, _ = s.bound(ds)
	report, err = s.validator.PerformCrossValidation(ctx, ds, speciesRaw)
	if err != nil {
		return crossval.Report{}, errors.FromAnalysis(OpCrossValid, err)
	}
	s.recordIssues(report)
	return report, nil
}

func (s *AnalysisService) recordIssues(report crossval.Report) {
	if s.recorder == nil {
		return
	}
	warnings := make(map[string]int)
	errs := make(map[string]int)
	for _, row := range report.Rows {
		for _, r := range row.Results {
			warnings[r.Rule] += len(r.Warnings)
			errs[r.Rule] += len(r.Errors)
		}
	}
	for rule := range warnings {
		s.recorder.AddValidationIssues(rule, warnings[rule], errs[rule])
	}
}

// DiscoverCorrelations ranks the correlations of the dataset for the species
func (s *AnalysisService) DiscoverCorrelations(ctx context.Context, ds *dataset.Dataset, speciesRaw string, opts correlation.Options) (report correlation.Report, err error) {
	start := time.Now()
	defer func() { s.recorder.ObserveAnalysis(OpCorrelations, speciesRaw, err, time.Since(start)) }()

	ds, _ = s.bound(ds)
	report, err = s.engine.Discover(ctx, ds, speciesRaw, opts)
	if err != nil {
		return correlation.Report{}, err
	}
	s.recorder.ObserveCorrelations(len(report.Correlations))
	return report, nil
}

// CompareReference compares the mean of every column that resolves to a catalog
// metric against the species reference ranges. When several columns resolve to the
// same metric the first in column order is used. Means are converted to the unit of
// the reference range when the metric is stored in a different unit.
func (s *AnalysisService) CompareReference(ctx context.Context, ds *dataset.Dataset, speciesRaw, subtype string) (cmp reference.Comparison, err error) {
	start := time.Now()
	defer func() { s.recorder.ObserveAnalysis(OpReference, speciesRaw, err, time.Since(start)) }()

	if err := ds.Validate(); err != nil {
		return reference.Comparison{}, errors.FromAnalysis(OpReference, err)
	}
	ds, _ = s.bound(ds)
	sp, ok := species.Normalize(speciesRaw)
	if !ok {
		return s.reference.CompareMultipleMetrics(nil, speciesRaw, subtype), nil
	}

	means := make(map[string]float64)
	for _, name := range ds.Columns {
		if err := ctx.Err(); err != nil {
			return reference.Comparison{}, err
		}
		m, ok := s.registry.ResolveMetric(name, sp)
		if !ok {
			continue
		}
		if _, taken := means[m.Key]; taken {
			continue
		}
		values, valid := ds.NumericColumn(name)
		var present []float64
		for i, v := range values {
			if valid[i] {
				present = append(present, v)
			}
		}
		stats, err := descriptive.FromFloats(present)
		if err != nil {
			continue
		}
		mean := stats.Mean
		if rng, _, found := s.reference.Tables().Lookup(sp, subtype, m.Key); found && rng.Unit != "" {
			if converted, ok := s.converter.TryConvert(mean, m.Unit, rng.Unit); ok {
				mean = converted
			}
		}
		means[m.Key] = mean
	}
	return s.reference.CompareMultipleMetrics(means, sp, subtype), nil
}

// Analyze runs every analysis over the dataset, stores the report when a repository
// is configured and returns it. The species must be known.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (rep *analysis.Report, err error) {
	start := time.Now()
	defer func() { s.recorder.ObserveAnalysis(OpAnalyze, req.Species, err, time.Since(start)) }()

	if err := req.Dataset.Validate(); err != nil {
		return nil, errors.FromAnalysis(OpAnalyze, err)
	}
	sp, ok := species.Normalize(req.Species)
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("espécie desconhecida: %q", req.Species))
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.slots.Release(1)

	ds, truncated := s.bound(req.Dataset)
	s.recorder.ObserveDataset(ds.Len())

	corrOpts := s.options.Correlation
	if req.Correlation != nil {
		corrOpts = *req.Correlation
	}

	var (
		summary analysis.DatasetSummary
		cv      crossval.Report
		corr    correlation.Report
		cmp     reference.Comparison
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { summary, err = s.Summarize(gctx, ds); return err })
	g.Go(func() (err error) { cv, err = s.CrossValidate(gctx, ds, sp); return err })
	g.Go(func() (err error) { corr, err = s.DiscoverCorrelations(gctx, ds, sp, corrOpts); return err })
	g.Go(func() (err error) { cmp, err = s.CompareReference(gctx, ds, sp, req.Subtype); return err })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep = &analysis.Report{
		ID:              core.NewReportID(),
		Name:            ds.Name,
		Species:         sp,
		Subtype:         cmp.Subtype,
		DatasetHash:     ds.Fingerprint().String(),
		RowCount:        ds.Len(),
		Truncated:       truncated,
		CreatedAt:       s.now().UTC(),
		Summary:         summary,
		CrossValidation: &cv,
		Correlations:    &corr,
		Reference:       &cmp,
		Warnings:        []string{},
	}
	if truncated {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("Conjunto truncado para as primeiras %d linhas de %d", ds.Len(), req.Dataset.Len()))
	}
	rep.Warnings = append(rep.Warnings, corr.Warnings...)
	for _, c := range summary.Columns {
		if c.Error != "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Coluna %s: %s", c.Name, c.Error))
		}
	}
	rep.DurationMs = time.Since(start).Milliseconds()

	if s.reports != nil {
		if err := s.reports.Save(ctx, rep); err != nil {
			return nil, errors.Wrap(err, "failed to store report")
		}
	}
	s.logger.Info("analysis %s: %s, %d rows, %d correlations, status %s (%dms)",
		rep.ID, sp, rep.RowCount, len(corr.Correlations), rep.OverallStatus(), rep.DurationMs)
	return rep, nil
}

// GetReport loads a stored report
func (s *AnalysisService) GetReport(ctx context.Context, id string) (*analysis.Report, error) {
	if s.reports == nil {
		return nil, errors.NotFound(fmt.Sprintf("report %s", id))
	}
	parsed, ok := core.ParseID(id)
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid report id %q", id))
	}
	return s.reports.GetByID(ctx, core.ReportID(parsed))
}

// ListReports lists stored reports, newest first
func (s *AnalysisService) ListReports(ctx context.Context, filter analysis.ReportFilter) ([]analysis.ReportHeader, error) {
	if s.reports == nil {
		return []analysis.ReportHeader{}, nil
	}
	if filter.Species != "" {
		if sp, ok := species.Normalize(filter.Species); ok {
			filter.Species = sp
		}
	}
	return s.reports.List(ctx, filter)
}

// RenderReport renders a stored report and returns the body with its content type
func (s *AnalysisService) RenderReport(ctx context.Context, id, format string) ([]byte, string, error) {
	rep, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, "", err
	}
	switch format {
	case FormatHTML:
		return report.HTML(rep, report.DefaultOptions()), "text/html; charset=utf-8", nil
	case FormatMarkdown, "":
		return report.Markdown(rep, report.DefaultOptions()), "text/markdown; charset=utf-8", nil
	default:
		return nil, "", errors.InvalidInput(fmt.Sprintf("unknown report format %q", format))
	}
}

// bound applies MaxRows
func (s *AnalysisService) bound(ds *dataset.Dataset) (*dataset.Dataset, bool) {
	if ds == nil {
		return ds, false
	}
	return ds.Head(s.options.MaxRows)
}

// DeleteReport removes a stored report
func (s *AnalysisService) DeleteReport(ctx context.Context, id string) error {
	if s.reports == nil {
		return errors.NotFound(fmt.Sprintf("report %s", id))
	}
	parsed, ok := core.ParseID(id)
	if !ok {
		return errors.InvalidInput(fmt.Sprintf("invalid report id %q", id))
	}
	return s.reports.Delete(ctx, core.ReportID(parsed))
}
