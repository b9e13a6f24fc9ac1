// Package analysis holds the combined outputs of a dataset analysis run: the per-column
// summary and the persisted report that bundles every analysis section.
package analysis

import (
	"time"

	"zoostat/domain/core"
	"zoostat/domain/reference"
	"zoostat/internal/analysis/correlation"
	"zoostat/internal/analysis/crossval"
	"zoostat/internal/analysis/descriptive"
	"zoostat/internal/analysis/typedetect"
)

// ColumnSummary is the classification and statistics of one column. Exactly one of
// Numeric and Categorical is set for typed columns; Error records why numeric
// statistics could not be computed.
type ColumnSummary struct {
	Name        string                        `json:"name"`
	Info        typedetect.VariableTypeInfo   `json:"info"`
	Numeric     *descriptive.NumericStats     `json:"numeric,omitempty"`
	Categorical *descriptive.CategoricalStats `json:"categorical,omitempty"`
	Error       string                        `json:"error,omitempty"`
}

// DatasetSummary describes every column of a dataset in column order
type DatasetSummary struct {
	RowCount     int             `json:"row_count"`
	ColumnCount  int             `json:"column_count"`
	Quantitative int             `json:"quantitative"`
	Qualitative  int             `json:"qualitative"`
	Zootechnical int             `json:"zootechnical"`
	Columns      []ColumnSummary `json:"columns"`
}

// Column returns the summary of the named column
func (s DatasetSummary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Report bundles the sections of one analysis run
type Report struct {
	ID              core.ReportID         `json:"id"`
	Name            string                `json:"name"`
	Species         string                `json:"species"`
	Subtype         string                `json:"subtype,omitempty"`
	DatasetHash     string                `json:"dataset_hash"`
	RowCount        int                   `json:"row_count"`
	Truncated       bool                  `json:"truncated"`
	CreatedAt       time.Time             `json:"created_at"`
	DurationMs      int64                 `json:"duration_ms"`
	Summary         DatasetSummary        `json:"summary"`
	CrossValidation *crossval.Report      `json:"cross_validation,omitempty"`
	Correlations    *correlation.Report   `json:"correlations,omitempty"`
	Reference       *reference.Comparison `json:"reference,omitempty"`
	Warnings        []string              `json:"warnings"`
}

// OverallStatus condenses the report into one label: the reference status when a
// comparison ran, otherwise "valid" or "invalid" from cross-validation
func (r *Report) OverallStatus() string {
	if r.Reference != nil && r.Reference.OverallStatus != "" {
		return r.Reference.OverallStatus
	}
	if r.CrossValidation != nil {
		if r.CrossValidation.OverallValid {
			return "valid"
		}
		return "invalid"
	}
	return ""
}

// Header returns the listing view of the report
func (r *Report) Header() ReportHeader {
	return ReportHeader{
		ID:            r.ID,
		Name:          r.Name,
		Species:       r.Species,
		Subtype:       r.Subtype,
		RowCount:      r.RowCount,
		OverallStatus: r.OverallStatus(),
		CreatedAt:     r.CreatedAt,
	}
}

// ReportHeader is the listing view of a stored report
type ReportHeader struct {
	ID            core.ReportID `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Species       string        `json:"species" db:"species"`
	Subtype       string        `json:"subtype,omitempty" db:"subtype"`
	RowCount      int           `json:"row_count" db:"row_count"`
	OverallStatus string        `json:"overall_status" db:"overall_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// ReportFilter narrows report listings
type ReportFilter struct {
	Species string
	Limit   int
	Offset  int
}
