package ports

import (
	"context"

	"zoostat/domain/core"
	"zoostat/internal/analysis"
)

// ReportRepository defines the interface for analysis report storage
type ReportRepository interface {
	// Save stores a new report; saving an existing ID is an error
	Save(ctx context.Context, report *analysis.Report) error
	GetByID(ctx context.Context, id core.ReportID) (*analysis.Report, error)
	List(ctx context.Context, filter analysis.ReportFilter) ([]analysis.ReportHeader, error)
	Delete(ctx context.Context, id core.ReportID) error
}
