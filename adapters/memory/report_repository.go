// Package memory provides process-local implementations of the storage ports, used
// when no database is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"zoostat/domain/core"
	"zoostat/internal/analysis"
	"zoostat/internal/errors"
	"zoostat/ports"
)

// ReportRepository keeps reports in a map guarded by a RWMutex
type ReportRepository struct {
	mu      sync.RWMutex
	reports map[core.ReportID]*analysis.Report
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates an empty repository
func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[core.ReportID]*analysis.Report)}
}

// Save stores the report pointer; callers must not mutate a report after saving it
func (r *ReportRepository) Save(_ context.Context, report *analysis.Report) error {
	if report == nil || report.ID == "" {
		return errors.InvalidInput("report without id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[report.ID]; exists {
		return errors.InvalidInput(fmt.Sprintf("report %s already exists", report.ID))
	}
	r.reports[report.ID] = report
	return nil
}

// GetByID returns the stored report
func (r *ReportRepository) GetByID(_ context.Context, id core.ReportID) (*analysis.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("report %s", id))
	}
	return report, nil
}

// List returns headers newest first, filtered and paginated like the SQL repository
func (r *ReportRepository) List(_ context.Context, filter analysis.ReportFilter) ([]analysis.ReportHeader, error) {
	r.mu.RLock()
	headers := make([]analysis.ReportHeader, 0, len(r.reports))
	for _, report := range r.reports {
		if filter.Species != "" && report.Species != filter.Species {
			continue
		}
		headers = append(headers, report.Header())
	}
	r.mu.RUnlock()

	sort.Slice(headers, func(i, j int) bool {
		if !headers[i].CreatedAt.Equal(headers[j].CreatedAt) {
			return headers[i].CreatedAt.After(headers[j].CreatedAt)
		}
		return headers[i].ID > headers[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(filter.Offset, 0)
	if offset >= len(headers) {
		return []analysis.ReportHeader{}, nil
	}
	end := min(offset+limit, len(headers))
	return headers[offset:end], nil
}

// Delete removes a report
func (r *ReportRepository) Delete(_ context.Context, id core.ReportID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return errors.NotFound(fmt.Sprintf("report %s", id))
	}
	delete(r.reports, id)
	return nil
}
