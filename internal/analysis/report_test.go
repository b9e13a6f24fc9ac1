package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zoostat/domain/reference"
	"zoostat/internal/analysis/crossval"
)

func TestReportOverallStatus(t *testing.T) {
	r := &Report{}
	assert.Equal(t, "", r.OverallStatus())

	r.CrossValidation = &crossval.Report{OverallValid: false}
	assert.Equal(t, "invalid", r.OverallStatus())

	r.CrossValidation.OverallValid = true
	assert.Equal(t, "valid", r.OverallStatus())

	r.Reference = &reference.Comparison{OverallStatus: reference.OverallAttention}
	assert.Equal(t, reference.OverallAttention, r.OverallStatus())

	r.Name = "lote 7"
	r.RowCount = 12
	h := r.Header()
	assert.Equal(t, "lote 7", h.Name)
	assert.Equal(t, 12, h.RowCount)
	assert.Equal(t, reference.OverallAttention, h.OverallStatus)
}

func TestSummaryColumn(t *testing.T) {
	s := DatasetSummary{Columns: []ColumnSummary{{Name: "gpd"}, {Name: "lote"}}}
	c, ok := s.Column("lote")
	assert.True(t, ok)
	assert.Equal(t, "lote", c.Name)
	_, ok = s.Column("peso")
	assert.False(t, ok)
}
