package typedetect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoostat/domain/metrics"
)

func newDetector(t *testing.T) *Detector {
	t.Helper()
	registry, err := metrics.LoadCatalog()
	require.NoError(t, err)
	return NewDetector(DefaultDetectionConfig(), registry)
}

func vals(xs ...interface{}) []interface{} { return xs }

func TestDetectVariableType(t *testing.T) {
	d := newDetector(t)

	tests := []struct {
		name     string
		column   string
		values   []interface{}
		wantType VariableType
		wantRaw  RawType
	}{
		{
			name:     "iso dates",
			column:   "data_pesagem",
			values:   vals("2024-01-10", "2024-02-10", "", "2024-03-10"),
			wantType: TypeTemporal,
			wantRaw:  RawDate,
		},
		{
			name:     "day first dates",
			column:   "nascimento",
			values:   vals("13/05/2023", "01/06/2023"),
			wantType: TypeTemporal,
			wantRaw:  RawDate,
		},
		{
			name:     "time values",
			column:   "data",
			values:   vals(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantType: TypeTemporal,
			wantRaw:  RawDate,
		},
		{
			name:     "numeric id column",
			column:   "animal_id",
			values:   vals(101, 102, 103, 104, 105),
			wantType: TypeIdentifier,
			wantRaw:  RawNumeric,
		},
		{
			name:     "ear tag codes",
			column:   "lote_animal",
			values:   vals("BR-001", "BR-002", "BR-003", "BR-004", "BR-005", "BR-006"),
			wantType: TypeIdentifier,
			wantRaw:  RawString,
		},
		{
			name:     "continuous weights with decimal comma",
			column:   "Peso Final",
			values:   vals("450,5", "470,2", "430,1", nil, "465,8"),
			wantType: TypeContinuous,
			wantRaw:  RawNumeric,
		},
		{
			name:     "discrete scores",
			column:   "escore_corporal",
			values:   vals(3, 4, 4, 5, 3, 4, 5, 5, 3, 4),
			wantType: TypeDiscrete,
			wantRaw:  RawNumeric,
		},
		{
			name:     "many distinct integers are continuous",
			column:   "peso_vivo",
			values:   vals(300, 310, 320, 330, 340, 350, 360, 370, 380, 390, 400, 410),
			wantType: TypeContinuous,
			wantRaw:  RawNumeric,
		},
		{
			name:     "ordinal scale",
			column:   "nivel",
			values:   vals("Baixo", "médio", "Alto", "baixo"),
			wantType: TypeOrdinal,
			wantRaw:  RawString,
		},
		{
			name:     "free categories",
			column:   "raca",
			values:   vals("Nelore", "Angus", "Nelore", "Brahman"),
			wantType: TypeNominal,
			wantRaw:  RawString,
		},
		{
			name:     "codes with trailing text stay categorical",
			column:   "classe",
			values:   vals("12A", "12B", "13A"),
			wantType: TypeNominal,
			wantRaw:  RawString,
		},
		{
			name:     "empty column",
			column:   "observacao",
			values:   vals(nil, "", "null", "  "),
			wantType: TypeNominal,
			wantRaw:  RawString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := d.DetectVariableType(tt.column, tt.values)
			assert.Equal(t, tt.wantType, info.Type)
			assert.Equal(t, tt.wantRaw, info.RawType)
		})
	}
}

func TestDetectDomainAnnotations(t *testing.T) {
	d := newDetector(t)

	info := d.DetectVariableType("Peso Final", vals(450.0, 460.0))
	assert.True(t, info.IsZootechnical)
	assert.Equal(t, "kg", info.Unit)
	assert.Equal(t, "peso_final", info.MetricKey)

	info = d.DetectVariableType("ganho_diario", vals(1.1, 1.2))
	assert.Equal(t, "kg/dia", info.Unit, "registry unit wins over the name table")

	info = d.DetectVariableType("raca", vals("Nelore"))
	assert.True(t, info.IsZootechnical)
	assert.Empty(t, info.Unit)

	info = d.DetectVariableType("fazenda", vals("Santa Rita"))
	assert.False(t, info.IsZootechnical)
}

func TestDetectCatalogMetricIsNotIdentifier(t *testing.T) {
	d := newDetector(t)
	counts := vals(8, 9, 10, 11, 12, 13, 14, 15, 16, 17)

	info := d.DetectVariableType("numero_leitoes_nascidos", counts)
	assert.Equal(t, "leitoes_nascidos", info.MetricKey)
	assert.True(t, info.Type.IsQuantitative(), "got %s", info.Type)
	assert.Equal(t, RawNumeric, info.RawType)
	assert.Equal(t, "cabecas", info.Unit)

	info = d.DetectVariableType("numero", counts)
	assert.Empty(t, info.MetricKey)
	assert.Equal(t, TypeIdentifier, info.Type)
}

func TestDetectWithoutRegistryUsesNameUnits(t *testing.T) {
	d := NewDetector(DefaultDetectionConfig(), nil)

	info := d.DetectVariableType("altura_cm", vals(120, 125.5))
	assert.True(t, info.IsZootechnical)
	assert.Equal(t, "cm", info.Unit)
	assert.Empty(t, info.MetricKey)

	info = d.DetectVariableType("ganho_medio_diario", vals(0.9))
	assert.Equal(t, "kg/dia", info.Unit)
}

func TestVariableTypePredicates(t *testing.T) {
	assert.True(t, TypeDiscrete.IsQuantitative())
	assert.True(t, TypeContinuous.IsQuantitative())
	assert.False(t, TypeIdentifier.IsQuantitative())
	assert.True(t, TypeOrdinal.IsQualitative())
	assert.False(t, TypeTemporal.IsQualitative())
}
