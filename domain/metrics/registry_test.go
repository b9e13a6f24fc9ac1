package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoostat/domain/species"
)

func loadRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := LoadCatalog()
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func TestResolveMetric(t *testing.T) {
	r := loadRegistry(t)

	tests := []struct {
		name    string
		raw     string
		species string
		wantKey string
		wantOK  bool
	}{
		{"exact key upper case", "GPD", "", "gpd", true},
		{"surrounding whitespace", "  gpd  ", "", "gpd", true},
		{"alias", "ganho_diario", "", "gpd", true},
		{"accented alias with spaces", "Conversão Alimentar", "", "conversao_alimentar", true},
		{"short alias exact", "CA", "aves", "conversao_alimentar", true},
		{"longest contained alias wins", "Peso Inicial (kg)", "", "peso_inicial", true},
		{"contained alias", "gpd_lote", "bovino", "gpd", true},
		{"whole tokens only", "dosage", "", "", false},
		{"species filter drops exact", "IEP", "bovino", "", false},
		{"species filter keeps", "IEP", "aves", "iep", true},
		{"species alias", "IEP", "frango", "iep", true},
		{"longer alias beats key", "iep_partos_dias", "bovino", "intervalo_partos", true},
		{"unknown species", "gpd", "equino", "", false},
		{"unknown column", "numero_brinco", "", "", false},
		{"empty", "   ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.ResolveMetric(tt.raw, tt.species)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, m.Key)
			if ok && tt.species != "" {
				assert.True(t, m.AppliesTo(mustSpecies(t, tt.species)))
			}
		})
	}
}

func TestMetricsForSpeciesRoundTrip(t *testing.T) {
	r := loadRegistry(t)

	for _, sp := range []string{"bovino", "suino", "aves", "ovino", "caprino"} {
		list := r.MetricsForSpecies(sp)
		require.NotEmpty(t, list, sp)
		for _, m := range list {
			resolved, ok := r.ResolveMetric(m.Key, sp)
			assert.True(t, ok, "%s/%s", sp, m.Key)
			assert.Equal(t, m.Key, resolved.Key)
		}
	}

	assert.Empty(t, r.MetricsForSpecies("equino"))
}

func TestGet(t *testing.T) {
	r := loadRegistry(t)

	m, ok := r.Get("conversao_alimentar")
	require.True(t, ok)
	assert.Equal(t, "kg/kg", m.Unit)
	assert.True(t, m.AcceptsUnit("KG/KG"))

	_, ok = r.Get("ca")
	assert.False(t, ok, "Get only accepts canonical keys")
}

func TestNewRegistryRejectsAmbiguousCatalog(t *testing.T) {
	_, err := NewRegistry([]Metric{
		{Key: "a", Species: []string{"bovino"}},
		{Key: "A"},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Metric{
		{Key: "a", Aliases: []string{"shared"}},
		{Key: "b", Aliases: []string{"shared"}},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Metric{
		{Key: "a"},
		{Key: "b", Aliases: []string{"a"}},
	})
	assert.Error(t, err)
}

func TestParseCatalogErrors(t *testing.T) {
	_, err := ParseCatalog([]byte("metrics: [\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("metrics: []\n"))
	assert.Error(t, err)
}

func TestValidateMetricValue(t *testing.T) {
	r := loadRegistry(t)
	ca, ok := r.Get("conversao_alimentar")
	require.True(t, ok)

	assert.True(t, ValidateMetricValue(1.8, ca).Valid)
	assert.True(t, ValidateMetricValue(0.5, ca).Valid, "bounds are inclusive")
	assert.True(t, ValidateMetricValue(20, ca).Valid)

	res := ValidateMetricValue(25, ca)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "máximo")

	res = ValidateMetricValue(-1, ca)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)

	noRules := Metric{Key: "x"}
	assert.True(t, ValidateMetricValue(-1000, noRules).Valid)
}

func mustSpecies(t *testing.T, raw string) string {
	t.Helper()
	key, ok := species.Normalize(raw)
	require.True(t, ok, raw)
	return key
}
