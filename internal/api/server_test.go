package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoostat/adapters/excel"
	"zoostat/adapters/jsonrows"
	"zoostat/adapters/memory"
	"zoostat/app"
	"zoostat/domain/metrics"
	"zoostat/domain/reference"
	"zoostat/internal/monitoring"
)

const feedlotCSV = `lote,peso_inicial,peso_final,dias,gpd
A,300,420,100,1.2
A,310,440,100,1.3
B,320,430,100,1.1
B,330,455,100,1.25
C,340,455,100,1.15
C,350,470,100,1.2
`

const feedlotJSON = `{
	"name": "confinamento",
	"species": "bovino",
	"columns": ["lote", "peso_inicial", "peso_final", "dias", "gpd"],
	"data": [
		{"lote": "A", "peso_inicial": 300, "peso_final": 420, "dias": 100, "gpd": 1.2},
		{"lote": "A", "peso_inicial": 310, "peso_final": 440, "dias": 100, "gpd": 1.3},
		{"lote": "B", "peso_inicial": 320, "peso_final": 430, "dias": 100, "gpd": 1.1},
		{"lote": "B", "peso_inicial": 330, "peso_final": 455, "dias": 100, "gpd": 1.25},
		{"lote": "C", "peso_inicial": 340, "peso_final": 455, "dias": 100, "gpd": 1.15},
		{"lote": "C", "peso_inicial": 350, "peso_final": 470, "dias": 100, "gpd": 1.2}
	]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, app.DefaultOptions())
}

func newTestServerWith(t *testing.T, opts app.Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tables, err := reference.LoadTables()
	require.NoError(t, err)
	recorder := monitoring.NewRecorder(monitoring.Config{Namespace: "zoostat"})
	svc, err := app.NewAnalysisService(app.Dependencies{
		Registry: metrics.MustLoadCatalog(),
		Tables:   tables,
		Reports:  memory.NewReportRepository(),
		Recorder: recorder,
	}, opts)
	require.NoError(t, err)

	loader := app.NewDatasetLoader(
		excel.NewDataReader(excel.DefaultConfig(), nil),
		jsonrows.NewReader("", 0, nil),
	)
	return NewServer(Config{}, Dependencies{Service: svc, Loader: loader, Recorder: recorder})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestListMetrics(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/metrics?species=frango", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, decode(t, w)["count"], float64(0))

	w = do(t, s, http.MethodGet, "/api/metrics?species=equino", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveMetric(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/metrics/resolve?column=Ganho%20Medio%20Diario", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gpd", decode(t, w)["key"])

	w = do(t, s, http.MethodGet, "/api/metrics/resolve?column=cor_da_pelagem", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/metrics/resolve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferenceRanges(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/reference/suinos?subtype=creche", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "suino", body["species"])
	ranges := body["ranges"].(map[string]interface{})
	assert.Contains(t, ranges, "gpd")

	w = do(t, s, http.MethodGet, "/api/reference/equino", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvert(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/units/convert", `{"value": 1500, "from": "g", "to": "kg"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 1.5, decode(t, w)["converted"], 1e-9)

	w = do(t, s, http.MethodPost, "/api/units/convert", `{"value": 1, "from": "kg", "to": "dias"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/units/convert", `{"from": "kg", "to": "g"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisEndpointsRejectBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed json", "/api/analysis/summary", `{"data": [`, http.StatusBadRequest},
		{"missing data", "/api/analysis/summary", `{"species": "bovino"}`, http.StatusBadRequest},
		{"empty dataset", "/api/analysis/summary", `{"data": []}`, http.StatusUnprocessableEntity},
		{"row not an object", "/api/analysis/reference", `{"data": [1, 2]}`, http.StatusBadRequest},
		{"unknown species", "/api/analysis", `{"species": "equino", "data": [{"gpd": 1}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/analysis/summary", feedlotJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(6), body["row_count"])
	columns := body["columns"].([]interface{})
	require.Len(t, columns, 5)
	assert.Equal(t, "lote", columns[0].(map[string]interface{})["name"])
}

func TestCrossValidationEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/analysis/cross-validation", feedlotJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(6), decode(t, w)["rows_checked"])
}

func TestCorrelationsEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := strings.Replace(feedlotJSON, `"species": "bovino",`, `"species": "bovino", "options": {"min_data_points": 3},`, 1)
	w := do(t, s, http.MethodPost, "/api/analysis/correlations", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "bovino", decode(t, w)["species"])
}

func TestCorrelationsEndpointUsesConfiguredOptions(t *testing.T) {
	opts := app.DefaultOptions()
	opts.Correlation.MinDataPoints = 3
	opts.Correlation.MaxCorrelations = 1
	s := newTestServerWith(t, opts)

	w := do(t, s, http.MethodPost, "/api/analysis/correlations", feedlotJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)
	assert.Len(t, report["correlations"], 1)
	assert.Greater(t, report["total_found"], float64(1))

	// a partial options object keeps the configured values it does not name
	body := strings.Replace(feedlotJSON, `"species": "bovino",`, `"species": "bovino", "options": {"min_relevance_score": 0},`, 1)
	w = do(t, s, http.MethodPost, "/api/analysis/correlations", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report = decode(t, w)
	assert.Len(t, report["correlations"], 1)
	assert.Empty(t, report["warnings"])
}

func TestAnalyzeAndFetchReport(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/analysis", feedlotJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	assert.Equal(t, "/api/reports/"+id, w.Header().Get("Location"))

	w = do(t, s, http.MethodGet, "/api/reports/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confinamento", decode(t, w)["name"])

	w = do(t, s, http.MethodGet, "/api/reports/"+id+"/html", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "confinamento")

	w = do(t, s, http.MethodGet, "/api/reports/"+id+"/markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# Relatório de análise")

	w = do(t, s, http.MethodGet, "/api/reports?species=gado", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = do(t, s, http.MethodDelete, "/api/reports/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/api/reports/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportLookupErrors(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/reports/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/reports/0190a2b4-7c1e-7000-8000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/reports?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("species", "bovino"))
	fw, err := mw.CreateFormFile("file", "confinamento.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(feedlotCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "confinamento", body["name"])
	assert.Equal(t, float64(6), body["row_count"])
}

func TestUploadRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "dados.parquet")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("PAR1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"independent t-test", "/api/stats/ttest", `{"group1": [1, 2, 3, 4], "group2": [5, 6, 7, 8]}`, http.StatusOK},
		{"one sample t-test", "/api/stats/ttest", `{"type": "one_sample", "group1": [1, 2, 3, 4], "mu": 2}`, http.StatusOK},
		{"unknown t-test", "/api/stats/ttest", `{"type": "welch", "group1": [1, 2]}`, http.StatusBadRequest},
		{"t-test too small", "/api/stats/ttest", `{"type": "one_sample", "group1": [1]}`, http.StatusUnprocessableEntity},
		{"anova", "/api/stats/anova", `{"groups": [{"name": "a", "values": [1, 2, 3]}, {"name": "b", "values": [4, 5, 6]}]}`, http.StatusOK},
		{"pearson", "/api/stats/pearson", `{"x": [1, 2, 3, 4], "y": [2, 4, 6, 8.5]}`, http.StatusOK},
		{"pearson length mismatch", "/api/stats/pearson", `{"x": [1, 2, 3], "y": [1, 2]}`, http.StatusUnprocessableEntity},
		{"regression", "/api/stats/regression", `{"x": [1, 2, 3, 4], "y": [3, 5, 7, 9.2]}`, http.StatusOK},
		{"describe", "/api/stats/describe", `{"values": [1, 2, 3, 4]}`, http.StatusOK},
		{"describe empty", "/api/stats/describe", `{"values": []}`, http.StatusUnprocessableEntity},
		{"bad json", "/api/stats/anova", `{"groups": `, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodGet, "/health", "")
	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `zoostat_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
