// Package api exposes the analysis service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zoostat/adapters/jsonrows"
	"zoostat/app"
	"zoostat/internal"
	"zoostat/internal/monitoring"
)

// Config holds the HTTP-facing limits
type Config struct {
	// MaxUploadBytes bounds multipart uploads and JSON bodies
	MaxUploadBytes int64
	// MaxRows is forwarded to the JSON row decoder
	MaxRows     int
	MetricsPath string
}

// Dependencies are the collaborators of the server
type Dependencies struct {
	Service  *app.AnalysisService
	Loader   *app.DatasetLoader
	Recorder *monitoring.Recorder
	Logger   *internal.Logger
}

// Server owns the gin engine and the handlers
type Server struct {
	router   *gin.Engine
	service  *app.AnalysisService
	loader   *app.DatasetLoader
	rows     *jsonrows.Reader
	recorder *monitoring.Recorder
	logger   *internal.Logger
	config   Config
}

// NewServer builds the router. gin's mode is left to the caller.
func NewServer(config Config, deps Dependencies) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 32 << 20
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	logger := deps.Logger.OrNop()
	s := &Server{
		router:   gin.New(),
		service:  deps.Service,
		loader:   deps.Loader,
		rows:     jsonrows.NewReader("data", config.MaxRows, logger),
		recorder: deps.Recorder,
		logger:   logger,
		config:   config,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	if s.recorder != nil {
		s.router.Use(s.requestMetrics())
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	if s.recorder != nil {
		s.router.GET(s.config.MetricsPath, gin.WrapH(s.recorder.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/metrics", s.handleListMetrics)
		api.GET("/metrics/resolve", s.handleResolveMetric)
		api.GET("/reference/:species", s.handleReferenceRanges)
		api.POST("/units/convert", s.handleConvert)

		api.POST("/analysis", s.handleAnalyze)
		api.POST("/analysis/summary", s.handleSummary)
		api.POST("/analysis/cross-validation", s.handleCrossValidation)
		api.POST("/analysis/correlations", s.handleCorrelations)
		api.POST("/analysis/reference", s.handleReference)
		api.POST("/datasets/upload", s.handleUpload)

		api.GET("/reports", s.handleListReports)
		api.GET("/reports/:id", s.handleGetReport)
		api.GET("/reports/:id/html", s.handleRenderReport(app.FormatHTML))
		api.GET("/reports/:id/markdown", s.handleRenderReport(app.FormatMarkdown))
		api.DELETE("/reports/:id", s.handleDeleteReport)

		stats := api.Group("/stats")
		stats.POST("/ttest", s.handleTTest)
		stats.POST("/anova", s.handleANOVA)
		stats.POST("/pearson", s.handlePearson)
		stats.POST("/regression", s.handleRegression)
		stats.POST("/describe", s.handleDescribe)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"metrics": s.service.Registry().Len(),
		"time":    time.Now().UTC(),
	})
}
