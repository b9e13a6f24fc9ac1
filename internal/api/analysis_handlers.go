package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"zoostat/app"
	"zoostat/domain/dataset"
	"zoostat/internal/analysis"
	"zoostat/internal/errors"
)

// bindDataset reads the request envelope and decodes its rows. It writes the error
// response itself and returns false when the request is unusable.
func (s *Server) bindDataset(c *gin.Context) (datasetRequest, *dataset.Dataset, bool) {
	// request options are decoded over the configured ones, so a partial object
	// overrides only the fields it names
	defaults := s.service.CorrelationDefaults()
	req := datasetRequest{Correlation: &defaults}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)
	body, err := c.GetRawData()
	if err != nil {
		s.badRequest(c, fmt.Sprintf("failed to read body: %v", err))
		return req, nil, false
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.badRequest(c, fmt.Sprintf("invalid JSON: %v", err))
		return req, nil, false
	}
	if req.Name == "" {
		req.Name = "dataset"
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		s.badRequest(c, "field 'data' is required")
		return req, nil, false
	}
	// An empty row array is a valid request over an empty dataset.
	if data.IsArray() && len(data.Array()) == 0 {
		return req, dataset.New(req.Name, req.Columns, nil), true
	}

	ds, err := s.rows.Parse(c.Request.Context(), body, req.Name)
	if err != nil {
		s.respondError(c, err)
		return req, nil, false
	}
	if len(req.Columns) > 0 {
		ds = dataset.New(ds.Name, req.Columns, ds.Rows)
	}
	return req, ds, true
}

func (s *Server) handleSummary(c *gin.Context) {
	_, ds, ok := s.bindDataset(c)
	if !ok {
		return
	}
	summary, err := s.service.Summarize(c.Request.Context(), ds)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleCrossValidation(c *gin.Context) {
	req, ds, ok := s.bindDataset(c)
	if !ok {
		return
	}
	report, err := s.service.CrossValidate(c.Request.Context(), ds, req.Species)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleCorrelations(c *gin.Context) {
	req, ds, ok := s.bindDataset(c)
	if !ok {
		return
	}
	opts := s.service.CorrelationDefaults()
	if req.Correlation != nil {
		opts = *req.Correlation
	}
	report, err := s.service.DiscoverCorrelations(c.Request.Context(), ds, req.Species, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleReference(c *gin.Context) {
	req, ds, ok := s.bindDataset(c)
	if !ok {
		return
	}
	cmp, err := s.service.CompareReference(c.Request.Context(), ds, req.Species, req.Subtype)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	req, ds, ok := s.bindDataset(c)
	if !ok {
		return
	}
	s.analyze(c, app.AnalyzeRequest{Dataset: ds, Species: req.Species, Subtype: req.Subtype, Correlation: req.Correlation})
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		s.badRequest(c, fmt.Sprintf("multipart field 'file' is required: %v", err))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	ds, err := s.loader.Load(c.Request.Context(), f, header.Filename)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("[API] upload %s: %d rows, %d columns", header.Filename, ds.Len(), len(ds.Columns))
	s.analyze(c, app.AnalyzeRequest{Dataset: ds, Species: c.PostForm("species"), Subtype: c.PostForm("subtype")})
}

func (s *Server) analyze(c *gin.Context, req app.AnalyzeRequest) {
	rep, err := s.service.Analyze(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Location", "/api/reports/"+rep.ID.String())
	c.JSON(http.StatusCreated, rep)
}

func (s *Server) handleListReports(c *gin.Context) {
	filter := analysis.ReportFilter{Species: c.Query("species")}
	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	if filter.Offset, err = intQuery(c, "offset"); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	headers, err := s.service.ListReports(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: headers, Count: len(headers)})
}

func (s *Server) handleGetReport(c *gin.Context) {
	rep, err := s.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleRenderReport(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, contentType, err := s.service.RenderReport(c.Request.Context(), c.Param("id"), format)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, contentType, body)
	}
}

func (s *Server) handleDeleteReport(c *gin.Context) {
	if err := s.service.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("query parameter '%s' must be a non-negative integer", key)
	}
	return n, nil
}
