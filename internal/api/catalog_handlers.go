package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"zoostat/domain/metrics"
	"zoostat/domain/species"
	"zoostat/internal/errors"
)

func (s *Server) handleListMetrics(c *gin.Context) {
	var list []metrics.Metric
	if raw := c.Query("species"); raw != "" {
		if _, ok := species.Normalize(raw); !ok {
			s.respondError(c, errors.InvalidInput(fmt.Sprintf("espécie desconhecida: %q", raw)))
			return
		}
		list = s.service.Registry().MetricsForSpecies(raw)
	} else {
		list = s.service.Registry().All()
	}
	c.JSON(http.StatusOK, listResponse{Items: list, Count: len(list)})
}

func (s *Server) handleResolveMetric(c *gin.Context) {
	column := c.Query("column")
	if column == "" {
		s.badRequest(c, "query parameter 'column' is required")
		return
	}
	m, ok := s.service.Registry().ResolveMetric(column, c.Query("species"))
	if !ok {
		s.respondError(c, errors.NotFound(fmt.Sprintf("metric for column %q", column)))
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleReferenceRanges(c *gin.Context) {
	sp, ok := species.Normalize(c.Param("species"))
	if !ok {
		s.respondError(c, errors.NotFound(fmt.Sprintf("species %q", c.Param("species"))))
		return
	}
	tables := s.service.Reference().Tables()
	subtype := c.Query("subtype")
	if subtype == "" {
		subtype = tables.DefaultSubtype(sp)
	}
	c.JSON(http.StatusOK, gin.H{
		"species":  sp,
		"subtype":  subtype,
		"subtypes": tables.Subtypes(sp),
		"ranges":   tables.Ranges(sp, subtype),
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	converted, ok := s.service.Converter().TryConvert(*req.Value, req.From, req.To)
	if !ok {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("sem conversão de %q para %q", req.From, req.To)))
		return
	}
	c.JSON(http.StatusOK, convertResponse{Value: *req.Value, From: req.From, To: req.To, Converted: converted})
}
