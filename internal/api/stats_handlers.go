package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"zoostat/internal/analysis/descriptive"
	"zoostat/internal/analysis/inferential"
	"zoostat/internal/errors"
)

func (s *Server) handleTTest(c *gin.Context) {
	var req ttestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	var (
		result inferential.TTestResult
		err    error
	)
	switch req.Type {
	case inferential.TestOneSample:
		result, err = inferential.OneSampleTTest(req.Group1, req.Mu, req.ConfidenceLevel)
	case inferential.TestIndependent, "":
		result, err = inferential.IndependentTTest(req.Group1, req.Group2, req.ConfidenceLevel)
	case inferential.TestPaired:
		result, err = inferential.PairedTTest(req.Group1, req.Group2, req.ConfidenceLevel)
	default:
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("unknown t-test type %q", req.Type)))
		return
	}
	s.respondStats(c, result, err)
}

func (s *Server) handleANOVA(c *gin.Context) {
	var req anovaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	result, err := inferential.OneWayANOVA(req.Groups, req.ConfidenceLevel)
	s.respondStats(c, result, err)
}

func (s *Server) handlePearson(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	result, err := inferential.PearsonCorrelation(req.X, req.Y, req.ConfidenceLevel)
	s.respondStats(c, result, err)
}

func (s *Server) handleRegression(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	result, err := inferential.LinearRegression(req.X, req.Y, req.ConfidenceLevel)
	s.respondStats(c, result, err)
}

func (s *Server) handleDescribe(c *gin.Context) {
	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	stats, err := descriptive.FromFloats(req.Values)
	if err != nil {
		s.respondError(c, errors.FromAnalysis("describe", err))
		return
	}
	withCI, err := inferential.CalculateStatsWithCI(req.Values)
	if err != nil {
		s.respondError(c, errors.FromAnalysis("describe", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "confidence_interval": withCI.CI95})
}

func (s *Server) respondStats(c *gin.Context, result interface{}, err error) {
	if err != nil {
		s.respondError(c, errors.FromAnalysis(c.FullPath(), err))
		return
	}
	c.JSON(http.StatusOK, result)
}
