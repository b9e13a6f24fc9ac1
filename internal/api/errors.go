package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zoostat/domain/core"
	"zoostat/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps an error to its HTTP status. Structural problems with the submitted
// data are 422 whatever code wraps them.
func statusFor(err error) int {
	switch {
	case core.IsStructural(err):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errors.CodeAnalysisFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if core.IsStructural(err) && !errors.IsAppError(err) {
		code = errors.CodeInvalidInput
	}
	msg := err.Error()
	if status >= 500 {
		s.logger.Error("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
		if code == errors.CodeDatabaseError || code == errors.CodeInternalError {
			msg = "internal error"
		}
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, Code: errors.CodeInvalidInput})
}
