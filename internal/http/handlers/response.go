// Package handlers provides the HTTP endpoints of the Sparky API.
//
// This file defines the response helpers shared by every endpoint: the error
// envelope, fail/Fail, failErr (service error to status mapping) and the
// success writers.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "service config not found"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sparky-backend/internal/http/middleware"
	"github.com/tbourn/go-sparky-backend/internal/nutrition"
	"github.com/tbourn/go-sparky-backend/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// fail aborts the request with the error envelope. 5xx responses are logged
// with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail, used by the router for 404/405.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr maps a service error onto a status and code. Validation messages
// are shown to the caller; internal errors are logged and replaced with a
// generic message.
func failErr(c *gin.Context, err error, internalCode string) {
	var apiErr *nutrition.APIError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, nutrition.ErrDisabled):
		fail(c, http.StatusServiceUnavailable, ErrCodeIntegrationDisabled, "nutrition lookup is not configured")
	case errors.As(err, &apiErr):
		middleware.LoggerFrom(c).Warn().Err(err).Msg("fatsecret error")
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "nutrition service error")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, internalCode, "internal server error")
	}
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
