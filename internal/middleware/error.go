package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/userhub/admin-api/pkg/errors"
)

// ErrorResponse is the structured error body returned to clients. Code is
// the machine-readable business code; no stack traces ever leak here.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into structured
// responses. Business errors map onto their HTTP status through the
// exhaustive dispatch table in pkg/errors; anything else is a 500 with the
// details kept server-side.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("trace_id", traceID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		lastErr := c.Errors.Last()

		if appErr, ok := apperrors.AsAppError(lastErr.Err); ok {
			c.JSON(appErr.StatusCode(), ErrorResponse{
				Code:    string(appErr.Code),
				Message: appErr.Message,
				TraceID: traceID,
			})
			return
		}

		c.JSON(apperrors.StatusOf(apperrors.ErrInternal), ErrorResponse{
			Code:    string(apperrors.ErrInternal),
			Message: "internal server error",
			TraceID: traceID,
		})
	}
}
