// Package handlers implements the JSON API: the feed, rewarded actions,
// wallet login, health and the operator payout endpoint.
//
// Every failure is written as an ErrorResponse with a stable code from
// errors.go:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "already_liked",
//	  "message": "Already liked"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/socifi-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	// Echo of X-Request-ID for log correlation
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Machine-readable code, see errors.go
	Code string `json:"code" example:"not_found"`
	// Message safe to show to users
	Message string `json:"message" example:"Post not found"`
}

// fail aborts with an ErrorResponse. 5xx responses are also logged with the
// request-scoped logger, tagged with the caller's user id when known.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg)
		if uid, authed := middleware.UserID(c); authed {
			ev = ev.Uint("user_id", uid)
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is fail for the router's NoRoute and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
