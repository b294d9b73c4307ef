// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. RequireAuth parses the
// Authorization header with a caller-supplied TokenParser and, on success,
// stores the user id and wallet address in the Gin context. Failures abort
// with 401 and the standard error envelope.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by RequireAuth.
const (
	ctxKeyUserID = "userID"
	ctxKeyWallet = "wallet"
)

// TokenParser validates a raw bearer token and returns the session identity.
type TokenParser func(raw string) (userID uint, wallet string, err error)

// RequireAuth rejects requests without a valid "Authorization: Bearer" token.
func RequireAuth(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := bearerToken(c.GetHeader("Authorization"))
		if !found {
			unauthorized(c)
			return
		}
		uid, wallet, err := parse(raw)
		if err != nil || uid == 0 {
			unauthorized(c)
			return
		}
		c.Set(ctxKeyUserID, uid)
		c.Set(ctxKeyWallet, wallet)

		// Enrich the request-scoped logger so services log the user too.
		attachLogger(c, LoggerFrom(c).With().Uint("user_id", uid).Logger())

		c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok && uid != 0
}

// Wallet returns the authenticated wallet address stored by RequireAuth.
func Wallet(c *gin.Context) string {
	v, _ := c.Get(ctxKeyWallet)
	s, _ := v.(string)
	return s
}

// WithUserID is a test helper that marks c as authenticated.
func WithUserID(c *gin.Context, uid uint) { c.Set(ctxKeyUserID, uid) }

func bearerToken(h string) (string, bool) {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    "Unauthorized",
	})
}

// requestContext returns the request's context, or Background when the
// request is missing (unit tests driving handlers directly).
func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}
