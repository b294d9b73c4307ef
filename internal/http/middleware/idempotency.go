// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for authenticated create
// endpoints (POST /posts, POST /comments). It validates an Idempotency-Key
// request header, optionally performs a lookup to detect a previously
// completed request, and annotates the Gin context so downstream handlers can:
//   - read the validated key (GetIdempotencyKey)
//   - detect replayed requests (IsReplay) and serve the stored resource id
//   - bypass rate limiting when a replay is served
//
// Keys are scoped per user and per route: the same key used on /posts and on
// /comments refers to two different operations.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on responses served from a
// stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"   // uint: stored resource id
	ctxKeyRateBypass = "rate.bypass"   // bool: true to skip rate limiting
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated idempotency key stored by
// IdempotencyValidator. The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the request repeats a completed operation and, if
// so, the id of the resource that operation created.
func IsReplay(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return 0, false
	}
	id, _ := v.(uint)
	return id, id != 0
}

// IdempotencyScope is the scope under which keys for this request are stored:
// the matched route pattern (e.g. "/posts").
func IdempotencyScope(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup returns the resource id recorded for (userID, scope, key)
// when a still-valid result exists. Errors are treated as "not found".
type IdempotencyLookup func(ctx context.Context, userID uint, scope, key string, now time.Time) (resourceID uint, found bool, err error)

// IdempotencyValidator validates the Idempotency-Key header (if present) and
// checks for a prior completed request. It must run after RequireAuth.
//
//   - Header absent: no-op.
//   - Header invalid: 400 {"code":"bad_idempotency_key"}.
//   - Lookup hit: marks the request as a replay and bypasses rate limiting.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		uid, authed := UserID(c)
		if lookup != nil && authed {
			id, found, err := lookup(requestContext(c), uid, IdempotencyScope(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if found && id != 0 {
				c.Set(ctxKeyIdemReplay, id)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
