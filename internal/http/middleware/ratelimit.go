package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc names the bucket a request draws from, as "<kind>:<id>". The kind
// becomes the label of the rate-limited counter.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP keys authenticated requests by user id and the rest by
// client IP. It must run after RequireAuth to see the user.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if uid, ok := UserID(c); ok {
			return "user:" + strconv.FormatUint(uint64(uid), 10)
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a process-local token bucket per key. Buckets idle for
// longer than idleTTL are dropped by a sweep that runs at most once per
// idleTTL. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn KeyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
}

// NewRateLimiter allows rps requests per second per key with bursts of up
// to burst (at least 1).
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		keyFn:     keyFn,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		idleTTL:   10 * time.Minute,
		lastSweep: time.Now(),
	}
}

// limiterFor returns the bucket for key, creating it on first use.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Sweep before the lookup so a stale bucket for key is replaced, not revived.
	// A bucket is stale once it has been idle for longer than idleTTL.
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) > rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator matched a completed
// request. Replays write nothing and pay nothing, so they skip the limiter.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler rejects requests over the limit with 429 and a Retry-After header
// holding the whole seconds until the next token:
//
//	{"request_id": "...", "code": "too_many_requests", "message": "rate limit exceeded"}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		key := rl.keyFn(c)
		res := rl.limiterFor(key).ReserveN(rl.now(), 1)
		delay := time.Duration(math.MaxInt64)
		if res.OK() {
			delay = res.DelayFrom(rl.now())
		}
		if delay == 0 {
			c.Next()
			return
		}
		res.Cancel()

		rateLimited.WithLabelValues(strings.SplitN(key, ":", 2)[0]).Inc()
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(delay)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

// retryAfterSeconds rounds d up to whole seconds within [1, 60].
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	switch {
	case s < 1:
		return 1
	case s > 60:
		return 60
	}
	return s
}
