// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, authentication, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/config"
	"github.com/tbourn/socifi-backend/internal/docs"
	"github.com/tbourn/socifi-backend/internal/http/handlers"
	"github.com/tbourn/socifi-backend/internal/http/middleware"
	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/services"
	"github.com/tbourn/socifi-backend/internal/wallet"
)

// Deps are the long-lived collaborators the routes are built from.
type Deps struct {
	DB     *gorm.DB
	Wallet *wallet.Holder
	Auth   *services.AuthService
	// Ledger defaults to a RewardLedger over DB and Wallet.
	Ledger services.Rewarder
}

// idempotencyStore adapts the repository to the middleware lookup and the
// handler recorder.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func (s idempotencyStore) lookup(ctx context.Context, userID uint, scope, key string, now time.Time) (uint, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.ResourceID, true, nil
}

func (s idempotencyStore) remember(ctx context.Context, userID uint, scope, key string, resourceID uint) error {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, scope, key, resourceID, http.StatusOK, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent retry with the same key won; its record stands.
		return nil
	}
	return err
}

// tokenParser adapts AuthService.ParseToken to middleware.TokenParser.
func tokenParser(auth *services.AuthService) middleware.TokenParser {
	return func(raw string) (uint, string, error) {
		if auth == nil {
			return 0, "", services.ErrInvalidToken
		}
		claims, err := auth.ParseToken(raw)
		if err != nil {
			return 0, "", err
		}
		return claims.UID, claims.WA, nil
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Compression, CORS and security headers
//
// Authenticated routes then run RequireAuth → IdempotencyValidator → rate
// limiter, so limits are keyed per user and replays bypass them. Public routes
// are limited per client IP by the same limiter.
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderIdempotencyKey},
		RedactPaths: true,
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression, CORS posture and security headers
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← repo/db/wallet
	ledger := d.Ledger
	if ledger == nil {
		ledger = services.NewRewardLedger(d.DB, d.Wallet)
	}
	idem := idempotencyStore{db: d.DB, ttl: cfg.IdempotencyTTL}
	h := handlers.New(handlers.Deps{
		Posts:       services.NewPostService(d.DB, ledger),
		Likes:       &services.LikeService{DB: d.DB, Ledger: ledger},
		Comments:    services.NewCommentService(d.DB, ledger),
		Auth:        d.Auth,
		Profile:     &services.ProfileService{DB: d.DB},
		Payout:      &services.PayoutService{Wallet: d.Wallet},
		Wallet:      d.Wallet,
		Idempotency: idem.remember,
		Network:     cfg.Chain.Network,
	})

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	api := groupWithPrefix(r, cfg.APIBasePath)

	// Liveness/health
	r.GET("/health", h.Health)

	// Public API
	public := api.Group("", rl.Handler())
	{
		public.GET("/posts", h.ListPosts)
		public.GET("/auth/nonce/:wallet", middleware.NoStore(), h.Nonce)
		public.POST("/auth/verify", middleware.NoStore(), h.Verify)
	}

	// Authenticated API
	authed := api.Group("",
		middleware.RequireAuth(tokenParser(d.Auth)),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.lookup),
		rl.Handler(),
	)
	{
		authed.GET("/me", middleware.NoStore(), h.Me)
		authed.POST("/posts", h.CreatePost)
		authed.POST("/likes", h.Like)
		authed.POST("/comments", h.CreateComment)
	}

	// Operator API (development only)
	if cfg.AdminRoutes {
		api.POST("/admin/send-reward", rl.Handler(), h.SendReward)
	}

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// corsMiddleware returns the CORS chain: allow-all when no origins are
// configured, otherwise an allowlist whose matches are echoed back.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	methods := []string{"GET", "POST", "OPTIONS"}
	headers := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey}
	expose := []string{"X-Request-ID", "Content-Length", "ETag", "X-Total-Count", middleware.HeaderIdempotencyReplayed}

	if len(origins) == 0 {
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins:  true,
				AllowMethods:     methods,
				AllowHeaders:     headers,
				ExposeHeaders:    expose,
				AllowCredentials: false, // must remain false with AllowAllOrigins
				MaxAge:           12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, found := allowed[origin]; found {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     methods,
			AllowHeaders:     headers,
			ExposeHeaders:    expose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
