// Package handlers provides HTTP handler implementations for the public API.
//
// This file declares the service contracts the handlers depend on and the
// Handlers type that binds them. Handlers are transport-thin: they validate
// input, call services, and translate results (and sentinel errors) into
// HTTP responses.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/http/middleware"
	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/services"
	"github.com/tbourn/socifi-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// PostService publishes posts and serves the feed.
type PostService interface {
	// Create publishes a post for userID and attempts the post reward.
	Create(ctx context.Context, userID uint, imageURL string, caption *string) (*domain.Post, error)
	// ListPage returns a page of the feed (newest first) and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]repo.FeedPost, int64, error)
	// FeedStats returns aggregate counters used for the feed ETag.
	FeedStats(ctx context.Context) (repo.FeedStats, error)
}

// LikeService records likes.
type LikeService interface {
	Like(ctx context.Context, userID, postID uint) error
}

// CommentService records comments.
type CommentService interface {
	Create(ctx context.Context, userID, postID uint, content string) (*domain.Comment, error)
}

// AuthService implements the nonce handshake.
type AuthService interface {
	// Nonce issues a fresh single-use login nonce for wallet.
	Nonce(ctx context.Context, wallet string) (string, error)
	// Verify consumes the nonce, upserts the user and returns a session token.
	Verify(ctx context.Context, in services.VerifyInput) (string, *domain.User, error)
}

// ProfileService serves the authenticated user's profile.
type ProfileService interface {
	Me(ctx context.Context, userID uint) (*domain.User, decimal.Decimal, error)
}

// PayoutService sends manual reward transfers.
type PayoutService interface {
	SendReward(ctx context.Context, to string, amount *uint64) (string, error)
}

// WalletInfo exposes the read-only state of the hot wallet.
type WalletInfo interface {
	IsConfigured() bool
	Address() string
	DefaultRewardAmount() uint64
}

// IdempotencyRecorder stores the id of a resource created under an
// Idempotency-Key so that retries can be answered without a second write.
type IdempotencyRecorder func(ctx context.Context, userID uint, scope, key string, resourceID uint) error

//
// Handler wiring
//

// Deps lists everything the handlers need. Nil services leave their routes
// unusable; the router only mounts what it wires.
type Deps struct {
	Posts       PostService
	Likes       LikeService
	Comments    CommentService
	Auth        AuthService
	Profile     ProfileService
	Payout      PayoutService
	Wallet      WalletInfo
	Idempotency IdempotencyRecorder
	// Network is the chain network name reported by /health.
	Network string
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	posts    PostService
	likes    LikeService
	comments CommentService
	auth     AuthService
	profile  ProfileService
	payout   PayoutService
	wallet   WalletInfo
	remember IdempotencyRecorder
	network  string
}

// New constructs Handlers bound to the given dependencies.
func New(d Deps) *Handlers {
	return &Handlers{
		posts:    d.Posts,
		likes:    d.Likes,
		comments: d.Comments,
		auth:     d.Auth,
		profile:  d.Profile,
		payout:   d.Payout,
		wallet:   d.Wallet,
		remember: d.Idempotency,
		network:  d.Network,
	}
}

//
// Helpers
//

// currentUser returns the authenticated user id, or aborts with 401 when the
// route was mounted without RequireAuth.
func currentUser(c *gin.Context) (uint, bool) {
	uid, found := middleware.UserID(c)
	if !found {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
		return 0, false
	}
	return uid, true
}

// clampPagination parses and bounds the page and page_size query params,
// returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	p := utils.ParsePage(c.Query("page"), c.Query("page_size"))
	return p.Number, p.Size
}

// replayed answers a request that repeats a completed create, if the
// idempotency middleware marked it as such.
func replayed(c *gin.Context) bool {
	id, found := middleware.IsReplay(c)
	if !found {
		return false
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	ok(c, http.StatusOK, IDResponse{ID: id})
	return true
}

// rememberCreated records the created id under the request's idempotency key.
// Failures are logged and otherwise ignored: the write itself succeeded.
func (h *Handlers) rememberCreated(c *gin.Context, userID, resourceID uint) {
	key, found := middleware.GetIdempotencyKey(c)
	if !found || h.remember == nil {
		return
	}
	if err := h.remember(c.Request.Context(), userID, middleware.IdempotencyScope(c), key, resourceID); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("store idempotency key")
	}
}
