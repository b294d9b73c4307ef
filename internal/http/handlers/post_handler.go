// Post HTTP handlers.
//
// This file exposes REST endpoints for posts:
//   - GET  /posts   (feed, newest first, paginated, ETag support)
//   - POST /posts   (publish; rewarded once per post)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// create exists for (user, route, key), the handler returns the recorded id
// and sets `Idempotency-Replayed: true` without writing or paying again.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/services"
)

//
// DTOs
//

// CreatePostRequest is the JSON payload for publishing a post.
type CreatePostRequest struct {
	// ImageURL points at the uploaded image. Required.
	ImageURL string `json:"imageUrl" example:"https://cdn.example.com/p/1.jpg"`
	// Caption is optional free text.
	Caption *string `json:"caption" example:"sunset over the bay"`
}

// IDResponse carries the id of a created resource.
type IDResponse struct {
	ID uint `json:"id" example:"42"`
}

// PostAuthor is the public view of a post's author.
type PostAuthor struct {
	Username          string  `json:"username"          example:"alice"`
	DisplayName       string  `json:"displayName"       example:"Alice"`
	WalletAddress     string  `json:"walletAddress"     example:"0x5f1e..."`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

// FeedPostResponse is one entry of the feed.
type FeedPostResponse struct {
	ID           uint        `json:"id"           example:"10"`
	ImageURL     string      `json:"imageUrl"     example:"https://cdn.example.com/p/1.jpg"`
	Caption      *string     `json:"caption"`
	CreatedAt    time.Time   `json:"createdAt"`
	User         *PostAuthor `json:"user"`
	LikeCount    int64       `json:"likeCount"    example:"3"`
	CommentCount int64       `json:"commentCount" example:"1"`
}

func toFeedPost(p repo.FeedPost) FeedPostResponse {
	out := FeedPostResponse{
		ID:           p.ID,
		ImageURL:     p.ImageURL,
		Caption:      p.Caption,
		CreatedAt:    p.CreatedAt,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
	}
	if p.Author.ID != 0 {
		out.User = &PostAuthor{
			Username:          p.Author.Username,
			DisplayName:       p.Author.DisplayName,
			WalletAddress:     p.Author.WalletAddress,
			ProfilePictureURL: p.Author.ProfilePictureURL,
		}
	}
	return out
}

//
// Handlers
//

// ListPosts godoc
// @ID          listPosts
// @Summary     List the feed
// @Description Returns a page of posts, newest first, with author and like/comment counts.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Posts
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"feed:1:20:3:5:2:1700000000\")
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {array}  handlers.FeedPostResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Header      200  {int}    X-Total-Count  "Total number of posts"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if st, err := h.posts.FeedStats(ctx); err == nil {
		var ts int64
		if st.LatestPostAt != nil {
			ts = st.LatestPostAt.Unix()
		}
		etag := fmt.Sprintf(`W/"feed:%d:%d:%d:%d:%d:%d"`, page, pageSize, st.Posts, st.Likes, st.Comments, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.posts.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to load posts")
		return
	}

	out := make([]FeedPostResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toFeedPost(p))
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	ok(c, http.StatusOK, out)
}

// CreatePost godoc
// @ID          createPost
// @Summary     Publish a post
// @Description Creates a post for the current user and attempts the one-time post reward.
// @Description Reward failures never fail the request.
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreatePostRequest  true  "Post payload"
//
// @Success     200  {object}  handlers.IDResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	uid, authed := currentUser(c)
	if !authed {
		return
	}
	if replayed(c) {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.posts.Create(c.Request.Context(), uid, strings.TrimSpace(req.ImageURL), req.Caption)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingImageURL), errors.Is(err, services.ErrContentTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "failed to create post")
		}
		return
	}

	h.rememberCreated(c, uid, p.ID)
	ok(c, http.StatusOK, IDResponse{ID: p.ID})
}
