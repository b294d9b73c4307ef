// Like and comment HTTP handlers.
//
// This file exposes the engagement endpoints:
//   - POST /likes      (like a post once; rewarded once)
//   - POST /comments   (comment on a post; the first comment is rewarded)
//
// Authors cannot like or comment on their own posts.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/socifi-backend/internal/services"
)

// LikeRequest is the JSON payload for liking a post.
type LikeRequest struct {
	PostID uint `json:"postId" example:"10"`
}

// CommentRequest is the JSON payload for commenting on a post.
type CommentRequest struct {
	PostID  uint   `json:"postId"  example:"10"`
	Content string `json:"content" example:"love this"`
}

// OKResponse acknowledges an action without returning a resource.
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// Like godoc
// @ID          likePost
// @Summary     Like a post
// @Description Records a like and attempts the one-time like reward. A second like is a conflict.
// @Tags        Engagement
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.LikeRequest  true  "Like payload"
//
// @Success     200  {object}  handlers.OKResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or self-like"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Post not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already liked"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes [post]
func (h *Handlers) Like(c *gin.Context) {
	uid, authed := currentUser(c)
	if !authed {
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "postId is required")
		return
	}

	if err := h.likes.Like(c.Request.Context(), uid, req.PostID); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Post not found")
		case errors.Is(err, services.ErrSelfLike):
			fail(c, http.StatusBadRequest, ErrCodeSelfLike, "Cannot like your own post")
		case errors.Is(err, services.ErrAlreadyLiked):
			fail(c, http.StatusConflict, ErrCodeAlreadyLiked, "Already liked")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "failed to like post")
		}
		return
	}
	ok(c, http.StatusOK, OKResponse{OK: true})
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a post
// @Description Adds a comment. Only the user's first comment on a post is rewarded.
// @Description Supports idempotency via the Idempotency-Key header (same key → same id).
// @Tags        Engagement
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CommentRequest  true  "Comment payload"
//
// @Success     200  {object}  handlers.IDResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or self-comment"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Post not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	uid, authed := currentUser(c)
	if !authed {
		return
	}
	if replayed(c) {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "postId is required")
		return
	}

	cm, err := h.comments.Create(c.Request.Context(), uid, req.PostID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingContent), errors.Is(err, services.ErrContentTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrPostNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Post not found")
		case errors.Is(err, services.ErrSelfComment):
			fail(c, http.StatusBadRequest, ErrCodeSelfComment, "Cannot comment on your own post")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "failed to create comment")
		}
		return
	}

	h.rememberCreated(c, uid, cm.ID)
	ok(c, http.StatusOK, IDResponse{ID: cm.ID})
}
