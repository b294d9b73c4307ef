// Package services – LikeService and CommentService
//
// Likes and comments are the two rewarded interactions on someone else's
// post. Both reject interactions by the post's author before anything is
// written, so a self-like or self-comment can never reach the ledger. A user
// may like a post once (ErrAlreadyLiked afterwards) but comment many times;
// either way only the first interaction per post is rewarded.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/repo"
)

// LikeService records likes.
type LikeService struct {
	DB     *gorm.DB
	Ledger Rewarder
}

// Like records that userID likes postID and attempts the like reward.
//
// Errors:
//   - ErrPostNotFound when the post does not exist.
//   - ErrSelfLike when userID authored the post.
//   - ErrAlreadyLiked when the user already liked the post.
func (s *LikeService) Like(ctx context.Context, userID, postID uint) error {
	ctx, span := otel.Tracer("services/LikeService").Start(ctx, "Like",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("post.id", int64(postID)),
		),
	)
	defer span.End()

	if err := ensureNotAuthor(ctx, s.DB, userID, postID, ErrSelfLike); err != nil {
		return err
	}
	if _, err := repo.CreateLike(ctx, s.DB, postID, userID); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrAlreadyLiked
		}
		return err
	}

	rewardQuietly(ctx, s.Ledger, postID, userID, domain.ActionLike)
	return nil
}

// CommentService records comments.
type CommentService struct {
	DB     *gorm.DB
	Ledger Rewarder

	// MaxContentRunes caps stored comments; 0 disables the check.
	MaxContentRunes int
}

// NewCommentService constructs a CommentService with default limits.
func NewCommentService(db *gorm.DB, ledger Rewarder) *CommentService {
	return &CommentService{DB: db, Ledger: ledger, MaxContentRunes: 2000}
}

// Create stores a comment by userID on postID and attempts the comment reward.
//
// Errors:
//   - ErrMissingContent when content is blank.
//   - ErrContentTooLong when content exceeds MaxContentRunes.
//   - ErrPostNotFound when the post does not exist.
//   - ErrSelfComment when userID authored the post.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, content string) (*domain.Comment, error) {
	ctx, span := otel.Tracer("services/CommentService").Start(ctx, "Create",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("post.id", int64(postID)),
		),
	)
	defer span.End()

	content = norm.NFC.String(strings.TrimSpace(content))
	if content == "" {
		return nil, ErrMissingContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrContentTooLong
	}
	if err := ensureNotAuthor(ctx, s.DB, userID, postID, ErrSelfComment); err != nil {
		return nil, err
	}

	c, err := repo.CreateComment(ctx, s.DB, postID, userID, content)
	if err != nil {
		return nil, err
	}

	rewardQuietly(ctx, s.Ledger, postID, userID, domain.ActionComment)
	return c, nil
}

// ensureNotAuthor loads the post and returns selfErr when userID wrote it.
func ensureNotAuthor(ctx context.Context, db *gorm.DB, userID, postID uint, selfErr error) error {
	post, err := repo.GetPost(ctx, db, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID == userID {
		return selfErr
	}
	return nil
}
