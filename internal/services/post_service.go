// Package services – PostService
//
// This file implements the PostService, which publishes image posts and lists
// the feed. Creating a post is a rewarded action: after the post row is
// written, the author's "post" reward is attempted through the ledger. The
// reward outcome never changes the result of Create.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/utils"
)

// PostService provides post creation and feed listing.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Ledger receives one reward attempt per created post.
	Ledger Rewarder

	// MaxCaptionRunes caps stored captions; 0 disables the check.
	MaxCaptionRunes int
}

// NewPostService constructs a PostService with default limits.
func NewPostService(db *gorm.DB, ledger Rewarder) *PostService {
	return &PostService{DB: db, Ledger: ledger, MaxCaptionRunes: 2000}
}

// Create publishes a post for userID and then attempts the post reward.
// A blank imageURL yields ErrMissingImageURL. A blank caption is stored as NULL.
func (s *PostService) Create(ctx context.Context, userID uint, imageURL string, caption *string) (*domain.Post, error) {
	ctx, span := otel.Tracer("services/PostService").Start(ctx, "Create",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, ErrMissingImageURL
	}
	if caption != nil {
		c := norm.NFC.String(strings.TrimSpace(*caption))
		if c == "" {
			caption = nil
		} else {
			if s.MaxCaptionRunes > 0 && utf8.RuneCountInString(c) > s.MaxCaptionRunes {
				return nil, ErrContentTooLong
			}
			caption = &c
		}
	}

	post, err := repo.CreatePost(ctx, s.DB, userID, imageURL, caption)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("post.id", int64(post.ID)))

	rewardQuietly(ctx, s.Ledger, post.ID, userID, domain.ActionPost)
	return post, nil
}

// ListPage returns a page of the feed (newest first) and the total number of posts.
func (s *PostService) ListPage(ctx context.Context, page, pageSize int) ([]repo.FeedPost, int64, error) {
	ctx, span := otel.Tracer("services/PostService").Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	window := utils.Page{Number: page, Size: pageSize}.Clamp()

	total, err := repo.CountPosts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []repo.FeedPost{}, 0, nil
	}
	items, err := repo.ListPostsPage(ctx, s.DB, window.Offset(), window.Size)
	return items, total, err
}

// FeedStats returns the aggregate used to derive the feed ETag.
func (s *PostService) FeedStats(ctx context.Context) (repo.FeedStats, error) {
	return repo.FeedStatsFor(ctx, s.DB)
}
