// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for posts, likes
// and comments: the primary writes of the three rewarded actions, plus the
// feed listing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
)

// FeedPost is a post joined with its author and engagement counters.
type FeedPost struct {
	domain.Post
	Author       domain.User
	LikeCount    int64
	CommentCount int64
}

// CreatePost inserts a post owned by userID.
func CreatePost(ctx context.Context, db *gorm.DB, userID uint, imageURL string, caption *string) (*domain.Post, error) {
	p := &domain.Post{
		UserID:    userID,
		ImageURL:  imageURL,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost fetches a post by ID, or ErrNotFound.
func GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	var p domain.Post
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPosts returns the total number of posts.
func CountPosts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Post{}).Count(&total).Error
	return total, err
}

// ListPostsPage returns a page of the feed, newest first (CreatedAt DESC, ID DESC),
// with authors preloaded and like/comment counts attached.
func ListPostsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]FeedPost, error) {
	var posts []domain.Post
	err := db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []FeedPost{}, nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	likes, err := countByPost(ctx, db, &domain.Like{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := countByPost(ctx, db, &domain.Comment{}, ids)
	if err != nil {
		return nil, err
	}

	out := make([]FeedPost, len(posts))
	for i, p := range posts {
		out[i] = FeedPost{
			Post:         p,
			Author:       p.User,
			LikeCount:    likes[p.ID],
			CommentCount: comments[p.ID],
		}
	}
	return out, nil
}

func countByPost(ctx context.Context, db *gorm.DB, model any, ids []uint) (map[uint]int64, error) {
	var rows []struct {
		PostID uint
		N      int64
	}
	err := db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	m := make(map[uint]int64, len(rows))
	for _, r := range rows {
		m[r.PostID] = r.N
	}
	return m, nil
}

// CreateLike records that userID liked postID. A second like by the same
// user on the same post returns ErrDuplicate.
func CreateLike(ctx context.Context, db *gorm.DB, postID, userID uint) (*domain.Like, error) {
	l := &domain.Like{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return l, nil
}

// CreateComment inserts a comment by userID on postID.
func CreateComment(ctx context.Context, db *gorm.DB, postID, userID uint, content string) (*domain.Comment, error) {
	c := &domain.Comment{PostID: postID, UserID: userID, Content: content, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}
