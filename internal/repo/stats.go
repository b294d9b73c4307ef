// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
)

// FeedStats summarizes everything that changes the rendered feed.
type FeedStats struct {
	Posts        int64
	Likes        int64
	Comments     int64
	LatestPostAt *time.Time
}

// FeedStatsFor returns the row counts of posts, likes and comments, and the
// CreatedAt of the newest post (nil when there are no posts).
func FeedStatsFor(ctx context.Context, db *gorm.DB) (FeedStats, error) {
	var st FeedStats
	q := db.WithContext(ctx)

	if err := q.Model(&domain.Post{}).Count(&st.Posts).Error; err != nil {
		return FeedStats{}, err
	}
	if err := q.Model(&domain.Like{}).Count(&st.Likes).Error; err != nil {
		return FeedStats{}, err
	}
	if err := q.Model(&domain.Comment{}).Count(&st.Comments).Error; err != nil {
		return FeedStats{}, err
	}
	if st.Posts == 0 {
		return st, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err := q.Model(&domain.Post{}).Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return FeedStats{}, err
	}
	st.LatestPostAt = &row.CreatedAt
	return st, nil
}
