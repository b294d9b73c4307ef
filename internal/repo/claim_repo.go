// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for RewardClaim,
// the append-only ledger of reward attempts.
//
// Claims are never updated or deleted here. The unique index on
// (post_id, user_id, action_type) is the correctness mechanism; InsertClaimIfAbsent
// relies on it through ON CONFLICT DO NOTHING instead of catching a constraint error.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/socifi-backend/internal/domain"
)

// GetClaim returns the claim for key, or ErrNotFound.
func GetClaim(ctx context.Context, db *gorm.DB, key domain.ClaimKey) (*domain.RewardClaim, error) {
	var c domain.RewardClaim
	err := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ? AND action_type = ?", key.PostID, key.UserID, key.Action).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertClaimIfAbsent inserts c unless a claim for the same triple exists.
// It reports whether this call created the row; false with a nil error means
// another writer got there first.
func InsertClaimIfAbsent(ctx context.Context, db *gorm.DB, c *domain.RewardClaim) (bool, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}, {Name: "action_type"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SumClaimMist returns the total amount_mist over every claim of userID.
func SumClaimMist(ctx context.Context, db *gorm.DB, userID uint) (uint64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.RewardClaim{}).
		Select("COALESCE(SUM(amount_mist), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total < 0 {
		total = 0
	}
	return uint64(total), nil
}

// CountUnpaidClaims returns the number of claims without a transaction digest.
func CountUnpaidClaims(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.RewardClaim{}).
		Where("tx_digest IS NULL OR tx_digest = ''").
		Count(&n).Error
	return n, err
}

// ListUnpaidClaims returns up to limit unpaid claims, oldest first.
func ListUnpaidClaims(ctx context.Context, db *gorm.DB, limit int) ([]domain.RewardClaim, error) {
	var out []domain.RewardClaim
	err := db.WithContext(ctx).
		Where("tx_digest IS NULL OR tx_digest = ''").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
