// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file stores login challenges (nonces).
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/socifi-backend/internal/domain"
)

// PutChallenge stores token as the live challenge for address, replacing any
// previous one.
func PutChallenge(ctx context.Context, db *gorm.DB, address, token string, now time.Time, ttl time.Duration) error {
	ch := &domain.AuthChallenge{
		Address:   address,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "created_at", "expires_at"}),
		}).
		Create(ch).Error
}

// ConsumeChallenge deletes the live challenge for address and reports whether
// one was removed. When token is non-empty it must match. Expired challenges
// never match.
func ConsumeChallenge(ctx context.Context, db *gorm.DB, address, token string, now time.Time) (bool, error) {
	q := db.WithContext(ctx).Where("address = ? AND expires_at > ?", address, now)
	if token != "" {
		q = q.Where("token = ?", token)
	}
	res := q.Delete(&domain.AuthChallenge{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PurgeExpiredChallenges removes challenges that expired before now.
func PurgeExpiredChallenges(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.AuthChallenge{})
	return res.RowsAffected, res.Error
}
