// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound.
//   - A unique violation on wallet_address or username is returned as ErrDuplicate.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
)

// CreateUser inserts a new user. Wallet address and username must be unique.
func CreateUser(ctx context.Context, db *gorm.DB, wallet, username, displayName string, picture *string) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		WalletAddress:     wallet,
		Username:          username,
		DisplayName:       displayName,
		ProfilePictureURL: picture,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by primary key, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByWallet fetches a user by wallet address, or ErrNotFound.
func GetUserByWallet(ctx context.Context, db *gorm.DB, wallet string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameTaken reports whether any user already holds username.
func UsernameTaken(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// UpdateUserProfile sets the display name and, when picture is non-nil, the
// profile picture of user id. Returns ErrNotFound when no row matched.
func UpdateUserProfile(ctx context.Context, db *gorm.DB, id uint, displayName string, picture *string) (*domain.User, error) {
	updates := map[string]any{
		"display_name": displayName,
		"updated_at":   time.Now().UTC(),
	}
	if picture != nil {
		updates["profile_picture_url"] = *picture
	}
	res := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetUser(ctx, db, id)
}
