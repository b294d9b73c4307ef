// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously processed request,
// keyed by (user_id, scope, key). Scope is the route that created the resource
// ("/posts", "/comments"). It enables safe retries for POST operations by
// returning the originally created resource id without re-executing side
// effects (including reward attempts).
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID     uint      `gorm:"type:INTEGER NOT NULL;uniqueIndex:ux_user_scope_key,priority:1"`
	Scope      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:2"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:3"`
	ResourceID uint      `gorm:"type:INTEGER NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// AuthChallenge is the single live login nonce for a wallet address. Issuing a
// new challenge replaces the previous one; a successful verification deletes
// it, so every nonce is single-use.
type AuthChallenge struct {
	Address   string    `gorm:"type:varchar(128);primaryKey"`
	Token     string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (AuthChallenge) TableName() string { return "auth_challenges" }
