package domain

import (
	"fmt"
	"time"
)

// ActionType is the kind of social action a reward is paid for.
type ActionType string

const (
	ActionPost    ActionType = "post"
	ActionLike    ActionType = "like"
	ActionComment ActionType = "comment"
)

// Valid reports whether a is one of the rewarded action kinds.
func (a ActionType) Valid() bool {
	switch a {
	case ActionPost, ActionLike, ActionComment:
		return true
	}
	return false
}

// RewardClaim asserts that a reward was evaluated for one (post, user, action)
// triple. At most one row exists per triple (unique index ux_reward_claims_triple).
//
// Rows are append-only: created once and never updated or deleted. A nil
// TxDigest means the transfer was attempted but no payout happened; those rows
// are the signal for manual reconciliation.
type RewardClaim struct {
	ID         uint       `json:"id"         gorm:"primaryKey"`
	PostID     uint       `json:"postId"     gorm:"not null;uniqueIndex:ux_reward_claims_triple,priority:1"`
	UserID     uint       `json:"userId"     gorm:"not null;uniqueIndex:ux_reward_claims_triple,priority:2;index"`
	ActionType ActionType `json:"actionType" gorm:"type:varchar(16);not null;uniqueIndex:ux_reward_claims_triple,priority:3;check:action_type IN ('post','like','comment')"`
	AmountMist uint64     `json:"amountMist" gorm:"not null"`
	TxDigest   *string    `json:"txDigest"   gorm:"type:varchar(128);index"`
	CreatedAt  time.Time  `json:"createdAt"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID"`
	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for RewardClaim.
func (RewardClaim) TableName() string { return "reward_claims" }

// Paid reports whether a transfer digest was recorded.
func (c RewardClaim) Paid() bool { return c.TxDigest != nil && *c.TxDigest != "" }

// Key returns the claim's triple.
func (c RewardClaim) Key() ClaimKey {
	return ClaimKey{PostID: c.PostID, UserID: c.UserID, Action: c.ActionType}
}

// ClaimKey identifies a reward claim triple.
type ClaimKey struct {
	PostID uint
	UserID uint
	Action ActionType
}

// String renders the key as "post:user:action"; used for singleflight keys and logs.
func (k ClaimKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.PostID, k.UserID, k.Action)
}
