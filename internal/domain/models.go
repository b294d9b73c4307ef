// Package domain defines the persistence models for users, posts, likes,
// comments, and reward claims. These types are mapped with GORM and form the
// core data layer of the social feed.
package domain

import "time"

// User is a wallet holder that authenticated through the nonce handshake.
//
// Fields:
//   - ID: auto-increment primary key.
//   - WalletAddress: Sui address the user signed in with; unique. Rewards are
//     paid to this address.
//   - Username: unique handle chosen on first login.
//   - DisplayName: free-form display name.
//   - ProfilePictureURL: optional http(s) URL.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID                uint      `json:"id"                gorm:"primaryKey"`
	WalletAddress     string    `json:"walletAddress"     gorm:"type:varchar(128);not null;uniqueIndex:ux_users_wallet"`
	Username          string    `json:"username"          gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	DisplayName       string    `json:"displayName"       gorm:"type:varchar(128);not null"`
	ProfilePictureURL *string   `json:"profilePictureUrl" gorm:"type:text"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Post is an image with an optional caption published by a user.
type Post struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	UserID    uint      `json:"userId"    gorm:"not null;index:idx_posts_user"`
	ImageURL  string    `json:"imageUrl"  gorm:"type:text;not null"`
	Caption   *string   `json:"caption"   gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_posts_created"`

	// User is the author. Posts are cascade-deleted with their author.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Like records that a user liked a post. A user can like a post at most once
// (enforced by unique index).
type Like struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	PostID    uint      `json:"postId"    gorm:"not null;uniqueIndex:ux_likes_post_user,priority:1"`
	UserID    uint      `json:"userId"    gorm:"not null;uniqueIndex:ux_likes_post_user,priority:2;index"`
	CreatedAt time.Time `json:"createdAt"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }

// Comment is a text reply on a post. Users may comment on a post many times;
// only the first comment is rewarded.
type Comment struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	PostID    uint      `json:"postId"    gorm:"not null;index:idx_comments_post"`
	UserID    uint      `json:"userId"    gorm:"not null;index"`
	Content   string    `json:"content"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }
