// Package services defines the business logic for posts, likes, comments,
// reward payouts, and wallet login. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Action errors.
var (
	// ErrMissingImageURL is returned when a post is created without an image.
	ErrMissingImageURL = errors.New("imageUrl is required")

	// ErrMissingContent is returned when a comment body is blank.
	ErrMissingContent = errors.New("content is required")

	// ErrContentTooLong is returned when a caption or comment exceeds the limit.
	ErrContentTooLong = errors.New("content too long")

	// ErrPostNotFound indicates that the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrSelfLike is returned when the author likes their own post.
	ErrSelfLike = errors.New("cannot like your own post")

	// ErrSelfComment is returned when the author comments on their own post.
	ErrSelfComment = errors.New("cannot comment on your own post")

	// ErrAlreadyLiked is returned for a second like on the same post.
	ErrAlreadyLiked = errors.New("already liked")
)

// Account errors.
var (
	// ErrUserNotFound indicates that the authenticated user no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrWalletRequired is returned when a login omits the wallet address.
	ErrWalletRequired = errors.New("walletAddress is required")

	// ErrNonceNotFound is returned when no live, matching challenge exists.
	ErrNonceNotFound = errors.New("nonce not found")

	// ErrUsernameRequired is returned when a first login omits the username.
	ErrUsernameRequired = errors.New("username is required for new users")

	// ErrUsernameTaken is returned when the requested username belongs to
	// another account.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidProfilePicture is returned for non-http(s) or oversized URLs.
	ErrInvalidProfilePicture = errors.New("invalid profilePictureUrl")

	// ErrInvalidToken is returned for missing, expired, or forged session tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Payout errors.
var (
	// ErrInvalidAddress is returned when a payout recipient is not a Sui address.
	ErrInvalidAddress = errors.New("invalid recipient address")
)
