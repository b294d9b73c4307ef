package handlers

// Stable error codes carried in ErrorResponse.Code. Clients branch on these,
// so existing values never change meaning.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Feed writes and reads.
	ErrCodeCreateFailed = "create_failed"
	ErrCodeListFailed   = "list_failed"

	// Rewarded actions.
	ErrCodeSelfLike     = "self_like"
	ErrCodeSelfComment  = "self_comment"
	ErrCodeAlreadyLiked = "already_liked"

	// Wallet login.
	ErrCodeInvalidNonce  = "invalid_nonce"
	ErrCodeUsernameTaken = "username_taken"
	ErrCodeLoginFailed   = "login_failed"

	// Hot wallet payouts.
	ErrCodeWalletNotReady = "wallet_not_configured"
	ErrCodeTransferFailed = "transfer_failed"
)
