// Auth and profile HTTP handlers.
//
// This file exposes the wallet login handshake and the profile endpoint:
//   - GET  /auth/nonce/{wallet}   (issue a single-use login nonce)
//   - POST /auth/verify           (consume the nonce, upsert the user, issue a JWT)
//   - GET  /me                    (profile and accumulated reward balance)
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/services"
)

// NonceResponse carries a freshly issued login nonce.
type NonceResponse struct {
	Nonce string `json:"nonce" example:"0b7c5a8e-3c52-4f0e-9d53-2f0c1a6f4e11"`
}

// VerifyRequest is the JSON payload for completing a login.
type VerifyRequest struct {
	WalletAddress string `json:"walletAddress" example:"0x5f1e..."`
	// Nonce is the value returned by /auth/nonce. Older clients omit it.
	Nonce             string  `json:"nonce"             example:"0b7c5a8e-3c52-4f0e-9d53-2f0c1a6f4e11"`
	DisplayName       string  `json:"displayName"       example:"Alice"`
	Username          string  `json:"username"          example:"alice"`
	ProfilePictureURL *string `json:"profilePictureUrl" example:"https://cdn.example.com/a.png"`
}

// VerifyResponse carries the session token and the user.
type VerifyResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// MeResponse carries the current user and their reward balance in SUI.
type MeResponse struct {
	User *domain.User `json:"user"`
	// Balance is the sum of all recorded reward amounts, in SUI.
	Balance json.Number `json:"balance" swaggertype:"number" example:"0.015"`
}

// Nonce godoc
// @ID          authNonce
// @Summary     Issue a login nonce
// @Description Issues a single-use nonce for the wallet. A new nonce replaces any previous one.
// @Tags        Auth
// @Produce     json
//
// @Param       wallet  path  string  true  "Wallet address"
//
// @Success     200  {object}  handlers.NonceResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/nonce/{wallet} [get]
func (h *Handlers) Nonce(c *gin.Context) {
	nonce, err := h.auth.Nonce(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		if errors.Is(err, services.ErrWalletRequired) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to issue nonce")
		return
	}
	ok(c, http.StatusOK, NonceResponse{Nonce: nonce})
}

// Verify godoc
// @ID          authVerify
// @Summary     Complete a wallet login
// @Description Consumes the nonce and returns a session token. First logins create the user
// @Description and require a unique username; later logins update the profile.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.VerifyRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.VerifyResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or unknown nonce"
// @Failure     409  {object}  handlers.ErrorResponse  "Username taken"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/verify [post]
func (h *Handlers) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	token, u, err := h.auth.Verify(c.Request.Context(), services.VerifyInput{
		WalletAddress:     req.WalletAddress,
		Nonce:             req.Nonce,
		DisplayName:       req.DisplayName,
		Username:          req.Username,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWalletRequired),
			errors.Is(err, services.ErrUsernameRequired),
			errors.Is(err, services.ErrInvalidProfilePicture):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrNonceNotFound):
			fail(c, http.StatusBadRequest, ErrCodeInvalidNonce, "nonce not found or expired")
		case errors.Is(err, services.ErrUsernameTaken):
			fail(c, http.StatusConflict, ErrCodeUsernameTaken, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeLoginFailed, "failed to verify")
		}
		return
	}
	ok(c, http.StatusOK, VerifyResponse{Token: token, User: u})
}

// Me godoc
// @ID          me
// @Summary     Current user
// @Description Returns the authenticated user and the total of their recorded rewards in SUI.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.MeResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	uid, authed := currentUser(c)
	if !authed {
		return
	}

	u, balance, err := h.profile.Me(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load profile")
		return
	}
	ok(c, http.StatusOK, MeResponse{User: u, Balance: json.Number(balance.String())})
}
