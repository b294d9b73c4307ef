// Health and admin HTTP handlers.
//
// This file exposes:
//   - GET  /health               (liveness plus hot wallet status)
//   - POST /admin/send-reward    (manual transfer; mounted only when enabled)
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/socifi-backend/internal/services"
	"github.com/tbourn/socifi-backend/internal/sui"
	"github.com/tbourn/socifi-backend/internal/wallet"
)

// HealthResponse reports liveness and the payout configuration.
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Network string `json:"network" example:"testnet"`
	// RewardAmount is the default reward in MIST, as a decimal string.
	RewardAmount  string  `json:"rewardAmount"  example:"5000000"`
	SenderAddress *string `json:"senderAddress" example:"0x5f1e..."`
	HasHotWallet  bool    `json:"hasHotWallet"  example:"true"`
}

// SendRewardRequest is the JSON payload for a manual transfer.
type SendRewardRequest struct {
	ToAddress string `json:"toAddress" example:"0x5f1e..."`
	// AmountMist overrides the default reward when set.
	AmountMist *uint64 `json:"amountMist" example:"5000000"`
}

// SendRewardResponse carries the digest of the executed transfer.
type SendRewardResponse struct {
	OK     bool   `json:"ok"     example:"true"`
	Digest string `json:"digest" example:"9aXk..."`
}

// Health godoc
// @ID          health
// @Summary     Health check
// @Description Reports liveness, the chain network and whether the hot wallet is configured.
// @Tags        System
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	resp := HealthResponse{OK: true, Network: h.network, RewardAmount: "0"}
	if h.wallet != nil {
		resp.RewardAmount = strconv.FormatUint(h.wallet.DefaultRewardAmount(), 10)
		resp.HasHotWallet = h.wallet.IsConfigured()
		if addr := h.wallet.Address(); addr != "" {
			resp.SenderAddress = &addr
		}
	}
	ok(c, http.StatusOK, resp)
}

// SendReward godoc
// @ID          sendReward
// @Summary     Send a reward manually
// @Description Transfers a reward from the hot wallet. Development only.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SendRewardRequest  true  "Transfer payload"
//
// @Success     200  {object}  handlers.SendRewardResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Wallet not configured"
// @Failure     502  {object}  handlers.ErrorResponse  "Transfer failed"
// @Router      /admin/send-reward [post]
func (h *Handlers) SendReward(c *gin.Context) {
	var req SendRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ToAddress == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "toAddress is required")
		return
	}

	digest, err := h.payout.SendReward(c.Request.Context(), req.ToAddress, req.AmountMist)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAddress):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, wallet.ErrWalletNotConfigured):
			fail(c, http.StatusInternalServerError, ErrCodeWalletNotReady, "Hot wallet not configured")
		case errors.Is(err, sui.ErrTransferFailed):
			fail(c, http.StatusBadGateway, ErrCodeTransferFailed, "Transfer failed")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to send reward")
		}
		return
	}
	ok(c, http.StatusOK, SendRewardResponse{OK: true, Digest: digest})
}
