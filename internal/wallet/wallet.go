// Package wallet holds the server's reward hot wallet: the signing key read
// from configuration at startup, its address, and the default reward amount.
//
// A Holder is built once in main and shared by pointer. It never re-reads
// configuration, so a missing or malformed secret leaves it unconfigured for
// the life of the process.
package wallet

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/socifi-backend/internal/sui"
)

// DefaultRewardMist is paid per rewarded action when no amount is configured.
const DefaultRewardMist uint64 = 5_000_000

// ErrWalletNotConfigured is returned by Send when no signing key is loaded.
var ErrWalletNotConfigured = errors.New("wallet: hot wallet not configured")

// Sender submits a native-coin transfer and returns its digest.
type Sender interface {
	Transfer(ctx context.Context, to string, amount uint64) (string, error)
}

// Holder is the process-wide hot wallet. The zero value is an unconfigured
// holder paying DefaultRewardMist.
type Holder struct {
	signer *sui.Keypair
	sender Sender
	reward uint64
	// timeout caps a whole Send, finality wait included. Zero means no cap.
	timeout time.Duration
}

// New parses secret and rewardRaw and wires a transferer on client. Parse
// failures are logged once and leave the holder unconfigured. sendTimeout
// bounds every Send end to end.
func New(secret, rewardRaw string, client *sui.Client, finality, sendTimeout time.Duration) *Holder {
	h := &Holder{reward: ParseRewardAmount(rewardRaw), timeout: sendTimeout}
	if strings.TrimSpace(secret) == "" {
		log.Warn().Msg("hot wallet secret not set; rewards will be recorded without payout")
		return h
	}
	kp, err := sui.ParseSecret(secret)
	if err != nil {
		log.Error().Err(err).Msg("hot wallet secret rejected; rewards will be recorded without payout")
		return h
	}
	h.signer = kp
	h.sender = sui.NewTransferer(client, kp, finality)
	log.Info().Str("address", kp.Address()).Uint64("reward_mist", h.reward).Msg("hot wallet loaded")
	return h
}

// NewWithSender builds a holder from an already parsed key and a custom
// sender. A nil signer yields an unconfigured holder.
func NewWithSender(signer *sui.Keypair, sender Sender, reward uint64) *Holder {
	if reward == 0 {
		reward = DefaultRewardMist
	}
	if signer == nil {
		return &Holder{reward: reward}
	}
	return &Holder{signer: signer, sender: sender, reward: reward}
}

// IsConfigured reports whether a valid signing key was loaded.
func (h *Holder) IsConfigured() bool { return h != nil && h.signer != nil && h.sender != nil }

// Address returns the wallet address, or "" when unconfigured.
func (h *Holder) Address() string {
	if !h.IsConfigured() {
		return ""
	}
	return h.signer.Address()
}

// DefaultRewardAmount returns the configured per-action reward in MIST.
func (h *Holder) DefaultRewardAmount() uint64 {
	if h == nil || h.reward == 0 {
		return DefaultRewardMist
	}
	return h.reward
}

// Send transfers amount MIST to the recipient and returns the transaction digest.
func (h *Holder) Send(ctx context.Context, to string, amount uint64) (string, error) {
	if !h.IsConfigured() {
		return "", ErrWalletNotConfigured
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.sender.Transfer(ctx, to, amount)
}

// ParseRewardAmount reads a MIST amount from a config value that may carry a
// trailing annotation ("5000000 # 0.005 SUI", "5000000 (testnet)"). Empty,
// unparseable or zero values yield DefaultRewardMist.
func ParseRewardAmount(raw string) uint64 {
	s := raw
	if i := strings.IndexAny(s, "#("); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRewardMist
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return DefaultRewardMist
	}
	return n
}
