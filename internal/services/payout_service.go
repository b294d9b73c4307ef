package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/socifi-backend/internal/sui"
)

// PayoutService sends ad-hoc transfers from the hot wallet. It bypasses the
// ledger and records nothing; it exists for operators testing the wallet.
type PayoutService struct {
	Wallet Payer
}

// SendReward transfers amount MIST (the configured reward when nil or zero)
// to the given address and returns the transaction digest.
//
// Errors:
//   - ErrInvalidAddress when to is not a Sui address.
//   - wallet.ErrWalletNotConfigured when no key is loaded.
//   - sui.ErrTransferFailed (wrapped) when the transfer did not succeed.
func (s *PayoutService) SendReward(ctx context.Context, to string, amount *uint64) (string, error) {
	ctx, span := otel.Tracer("services/PayoutService").Start(ctx, "SendReward")
	defer span.End()

	addr, err := sui.NormalizeAddress(to)
	if err != nil {
		return "", ErrInvalidAddress
	}
	mist := s.Wallet.DefaultRewardAmount()
	if amount != nil && *amount > 0 {
		mist = *amount
	}
	span.SetAttributes(attribute.String("to", addr), attribute.Int64("amount_mist", int64(mist)))

	digest, err := s.Wallet.Send(ctx, addr, mist)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("to", addr).Uint64("amount_mist", mist).Msg("manual payout failed")
		return "", err
	}
	log.Ctx(ctx).Info().Str("to", addr).Uint64("amount_mist", mist).Str("digest", digest).Msg("manual payout sent")
	return digest, nil
}
