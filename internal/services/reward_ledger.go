// Package services – RewardLedger
//
// This file implements the reward ledger: the at-most-once bookkeeping for
// rewarded actions. For a (post, user, action) triple it decides whether a
// payout is due, attempts it through the hot wallet, and records a claim row
// whether or not the transfer succeeded. A claim with a nil digest means
// "attempted, not paid" and is the signal for manual reconciliation.
//
// The unique index on the claim triple is the source of truth. The initial
// lookup only avoids a pointless transfer, and the final write is an
// insert-if-absent, so a lost race never raises an error. Concurrent calls for
// the same triple inside one process are collapsed before they reach the wallet.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/wallet"
)

// Payer is the part of the hot wallet the ledger and payout service use.
type Payer interface {
	Send(ctx context.Context, to string, amount uint64) (string, error)
	DefaultRewardAmount() uint64
}

// Rewarder is implemented by RewardLedger; action services depend on it.
type Rewarder interface {
	RewardOnce(ctx context.Context, postID, userID uint, action domain.ActionType, amountOverride *uint64) (ClaimOutcome, error)
}

// ClaimOutcome reports what a RewardOnce call did.
//
//   - Claimed: this call recorded the claim row.
//   - AlreadyClaimed: a claim for the triple existed; nothing was attempted.
//   - Digest: the transfer digest when Claimed and the payout succeeded.
type ClaimOutcome struct {
	Claimed        bool
	AlreadyClaimed bool
	Digest         *string
}

// RewardLedger records at most one reward claim per (post, user, action).
type RewardLedger struct {
	DB     *gorm.DB
	Wallet Payer

	group singleflight.Group
}

// NewRewardLedger returns a ledger writing to db and paying through w.
func NewRewardLedger(db *gorm.DB, w Payer) *RewardLedger {
	return &RewardLedger{DB: db, Wallet: w}
}

// flightResult carries the leader's token so joined callers can tell they
// did not run the attempt. singleflight's shared flag is set for the leader
// too once anyone joins, so it cannot make that distinction.
type flightResult struct {
	out    ClaimOutcome
	leader *byte
}

// RewardOnce pays the reward for (postID, userID, action) unless a claim for
// that triple already exists. Transfer failures never surface as errors: they
// are logged and recorded as a claim with a nil digest. An error is returned
// only when the ledger store itself fails.
//
// The attempt is detached from ctx cancellation: once started it runs to
// completion so a disconnecting client cannot leave a paid but unrecorded
// transfer behind.
func (l *RewardLedger) RewardOnce(ctx context.Context, postID, userID uint, action domain.ActionType, amountOverride *uint64) (ClaimOutcome, error) {
	if !action.Valid() {
		return ClaimOutcome{}, fmt.Errorf("reward ledger: unknown action %q", action)
	}
	key := domain.ClaimKey{PostID: postID, UserID: userID, Action: action}
	amount := l.Wallet.DefaultRewardAmount()
	if amountOverride != nil && *amountOverride > 0 {
		amount = *amountOverride
	}

	ctx = context.WithoutCancel(ctx)
	ctx, span := otel.Tracer("services/RewardLedger").Start(ctx, "RewardOnce",
		trace.WithAttributes(
			attribute.Int64("post.id", int64(postID)),
			attribute.Int64("user.id", int64(userID)),
			attribute.String("reward.action", string(action)),
		),
	)
	defer span.End()

	me := new(byte) // identity token; compared by pointer only
	v, err, _ := l.group.Do(key.String(), func() (any, error) {
		out, err := l.attempt(ctx, key, amount)
		return flightResult{out: out, leader: me}, err
	})
	res, _ := v.(flightResult)
	if err != nil {
		return ClaimOutcome{}, err
	}
	// A caller that joined an in-flight attempt did not claim anything itself.
	if res.leader != me && res.out.Claimed {
		rewardClaims.WithLabelValues(string(action), "already_claimed").Inc()
		return ClaimOutcome{AlreadyClaimed: true}, nil
	}
	span.SetAttributes(attribute.Bool("reward.claimed", res.out.Claimed))
	return res.out, nil
}

func (l *RewardLedger) attempt(ctx context.Context, key domain.ClaimKey, amount uint64) (ClaimOutcome, error) {
	action := string(key.Action)
	logger := log.Ctx(ctx).With().
		Uint("post_id", key.PostID).
		Uint("user_id", key.UserID).
		Str("action", action).
		Logger()

	// 1) Existing claim: nothing to do.
	if _, err := repo.GetClaim(ctx, l.DB, key); err == nil {
		rewardClaims.WithLabelValues(action, "already_claimed").Inc()
		return ClaimOutcome{AlreadyClaimed: true}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		rewardClaims.WithLabelValues(action, "store_error").Inc()
		logger.Error().Err(err).Msg("reward claim lookup failed")
		return ClaimOutcome{}, fmt.Errorf("lookup claim %s: %w", key, err)
	}

	// 2) Resolve recipient and 3) attempt the transfer.
	var digest *string
	user, err := repo.GetUser(ctx, l.DB, key.UserID)
	if err != nil {
		rewardTransfers.WithLabelValues(action, "skipped").Inc()
		logger.Warn().Err(err).Msg("reward recipient lookup failed; recording claim without payout")
	} else {
		d, err := l.Wallet.Send(ctx, user.WalletAddress, amount)
		switch {
		case errors.Is(err, wallet.ErrWalletNotConfigured):
			rewardTransfers.WithLabelValues(action, "unconfigured").Inc()
			logger.Warn().Msg("reward skipped: hot wallet not configured")
		case err != nil:
			rewardTransfers.WithLabelValues(action, "failed").Inc()
			logger.Error().Err(err).Str("to", user.WalletAddress).Uint64("amount_mist", amount).Msg("reward transfer failed")
		default:
			rewardTransfers.WithLabelValues(action, "success").Inc()
			digest = &d
			logger.Info().Str("digest", d).Uint64("amount_mist", amount).Msg("reward sent")
		}
	}

	// 4) Record the claim, paid or not.
	claim := &domain.RewardClaim{
		PostID:     key.PostID,
		UserID:     key.UserID,
		ActionType: key.Action,
		AmountMist: amount,
		TxDigest:   digest,
	}
	inserted, err := repo.InsertClaimIfAbsent(ctx, l.DB, claim)
	if err != nil {
		rewardClaims.WithLabelValues(action, "store_error").Inc()
		ev := logger.Error().Err(err)
		if digest != nil {
			ev = ev.Str("digest", *digest)
		}
		ev.Msg("reward claim insert failed")
		return ClaimOutcome{}, fmt.Errorf("insert claim %s: %w", key, err)
	}
	if !inserted {
		rewardClaims.WithLabelValues(action, "lost_race").Inc()
		ev := logger.Warn()
		if digest != nil {
			ev = ev.Str("digest", *digest)
		}
		ev.Msg("reward claim already recorded by a concurrent request; payout may need reconciliation")
		return ClaimOutcome{}, nil
	}

	rewardClaims.WithLabelValues(action, "claimed").Inc()
	return ClaimOutcome{Claimed: true, Digest: digest}, nil
}

// rewardQuietly runs a reward attempt on behalf of a primary action and only
// logs failures; the primary action's result never depends on it.
func rewardQuietly(ctx context.Context, r Rewarder, postID, userID uint, action domain.ActionType) {
	if r == nil {
		return
	}
	if _, err := r.RewardOnce(ctx, postID, userID, action, nil); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Uint("post_id", postID).
			Uint("user_id", userID).
			Str("action", string(action)).
			Msg("reward ledger error")
	}
}
