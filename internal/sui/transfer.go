package sui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// CoinType is the native SUI coin.
	CoinType = "0x2::sui::SUI"

	// GasBudget caps the gas a reward transfer may burn (0.01 SUI). The node
	// rejects transactions that need more; that surfaces as a failed transfer.
	GasBudget uint64 = 10_000_000

	coinPageSize = 50
	maxCoinPages = 10
)

// ErrTransferFailed wraps every failure of Transfer.
var ErrTransferFailed = errors.New("sui: transfer failed")

// Transferer moves native SUI from the signer to a recipient.
type Transferer struct {
	client       *Client
	signer       *Keypair
	finality     time.Duration
	pollInterval time.Duration
}

// NewTransferer returns a Transferer that waits up to finality for each
// submitted transaction.
func NewTransferer(c *Client, signer *Keypair, finality time.Duration) *Transferer {
	return &Transferer{client: c, signer: signer, finality: finality, pollInterval: time.Second}
}

// Signer returns the address funds are sent from.
func (t *Transferer) Signer() string { return t.signer.Address() }

type coinPage struct {
	Data []struct {
		CoinObjectID string `json:"coinObjectId"`
		Balance      string `json:"balance"`
	} `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type txBytesResult struct {
	TxBytes string `json:"txBytes"`
}

type txResponse struct {
	Digest  string `json:"digest"`
	Effects *struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"status"`
	} `json:"effects"`
}

// status reports "" while effects are unknown.
func (r txResponse) status() (string, string) {
	if r.Effects == nil {
		return "", ""
	}
	return r.Effects.Status.Status, r.Effects.Status.Error
}

// Transfer sends amount MIST to the recipient and returns the transaction
// digest once the network reports it final. Every error wraps ErrTransferFailed.
// There is no retry.
func (t *Transferer) Transfer(ctx context.Context, to string, amount uint64) (digest string, err error) {
	ctx, span := otel.Tracer("sui").Start(ctx, "sui.Transfer")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int64("sui.amount_mist", int64(amount)))

	recipient, err := NormalizeAddress(to)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if amount == 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrTransferFailed)
	}

	coin, err := t.pickCoin(ctx, amount+GasBudget)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	var built txBytesResult
	err = t.client.Call(ctx, "unsafe_transferSui", []any{
		t.signer.Address(),
		coin,
		strconv.FormatUint(GasBudget, 10),
		recipient,
		strconv.FormatUint(amount, 10),
	}, &built)
	if err != nil {
		return "", fmt.Errorf("%w: build: %w", ErrTransferFailed, err)
	}
	txBytes, err := base64.StdEncoding.DecodeString(built.TxBytes)
	if err != nil {
		return "", fmt.Errorf("%w: decode tx bytes: %w", ErrTransferFailed, err)
	}

	var exec txResponse
	err = t.client.Call(ctx, "sui_executeTransactionBlock", []any{
		built.TxBytes,
		[]string{t.signer.SignTransaction(txBytes)},
		map[string]bool{"showEffects": true},
		"WaitForLocalExecution",
	}, &exec)
	if err != nil {
		return "", fmt.Errorf("%w: execute: %w", ErrTransferFailed, err)
	}
	if exec.Digest == "" {
		return "", fmt.Errorf("%w: execute returned no digest", ErrTransferFailed)
	}
	span.SetAttributes(attribute.String("sui.digest", exec.Digest))
	if st, msg := exec.status(); st == "failure" {
		return "", fmt.Errorf("%w: %s: %s", ErrTransferFailed, exec.Digest, msg)
	}

	if err := t.waitForFinality(ctx, exec.Digest); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	log.Info().Str("digest", exec.Digest).Str("to", recipient).Uint64("amount_mist", amount).Msg("sui transfer final")
	return exec.Digest, nil
}

// pickCoin returns a SUI coin owned by the signer holding at least need MIST.
func (t *Transferer) pickCoin(ctx context.Context, need uint64) (string, error) {
	var cursor any
	for page := 0; page < maxCoinPages; page++ {
		var coins coinPage
		if err := t.client.Call(ctx, "suix_getCoins", []any{t.signer.Address(), CoinType, cursor, coinPageSize}, &coins); err != nil {
			return "", fmt.Errorf("get coins: %w", err)
		}
		for _, c := range coins.Data {
			bal, err := strconv.ParseUint(c.Balance, 10, 64)
			if err != nil {
				continue
			}
			if bal >= need {
				return c.CoinObjectID, nil
			}
		}
		if !coins.HasNextPage || coins.NextCursor == nil {
			break
		}
		cursor = *coins.NextCursor
	}
	return "", fmt.Errorf("no single coin with balance >= %d mist (amount + gas budget)", need)
}

// waitForFinality polls the transaction until effects are reported or the
// finality timeout elapses.
func (t *Transferer) waitForFinality(ctx context.Context, digest string) error {
	ctx, cancel := context.WithTimeout(ctx, t.finality)
	defer cancel()

	tick := time.NewTicker(t.pollInterval)
	defer tick.Stop()
	for {
		var tx txResponse
		err := t.client.Call(ctx, "sui_getTransactionBlock", []any{digest, map[string]bool{"showEffects": true}}, &tx)
		if err == nil {
			switch st, msg := tx.status(); st {
			case "success":
				return nil
			case "failure":
				return fmt.Errorf("%s: %s", digest, msg)
			}
		} else if ctx.Err() == nil {
			// Not yet indexed by this node, or a transient RPC failure.
			log.Debug().Err(err).Str("digest", digest).Msg("finality poll, retrying")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: finality not reached within %s: %w", digest, t.finality, ctx.Err())
		case <-tick.C:
		}
	}
}

// Balance returns the total SUI balance of owner in MIST.
func (c *Client) Balance(ctx context.Context, owner string) (uint64, error) {
	addr, err := NormalizeAddress(owner)
	if err != nil {
		return 0, err
	}
	var res struct {
		TotalBalance string `json:"totalBalance"`
	}
	if err := c.Call(ctx, "suix_getBalance", []any{addr, CoinType}, &res); err != nil {
		return 0, err
	}
	return strconv.ParseUint(res.TotalBalance, 10, 64)
}
