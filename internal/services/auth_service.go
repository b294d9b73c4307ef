// Package services – AuthService
//
// This file implements the wallet login handshake. A client asks for a nonce
// for its wallet address, then posts the address back (optionally with the
// nonce and profile fields) to receive a signed session token. Nonces are
// single use and expire; the stored challenge is removed as soon as a login
// succeeds, so a replayed verify fails with ErrNonceNotFound.
//
// Signature checking of the nonce is out of scope; possession of a live
// challenge is what a login proves.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/repo"
)

const maxPictureURLLen = 2048

// ChallengeStore issues and consumes login nonces.
type ChallengeStore interface {
	// Issue creates a fresh challenge for address, replacing any live one.
	Issue(ctx context.Context, address string) (string, error)
	// Consume removes the live challenge for address and reports whether one
	// existed. A non-empty token must match it.
	Consume(ctx context.Context, address, token string) (bool, error)
}

// DBChallengeStore keeps challenges in the auth_challenges table.
type DBChallengeStore struct {
	DB  *gorm.DB
	TTL time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *DBChallengeStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue implements ChallengeStore.
func (s *DBChallengeStore) Issue(ctx context.Context, address string) (string, error) {
	token := uuid.NewString()
	if err := repo.PutChallenge(ctx, s.DB, address, token, s.now(), s.TTL); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}
	return token, nil
}

// Consume implements ChallengeStore.
func (s *DBChallengeStore) Consume(ctx context.Context, address, token string) (bool, error) {
	return repo.ConsumeChallenge(ctx, s.DB, address, token, s.now())
}

// SessionClaims is the JWT payload issued on login.
type SessionClaims struct {
	UID uint   `json:"uid"`
	WA  string `json:"wa"`
	jwt.RegisteredClaims
}

// VerifyInput is the body of a login attempt.
type VerifyInput struct {
	WalletAddress     string
	Nonce             string
	DisplayName       string
	Username          string
	ProfilePictureURL *string
}

// AuthService runs the nonce handshake and issues session tokens.
type AuthService struct {
	DB         *gorm.DB
	Challenges ChallengeStore
	Secret     []byte
	TTL        time.Duration
	Now        func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Nonce issues a login challenge for wallet.
func (s *AuthService) Nonce(ctx context.Context, wallet string) (string, error) {
	wallet = normalizeWallet(wallet)
	if wallet == "" {
		return "", ErrWalletRequired
	}
	return s.Challenges.Issue(ctx, wallet)
}

// Verify completes a login. Existing users get their display name and picture
// refreshed when provided; new users are created and must supply a free
// username. The challenge is consumed only after the input has been validated.
func (s *AuthService) Verify(ctx context.Context, in VerifyInput) (string, *domain.User, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Verify")
	defer span.End()

	wallet := normalizeWallet(in.WalletAddress)
	if wallet == "" {
		return "", nil, ErrWalletRequired
	}
	span.SetAttributes(attribute.String("wallet", wallet))

	picture, err := cleanPictureURL(in.ProfilePictureURL)
	if err != nil {
		return "", nil, err
	}
	displayName := norm.NFC.String(strings.TrimSpace(in.DisplayName))
	username := norm.NFC.String(strings.TrimSpace(in.Username))

	existing, err := repo.GetUserByWallet(ctx, s.DB, wallet)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return "", nil, err
	}
	if existing == nil {
		if username == "" {
			return "", nil, ErrUsernameRequired
		}
		taken, err := repo.UsernameTaken(ctx, s.DB, username)
		if err != nil {
			return "", nil, err
		}
		if taken {
			return "", nil, ErrUsernameTaken
		}
	}

	ok, err := s.Challenges.Consume(ctx, wallet, strings.TrimSpace(in.Nonce))
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrNonceNotFound
	}

	var user *domain.User
	if existing != nil {
		if displayName == "" {
			displayName = existing.DisplayName
		}
		user, err = repo.UpdateUserProfile(ctx, s.DB, existing.ID, displayName, picture)
	} else {
		if displayName == "" {
			displayName = "user-" + prefix(wallet, 6)
		}
		user, err = repo.CreateUser(ctx, s.DB, wallet, username, displayName, picture)
		if errors.Is(err, repo.ErrDuplicate) {
			err = ErrUsernameTaken
		}
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.sign(user)
	if err != nil {
		return "", nil, err
	}
	log.Ctx(ctx).Info().Uint("user_id", user.ID).Bool("new_user", existing == nil).Msg("login verified")
	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))
	return token, user, nil
}

func (s *AuthService) sign(u *domain.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UID: u.ID,
		WA:  u.WalletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return tok, nil
}

// ParseToken validates a session token and returns its claims. Any failure
// yields ErrInvalidToken.
func (s *AuthService) ParseToken(raw string) (*SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.UID == 0 {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func normalizeWallet(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cleanPictureURL(p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*p)
	if raw == "" {
		return nil, nil
	}
	if len(raw) > maxPictureURLLen {
		return nil, ErrInvalidProfilePicture
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidProfilePicture
	}
	return &raw, nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
