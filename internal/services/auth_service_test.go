package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tbourn/socifi-backend/internal/domain"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newAuth(t *testing.T) (*AuthService, *clock) {
	t.Helper()
	db := newTestDB(t)
	clk := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return &AuthService{
		DB:         db,
		Challenges: &DBChallengeStore{DB: db, TTL: 5 * time.Minute, Now: clk.Now},
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		Now:        clk.Now,
	}, clk
}

func strptr(s string) *string { return &s }

func TestAuth_NewUserLogin(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()

	nonce, err := s.Nonce(ctx, " 0xABCDEF0123 ")
	if err != nil || nonce == "" {
		t.Fatalf("Nonce: %q %v", nonce, err)
	}
	tok, u, err := s.Verify(ctx, VerifyInput{
		WalletAddress: "0xabcdef0123",
		Nonce:         nonce,
		Username:      "alice",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.WalletAddress != "0xabcdef0123" || u.Username != "alice" || u.DisplayName != "user-0xabcd" {
		t.Fatalf("user = %+v", u)
	}

	claims, err := s.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UID != u.ID || claims.WA != u.WalletAddress {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestAuth_NonceIsSingleUse(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	nonce, _ := s.Nonce(ctx, "0xaaa")

	in := VerifyInput{WalletAddress: "0xaaa", Nonce: nonce, Username: "alice"}
	if _, _, err := s.Verify(ctx, in); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, _, err := s.Verify(ctx, in); !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("replay: want ErrNonceNotFound, got %v", err)
	}
}

func TestAuth_NonceExpires(t *testing.T) {
	s, clk := newAuth(t)
	ctx := context.Background()
	nonce, _ := s.Nonce(ctx, "0xaaa")

	clk.t = clk.t.Add(6 * time.Minute)
	_, _, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xaaa", Nonce: nonce, Username: "alice"})
	if !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("want ErrNonceNotFound, got %v", err)
	}
}

func TestAuth_NonceMismatchAndLegacyOmission(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	_, _ = s.Nonce(ctx, "0xaaa")

	_, _, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xaaa", Nonce: "wrong", Username: "alice"})
	if !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("mismatch: want ErrNonceNotFound, got %v", err)
	}
	// Omitting the nonce consumes whatever challenge is live.
	if _, _, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xaaa", Username: "alice"}); err != nil {
		t.Fatalf("legacy verify: %v", err)
	}
	if _, _, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xaaa"}); !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("want ErrNonceNotFound without a live challenge, got %v", err)
	}
}

func TestAuth_ExistingUserUpdatesProfile(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()

	n1, _ := s.Nonce(ctx, "0xaaa")
	_, first, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xaaa", Nonce: n1, Username: "alice", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	n2, _ := s.Nonce(ctx, "0xAAA")
	_, u, err := s.Verify(ctx, VerifyInput{
		WalletAddress:     "0xAAA",
		Nonce:             n2,
		ProfilePictureURL: strptr("https://cdn.example/a.png"),
	})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if u.ID != first.ID || u.DisplayName != "Alice" {
		t.Fatalf("user = %+v", u)
	}
	if u.ProfilePictureURL == nil || *u.ProfilePictureURL != "https://cdn.example/a.png" {
		t.Fatalf("picture = %v", u.ProfilePictureURL)
	}
}

func TestAuth_VerifyValidationKeepsNonce(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	_, _ = s.Nonce(ctx, "0xbbb")
	n, _ := s.Nonce(ctx, "0xaaa")
	if _, _, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xbbb", Username: "taken"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name string
		in   VerifyInput
		want error
	}{
		{"no wallet", VerifyInput{Nonce: n, Username: "x"}, ErrWalletRequired},
		{"no username", VerifyInput{WalletAddress: "0xaaa", Nonce: n}, ErrUsernameRequired},
		{"username taken", VerifyInput{WalletAddress: "0xaaa", Nonce: n, Username: "taken"}, ErrUsernameTaken},
		{"bad scheme", VerifyInput{WalletAddress: "0xaaa", Nonce: n, Username: "a", ProfilePictureURL: strptr("ftp://x/y")}, ErrInvalidProfilePicture},
		{"too long", VerifyInput{WalletAddress: "0xaaa", Nonce: n, Username: "a", ProfilePictureURL: strptr("https://x/" + strings.Repeat("a", 2048))}, ErrInvalidProfilePicture},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := s.Verify(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}

	// None of the rejected attempts consumed the challenge.
	if _, _, err := s.Verify(ctx, VerifyInput{WalletAddress: "0xaaa", Nonce: n, Username: "alice"}); err != nil {
		t.Fatalf("verify after rejections: %v", err)
	}
}

func TestAuth_ParseToken_Rejects(t *testing.T) {
	s, clk := newAuth(t)
	good, err := s.sign(&domain.User{ID: 7, WalletAddress: "0xaaa"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := *s
	other.Secret = []byte("other-secret")
	forged, _ := other.sign(&domain.User{ID: 7, WalletAddress: "0xaaa"})

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{"empty": "", "garbage": "a.b.c", "forged": forged, "none alg": none} {
		if _, err := s.ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: want ErrInvalidToken, got %v", name, err)
		}
	}

	clk.t = clk.t.Add(2 * time.Hour)
	if _, err := s.ParseToken(good); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: want ErrInvalidToken, got %v", err)
	}
}

func TestDBChallengeStore_IssueReplaces(t *testing.T) {
	db := newTestDB(t)
	st := &DBChallengeStore{DB: db, TTL: time.Minute}
	ctx := context.Background()

	first, _ := st.Issue(ctx, "0xaaa")
	second, _ := st.Issue(ctx, "0xaaa")
	if first == second {
		t.Fatal("tokens must differ")
	}
	if ok, _ := st.Consume(ctx, "0xaaa", first); ok {
		t.Fatal("replaced token must not match")
	}
	if ok, err := st.Consume(ctx, "0xaaa", second); !ok || err != nil {
		t.Fatalf("consume: ok=%v err=%v", ok, err)
	}
}
