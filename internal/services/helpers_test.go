package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/sui"
	"github.com/tbourn/socifi-backend/internal/wallet"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection serializes writers; the shared-cache DB lives as long as it.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, wallet, username string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, wallet, username, username, nil)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func mustPost(t *testing.T, db *gorm.DB, userID uint) *domain.Post {
	t.Helper()
	p, err := repo.CreatePost(context.Background(), db, userID, "https://img.example/p.png", nil)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

func claimsFor(t *testing.T, db *gorm.DB, userID uint) []domain.RewardClaim {
	t.Helper()
	var out []domain.RewardClaim
	if err := db.Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		t.Fatalf("load claims: %v", err)
	}
	return out
}

// ----- Fake sender -----

type transferCall struct {
	To     string
	Amount uint64
}

type fakeSender struct {
	mu    sync.Mutex
	calls []transferCall
	err   error
	// gate, when set, blocks each transfer until it is closed.
	gate chan struct{}
}

func (f *fakeSender) Transfer(ctx context.Context, to string, amount uint64) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, transferCall{To: to, Amount: amount})
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("digest-%d", len(f.calls)), nil
}

func (f *fakeSender) Calls() []transferCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transferCall(nil), f.calls...)
}

var errBoom = errors.New("boom")

func testKeypair(t *testing.T) *sui.Keypair {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	kp, err := sui.KeypairFromSeed(seed)
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	return kp
}

// newLedger returns a ledger over db paying reward MIST through a fake sender.
func newLedger(t *testing.T, db *gorm.DB, reward uint64) (*RewardLedger, *fakeSender) {
	t.Helper()
	fs := &fakeSender{}
	h := wallet.NewWithSender(testKeypair(t), fs, reward)
	return NewRewardLedger(db, h), fs
}

// recordingRewarder captures RewardOnce calls without touching the store.
type recordingRewarder struct {
	mu    sync.Mutex
	calls []domain.ClaimKey
	err   error
}

func (r *recordingRewarder) RewardOnce(ctx context.Context, postID, userID uint, action domain.ActionType, amountOverride *uint64) (ClaimOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, domain.ClaimKey{PostID: postID, UserID: userID, Action: action})
	return ClaimOutcome{Claimed: r.err == nil}, r.err
}
