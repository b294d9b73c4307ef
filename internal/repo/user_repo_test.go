package repo

import (
	"context"
	"errors"
	"testing"
)

func TestCreateUser_SuccessAndDuplicates(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()

	pic := "https://cdn.example/a.png"
	u, err := CreateUser(ctx, db, "0xa", "alice", "Alice", &pic)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 || u.WalletAddress != "0xa" || u.ProfilePictureURL == nil || *u.ProfilePictureURL != pic {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := CreateUser(ctx, db, "0xa", "other", "O", nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate wallet: expected ErrDuplicate, got %v", err)
	}
	if _, err := CreateUser(ctx, db, "0xb", "alice", "A2", nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: expected ErrDuplicate, got %v", err)
	}
}

func TestGetUser_AndByWallet(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	seeded := mustUser(t, db, "0xa", "alice")

	u, err := GetUser(ctx, db, seeded.ID)
	if err != nil || u.Username != "alice" {
		t.Fatalf("GetUser: u=%+v err=%v", u, err)
	}
	if _, err := GetUser(ctx, db, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUser missing: expected ErrNotFound, got %v", err)
	}

	u, err = GetUserByWallet(ctx, db, "0xa")
	if err != nil || u.ID != seeded.ID {
		t.Fatalf("GetUserByWallet: u=%+v err=%v", u, err)
	}
	if _, err := GetUserByWallet(ctx, db, "0xnope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByWallet missing: expected ErrNotFound, got %v", err)
	}
}

func TestUsernameTaken(t *testing.T) {
	db := newSchemaDB(t)
	mustUser(t, db, "0xa", "alice")

	if taken, err := UsernameTaken(context.Background(), db, "alice"); err != nil || !taken {
		t.Fatalf("expected alice taken, got taken=%v err=%v", taken, err)
	}
	if taken, err := UsernameTaken(context.Background(), db, "bob"); err != nil || taken {
		t.Fatalf("expected bob free, got taken=%v err=%v", taken, err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	db := newSchemaDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "0xa", "alice")

	// nil picture keeps the stored value
	got, err := UpdateUserProfile(ctx, db, u.ID, "Alice A.", nil)
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if got.DisplayName != "Alice A." || got.ProfilePictureURL != nil {
		t.Fatalf("unexpected after first update: %+v", got)
	}

	pic := "https://cdn.example/new.png"
	got, err = UpdateUserProfile(ctx, db, u.ID, "Alice A.", &pic)
	if err != nil {
		t.Fatalf("UpdateUserProfile with picture: %v", err)
	}
	if got.ProfilePictureURL == nil || *got.ProfilePictureURL != pic {
		t.Fatalf("picture not updated: %+v", got)
	}

	if _, err := UpdateUserProfile(ctx, db, 12345, "x", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}
}
