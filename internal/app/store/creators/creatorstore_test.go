package creatorstore_test

import (
	"errors"
	"testing"
	"time"

	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
)

func TestStore_Create_Duplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := creatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	created, err := store.Create(ctx, models.Creator{Username: "meera", Name: "Meera", Email: "Meera@Example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Email != "meera@example.com" || created.Status != models.CreatorActive {
		t.Errorf("unexpected defaults: %+v", created)
	}

	_, err = store.Create(ctx, models.Creator{Username: "MEERA", Email: "x@example.com"})
	if !errors.Is(err, creatorstore.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
	_, err = store.Create(ctx, models.Creator{Username: "other", Email: "meera@example.com"})
	if !errors.Is(err, creatorstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_LoginLockout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := creatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, _ := store.Create(ctx, models.Creator{Username: "meera", Email: "m@example.com"})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < models.MaxCreatorLoginAttempts; i++ {
		cur, _ := store.GetByUsername(ctx, "meera")
		if err := store.RecordFailedLogin(ctx, *cur, now); err != nil {
			t.Fatalf("RecordFailedLogin failed: %v", err)
		}
	}

	got, _ := store.GetByID(ctx, c.ID)
	if got.LoginAttempts != 5 {
		t.Errorf("attempts: got %d, want 5", got.LoginAttempts)
	}
	if got.LockedUntil == nil || !got.LockedUntil.Equal(now.Add(2*time.Hour)) {
		t.Fatalf("expected lock until now+2h, got %v", got.LockedUntil)
	}
	if !got.IsLocked(now.Add(time.Hour)) {
		t.Error("expected account locked within the window")
	}

	if err := store.RecordSuccessfulLogin(ctx, c.ID, now.Add(3*time.Hour)); err != nil {
		t.Fatalf("RecordSuccessfulLogin failed: %v", err)
	}
	got, _ = store.GetByID(ctx, c.ID)
	if got.LoginAttempts != 0 || got.LockedUntil != nil || got.LastLogin == nil {
		t.Errorf("expected cleared state, got attempts=%d lock=%v last=%v", got.LoginAttempts, got.LockedUntil, got.LastLogin)
	}
}

func TestStore_Featured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := creatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Create(ctx, models.Creator{Username: "a", Email: "a@example.com"})
	store.Create(ctx, models.Creator{Username: "b", Email: "b@example.com"})
	newest, _ := store.Create(ctx, models.Creator{Username: "c", Email: "c@example.com"})

	got, err := store.Featured(ctx)
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != newest.ID {
		t.Fatalf("unexpected featured: %+v", got)
	}
}

func TestStore_Apply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := creatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, _ := store.Create(ctx, models.Creator{Username: "meera", Email: "m@example.com", Bio: "old"})
	bio := "new bio"
	got, err := store.Apply(ctx, c.ID, creatorstore.Update{Bio: &bio})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.Bio != bio || got.Username != "meera" {
		t.Errorf("unexpected creator: %+v", got)
	}
}
