package tribestore_test

import (
	"errors"
	"strings"
	"testing"

	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_SlugAndCover(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr, err := store.Create(ctx, tribestore.Input{Name: "Streetwear Fans"}, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tr.Slug != "streetwear-fans" {
		t.Errorf("slug: got %q, want streetwear-fans", tr.Slug)
	}
	if !strings.Contains(tr.CoverImage, "Streetwear%20Fans") {
		t.Errorf("unexpected default cover %q", tr.CoverImage)
	}
	if !tr.IsPublic || tr.MemberCount != 0 {
		t.Errorf("unexpected defaults: public=%v members=%d", tr.IsPublic, tr.MemberCount)
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	if _, err := store.Create(ctx, tribestore.Input{Name: "Streetwear Fans"}, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, tribestore.Input{Name: "streetwear  fans!"}, nil)
	if !errors.Is(err, tribestore.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_Create_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, tribestore.Input{Name: "!!!"}, nil); !errors.Is(err, tribestore.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestStore_JoinLeave_CounterNeverDrifts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr, _ := store.Create(ctx, tribestore.Input{Name: "Boho"}, nil)
	uid := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		got, err := store.Join(ctx, tr.ID, uid)
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if got.MemberCount != 1 || len(got.Members) != 1 {
			t.Fatalf("join #%d: count=%d members=%d", i+1, got.MemberCount, len(got.Members))
		}
	}

	for i := 0; i < 2; i++ {
		got, err := store.Leave(ctx, tr.ID, uid)
		if err != nil {
			t.Fatalf("Leave failed: %v", err)
		}
		if got.MemberCount != 0 || len(got.Members) != 0 {
			t.Fatalf("leave #%d: count=%d members=%d", i+1, got.MemberCount, len(got.Members))
		}
	}

	if _, err := store.Join(ctx, primitive.NewObjectID(), uid); !errors.Is(err, tribestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound joining unknown tribe, got %v", err)
	}
}

func TestStore_Update_Reslugs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr, _ := store.Create(ctx, tribestore.Input{Name: "Old Name"}, nil)
	got, err := store.Update(ctx, tr.ID, tribestore.Input{Name: "New Name", Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Slug != "new-name" {
		t.Errorf("slug: got %q", got.Slug)
	}
	if _, err := store.GetBySlug(ctx, "old-name"); !errors.Is(err, tribestore.ErrNotFound) {
		t.Errorf("old slug should be gone, got %v", err)
	}
}

func TestStore_ListPublic_ByMemberCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	small, _ := store.Create(ctx, tribestore.Input{Name: "Small"}, nil)
	big, _ := store.Create(ctx, tribestore.Input{Name: "Big"}, nil)
	store.Join(ctx, big.ID, primitive.NewObjectID())
	store.Join(ctx, big.ID, primitive.NewObjectID())
	store.Join(ctx, small.ID, primitive.NewObjectID())

	got, err := store.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != big.ID {
		t.Fatalf("expected Big first, got %+v", got)
	}
}

func TestStore_RecordAISync(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tribestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tr, _ := store.Create(ctx, tribestore.Input{Name: "Minimal"}, nil)
	p1, p2 := primitive.NewObjectID(), primitive.NewObjectID()
	store.AddProducts(ctx, tr.ID, []primitive.ObjectID{p1})

	got, err := store.RecordAISync(ctx, tr.ID, []primitive.ObjectID{p1, p2}, 2)
	if err != nil {
		t.Fatalf("RecordAISync failed: %v", err)
	}
	if len(got.Products) != 2 {
		t.Errorf("products: got %d, want 2", len(got.Products))
	}
	if got.AIProductCount != 2 || got.LastAISync == nil {
		t.Errorf("sync stamp missing: count=%d last=%v", got.AIProductCount, got.LastAISync)
	}
}
