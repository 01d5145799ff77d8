package commentstore_test

import (
	"testing"

	commentstore "github.com/dalemusser/stylehub/internal/app/store/tribecomments"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndList_OldestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	postID := primitive.NewObjectID()
	first, err := store.Insert(ctx, models.TribeComment{Post: postID, User: primitive.NewObjectID(), Content: "first"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	store.Insert(ctx, models.TribeComment{Post: postID, User: primitive.NewObjectID(), Content: "second"})
	store.Insert(ctx, models.TribeComment{Post: primitive.NewObjectID(), Content: "elsewhere"})

	list, err := store.List(ctx, postID, 0, 20)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
	if !list[0].IsActive {
		t.Error("expected comment to be active")
	}

	n, _ := store.Count(ctx, postID)
	if n != 2 {
		t.Errorf("Count: got %d, want 2", n)
	}
}
