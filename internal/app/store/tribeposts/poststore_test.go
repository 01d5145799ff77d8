package poststore_test

import (
	"errors"
	"sync"
	"testing"

	poststore "github.com/dalemusser/stylehub/internal/app/store/tribeposts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPost(t *testing.T, store *poststore.Store, tribeID primitive.ObjectID, content string) models.TribePost {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p, err := store.Create(ctx, models.TribePost{User: primitive.NewObjectID(), Tribe: tribeID, Content: content})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return p
}

func TestStore_ToggleLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := newPost(t, store, primitive.NewObjectID(), "hello")
	uid := primitive.NewObjectID()

	liked, count, err := store.ToggleLike(ctx, p.ID, uid)
	if err != nil || !liked || count != 1 {
		t.Fatalf("like: liked=%v count=%d err=%v", liked, count, err)
	}
	liked, count, err = store.ToggleLike(ctx, p.ID, uid)
	if err != nil || liked || count != 0 {
		t.Fatalf("unlike: liked=%v count=%d err=%v", liked, count, err)
	}

	if _, _, err := store.ToggleLike(ctx, primitive.NewObjectID(), uid); !errors.Is(err, poststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ToggleLike_ConcurrentUsersKeepCountInSync(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := newPost(t, store, primitive.NewObjectID(), "popular")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.ToggleLike(ctx, p.ID, primitive.NewObjectID())
		}()
	}
	wg.Wait()

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LikesCount != len(got.Likes) || got.LikesCount != 10 {
		t.Errorf("likes_count=%d len(likes)=%d, want 10", got.LikesCount, len(got.Likes))
	}
}

func TestStore_ListFeed_FeaturedFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tribeID := primitive.NewObjectID()
	featured, _ := store.Create(ctx, models.TribePost{Tribe: tribeID, Content: "pinned", IsFeatured: true})
	newPost(t, store, tribeID, "a")
	latest := newPost(t, store, tribeID, "b")
	newPost(t, store, primitive.NewObjectID(), "other tribe")

	posts, err := store.ListFeed(ctx, tribeID, 0, 10)
	if err != nil {
		t.Fatalf("ListFeed failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].ID != featured.ID || posts[1].ID != latest.ID {
		t.Errorf("unexpected order: %s, %s", posts[0].Content, posts[1].Content)
	}

	total, _ := store.CountFeed(ctx, tribeID)
	if total != 3 {
		t.Errorf("CountFeed: got %d, want 3", total)
	}

	page2, _ := store.ListFeed(ctx, tribeID, 2, 2)
	if len(page2) != 1 {
		t.Errorf("page 2: got %d rows, want 1", len(page2))
	}
}
