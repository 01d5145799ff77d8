package votestore_test

import (
	"errors"
	"testing"

	votestore "github.com/dalemusser/stylehub/internal/app/store/votes"
	"github.com/dalemusser/stylehub/internal/app/system/indexes"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/stylehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Insert_OnePerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := votestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	v := models.Vote{UserID: primitive.NewObjectID(), SubmissionID: primitive.NewObjectID(), ChallengeID: primitive.NewObjectID()}
	if _, err := store.Insert(ctx, v); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, v); !errors.Is(err, votestore.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	v.UserID = primitive.NewObjectID()
	if _, err := store.Insert(ctx, v); err != nil {
		t.Fatalf("second voter failed: %v", err)
	}

	n, err := store.CountForSubmission(ctx, v.SubmissionID)
	if err != nil {
		t.Fatalf("CountForSubmission failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}
