package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("submission not found")
	// ErrDuplicate is returned when the user already entered the quest.
	ErrDuplicate = errors.New("you have already submitted for this quest")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("submissions")}
}

// Create inserts a submission. The (user, quest) pair is unique.
func (s *Store) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	sub.VoteCount = 0
	if sub.MyntraProducts == nil {
		sub.MyntraProducts = []string{}
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Submission{}, ErrDuplicate
		}
		return models.Submission{}, err
	}
	return sub, nil
}

// GetByID loads one submission.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListByQuest returns a quest's submissions, most voted first.
func (s *Store) ListByQuest(ctx context.Context, questID primitive.ObjectID) ([]models.Submission, error) {
	cur, err := s.c.Find(ctx, bson.M{"challenge_id": questID},
		options.Find().SetSort(bson.D{
			{Key: "vote_count", Value: -1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IncVotes moves the vote counter by delta.
func (s *Store) IncVotes(ctx context.Context, id primitive.ObjectID, delta int) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"vote_count": delta}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByQuest removes every submission of a quest.
func (s *Store) DeleteByQuest(ctx context.Context, questID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"challenge_id": questID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
