package badgestore

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

// ErrDuplicate is returned when the user already holds the quest's badge.
var ErrDuplicate = errors.New("badge already awarded")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_badges")}
}

// Award inserts a badge; one per (user, quest).
func (s *Store) Award(ctx context.Context, b models.UserBadge) (models.UserBadge, error) {
	b.ID = primitive.NewObjectID()
	if b.EarnedDate.IsZero() {
		b.EarnedDate = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.UserBadge{}, ErrDuplicate
		}
		return models.UserBadge{}, err
	}
	return b, nil
}

// ListByUser returns a user's badges, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserBadge, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "earned_date", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.UserBadge{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
