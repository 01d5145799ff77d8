package commentstore

import (
	"context"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tribe_comments")}
}

// Insert stores an active comment. Content must already be trimmed and
// length-checked.
func (s *Store) Insert(ctx context.Context, c models.TribeComment) (models.TribeComment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Likes = []primitive.ObjectID{}
	c.LikesCount = 0
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.TribeComment{}, err
	}
	return c, nil
}

func activeOn(postID primitive.ObjectID) bson.M {
	return bson.M{"post": postID, "is_active": true}
}

// List returns one page of a post's active comments, oldest first.
func (s *Store) List(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.TribeComment, error) {
	cur, err := s.c.Find(ctx, activeOn(postID), options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.TribeComment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count counts a post's active comments.
func (s *Store) Count(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, activeOn(postID))
}
