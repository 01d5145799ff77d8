package poststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no active post matches.
var ErrNotFound = errors.New("post not found")

// toggleAttempts bounds the like/unlike race loop.
const toggleAttempts = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tribe_posts")}
}

// Create inserts an active, unfeatured post with empty like state.
func (s *Store) Create(ctx context.Context, p models.TribePost) (models.TribePost, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.PostType == "" {
		p.PostType = models.PostTypeText
	}
	if p.TaggedProducts == nil {
		p.TaggedProducts = []models.TaggedProduct{}
	}
	p.Likes = []primitive.ObjectID{}
	p.LikesCount = 0
	p.CommentsCount = 0
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.TribePost{}, err
	}
	return p, nil
}

// GetByID loads an active post.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TribePost, error) {
	var p models.TribePost
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func feedFilter(tribeID primitive.ObjectID) bson.M {
	return bson.M{"tribe": tribeID, "is_active": true}
}

// ListFeed returns one page of a tribe's active posts, featured first and
// then newest first.
func (s *Store) ListFeed(ctx context.Context, tribeID primitive.ObjectID, skip, limit int64) ([]models.TribePost, error) {
	cur, err := s.c.Find(ctx, feedFilter(tribeID), options.Find().
		SetSort(bson.D{{Key: "is_featured", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.TribePost{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountFeed counts a tribe's active posts.
func (s *Store) CountFeed(ctx context.Context, tribeID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, feedFilter(tribeID))
}

// ToggleLike flips uid's like on the post and returns the new state.
//
// Each direction is a single conditional update: the like only applies when
// uid is absent and the unlike only when uid is present, so likes and
// likes_count always move together.
func (s *Store) ToggleLike(ctx context.Context, postID, uid primitive.ObjectID) (liked bool, count int, err error) {
	after := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes_count": 1})

	for i := 0; i < toggleAttempts; i++ {
		now := time.Now().UTC()
		var p models.TribePost

		err = s.c.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, "is_active": true, "likes": bson.M{"$ne": uid}},
			bson.M{
				"$addToSet": bson.M{"likes": uid},
				"$inc":      bson.M{"likes_count": 1},
				"$set":      bson.M{"updated_at": now},
			}, after).Decode(&p)
		if err == nil {
			return true, p.LikesCount, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, err
		}

		err = s.c.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, "is_active": true, "likes": uid},
			bson.M{
				"$pull": bson.M{"likes": uid},
				"$inc":  bson.M{"likes_count": -1},
				"$set":  bson.M{"updated_at": now},
			}, after).Decode(&p)
		if err == nil {
			return false, p.LikesCount, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, err
		}

		// Neither predicate matched: the post is gone, or a concurrent
		// toggle flipped the state between the two attempts.
		if _, gerr := s.GetByID(ctx, postID); gerr != nil {
			return false, 0, gerr
		}
	}
	return false, 0, errors.New("like toggle contended; retry")
}

// IncComments bumps the post's comment counter.
func (s *Store) IncComments(ctx context.Context, postID primitive.ObjectID, delta int) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"comments_count": delta}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
