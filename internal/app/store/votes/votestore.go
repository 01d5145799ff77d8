package votestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicate is returned when the user already voted for the submission.
var ErrDuplicate = errors.New("you have already voted for this submission")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("votes")}
}

// Insert records a vote. The (user, submission) pair is unique, so the
// row itself is the source of truth for "has voted".
func (s *Store) Insert(ctx context.Context, v models.Vote) (models.Vote, error) {
	v.ID = primitive.NewObjectID()
	v.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Vote{}, ErrDuplicate
		}
		return models.Vote{}, err
	}
	return v, nil
}

// CountForSubmission counts the vote rows of a submission.
func (s *Store) CountForSubmission(ctx context.Context, submissionID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"submission_id": submissionID})
}

// DeleteByQuest removes every vote cast in a quest.
func (s *Store) DeleteByQuest(ctx context.Context, questID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"challenge_id": questID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
