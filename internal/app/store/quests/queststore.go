package queststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/questphase"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("quest not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("quests")}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// Create inserts a quest with its status derived from now.
func (s *Store) Create(ctx context.Context, q models.Quest) (models.Quest, error) {
	now := time.Now().UTC()
	q.ID = primitive.NewObjectID()
	q.Status = questphase.Of(q, now)
	q.CreatedAt = now
	q.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, q); err != nil {
		return models.Quest{}, err
	}
	return q, nil
}

// Save replaces a quest, re-deriving its status.
func (s *Store) Save(ctx context.Context, q *models.Quest) error {
	now := time.Now().UTC()
	q.Status = questphase.Of(*q, now)
	q.UpdatedAt = now
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": q.ID}, q)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID loads one quest.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quest, error) {
	var q models.Quest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// List returns every quest, newest first.
func (s *Store) List(ctx context.Context) ([]models.Quest, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Quest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshStatuses brings every stored status in line with now and returns
// the number of quests each pass modified.
func (s *Store) RefreshStatuses(ctx context.Context, now time.Time) (map[string]int64, error) {
	out := make(map[string]int64, 4)
	for _, p := range questphase.Passes(now) {
		res, err := s.c.UpdateMany(ctx, p.Filter, bson.M{"$set": bson.M{"status": p.Status}})
		if err != nil {
			return out, err
		}
		out[p.Status] = res.ModifiedCount
	}
	return out, nil
}

// SetWinner records the winning user.
func (s *Store) SetWinner(ctx context.Context, id, winner primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"winner_id": winner, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Titles maps quest ids to their titles.
func (s *Store) Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.QuestRef, error) {
	out := make(map[primitive.ObjectID]models.QuestRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.QuestRef
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

// Delete removes a quest.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
