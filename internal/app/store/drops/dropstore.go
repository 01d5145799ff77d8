package dropstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/dropcalc"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PublicListLimit bounds GET /api/drops.
const PublicListLimit = 50

// PublicStatuses are the statuses visible on the public drop list.
var PublicStatuses = []string{models.DropLive, models.DropUpcoming, models.DropScheduled}

var ErrNotFound = errors.New("drop not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("drops")}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// prepare assigns product ids and recomputes the derived fields.
func prepare(d *models.Drop, now time.Time) {
	for i := range d.Products {
		if d.Products[i].ID.IsZero() {
			d.Products[i].ID = primitive.NewObjectID()
		}
		if d.Products[i].OriginalPrice == 0 {
			d.Products[i].OriginalPrice = d.Products[i].Price
		}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	dropcalc.Recompute(d, now)
	d.UpdatedAt = now
}

// Create inserts a new drop after recomputing its aggregates.
func (s *Store) Create(ctx context.Context, d models.Drop) (models.Drop, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	if d.Status == "" {
		d.Status = models.DropDraft
	}
	if d.CommissionRate == 0 {
		d.CommissionRate = models.DefaultDropCommission
	}
	d.CreatedAt = now
	prepare(&d, now)

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Drop{}, err
	}
	return d, nil
}

// Save replaces the drop owned by d.CreatorID after recomputing it.
func (s *Store) Save(ctx context.Context, d *models.Drop) error {
	prepare(d, time.Now().UTC())
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": d.ID, "creator_id": d.CreatorID}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID loads one drop.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Drop, error) {
	var d models.Drop
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// View loads one drop and counts the view.
func (s *Store) View(ctx context.Context, id primitive.ObjectID) (*models.Drop, error) {
	var d models.Drop
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Drop, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Drop{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPublic returns live, upcoming and scheduled drops by launch time.
func (s *Store) ListPublic(ctx context.Context) ([]models.Drop, error) {
	return s.find(ctx,
		bson.M{"status": bson.M{"$in": PublicStatuses}},
		options.Find().
			SetSort(bson.D{{Key: "launch_datetime", Value: 1}, {Key: "_id", Value: 1}}).
			SetLimit(PublicListLimit))
}

// ListByCreator returns a creator's drops, newest first.
func (s *Store) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Drop, error) {
	return s.find(ctx,
		bson.M{"creator_id": creatorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
}

// Delete removes a drop owned by creatorID.
func (s *Store) Delete(ctx context.Context, id, creatorID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "creator_id": creatorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
