package curatedstore

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

// DefaultReason is stored when the admin gives none.
const DefaultReason = "Admin curated"

// ErrAlreadyCurated is returned when the product is already active in the tribe.
var ErrAlreadyCurated = errors.New("product already curated for this tribe")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tribe_curated_products")}
}

// ListActive returns active rows for a tribe ordered by order asc, then
// newest first.
func (s *Store) ListActive(ctx context.Context, tribeID primitive.ObjectID) ([]models.TribeCuratedProduct, error) {
	cur, err := s.c.Find(ctx, bson.M{"tribe": tribeID, "is_active": true}, options.Find().
		SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.TribeCuratedProduct{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Curate activates (tribe, product). A previously deactivated row is
// reactivated in place since the pair is unique.
func (s *Store) Curate(ctx context.Context, row models.TribeCuratedProduct) (models.TribeCuratedProduct, error) {
	if row.Reason == "" {
		row.Reason = DefaultReason
	}
	now := time.Now().UTC()
	row.ID = primitive.NewObjectID()
	row.IsActive = true
	row.CreatedAt = now
	row.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, row)
	if err == nil {
		return row, nil
	}
	if !wafflemongo.IsDup(err) {
		return models.TribeCuratedProduct{}, err
	}

	var existing models.TribeCuratedProduct
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"tribe": row.Tribe, "product": row.Product, "is_active": false},
		bson.M{"$set": bson.M{
			"is_active":  true,
			"reason":     row.Reason,
			"order":      row.Order,
			"curated_by": row.CuratedBy,
			"updated_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TribeCuratedProduct{}, ErrAlreadyCurated
		}
		return models.TribeCuratedProduct{}, err
	}
	return existing, nil
}

// Deactivate marks (tribe, product) inactive. Missing rows are not an error.
func (s *Store) Deactivate(ctx context.Context, tribeID, productID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"tribe": tribeID, "product": productID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}})
	return err
}
