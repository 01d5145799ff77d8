package productstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps the catalog list endpoint.
const ListLimit = 100

// ErrNotFound is returned when no product matches.
var ErrNotFound = errors.New("product not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// Filter narrows a catalog listing. Empty fields are ignored.
type Filter struct {
	Gender   string
	Category string
	Query    string // free text, matched by the products text index
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.Gender != "" {
		q["gender"] = strings.ToUpper(f.Gender)
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Query != "" {
		q["$text"] = bson.M{"$search": f.Query}
	}
	return q
}

// List returns products matching f, newest first, at most ListLimit.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Product, error) {
	cur, err := s.c.Find(ctx, f.bson(), options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(ListLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a product. Gender is upper-cased and defaults to UNISEX.
func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = primitive.NewObjectID()
	p.Gender = strings.ToUpper(p.Gender)
	if p.Gender == "" {
		p.Gender = models.AudienceUnisex
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// GetByID loads one product.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDs loads the given products in no particular order.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	out := []models.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Window returns products in _id order for AI classification, skipping
// offset rows. It also returns the total catalog size.
func (s *Store) Window(ctx context.Context, offset, limit int64) ([]models.Product, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Count returns the catalog size.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
