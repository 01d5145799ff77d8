package tribestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/slug"
	"github.com/dalemusser/stylehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PublicListLimit caps GET /api/tribes.
const PublicListLimit = 50

var (
	// ErrDuplicate is returned when the tribe name or slug is taken.
	ErrDuplicate = errors.New("tribe name already exists")
	// ErrNotFound is returned when no tribe matches.
	ErrNotFound = errors.New("tribe not found")
	// ErrEmptyName is returned when the name produces an empty slug.
	ErrEmptyName = errors.New("tribe name is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tribes")}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// GetByID loads one tribe.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tribe, error) {
	var t models.Tribe
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// GetBySlug loads one tribe by its slug.
func (s *Store) GetBySlug(ctx context.Context, sl string) (*models.Tribe, error) {
	var t models.Tribe
	if err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Tribe, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Tribe{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPublic returns public tribes by member count, largest first.
func (s *Store) ListPublic(ctx context.Context) ([]models.Tribe, error) {
	return s.find(ctx, bson.M{"is_public": true}, options.Find().
		SetSort(bson.D{{Key: "member_count", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(PublicListLimit))
}

// ListAll returns every tribe, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Tribe, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// ListOwnedBy returns tribes owned by uid, most recently updated first.
func (s *Store) ListOwnedBy(ctx context.Context, uid primitive.ObjectID) ([]models.Tribe, error) {
	return s.find(ctx, bson.M{"owner": uid}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
}

// Input carries the admin-editable tribe fields.
type Input struct {
	Name        string
	Description string
	CoverImage  string
	Tags        []string
}

// Create inserts a public tribe. The slug is derived from the name and the
// cover falls back to a generated placeholder.
func (s *Store) Create(ctx context.Context, in Input, owner *primitive.ObjectID) (models.Tribe, error) {
	name := strings.TrimSpace(in.Name)
	sl := slug.Make(name)
	if sl == "" {
		return models.Tribe{}, ErrEmptyName
	}
	cover := in.CoverImage
	if cover == "" {
		cover = slug.DefaultCover(name)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	t := models.Tribe{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Slug:        sl,
		Description: in.Description,
		CoverImage:  cover,
		Tags:        tags,
		Owner:       owner,
		Members:     []primitive.ObjectID{},
		Products:    []primitive.ObjectID{},
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Tribe{}, ErrDuplicate
		}
		return models.Tribe{}, err
	}
	return t, nil
}

// Update replaces the editable fields and re-derives the slug.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in Input) (*models.Tribe, error) {
	name := strings.TrimSpace(in.Name)
	sl := slug.Make(name)
	if sl == "" {
		return nil, ErrEmptyName
	}
	cover := in.CoverImage
	if cover == "" {
		cover = slug.DefaultCover(name)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	var t models.Tribe
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        name,
		"slug":        sl,
		"description": in.Description,
		"cover_image": cover,
		"tags":        tags,
		"updated_at":  time.Now().UTC(),
	}}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicate
		}
		return nil, notFound(err)
	}
	return &t, nil
}

// Delete removes a tribe.
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

// Join adds uid to the member set. The counter only moves when the id was
// not already present, in the same single-document update.
func (s *Store) Join(ctx context.Context, id, uid primitive.ObjectID) (*models.Tribe, error) {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "members": bson.M{"$ne": uid}},
		bson.M{
			"$addToSet": bson.M{"members": uid},
			"$inc":      bson.M{"member_count": 1},
			"$set":      bson.M{"updated_at": now},
		})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Leave removes uid from the member set; the counter only moves when the id
// was present.
func (s *Store) Leave(ctx context.Context, id, uid primitive.ObjectID) (*models.Tribe, error) {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "members": uid},
		bson.M{
			"$pull": bson.M{"members": uid},
			"$inc":  bson.M{"member_count": -1},
			"$set":  bson.M{"updated_at": now},
		})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AddProducts adds product ids to the tribe's product set.
func (s *Store) AddProducts(ctx context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.Tribe, error) {
	var t models.Tribe
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"products": bson.M{"$each": productIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// RemoveProduct pulls a product id from the tribe's product set.
func (s *Store) RemoveProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"products": productID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RecordAISync adds the recommended products and stamps the sync result.
func (s *Store) RecordAISync(ctx context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID, synced int) (*models.Tribe, error) {
	now := time.Now().UTC()
	var t models.Tribe
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"products": bson.M{"$each": productIDs}},
		"$set": bson.M{
			"ai_product_count": synced,
			"last_ai_sync":     now,
			"updated_at":       now,
		},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}
