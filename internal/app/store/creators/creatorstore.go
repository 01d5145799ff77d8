package creatorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/app/system/lockout"
	"github.com/dalemusser/stylehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for creator passwords.
const PasswordCost = 12

// FeaturedCount is how many creators GET /api/creators/featured returns.
const FeaturedCount = 2

var (
	ErrNotFound          = errors.New("creator not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("creators")}
}

// HashPassword returns the bcrypt hash for a creator password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// dupErr names which unique field collided. A failed lookup is returned
// as is rather than guessed.
func (s *Store) dupErr(ctx context.Context, username, email string, exclude primitive.ObjectID) error {
	filter := bson.M{"username_ci": text.Fold(username)}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return fmt.Errorf("classify duplicate creator: %w", err)
	}
	if n > 0 && username != "" {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

// Create inserts a creator. PasswordHash must already be set.
func (s *Store) Create(ctx context.Context, c models.Creator) (models.Creator, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Username = strings.TrimSpace(c.Username)
	c.UsernameCI = text.Fold(c.Username)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Status == "" {
		c.Status = models.CreatorActive
	}
	if c.CommissionRate == 0 {
		c.CommissionRate = models.DefaultCreatorCommission
	}
	c.LoginAttempts = 0
	c.LockedUntil = nil
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Creator{}, s.dupErr(ctx, c.Username, c.Email, c.ID)
		}
		return models.Creator{}, err
	}
	return c, nil
}

// GetByID loads one creator.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Creator, error) {
	var c models.Creator
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// GetByUsername loads a creator by case-insensitive username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.Creator, error) {
	var c models.Creator
	if err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) find(ctx context.Context, opts *options.FindOptions) ([]models.Creator, error) {
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Creator{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all creators, newest first.
func (s *Store) List(ctx context.Context) ([]models.Creator, error) {
	return s.find(ctx, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
}

// Featured returns the newest creators.
func (s *Store) Featured(ctx context.Context) ([]models.Creator, error) {
	return s.find(ctx, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(FeaturedCount))
}

// Update holds creator fields to change. Nil fields are left alone.
type Update struct {
	Name           *string
	Username       *string
	Email          *string
	Bio            *string
	ProfileImage   *string
	SocialLinks    *models.SocialLinks
	Status         *string
	Verified       *bool
	CommissionRate *float64
	Followers      *int
	Rating         *float64
}

// Apply writes upd and returns the updated creator.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Creator, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Username != nil {
		set["username"] = strings.TrimSpace(*upd.Username)
		set["username_ci"] = text.Fold(*upd.Username)
	}
	if upd.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.ProfileImage != nil {
		set["profile_image"] = *upd.ProfileImage
	}
	if upd.SocialLinks != nil {
		set["social_links"] = *upd.SocialLinks
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Verified != nil {
		set["verified"] = *upd.Verified
	}
	if upd.CommissionRate != nil {
		set["commission_rate"] = *upd.CommissionRate
	}
	if upd.Followers != nil {
		set["followers"] = *upd.Followers
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}

	var c models.Creator
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			username := ""
			if upd.Username != nil {
				username = *upd.Username
			}
			return nil, s.dupErr(ctx, username, "", id)
		}
		return nil, notFound(err)
	}
	return &c, nil
}

// Delete removes a creator.
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

// RecordFailedLogin applies the lockout policy for a failed password check
// against the state that was read.
func (s *Store) RecordFailedLogin(ctx context.Context, c models.Creator, now time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": c.ID}, lockout.FailureUpdate(lockout.FromCreator(c), now))
	return err
}

// RecordSuccessfulLogin clears the counter and lock.
func (s *Store) RecordSuccessfulLogin(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, lockout.SuccessUpdate(now))
	return err
}

// IncTotalDrops moves the creator's drop counter by delta.
func (s *Store) IncTotalDrops(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"total_drops": delta}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	return err
}
