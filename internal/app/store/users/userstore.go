package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for shopper passwords.
const PasswordCost = 10

var (
	// ErrDuplicate is returned when the username or email is already taken.
	ErrDuplicate = errors.New("user exists")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// HashPassword returns the bcrypt hash for a shopper password.
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

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (s *Store) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"username_ci": text.Fold(username)},
		{"email_ci": text.Fold(email)},
	}}, options.Count().SetLimit(1))
	return n > 0, err
}

// Create inserts a new user. PasswordHash must already be set. Role
// defaults to USER and gender to OTHER; display name falls back to the
// name and then the username.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = strings.TrimSpace(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.EmailCI = text.Fold(u.Email)
	if u.DisplayName == "" {
		u.DisplayName = u.Name
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Gender == "" {
		u.Gender = models.GenderOther
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	DisplayName *string
	Name        *string
	Age         *int
	Gender      *string
	Phone       *string
	AvatarURL   *string
}

// UpdateProfile applies upd and returns the updated user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.DisplayName != nil {
		set["display_name"] = *upd.DisplayName
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Age != nil {
		set["age"] = *upd.Age
	}
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.AvatarURL != nil {
		set["avatar_url"] = *upd.AvatarURL
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// PromoteToAdmin sets role ADMIN on the user with the given email.
// It reports whether a user matched.
func (s *Store) PromoteToAdmin(ctx context.Context, email string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email_ci": text.Fold(email)},
		bson.M{"$set": bson.M{"role": models.RoleAdmin, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// AddBadge records a badge name on the user's profile (idempotent).
func (s *Store) AddBadge(ctx context.Context, id primitive.ObjectID, badge string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"badges": badge}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	return err
}

// Summaries loads the public projection of the given users keyed by id.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"username": 1, "display_name": 1, "avatar_url": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.UserSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}
