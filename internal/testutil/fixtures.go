package testutil

import (
	"context"
	"testing"
	"time"

	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	queststore "github.com/dalemusser/stylehub/internal/app/store/quests"
	submissionstore "github.com/dalemusser/stylehub/internal/app/store/submissions"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultPassword is the plaintext password given to fixture users and
// creators.
const DefaultPassword = "password123"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a shopper with DefaultPassword.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, username, email, models.RoleUser)
}

// CreateAdmin creates a user with the ADMIN role.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, username, email, models.RoleAdmin)
}

func (f *Fixtures) createUser(ctx context.Context, username, email, role string) models.User {
	f.t.Helper()

	hash, err := userstore.HashPassword(DefaultPassword)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	u, err := userstore.New(f.db).Create(ctx, models.User{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProduct creates a catalog product.
func (f *Fixtures) CreateProduct(ctx context.Context, title, brand string, price float64) models.Product {
	f.t.Helper()

	p, err := productstore.New(f.db).Create(ctx, models.Product{
		Title:    title,
		Brand:    brand,
		Price:    price,
		Category: "Topwear",
		Gender:   models.AudienceUnisex,
		Images:   []string{"https://img.example.com/" + primitive.NewObjectID().Hex() + ".jpg"},
		InStock:  true,
		Tags:     []string{"casual"},
	})
	if err != nil {
		f.t.Fatalf("failed to create test product: %v", err)
	}
	return p
}

// CreateTribe creates a public tribe with no owner.
func (f *Fixtures) CreateTribe(ctx context.Context, name string) models.Tribe {
	f.t.Helper()

	tr, err := tribestore.New(f.db).Create(ctx, tribestore.Input{
		Name:        name,
		Description: name + " community",
		Tags:        []string{"street", "urban"},
	}, nil)
	if err != nil {
		f.t.Fatalf("failed to create test tribe: %v", err)
	}
	return tr
}

// JoinTribe adds uid to the tribe's member set.
func (f *Fixtures) JoinTribe(ctx context.Context, tribeID, uid primitive.ObjectID) {
	f.t.Helper()

	if _, err := tribestore.New(f.db).Join(ctx, tribeID, uid); err != nil {
		f.t.Fatalf("failed to join test tribe: %v", err)
	}
}

// CreateQuest creates a quest whose dates are offsets from now. An active
// quest is start=-1h, end=+1h, votingEnd=+2h.
func (f *Fixtures) CreateQuest(ctx context.Context, title string, start, end, votingEnd time.Duration) models.Quest {
	f.t.Helper()

	now := time.Now().UTC()
	q, err := queststore.New(f.db).Create(ctx, models.Quest{
		Title:                   title,
		Description:             title + " description",
		SubmissionStartDate:     now.Add(start),
		SubmissionEndDate:       now.Add(end),
		VotingEndDate:           now.Add(votingEnd),
		PrizeDiscountPercentage: 20,
		PrizeBadgeName:          title + " Winner",
		PrizeBadgeImageURL:      "https://img.example.com/badge.png",
	})
	if err != nil {
		f.t.Fatalf("failed to create test quest: %v", err)
	}
	return q
}

// CreateActiveQuest creates a quest currently accepting submissions.
func (f *Fixtures) CreateActiveQuest(ctx context.Context, title string) models.Quest {
	f.t.Helper()
	return f.CreateQuest(ctx, title, -time.Hour, time.Hour, 2*time.Hour)
}

// CreateSubmission creates a submission by uid for questID.
func (f *Fixtures) CreateSubmission(ctx context.Context, questID, uid primitive.ObjectID, title string) models.Submission {
	f.t.Helper()

	sub, err := submissionstore.New(f.db).Create(ctx, models.Submission{
		UserID:      uid,
		ChallengeID: questID,
		ImageURL:    "https://img.example.com/look.jpg",
		Title:       title,
		Description: title + " look",
	})
	if err != nil {
		f.t.Fatalf("failed to create test submission: %v", err)
	}
	return sub
}

// CreateCreator creates an active creator with DefaultPassword.
func (f *Fixtures) CreateCreator(ctx context.Context, username, email string) models.Creator {
	f.t.Helper()

	hash, err := creatorstore.HashPassword(DefaultPassword)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	c, err := creatorstore.New(f.db).Create(ctx, models.Creator{
		Username:     username,
		Name:         username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		f.t.Fatalf("failed to create test creator: %v", err)
	}
	return c
}
