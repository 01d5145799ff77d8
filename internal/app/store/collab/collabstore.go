package collabstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// CodeLength is the number of characters in a session code.
	CodeLength = 6
	// MaxAttempts bounds code collisions on create and version conflicts
	// on Mutate.
	MaxAttempts = 5
)

var (
	ErrNotFound = errors.New("session not found")
	// ErrConflict is returned when Mutate keeps losing the version race.
	ErrConflict = errors.New("session was modified concurrently")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("collab_sessions")}
}

// NewCode returns a random upper-case session code.
func NewCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength])
}

// Create inserts s under a fresh code, retrying on collisions.
func (st *Store) Create(ctx context.Context, s models.CollabSession) (models.CollabSession, error) {
	now := time.Now().UTC()
	s.ID = primitive.NewObjectID()
	if s.Status == "" {
		s.Status = models.CollabActive
	}
	s.IsActive = true
	if s.Participants == nil {
		s.Participants = []models.Participant{}
	}
	if s.Items == nil {
		s.Items = []models.CollabItem{}
	}
	if s.Messages == nil {
		s.Messages = []models.ChatMessage{}
	}
	s.Version = 1
	s.LastActivity = now
	s.CreatedAt = now
	s.UpdatedAt = now

	for i := 0; i < MaxAttempts; i++ {
		s.Code = NewCode()
		_, err := st.c.InsertOne(ctx, s)
		if err == nil {
			return s, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.CollabSession{}, err
		}
	}
	return models.CollabSession{}, ErrConflict
}

// GetByCode loads a session by its code.
func (st *Store) GetByCode(ctx context.Context, code string) (*models.CollabSession, error) {
	var s models.CollabSession
	if err := st.c.FindOne(ctx, bson.M{"code": code}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Mutate loads the session, applies fn and writes it back conditioned on
// the version that was read. A lost race reloads and reapplies fn, so fn
// must only depend on the session it is given. An error from fn aborts
// without writing.
func (st *Store) Mutate(ctx context.Context, code string, fn func(s *models.CollabSession) error) (*models.CollabSession, error) {
	for i := 0; i < MaxAttempts; i++ {
		s, err := st.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := fn(s); err != nil {
			return nil, err
		}
		if len(s.Messages) > models.MaxCollabMessages {
			s.Messages = s.Messages[len(s.Messages)-models.MaxCollabMessages:]
		}

		read := s.Version
		s.Version = read + 1
		s.UpdatedAt = time.Now().UTC()

		res, err := st.c.ReplaceOne(ctx, bson.M{"_id": s.ID, "version": read}, s)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 1 {
			return s, nil
		}
	}
	return nil, ErrConflict
}

// EndIdle marks active sessions with no activity since before as ended.
func (st *Store) EndIdle(ctx context.Context, before time.Time) (int64, error) {
	now := time.Now().UTC()
	res, err := st.c.UpdateMany(ctx,
		bson.M{"is_active": true, "last_activity": bson.M{"$lt": before}},
		bson.M{
			"$set": bson.M{"is_active": false, "status": models.CollabEnded, "updated_at": now},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
