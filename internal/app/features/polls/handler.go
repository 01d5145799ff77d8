// internal/app/features/polls/handler.go
package polls

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultPollName names polls created without one.
const DefaultPollName = "My Vote"

// AnonymousAdder is recorded as addedBy when no user is signed in.
const AnonymousAdder = "anon"

// Handler serves product polls. A poll is a collab session without chat
// or participants.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
