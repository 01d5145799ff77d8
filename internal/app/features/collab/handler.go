// internal/app/features/collab/handler.go
package collab

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Display names used for system-authored entries and defaults.
const (
	DefaultSessionName = "Shared Cart"
	DefaultHostName    = "Host"
	SystemUserName     = "System"
)

// Handler serves collaborative shopping sessions. Participants are
// identified only by the display name they send with each action.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
