// internal/app/features/tribefeed/handler.go
package tribefeed

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Default page sizes.
const (
	FeedPageSize    = 10
	CommentPageSize = 20
)

// Handler serves a tribe's post feed, likes and comments.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
