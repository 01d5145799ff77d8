// internal/app/features/creatorportal/handler.go
package creatorportal

import (
	"net/http"

	"github.com/dalemusser/stylehub/internal/app/system/auditlog"
	"github.com/dalemusser/stylehub/internal/app/system/creatorauth"
	"github.com/dalemusser/stylehub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the creator portal. Creators authenticate with a bearer
// token, never with the user session cookie.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Issuer   *creatorauth.Issuer
	Limiter  *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, issuer *creatorauth.Issuer, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Issuer:   issuer,
		Limiter:  limiter,
	}
}

// creatorID returns the id of the authenticated creator.
func creatorID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := creatorauth.FromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := claims.ObjectID()
	return id, err == nil
}
