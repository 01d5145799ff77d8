// internal/app/features/aicuration/handler.go
package aicuration

import (
	"errors"
	"net/http"

	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auditlog"
	"github.com/dalemusser/stylehub/internal/app/system/curation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves AI product classification and the tribe sync built on it.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	AuditLog   *auditlog.Logger
	Classifier *curation.Classifier
	Sync       curation.SyncConfig
}

func NewHandler(db *mongo.Database, classifier *curation.Classifier, sync curation.SyncConfig, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		AuditLog:   audit,
		Classifier: classifier,
		Sync:       sync,
	}
}

// writeAIError maps classifier failures onto 503, 502 and 500.
func (h *Handler) writeAIError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, curation.ErrNotConfigured):
		apiresp.Error(w, http.StatusServiceUnavailable, curation.ErrNotConfigured.Error())
	case errors.Is(err, curation.ErrUnparseableReply):
		h.Log.Warn(msg, append(fields, zap.Error(err))...)
		apiresp.Error(w, http.StatusBadGateway, curation.ErrUnparseableReply.Error())
	default:
		apiresp.ServerError(w, h.Log, msg, err, fields...)
	}
}
