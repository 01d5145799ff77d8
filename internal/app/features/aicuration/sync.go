// internal/app/features/aicuration/sync.go
package aicuration

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/curation"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type syncInput struct {
	TribeID          string   `json:"tribeId"`
	TribeName        string   `json:"tribeName"`
	TribeDescription string   `json:"tribeDescription"`
	TribeTags        []string `json:"tribeTags"`
}

type syncResponse struct {
	Message        string           `json:"message"`
	TotalProcessed int              `json:"totalProcessed"`
	TotalSynced    int              `json:"totalSynced"`
	NewProducts    int              `json:"newProducts"`
	FailedBatches  int              `json:"failedBatches"`
	Products       []models.Product `json:"products"`
	Tribe          *models.Tribe    `json:"tribe"`
}

// HandleSync handles POST /api/admin/tribes/sync. It walks the catalog in
// batches, adds every product scoring at or above the configured minimum
// to the tribe, and records the sync count and time. Existing products are
// never removed.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var in syncInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if in.TribeID == "" || in.TribeName == "" {
		apiresp.BadRequest(w, "Missing required fields")
		return
	}
	tid, err := primitive.ObjectIDFromHex(in.TribeID)
	if err != nil {
		apiresp.BadRequest(w, "Invalid tribe id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "tribe ai sync")
	defer cancel()

	tribes := tribestore.New(h.DB)
	tribe, err := tribes.GetByID(ctx, tid)
	if errors.Is(err, tribestore.ErrNotFound) {
		apiresp.NotFound(w, "Tribe not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to sync products", err)
		return
	}
	if !h.Classifier.Configured() {
		h.writeAIError(w, "Failed to sync products", curation.ErrNotConfigured)
		return
	}

	products := productstore.New(h.DB)
	res, err := h.Classifier.Sync(ctx, products, curation.TribeBrief{
		Name:        in.TribeName,
		Description: in.TribeDescription,
		Tags:        in.TribeTags,
	}, h.Sync)
	if err != nil {
		h.writeAIError(w, "Failed to sync products", err, zap.String("tribe_id", in.TribeID))
		return
	}

	existing := make(map[primitive.ObjectID]bool, len(tribe.Products))
	for _, id := range tribe.Products {
		existing[id] = true
	}
	added := 0
	for _, id := range res.ProductIDs {
		if !existing[id] {
			added++
		}
	}

	updated, err := tribes.RecordAISync(ctx, tid, res.ProductIDs, len(res.ProductIDs))
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to sync products", err, zap.String("tribe_id", in.TribeID))
		return
	}
	list, err := products.GetByIDs(ctx, updated.Products)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to sync products", err, zap.String("tribe_id", in.TribeID))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, u.ObjectID(), audit.EventTribeAISynced, audit.TargetTribe, tid, map[string]string{
			"synced":  strconv.Itoa(len(res.ProductIDs)),
			"added":   strconv.Itoa(added),
			"batches": strconv.Itoa(res.Batches),
		})
	}
	h.Log.Info("tribe ai sync complete",
		zap.String("tribe_id", in.TribeID),
		zap.Int("processed", res.Processed),
		zap.Int("synced", len(res.ProductIDs)),
		zap.Int("failed_batches", res.FailedBatches))

	apiresp.OK(w, syncResponse{
		Message:        "Products synced successfully",
		TotalProcessed: res.Processed,
		TotalSynced:    len(res.ProductIDs),
		NewProducts:    added,
		FailedBatches:  res.FailedBatches,
		Products:       list,
		Tribe:          updated,
	})
}
