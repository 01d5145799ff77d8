// internal/app/features/drops/drops.go
package drops

import (
	"context"
	"errors"
	"net/http"
	"time"

	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	dropstore "github.com/dalemusser/stylehub/internal/app/store/drops"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/dropcalc"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /api/drops: live, upcoming and scheduled drops in
// launch order.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := dropstore.New(h.DB).ListPublic(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch drops", err)
		return
	}
	apiresp.OK(w, dropcalc.Views(list, time.Now().UTC()))
}

// ServeDrop handles GET /api/drops/{id}. Each call counts as a view.
func (h *Handler) ServeDrop(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadRequest(w, "Invalid drop id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := dropstore.New(h.DB).View(ctx, id)
	if errors.Is(err, dropstore.ErrNotFound) {
		apiresp.NotFound(w, "Drop not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch drop", err, zap.String("drop_id", id.Hex()))
		return
	}
	apiresp.OK(w, dropcalc.View(*d, time.Now().UTC()))
}

// ServeFeaturedCreators handles GET /api/creators/featured.
func (h *Handler) ServeFeaturedCreators(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := creatorstore.New(h.DB).Featured(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch creators", err)
		return
	}
	apiresp.OK(w, list)
}
