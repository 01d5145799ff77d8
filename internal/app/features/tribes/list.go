// internal/app/features/tribes/list.go
package tribes

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeList handles GET /api/tribes: public tribes, largest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := tribestore.New(h.DB).ListPublic(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribes", err)
		return
	}
	views, err := populate.Tribes(ctx, h.DB, list)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribes", err)
		return
	}
	apiresp.OK(w, views)
}

// ServeTribe handles GET /api/tribes/{slug}.
func (h *Handler) ServeTribe(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := tribestore.New(h.DB).GetBySlug(ctx, sl)
	if errors.Is(err, tribestore.ErrNotFound) {
		apiresp.NotFound(w, "Not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribe", err, zap.String("slug", sl))
		return
	}
	view, err := populate.Tribe(ctx, h.DB, *t)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribe", err, zap.String("slug", sl))
		return
	}

	isMember := false
	if u, ok := auth.CurrentUser(r); ok {
		isMember = t.HasMember(u.ObjectID())
	}
	apiresp.OK(w, struct {
		Tribe    models.TribeView `json:"tribe"`
		IsMember bool             `json:"isMember"`
	}{view, isMember})
}

// ServeMine handles GET /api/my-tribes: tribes the caller owns, most
// recently updated first. Anonymous callers get an empty list.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apiresp.OK(w, []models.TribeView{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := tribestore.New(h.DB).ListOwnedBy(ctx, u.ObjectID())
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribes", err)
		return
	}
	views, err := populate.Tribes(ctx, h.DB, list)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribes", err)
		return
	}
	apiresp.OK(w, views)
}
