// internal/app/features/aicuration/routes.go
package aicuration

import (
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountSyncRoutes registers POST /sync on the admin tribes router.
func MountSyncRoutes(r chi.Router, h *Handler) {
	r.Post("/sync", h.HandleSync)
}

// Routes serves /api/ai. Classification calls a paid model, so it is
// limited to admins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))
	r.Post("/classify-products", h.HandleClassify)
	return r
}
