// internal/app/features/tribes/routes.go
package tribes

import (
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the tribe endpoints on r, which is the /api/tribes
// router shared with the feed endpoints.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/", h.ServeList)
	r.With(sm.RequireSignedIn).Post("/", h.HandleAction)
	r.Get("/{slug}", h.ServeTribe)
}

// MyRoutes is mounted at /api/my-tribes.
func MyRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeMine)
	return r
}
