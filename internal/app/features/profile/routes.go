// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/user. Both methods need a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Post("/", h.HandleUpdate)
	return r
}

// BadgeRoutes is mounted at /api/users. Badges are public.
func BadgeRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}/badges", h.ServeBadges)
	return r
}
