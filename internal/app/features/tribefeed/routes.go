// internal/app/features/tribefeed/routes.go
package tribefeed

import (
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the feed endpoints on the /api/tribes router.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/{slug}/feed", h.ServeFeed)
	r.Get("/posts/{postId}", h.ServeComments)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/{slug}/feed", h.HandleCreatePost)
		r.Post("/posts/{postId}", h.HandleToggleLike)
		r.Post("/posts/{postId}/comments", h.HandleComment)
	})
}
