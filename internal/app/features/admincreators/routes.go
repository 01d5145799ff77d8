// internal/app/features/admincreators/routes.go
package admincreators

import "github.com/go-chi/chi/v5"

// MountRoutes registers the creator management endpoints on the
// /api/admin/creators router. The caller applies the ADMIN role check.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeCreator)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}
