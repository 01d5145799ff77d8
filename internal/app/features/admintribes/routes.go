// internal/app/features/admintribes/routes.go
package admintribes

import "github.com/go-chi/chi/v5"

// MountRoutes registers the admin tribe endpoints on the /api/admin/tribes
// router. The caller applies the ADMIN role check.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Put("/", h.HandleUpdate)
	r.Delete("/", h.HandleDelete)

	r.Route("/{tribeId}/products", func(r chi.Router) {
		r.Get("/", h.ServeCurated)
		r.Post("/", h.HandleCurate)
		r.Delete("/", h.HandleUncurate)
	})
}
