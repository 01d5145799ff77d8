// internal/app/features/questadmin/routes.go
package questadmin

import "github.com/go-chi/chi/v5"

// MountRoutes registers the quest admin endpoints on the /api/admin
// router. The caller applies the ADMIN role check.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/challenges", h.ServeList)
	r.Post("/challenges", h.HandleCreate)
	r.Put("/challenges/{id}", h.HandleUpdate)
	r.Delete("/challenges/{id}", h.HandleDelete)
	r.Post("/challenges/{id}/winner", h.HandleWinner)
	r.Get("/submissions/{challengeId}", h.ServeSubmissions)
}
