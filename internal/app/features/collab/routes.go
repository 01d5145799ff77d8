// internal/app/features/collab/routes.go
package collab

import "github.com/go-chi/chi/v5"

// Routes returns the /api/collab router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSession)
	r.Post("/", h.HandleAction)
	return r
}
