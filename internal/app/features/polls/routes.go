// internal/app/features/polls/routes.go
package polls

import "github.com/go-chi/chi/v5"

// Routes returns the /api/polls router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePoll)
	r.Post("/", h.HandleAction)
	return r
}
