// internal/app/features/drops/routes.go
package drops

import "github.com/go-chi/chi/v5"

// Routes serves /api/drops.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDrop)
	return r
}

// CreatorRoutes serves /api/creators.
func CreatorRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/featured", h.ServeFeaturedCreators)
	return r
}
