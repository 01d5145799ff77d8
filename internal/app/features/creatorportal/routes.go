// internal/app/features/creatorportal/routes.go
package creatorportal

import "github.com/go-chi/chi/v5"

// Routes serves /api/creator.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/auth/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Issuer.Require)
		pr.Get("/profile", h.ServeProfile)
		pr.Patch("/profile", h.HandleProfileUpdate)

		pr.Get("/drops", h.ServeDrops)
		pr.Post("/drops", h.HandleCreateDrop)
		pr.Get("/drops/{id}", h.ServeDrop)
		pr.Patch("/drops/{id}", h.HandleUpdateDrop)
		pr.Delete("/drops/{id}", h.HandleDeleteDrop)
	})
	return r
}
