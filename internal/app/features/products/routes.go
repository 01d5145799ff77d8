// internal/app/features/products/routes.go
package products

import (
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/products. Listing and lookup are public;
// creating a product needs the ADMIN role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeProduct)
	r.With(sm.RequireRole(models.RoleAdmin)).Post("/", h.HandleCreate)
	return r
}
