// internal/app/features/adminaudit/routes.go
package adminaudit

import "github.com/go-chi/chi/v5"

// MountRoutes registers the audit endpoints on the /api/admin/audit
// router. The caller applies the ADMIN role check.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.ServeEvents)
	r.Get("/failed-logins", h.ServeFailedLogins)
}
