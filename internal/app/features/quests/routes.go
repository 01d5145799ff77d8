// internal/app/features/quests/routes.go
package quests

import (
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves /api/quests.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeQuest)
	r.Get("/{id}/submissions", h.ServeSubmissions)
	r.With(sm.RequireSignedIn).Post("/{id}/submit", h.HandleSubmit)
	return r
}

// SubmissionRoutes serves /api/submissions.
func SubmissionRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireSignedIn).Post("/{id}/vote", h.HandleVote)
	return r
}
