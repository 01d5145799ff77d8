// internal/app/features/profile/badges.go
package profile

import (
	"context"
	"net/http"

	badgestore "github.com/dalemusser/stylehub/internal/app/store/badges"
	queststore "github.com/dalemusser/stylehub/internal/app/store/quests"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeBadges handles GET /api/users/{id}/badges: the user's badges, newest
// first, each with the quest it was won in.
func (h *Handler) ServeBadges(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadRequest(w, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	badges, err := badgestore.New(h.DB).ListByUser(ctx, uid)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch badges", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ChallengeID)
	}
	quests, err := queststore.New(h.DB).Titles(ctx, ids)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch badges", err)
		return
	}

	out := make([]models.BadgeView, 0, len(badges))
	for _, b := range badges {
		v := models.BadgeView{UserBadge: b}
		if q, ok := quests[b.ChallengeID]; ok {
			v.Challenge = &q
		}
		out = append(out, v)
	}
	apiresp.OK(w, out)
}
