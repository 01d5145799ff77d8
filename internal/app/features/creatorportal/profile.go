// internal/app/features/creatorportal/profile.go
package creatorportal

import (
	"context"
	"errors"
	"net/http"

	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.uber.org/zap"
)

// profileInput lists the fields a creator may change on their own
// profile. Everything else is admin-managed.
type profileInput struct {
	Name         *string             `json:"name" validate:"omitempty,max=100" label:"Name"`
	Bio          *string             `json:"bio" validate:"omitempty,max=500" label:"Bio"`
	ProfileImage *string             `json:"profile_image" validate:"omitempty,httpurl" label:"Profile image"`
	SocialLinks  *models.SocialLinks `json:"social_links"`
}

// ServeProfile handles GET /api/creator/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := creatorID(r)
	if !ok {
		apiresp.Unauthorized(w, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := creatorstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, creatorstore.ErrNotFound) {
		apiresp.NotFound(w, "Creator not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch profile", err, zap.String("creator_id", id.Hex()))
		return
	}
	apiresp.OK(w, c)
}

// HandleProfileUpdate handles PATCH /api/creator/profile.
func (h *Handler) HandleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := creatorID(r)
	if !ok {
		apiresp.Unauthorized(w, "Unauthorized")
		return
	}
	var in profileInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if in.Name != nil {
		v := htmlsanitize.PlainText(*in.Name)
		in.Name = &v
	}
	if in.Bio != nil {
		v := htmlsanitize.PlainText(*in.Bio)
		in.Bio = &v
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := creatorstore.New(h.DB).Apply(ctx, id, creatorstore.Update{
		Name:         in.Name,
		Bio:          in.Bio,
		ProfileImage: in.ProfileImage,
		SocialLinks:  in.SocialLinks,
	})
	if errors.Is(err, creatorstore.ErrNotFound) {
		apiresp.NotFound(w, "Creator not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to update profile", err, zap.String("creator_id", id.Hex()))
		return
	}
	apiresp.OK(w, c)
}
