// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// updateInput holds the editable profile fields. A nil field is left as is.
type updateInput struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=60" label:"Display name"`
	Name        *string `json:"name" validate:"omitempty,max=100" label:"Name"`
	Age         *int    `json:"age" validate:"omitempty,gte=1,lte=120" label:"Age"`
	Gender      *string `json:"gender" validate:"omitempty,usergender" label:"Gender"`
	Phone       *string `json:"phone" validate:"omitempty,max=20" label:"Phone"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,httpurl" label:"Avatar URL"`
}

// ServeProfile handles GET /api/user.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, su.ObjectID())
	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.NotFound(w, "User not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load profile", err, zap.String("user_id", su.ID))
		return
	}
	apiresp.OK(w, map[string]any{"user": u})
}

// HandleUpdate handles POST /api/user.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var in updateInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if in.DisplayName != nil {
		v := htmlsanitize.PlainText(*in.DisplayName)
		in.DisplayName = &v
	}
	if in.Name != nil {
		v := htmlsanitize.PlainText(*in.Name)
		in.Name = &v
	}
	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		in.Phone = &v
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).UpdateProfile(ctx, su.ObjectID(), userstore.ProfileUpdate{
		DisplayName: in.DisplayName,
		Name:        in.Name,
		Age:         in.Age,
		Gender:      in.Gender,
		Phone:       in.Phone,
		AvatarURL:   in.AvatarURL,
	})
	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.NotFound(w, "User not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to update profile", err, zap.String("user_id", su.ID))
		return
	}
	apiresp.OK(w, map[string]any{"ok": true, "user": u})
}
