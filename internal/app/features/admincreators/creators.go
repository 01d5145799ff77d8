// internal/app/features/admincreators/creators.go
package admincreators

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/creatorauth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createInput struct {
	Name           string             `json:"name" validate:"required,max=100" label:"Name"`
	Email          string             `json:"email" validate:"required,email" label:"Email"`
	Username       string             `json:"username" validate:"required,min=3,max=40" label:"Username"`
	Password       string             `json:"password" validate:"omitempty,min=8,max=128" label:"Password"`
	Bio            string             `json:"bio" validate:"max=500" label:"Bio"`
	ProfileImage   string             `json:"profile_image" validate:"omitempty,httpurl" label:"Profile image"`
	SocialLinks    models.SocialLinks `json:"social_links"`
	CommissionRate float64            `json:"commission_rate" validate:"gte=0,lte=100" label:"Commission rate"`
}

// createResponse carries a generated password exactly once; it is never
// stored in plain text.
type createResponse struct {
	models.Creator
	GeneratedPassword string `json:"generated_password,omitempty"`
}

type updateInput struct {
	Name           *string             `json:"name" validate:"omitempty,min=1,max=100" label:"Name"`
	Username       *string             `json:"username" validate:"omitempty,min=3,max=40" label:"Username"`
	Email          *string             `json:"email" validate:"omitempty,email" label:"Email"`
	Bio            *string             `json:"bio" validate:"omitempty,max=500" label:"Bio"`
	ProfileImage   *string             `json:"profile_image" validate:"omitempty,httpurl" label:"Profile image"`
	SocialLinks    *models.SocialLinks `json:"social_links"`
	Status         *string             `json:"status" validate:"omitempty,oneof=active inactive suspended" label:"Status"`
	Verified       *bool               `json:"verified"`
	CommissionRate *float64            `json:"commission_rate" validate:"omitempty,gte=0,lte=100" label:"Commission rate"`
	Followers      *int                `json:"followers" validate:"omitempty,gte=0" label:"Followers"`
	Rating         *float64            `json:"rating" validate:"omitempty,gte=0,lte=5" label:"Rating"`
}

func idParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// writeStoreError maps creator store errors onto 404, 409 and 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, creatorstore.ErrNotFound):
		apiresp.NotFound(w, "Creator not found")
	case errors.Is(err, creatorstore.ErrDuplicateUsername):
		apiresp.Conflict(w, "Username already exists")
	case errors.Is(err, creatorstore.ErrDuplicateEmail):
		apiresp.Conflict(w, "Email already exists")
	default:
		apiresp.ServerError(w, h.Log, msg, err, fields...)
	}
}

// ServeList handles GET /api/admin/creators.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := creatorstore.New(h.DB).List(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch creators", err)
		return
	}
	apiresp.OK(w, list)
}

// HandleCreate handles POST /api/admin/creators. When no password is
// supplied one is generated and returned in the response.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	var in createInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Bio = htmlsanitize.PlainText(in.Bio)
	in.Username = strings.TrimSpace(in.Username)
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	generated := ""
	password := in.Password
	if password == "" {
		generated = creatorauth.GeneratePassword()
		password = generated
	}
	hash, err := creatorstore.HashPassword(password)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create creator", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var adminID *primitive.ObjectID
	if u != nil {
		oid := u.ObjectID()
		adminID = &oid
	}
	c, err := creatorstore.New(h.DB).Create(ctx, models.Creator{
		Username:       in.Username,
		PasswordHash:   hash,
		Name:           in.Name,
		Email:          in.Email,
		Bio:            in.Bio,
		ProfileImage:   in.ProfileImage,
		SocialLinks:    in.SocialLinks,
		CommissionRate: in.CommissionRate,
		CreatedByAdmin: adminID,
	})
	if err != nil {
		h.writeStoreError(w, err, "Failed to create creator", zap.String("username", in.Username))
		return
	}

	if adminID != nil {
		h.AuditLog.AdminAction(ctx, r, *adminID, audit.EventCreatorCreated, audit.TargetCreator, c.ID,
			map[string]string{"username": c.Username})
	}
	apiresp.Created(w, createResponse{Creator: c, GeneratedPassword: generated})
}

// ServeCreator handles GET /api/admin/creators/{id}.
func (h *Handler) ServeCreator(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid creator id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := creatorstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, err, "Failed to fetch creator", zap.String("creator_id", id.Hex()))
		return
	}
	apiresp.OK(w, c)
}

// HandleUpdate handles PATCH /api/admin/creators/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid creator id")
		return
	}
	var in updateInput
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
		Name:           in.Name,
		Username:       in.Username,
		Email:          in.Email,
		Bio:            in.Bio,
		ProfileImage:   in.ProfileImage,
		SocialLinks:    in.SocialLinks,
		Status:         in.Status,
		Verified:       in.Verified,
		CommissionRate: in.CommissionRate,
		Followers:      in.Followers,
		Rating:         in.Rating,
	})
	if err != nil {
		h.writeStoreError(w, err, "Failed to update creator", zap.String("creator_id", id.Hex()))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, u.ObjectID(), audit.EventCreatorUpdated, audit.TargetCreator, id, nil)
	}
	apiresp.OK(w, c)
}

// HandleDelete handles DELETE /api/admin/creators/{id}. The creator's
// drops are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid creator id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := creatorstore.New(h.DB).Delete(ctx, id); err != nil {
		h.writeStoreError(w, err, "Failed to delete creator", zap.String("creator_id", id.Hex()))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, u.ObjectID(), audit.EventCreatorDeleted, audit.TargetCreator, id, nil)
	}
	apiresp.Message(w, "Creator deleted successfully")
}
