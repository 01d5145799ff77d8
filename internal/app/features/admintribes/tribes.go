// internal/app/features/admintribes/tribes.go
package admintribes

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	"github.com/dalemusser/stylehub/internal/app/store/audit"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type tribeInput struct {
	Action      string   `json:"action"`
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required,max=80" label:"Name"`
	Description string   `json:"description" validate:"max=2000" label:"Description"`
	CoverImage  string   `json:"coverImage" validate:"omitempty,httpurl" label:"Cover image"`
	Tags        []string `json:"tags" validate:"max=20" label:"Tags"`
}

func (in *tribeInput) clean() {
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Description = htmlsanitize.PlainText(in.Description)
}

func (in tribeInput) store() tribestore.Input {
	return tribestore.Input{
		Name:        in.Name,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		Tags:        in.Tags,
	}
}

// ServeList handles GET /api/admin/tribes: every tribe, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := tribestore.New(h.DB).ListAll(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribes", err)
		return
	}
	views, err := populate.Tribes(ctx, h.DB, list)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch tribes", err)
		return
	}
	apiresp.OK(w, views)
}

// HandleCreate handles POST /api/admin/tribes {action:"create", ...}.
// Admin-created tribes have no owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in tribeInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if in.Action != "create" {
		apiresp.BadRequest(w, "Invalid action")
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := tribestore.New(h.DB).Create(ctx, in.store(), nil)
	switch {
	case errors.Is(err, tribestore.ErrDuplicate):
		apiresp.Conflict(w, "Tribe name already exists")
		return
	case errors.Is(err, tribestore.ErrEmptyName):
		apiresp.BadRequest(w, err.Error())
		return
	case err != nil:
		apiresp.ServerError(w, h.Log, "Failed to create tribe", err)
		return
	}

	h.audit(ctx, r, audit.EventTribeCreated, t.ID, t.Name)
	apiresp.Created(w, t)
}

// HandleUpdate handles PUT /api/admin/tribes {id, name, ...}. A new name
// re-derives the slug.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in tribeInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	id, err := primitive.ObjectIDFromHex(in.ID)
	if err != nil {
		apiresp.BadRequest(w, "id is required")
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := tribestore.New(h.DB).Update(ctx, id, in.store())
	switch {
	case errors.Is(err, tribestore.ErrNotFound):
		apiresp.NotFound(w, "Tribe not found")
		return
	case errors.Is(err, tribestore.ErrDuplicate):
		apiresp.Conflict(w, "Tribe name already exists")
		return
	case errors.Is(err, tribestore.ErrEmptyName):
		apiresp.BadRequest(w, err.Error())
		return
	case err != nil:
		apiresp.ServerError(w, h.Log, "Failed to update tribe", err, zap.String("tribe_id", in.ID))
		return
	}

	h.audit(ctx, r, audit.EventTribeUpdated, t.ID, t.Name)
	view, err := populate.Tribe(ctx, h.DB, *t)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to update tribe", err)
		return
	}
	apiresp.OK(w, view)
}

// HandleDelete handles DELETE /api/admin/tribes {id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID string `json:"id"`
	}
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	id, err := primitive.ObjectIDFromHex(in.ID)
	if err != nil {
		apiresp.BadRequest(w, "id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = tribestore.New(h.DB).Delete(ctx, id)
	if errors.Is(err, tribestore.ErrNotFound) {
		apiresp.NotFound(w, "Tribe not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to delete tribe", err, zap.String("tribe_id", in.ID))
		return
	}

	h.audit(ctx, r, audit.EventTribeDeleted, id, "")
	apiresp.Message(w, "Tribe deleted successfully")
}

func (h *Handler) audit(ctx context.Context, r *http.Request, event string, tribeID primitive.ObjectID, name string) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return
	}
	var details map[string]string
	if name != "" {
		details = map[string]string{"name": name}
	}
	h.AuditLog.AdminAction(ctx, r, u.ObjectID(), event, audit.TargetTribe, tribeID, details)
}
