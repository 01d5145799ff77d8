// internal/app/features/tribes/actions.go
package tribes

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
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type actionRequest struct {
	Action      string   `json:"action"`
	TribeID     string   `json:"tribeId"`
	ProductIDs  []string `json:"productIds"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	Tags        []string `json:"tags"`
}

type createInput struct {
	Name        string   `validate:"required,max=80" label:"Name"`
	Description string   `validate:"max=2000" label:"Description"`
	CoverImage  string   `validate:"omitempty,httpurl" label:"Cover image"`
	Tags        []string `validate:"max=20" label:"Tags"`
}

type productsInput struct {
	ProductIDs []string `validate:"required,min=1,max=100,dive,objectid" label:"Product ids"`
}

// HandleAction handles POST /api/tribes. The member acted on is always
// the signed-in user.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req actionRequest
	if err := apiresp.Decode(r, &req); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}

	switch req.Action {
	case "create":
		h.create(w, r, u, req)
		return
	case "join", "leave", "addProducts":
	default:
		apiresp.BadRequest(w, "Unknown action")
		return
	}

	tribeID, err := primitive.ObjectIDFromHex(req.TribeID)
	if err != nil {
		apiresp.BadRequest(w, "tribeId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := tribestore.New(h.DB)
	var t *models.Tribe
	switch req.Action {
	case "join":
		t, err = store.Join(ctx, tribeID, u.ObjectID())
	case "leave":
		t, err = store.Leave(ctx, tribeID, u.ObjectID())
	case "addProducts":
		h.addProducts(ctx, w, store, u, tribeID, req.ProductIDs)
		return
	}
	h.respond(ctx, w, t, err)
}

// respond writes the populated tribe or maps err to a status.
func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, t *models.Tribe, err error) {
	if errors.Is(err, tribestore.ErrNotFound) {
		apiresp.NotFound(w, "Tribe not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to update tribe", err)
		return
	}
	view, err := populate.Tribe(ctx, h.DB, *t)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to update tribe", err)
		return
	}
	apiresp.OK(w, view)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, u *auth.SessionUser, req actionRequest) {
	if !u.IsAdmin() {
		apiresp.Forbidden(w, "Tribe creation is only available for administrators")
		return
	}
	in := createInput{
		Name:        htmlsanitize.PlainText(req.Name),
		Description: htmlsanitize.PlainText(req.Description),
		CoverImage:  req.CoverImage,
		Tags:        req.Tags,
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	owner := u.ObjectID()
	t, err := tribestore.New(h.DB).Create(ctx, tribestore.Input{
		Name:        in.Name,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		Tags:        in.Tags,
	}, &owner)
	switch {
	case errors.Is(err, tribestore.ErrDuplicate):
		apiresp.Conflict(w, "A tribe with this name already exists")
		return
	case errors.Is(err, tribestore.ErrEmptyName):
		apiresp.BadRequest(w, err.Error())
		return
	case err != nil:
		apiresp.ServerError(w, h.Log, "Failed to create tribe", err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, owner, audit.EventTribeCreated, audit.TargetTribe, t.ID,
		map[string]string{"name": t.Name})
	view, err := populate.Tribe(ctx, h.DB, t)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create tribe", err)
		return
	}
	apiresp.Created(w, view)
}

// addProducts is open to admins and the tribe's owner.
func (h *Handler) addProducts(ctx context.Context, w http.ResponseWriter, store *tribestore.Store, u *auth.SessionUser, tribeID primitive.ObjectID, raw []string) {
	in := productsInput{ProductIDs: raw}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	t, err := store.GetByID(ctx, tribeID)
	if err != nil {
		h.respond(ctx, w, nil, err)
		return
	}
	if !u.IsAdmin() && (t.Owner == nil || *t.Owner != u.ObjectID()) {
		apiresp.Forbidden(w, "Only the tribe owner can add products")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, _ := primitive.ObjectIDFromHex(s)
		ids = append(ids, id)
	}
	t, err = store.AddProducts(ctx, tribeID, ids)
	h.respond(ctx, w, t, err)
}
