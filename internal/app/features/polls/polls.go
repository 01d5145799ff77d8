// internal/app/features/polls/polls.go
package polls

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	collabstore "github.com/dalemusser/stylehub/internal/app/store/collab"
	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type pollInput struct {
	Action    string `json:"action"`
	Name      string `json:"name" validate:"max=80" label:"Poll name"`
	PollCode  string `json:"pollCode"`
	ProductID string `json:"productId" validate:"omitempty,objectid" label:"Product"`
}

// HandleAction handles POST /api/polls with action create or addItem.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var in pollInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	switch in.Action {
	case "create":
		h.create(ctx, w, in)
	case "addItem":
		addedBy := AnonymousAdder
		if u, ok := auth.CurrentUser(r); ok {
			addedBy = u.ID
		}
		h.addItem(ctx, w, in, addedBy)
	default:
		apiresp.BadRequest(w, "Unknown action")
	}
}

func (h *Handler) create(ctx context.Context, w http.ResponseWriter, in pollInput) {
	name := htmlsanitize.PlainText(in.Name)
	if name == "" {
		name = DefaultPollName
	}
	s, err := collabstore.New(h.DB).Create(ctx, models.CollabSession{Name: name})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create poll", err)
		return
	}
	h.write(ctx, w, http.StatusCreated, s)
}

func (h *Handler) addItem(ctx context.Context, w http.ResponseWriter, in pollInput, addedBy string) {
	if in.ProductID == "" {
		apiresp.BadRequest(w, "productId is required")
		return
	}
	pid, _ := primitive.ObjectIDFromHex(in.ProductID)
	p, err := productstore.New(h.DB).GetByID(ctx, pid)
	if errors.Is(err, productstore.ErrNotFound) {
		apiresp.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to add item", err, zap.String("product_id", in.ProductID))
		return
	}

	code := strings.ToUpper(strings.TrimSpace(in.PollCode))
	s, err := collabstore.New(h.DB).Mutate(ctx, code, func(s *models.CollabSession) error {
		now := time.Now().UTC()
		s.Items = append(s.Items, models.CollabItem{
			ID:      primitive.NewObjectID(),
			Product: &p.ID,
			AddedBy: addedBy,
			Votes:   []models.ItemVote{},
			AddedAt: now,
		})
		s.LastActivity = now
		return nil
	})
	switch {
	case errors.Is(err, collabstore.ErrNotFound):
		apiresp.NotFound(w, "Poll not found")
	case errors.Is(err, collabstore.ErrConflict):
		apiresp.Conflict(w, "Poll is busy, please retry")
	case err != nil:
		apiresp.ServerError(w, h.Log, "Failed to add item", err, zap.String("code", code))
	default:
		h.write(ctx, w, http.StatusOK, *s)
	}
}

// ServePoll handles GET /api/polls?code=.
func (h *Handler) ServePoll(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
	if code == "" {
		apiresp.BadRequest(w, "code required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := collabstore.New(h.DB).GetByCode(ctx, code)
	if errors.Is(err, collabstore.ErrNotFound) {
		apiresp.NotFound(w, "Poll not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load poll", err, zap.String("code", code))
		return
	}
	h.write(ctx, w, http.StatusOK, *s)
}

func (h *Handler) write(ctx context.Context, w http.ResponseWriter, status int, s models.CollabSession) {
	v, err := populate.Collab(ctx, h.DB, s)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load poll", err, zap.String("code", s.Code))
		return
	}
	apiresp.JSON(w, status, v)
}
