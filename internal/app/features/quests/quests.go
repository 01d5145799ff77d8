// internal/app/features/quests/quests.go
package quests

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	queststore "github.com/dalemusser/stylehub/internal/app/store/quests"
	submissionstore "github.com/dalemusser/stylehub/internal/app/store/submissions"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/questphase"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submitInput struct {
	ImageURL       string   `json:"imageUrl" validate:"required,httpurl" label:"Image URL"`
	Title          string   `json:"title" validate:"required,max=120" label:"Title"`
	Description    string   `json:"description" validate:"required,max=1000" label:"Description"`
	MyntraProducts []string `json:"myntraProducts" validate:"max=20" label:"Products"`
}

func questID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// ServeList handles GET /api/quests. Stored statuses are brought up to
// date before the list is read.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := queststore.New(h.DB)
	changed, err := store.RefreshStatuses(ctx, time.Now().UTC())
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch quests", err)
		return
	}
	h.Log.Debug("quest statuses refreshed", zap.Any("modified", changed))

	list, err := store.List(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch quests", err)
		return
	}
	apiresp.OK(w, list)
}

// ServeQuest handles GET /api/quests/{id}. The status in the response is
// derived from the current time.
func (h *Handler) ServeQuest(w http.ResponseWriter, r *http.Request) {
	id, ok := questID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid quest id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q, err := queststore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, queststore.ErrNotFound) {
		apiresp.NotFound(w, "Quest not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch quest", err, zap.String("quest_id", id.Hex()))
		return
	}
	q.Status = questphase.Of(*q, time.Now().UTC())
	apiresp.OK(w, q)
}

// ServeSubmissions handles GET /api/quests/{id}/submissions, most voted
// first.
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	id, ok := questID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid quest id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subs, err := submissionstore.New(h.DB).ListByQuest(ctx, id)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch submissions", err, zap.String("quest_id", id.Hex()))
		return
	}
	out, err := populate.Submissions(ctx, h.DB, subs)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch submissions", err, zap.String("quest_id", id.Hex()))
		return
	}
	apiresp.OK(w, out)
}

// HandleSubmit handles POST /api/quests/{id}/submit. Only active quests
// take entries, and each user enters a quest once.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id, ok := questID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid quest id")
		return
	}
	var in submitInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Description = htmlsanitize.PlainText(in.Description)
	if in.ImageURL == "" || in.Title == "" || in.Description == "" {
		apiresp.BadRequest(w, "Image URL, title, and description are required")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q, err := queststore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, queststore.ErrNotFound) {
		apiresp.NotFound(w, "Quest not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to submit", err, zap.String("quest_id", id.Hex()))
		return
	}
	if !questphase.AcceptsSubmissions(questphase.Of(*q, time.Now().UTC())) {
		apiresp.BadRequest(w, "Quest is not accepting submissions")
		return
	}

	sub, err := submissionstore.New(h.DB).Create(ctx, models.Submission{
		UserID:         u.ObjectID(),
		ChallengeID:    id,
		ImageURL:       in.ImageURL,
		Title:          in.Title,
		Description:    in.Description,
		MyntraProducts: in.MyntraProducts,
	})
	if errors.Is(err, submissionstore.ErrDuplicate) {
		apiresp.Conflict(w, err.Error())
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to submit", err, zap.String("quest_id", id.Hex()))
		return
	}
	apiresp.Created(w, sub)
}
