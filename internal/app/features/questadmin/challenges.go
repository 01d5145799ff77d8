// internal/app/features/questadmin/challenges.go
package questadmin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	"github.com/dalemusser/stylehub/internal/app/store/audit"
	queststore "github.com/dalemusser/stylehub/internal/app/store/quests"
	submissionstore "github.com/dalemusser/stylehub/internal/app/store/submissions"
	votestore "github.com/dalemusser/stylehub/internal/app/store/votes"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/questphase"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/txn"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgDateOrder = "Submission end must be after submission start, and voting end must not be before submission end"

type questInput struct {
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	CoverImageURL           string     `json:"coverImageUrl" validate:"omitempty,httpurl" label:"Cover image"`
	SubmissionStartDate     *time.Time `json:"submissionStartDate"`
	SubmissionEndDate       *time.Time `json:"submissionEndDate"`
	VotingEndDate           *time.Time `json:"votingEndDate"`
	PrizeDiscountPercentage float64    `json:"prizeDiscountPercentage" validate:"gte=0,lte=100" label:"Prize discount"`
	PrizeBadgeName          string     `json:"prizeBadgeName" validate:"max=80" label:"Badge name"`
	PrizeBadgeImageURL      string     `json:"prizeBadgeImageUrl" validate:"omitempty,httpurl" label:"Badge image"`
}

type questUpdate struct {
	Title                   *string    `json:"title" validate:"omitempty,min=1,max=200" label:"Title"`
	Description             *string    `json:"description" validate:"omitempty,max=5000" label:"Description"`
	CoverImageURL           *string    `json:"coverImageUrl" validate:"omitempty,httpurl" label:"Cover image"`
	SubmissionStartDate     *time.Time `json:"submissionStartDate"`
	SubmissionEndDate       *time.Time `json:"submissionEndDate"`
	VotingEndDate           *time.Time `json:"votingEndDate"`
	PrizeDiscountPercentage *float64   `json:"prizeDiscountPercentage" validate:"omitempty,gte=0,lte=100" label:"Prize discount"`
	PrizeBadgeName          *string    `json:"prizeBadgeName" validate:"omitempty,max=80" label:"Badge name"`
	PrizeBadgeImageURL      *string    `json:"prizeBadgeImageUrl" validate:"omitempty,httpurl" label:"Badge image"`
}

func datesOrdered(q models.Quest) bool {
	return q.SubmissionStartDate.Before(q.SubmissionEndDate) && !q.VotingEndDate.Before(q.SubmissionEndDate)
}

func idParam(r *http.Request, key string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, key))
	return id, err == nil
}

func (h *Handler) audit(ctx context.Context, r *http.Request, event string, id primitive.ObjectID, details map[string]string) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, u.ObjectID(), event, audit.TargetQuest, id, details)
	}
}

// ServeList handles GET /api/admin/challenges, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := queststore.New(h.DB).List(ctx)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch quests", err)
		return
	}
	now := time.Now().UTC()
	for i := range list {
		list[i].Status = questphase.Of(list[i], now)
	}
	apiresp.OK(w, list)
}

// HandleCreate handles POST /api/admin/challenges.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	var in questInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Description = htmlsanitize.PlainText(in.Description)
	if in.Title == "" || in.Description == "" ||
		in.SubmissionStartDate == nil || in.SubmissionEndDate == nil || in.VotingEndDate == nil {
		apiresp.BadRequest(w, "Title, description, submission dates, and voting end date are required")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	q := models.Quest{
		Title:                   in.Title,
		Description:             in.Description,
		CoverImageURL:           in.CoverImageURL,
		SubmissionStartDate:     in.SubmissionStartDate.UTC(),
		SubmissionEndDate:       in.SubmissionEndDate.UTC(),
		VotingEndDate:           in.VotingEndDate.UTC(),
		PrizeDiscountPercentage: in.PrizeDiscountPercentage,
		PrizeBadgeName:          in.PrizeBadgeName,
		PrizeBadgeImageURL:      in.PrizeBadgeImageURL,
	}
	if !datesOrdered(q) {
		apiresp.BadRequest(w, msgDateOrder)
		return
	}
	if u != nil {
		oid := u.ObjectID()
		q.CreatedBy = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := queststore.New(h.DB).Create(ctx, q)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create quest", err)
		return
	}
	h.audit(ctx, r, audit.EventQuestCreated, created.ID, map[string]string{"title": created.Title})
	apiresp.Created(w, created)
}

// HandleUpdate handles PUT /api/admin/challenges/{id}. The status is
// re-derived from the resulting dates.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		apiresp.BadRequest(w, "Invalid quest id")
		return
	}
	var in questUpdate
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

	store := queststore.New(h.DB)
	q, err := store.GetByID(ctx, id)
	if errors.Is(err, queststore.ErrNotFound) {
		apiresp.NotFound(w, "Quest not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to update quest", err, zap.String("quest_id", id.Hex()))
		return
	}

	if in.Title != nil {
		q.Title = htmlsanitize.PlainText(*in.Title)
	}
	if in.Description != nil {
		q.Description = htmlsanitize.PlainText(*in.Description)
	}
	if in.CoverImageURL != nil {
		q.CoverImageURL = *in.CoverImageURL
	}
	if in.SubmissionStartDate != nil {
		q.SubmissionStartDate = in.SubmissionStartDate.UTC()
	}
	if in.SubmissionEndDate != nil {
		q.SubmissionEndDate = in.SubmissionEndDate.UTC()
	}
	if in.VotingEndDate != nil {
		q.VotingEndDate = in.VotingEndDate.UTC()
	}
	if in.PrizeDiscountPercentage != nil {
		q.PrizeDiscountPercentage = *in.PrizeDiscountPercentage
	}
	if in.PrizeBadgeName != nil {
		q.PrizeBadgeName = *in.PrizeBadgeName
	}
	if in.PrizeBadgeImageURL != nil {
		q.PrizeBadgeImageURL = *in.PrizeBadgeImageURL
	}
	if !datesOrdered(*q) {
		apiresp.BadRequest(w, msgDateOrder)
		return
	}

	if err := store.Save(ctx, q); err != nil {
		if errors.Is(err, queststore.ErrNotFound) {
			apiresp.NotFound(w, "Quest not found")
			return
		}
		apiresp.ServerError(w, h.Log, "Failed to update quest", err, zap.String("quest_id", id.Hex()))
		return
	}
	h.audit(ctx, r, audit.EventQuestUpdated, id, nil)
	apiresp.OK(w, q)
}

// HandleDelete handles DELETE /api/admin/challenges/{id}. The quest's
// submissions and votes go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		apiresp.BadRequest(w, "Invalid quest id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	quests := queststore.New(h.DB)
	subs := submissionstore.New(h.DB)
	votes := votestore.New(h.DB)
	err := txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		if err := quests.Delete(tctx, id); err != nil {
			return err
		}
		if _, err := subs.DeleteByQuest(tctx, id); err != nil {
			return err
		}
		_, err := votes.DeleteByQuest(tctx, id)
		return err
	})
	if errors.Is(err, queststore.ErrNotFound) {
		apiresp.NotFound(w, "Quest not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to delete quest", err, zap.String("quest_id", id.Hex()))
		return
	}
	h.audit(ctx, r, audit.EventQuestDeleted, id, nil)
	apiresp.Message(w, "Quest deleted successfully")
}

// ServeSubmissions handles GET /api/admin/submissions/{challengeId}.
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "challengeId")
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
