// internal/app/features/questadmin/winner.go
package questadmin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	badgestore "github.com/dalemusser/stylehub/internal/app/store/badges"
	queststore "github.com/dalemusser/stylehub/internal/app/store/quests"
	submissionstore "github.com/dalemusser/stylehub/internal/app/store/submissions"
	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/questphase"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/txn"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type winnerResponse struct {
	Message string           `json:"message"`
	Quest   models.Quest     `json:"quest"`
	Badge   models.UserBadge `json:"badge"`
}

// HandleWinner handles POST /api/admin/challenges/{id}/winner
// {submissionId}. Once voting has ended, the submission's author becomes
// the quest winner and receives the prize badge.
func (h *Handler) HandleWinner(w http.ResponseWriter, r *http.Request) {
	qid, ok := idParam(r, "id")
	if !ok {
		apiresp.BadRequest(w, "Invalid quest id")
		return
	}
	var in struct {
		SubmissionID string `json:"submissionId"`
	}
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	sid, err := primitive.ObjectIDFromHex(in.SubmissionID)
	if err != nil {
		apiresp.BadRequest(w, "submissionId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	quests := queststore.New(h.DB)
	q, err := quests.GetByID(ctx, qid)
	if errors.Is(err, queststore.ErrNotFound) {
		apiresp.NotFound(w, "Quest not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to set winner", err, zap.String("quest_id", qid.Hex()))
		return
	}
	if questphase.Of(*q, time.Now().UTC()) != models.QuestCompleted {
		apiresp.BadRequest(w, "A winner can only be chosen after voting ends")
		return
	}
	if q.WinnerID != nil {
		apiresp.Conflict(w, "Winner already set for this quest")
		return
	}

	sub, err := submissionstore.New(h.DB).GetByID(ctx, sid)
	if errors.Is(err, submissionstore.ErrNotFound) || (err == nil && sub.ChallengeID != qid) {
		apiresp.NotFound(w, "Submission not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to set winner", err, zap.String("quest_id", qid.Hex()))
		return
	}

	badgeName := q.PrizeBadgeName
	if badgeName == "" {
		badgeName = q.Title + " Winner"
	}
	badges := badgestore.New(h.DB)
	users := userstore.New(h.DB)
	var badge models.UserBadge
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		if err := quests.SetWinner(tctx, qid, sub.UserID); err != nil {
			return err
		}
		var err error
		badge, err = badges.Award(tctx, models.UserBadge{
			UserID:        sub.UserID,
			BadgeName:     badgeName,
			BadgeImageURL: q.PrizeBadgeImageURL,
			ChallengeID:   qid,
		})
		if err != nil {
			return err
		}
		return users.AddBadge(tctx, sub.UserID, badgeName)
	})
	if errors.Is(err, badgestore.ErrDuplicate) {
		apiresp.Conflict(w, "Badge already awarded for this quest")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to set winner", err,
			zap.String("quest_id", qid.Hex()), zap.String("submission_id", sid.Hex()))
		return
	}

	h.audit(ctx, r, audit.EventQuestWinnerSet, qid, map[string]string{
		"submission_id": sid.Hex(),
		"user_id":       sub.UserID.Hex(),
	})
	winner := sub.UserID
	q.WinnerID = &winner
	q.Status = models.QuestCompleted
	apiresp.OK(w, winnerResponse{Message: "Winner set successfully", Quest: *q, Badge: badge})
}
