// internal/app/features/quests/vote.go
package quests

import (
	"context"
	"errors"
	"net/http"
	"time"

	queststore "github.com/dalemusser/stylehub/internal/app/store/quests"
	submissionstore "github.com/dalemusser/stylehub/internal/app/store/submissions"
	votestore "github.com/dalemusser/stylehub/internal/app/store/votes"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/questphase"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/txn"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleVote handles POST /api/submissions/{id}/vote. The vote row and the
// submission's counter are written in one transaction.
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	sid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadRequest(w, "Invalid submission id")
		return
	}
	uid := u.ObjectID()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	subs := submissionstore.New(h.DB)
	sub, err := subs.GetByID(ctx, sid)
	if errors.Is(err, submissionstore.ErrNotFound) {
		apiresp.NotFound(w, "Submission not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to cast vote", err, zap.String("submission_id", sid.Hex()))
		return
	}

	q, err := queststore.New(h.DB).GetByID(ctx, sub.ChallengeID)
	if errors.Is(err, queststore.ErrNotFound) {
		apiresp.NotFound(w, "Quest not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to cast vote", err, zap.String("submission_id", sid.Hex()))
		return
	}
	if !questphase.AcceptsVotes(questphase.Of(*q, time.Now().UTC())) {
		apiresp.BadRequest(w, "Voting is not open for this quest")
		return
	}
	if sub.UserID == uid {
		apiresp.BadRequest(w, "You cannot vote for your own submission")
		return
	}

	votes := votestore.New(h.DB)
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		if _, err := votes.Insert(tctx, models.Vote{
			UserID:       uid,
			SubmissionID: sid,
			ChallengeID:  sub.ChallengeID,
		}); err != nil {
			return err
		}
		return subs.IncVotes(tctx, sid, 1)
	})
	if errors.Is(err, votestore.ErrDuplicate) {
		apiresp.Conflict(w, err.Error())
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to cast vote", err, zap.String("submission_id", sid.Hex()))
		return
	}
	apiresp.Message(w, "Vote cast successfully")
}
