// internal/app/system/questphase/questphase.go
package questphase

import (
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Status derives a quest's phase from its three date boundaries:
//
//	now < start            → upcoming
//	start ≤ now < end      → active
//	end ≤ now < votingEnd  → voting
//	now ≥ votingEnd        → completed
//
// The checks run in the order above, so with unordered boundaries the
// first matching phase wins. Passes lets the last matching pass win
// instead; the two agree only when start ≤ end ≤ votingEnd, which quest
// writes enforce.
func Status(start, end, votingEnd, now time.Time) string {
	switch {
	case now.Before(start):
		return models.QuestUpcoming
	case now.Before(end):
		return models.QuestActive
	case now.Before(votingEnd):
		return models.QuestVoting
	default:
		return models.QuestCompleted
	}
}

// Of is Status applied to a quest.
func Of(q models.Quest, now time.Time) string {
	return Status(q.SubmissionStartDate, q.SubmissionEndDate, q.VotingEndDate, now)
}

// Pass is one bulk update: every quest matching Filter gets Status.
type Pass struct {
	Status string
	Filter bson.M
}

// Passes returns the four bulk updates that bring every stored quest to
// Status(…, now). The filters are disjoint for ordered boundaries and are
// applied in this order, so the last matching pass wins otherwise.
func Passes(now time.Time) []Pass {
	return []Pass{
		{models.QuestUpcoming, bson.M{"submission_start_date": bson.M{"$gt": now}}},
		{models.QuestActive, bson.M{
			"submission_start_date": bson.M{"$lte": now},
			"submission_end_date":   bson.M{"$gt": now},
		}},
		{models.QuestVoting, bson.M{
			"submission_end_date": bson.M{"$lte": now},
			"voting_end_date":     bson.M{"$gt": now},
		}},
		{models.QuestCompleted, bson.M{"voting_end_date": bson.M{"$lte": now}}},
	}
}

// AcceptsSubmissions reports whether new submissions are allowed.
func AcceptsSubmissions(status string) bool { return status == models.QuestActive }

// AcceptsVotes reports whether votes may be cast. Voting stays open during
// the submission window as well as the voting window.
func AcceptsVotes(status string) bool {
	return status == models.QuestActive || status == models.QuestVoting
}
