// internal/domain/models/quest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quest statuses. Status is always derived from the three date boundaries.
const (
	QuestUpcoming  = "upcoming"
	QuestActive    = "active"
	QuestVoting    = "voting"
	QuestCompleted = "completed"
)

// Quest is a timed style contest.
type Quest struct {
	ID                      primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title                   string              `bson:"title" json:"title"`
	Description             string              `bson:"description" json:"description"`
	CoverImageURL           string              `bson:"cover_image_url" json:"coverImageUrl"`
	SubmissionStartDate     time.Time           `bson:"submission_start_date" json:"submissionStartDate"`
	SubmissionEndDate       time.Time           `bson:"submission_end_date" json:"submissionEndDate"`
	VotingEndDate           time.Time           `bson:"voting_end_date" json:"votingEndDate"`
	PrizeDiscountPercentage float64             `bson:"prize_discount_percentage" json:"prizeDiscountPercentage"`
	PrizeBadgeName          string              `bson:"prize_badge_name" json:"prizeBadgeName"`
	PrizeBadgeImageURL      string              `bson:"prize_badge_image_url" json:"prizeBadgeImageUrl"`
	Status                  string              `bson:"status" json:"status"`
	CreatedBy               *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	WinnerID                *primitive.ObjectID `bson:"winner_id,omitempty" json:"winnerId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Submission is a user's entry in a quest. VoteCount mirrors the number of
// Vote rows for the submission.
type Submission struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	ChallengeID    primitive.ObjectID `bson:"challenge_id" json:"challengeId"`
	ImageURL       string             `bson:"image_url" json:"imageUrl"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	MyntraProducts []string           `bson:"myntra_products" json:"myntraProducts"`
	VoteCount      int                `bson:"vote_count" json:"voteCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// SubmissionWithUser is a submission with its author resolved.
type SubmissionWithUser struct {
	Submission `bson:",inline"`
	User       *UserSummary `bson:"user,omitempty" json:"user,omitempty"`
}

// Vote records one user's vote for one submission.
type Vote struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	SubmissionID primitive.ObjectID `bson:"submission_id" json:"submissionId"`
	ChallengeID  primitive.ObjectID `bson:"challenge_id" json:"challengeId"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// UserBadge is awarded to a quest winner; one per (user, quest).
type UserBadge struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	BadgeName     string             `bson:"badge_name" json:"badgeName"`
	BadgeImageURL string             `bson:"badge_image_url" json:"badgeImageUrl"`
	ChallengeID   primitive.ObjectID `bson:"challenge_id" json:"challengeId"`
	EarnedDate    time.Time          `bson:"earned_date" json:"earnedDate"`
}

// QuestRef is the part of a quest shown alongside a badge.
type QuestRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Title string             `bson:"title" json:"title"`
}

// BadgeView is a badge with its quest resolved in place of the id.
type BadgeView struct {
	UserBadge
	Challenge *QuestRef `json:"challengeId"`
}
