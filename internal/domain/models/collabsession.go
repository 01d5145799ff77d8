// internal/domain/models/collabsession.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types in a collab transcript.
const (
	MessageUser     = "user"
	MessageSystem   = "system"
	MessageReaction = "reaction"
)

// Session statuses.
const (
	CollabActive = "active"
	CollabEnded  = "ended"
)

// MaxCollabMessages caps the stored transcript; older messages are dropped.
const MaxCollabMessages = 100

// Participant is keyed by display name. There is no account binding.
type Participant struct {
	UserID   string    `bson:"user_id" json:"userId"`
	UserName string    `bson:"user_name" json:"userName"`
	JoinedAt time.Time `bson:"joined_at" json:"joinedAt"`
	IsActive bool      `bson:"is_active" json:"isActive"`
}

// ItemVote is one participant's +1/-1 on an item.
type ItemVote struct {
	UserName  string    `bson:"user_name" json:"userName"`
	Value     int       `bson:"value" json:"value"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ProductSnapshot is the denormalized product info shown on a cart item.
type ProductSnapshot struct {
	Title  string   `bson:"title" json:"title"`
	Brand  string   `bson:"brand" json:"brand"`
	Price  float64  `bson:"price" json:"price"`
	Images []string `bson:"images" json:"images"`
	URL    string   `bson:"url,omitempty" json:"url,omitempty"`
}

// CollabItem is a product placed in the shared cart.
type CollabItem struct {
	ID          primitive.ObjectID  `bson:"_id" json:"_id"`
	Product     *primitive.ObjectID `bson:"product,omitempty" json:"product,omitempty"`
	ProductData *ProductSnapshot    `bson:"product_data,omitempty" json:"productData,omitempty"`
	Size        string              `bson:"size" json:"size"`
	Color       string              `bson:"color" json:"color"`
	Notes       string              `bson:"notes" json:"notes"`
	AddedBy     string              `bson:"added_by" json:"addedBy"`
	Votes       []ItemVote          `bson:"votes" json:"votes"`
	AddedAt     time.Time           `bson:"added_at" json:"addedAt"`
}

// Score is the sum of the item's vote values.
func (it CollabItem) Score() int {
	total := 0
	for _, v := range it.Votes {
		total += v.Value
	}
	return total
}

// ChatMessage is one entry in the session transcript.
type ChatMessage struct {
	ID        string    `bson:"_id" json:"_id"`
	UserName  string    `bson:"user_name" json:"userName"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Type      string    `bson:"type" json:"type"`
}

// CollabSession is a shared cart or poll room addressed by Code.
//
// NOTE:
//   - Version is an optimistic concurrency token. Every write is
//     conditioned on the version that was read and increments it.
type CollabSession struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code         string             `bson:"code" json:"code"`
	Name         string             `bson:"name" json:"name"`
	HostID       string             `bson:"host_id" json:"hostId"`
	Participants []Participant      `bson:"participants" json:"participants"`
	Items        []CollabItem       `bson:"items" json:"items"`
	Messages     []ChatMessage      `bson:"messages" json:"messages"`
	Status       string             `bson:"status" json:"status"`
	IsActive     bool               `bson:"is_active" json:"isActive"`
	LastActivity time.Time          `bson:"last_activity" json:"lastActivity"`
	Version      int64              `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CollabItemView is an item with its catalog product resolved and its
// vote score computed.
type CollabItemView struct {
	CollabItem
	Product *Product `json:"product,omitempty"`
	Score   int      `json:"score"`
}

// CollabSessionView is the JSON shape returned by the collab and poll
// endpoints.
type CollabSessionView struct {
	CollabSession
	Items []CollabItemView `json:"items"`
}
