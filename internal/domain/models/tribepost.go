// internal/domain/models/tribepost.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types.
const (
	PostTypeImage      = "image"
	PostTypeText       = "text"
	PostTypeDiscussion = "discussion"
)

// MaxCommentLength is the longest comment body accepted, in characters.
const MaxCommentLength = 500

// TaggedProduct pins a product onto a post image at relative coordinates.
type TaggedProduct struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	X       float64            `bson:"x" json:"x"`
	Y       float64            `bson:"y" json:"y"`
}

// TribePost is a feed entry inside a tribe.
//
// NOTE:
//   - LikesCount moves in the same single-document update as Likes.
//   - CommentsCount is bumped in the transaction that inserts the comment.
type TribePost struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	User           primitive.ObjectID   `bson:"user" json:"user"`
	Tribe          primitive.ObjectID   `bson:"tribe" json:"tribe"`
	PostType       string               `bson:"post_type" json:"postType"`
	Content        string               `bson:"content" json:"content"`
	ImageURL       string               `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	TaggedProducts []TaggedProduct      `bson:"tagged_products,omitempty" json:"taggedProducts"`
	Likes          []primitive.ObjectID `bson:"likes" json:"likes"`
	LikesCount     int                  `bson:"likes_count" json:"likesCount"`
	CommentsCount  int                  `bson:"comments_count" json:"commentsCount"`
	IsActive       bool                 `bson:"is_active" json:"isActive"`
	IsFeatured     bool                 `bson:"is_featured" json:"isFeatured"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TribeComment is a reply on a TribePost.
type TribeComment struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	User       primitive.ObjectID   `bson:"user" json:"user"`
	Post       primitive.ObjectID   `bson:"post" json:"post"`
	Content    string               `bson:"content" json:"content"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	LikesCount int                  `bson:"likes_count" json:"likesCount"`
	IsActive   bool                 `bson:"is_active" json:"isActive"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TaggedProductView is a TaggedProduct with the product resolved.
type TaggedProductView struct {
	Product *ProductBrief `json:"product"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
}

// PostView is a feed post with its author and tagged products resolved.
type PostView struct {
	TribePost
	User           *UserSummary        `json:"user"`
	TaggedProducts []TaggedProductView `json:"taggedProducts"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	TribeComment
	User *UserSummary `json:"user"`
}
