// internal/domain/models/tribe.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tribe is a named community with a member set and a curated product set.
//
// NOTE:
//   - MemberCount is only ever changed in the same update that changes
//     Members, and only when that update actually adds or removes the id.
//   - Slug is derived from Name (see system/slug) and is unique.
type Tribe struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name           string               `bson:"name" json:"name"`
	Slug           string               `bson:"slug" json:"slug"`
	Description    string               `bson:"description" json:"description"`
	CoverImage     string               `bson:"cover_image" json:"coverImage"`
	Tags           []string             `bson:"tags" json:"tags"`
	Owner          *primitive.ObjectID  `bson:"owner,omitempty" json:"owner,omitempty"`
	Members        []primitive.ObjectID `bson:"members" json:"members"`
	MemberCount    int                  `bson:"member_count" json:"memberCount"`
	Products       []primitive.ObjectID `bson:"products" json:"products"`
	IsPublic       bool                 `bson:"is_public" json:"isPublic"`
	AIProductCount int                  `bson:"ai_product_count" json:"aiProductCount"`
	LastAISync     *time.Time           `bson:"last_ai_sync,omitempty" json:"lastAISync,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether uid is in the member set.
func (t Tribe) HasMember(uid primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// TribeCuratedProduct links a product to a tribe with an admin-supplied
// reason. Removal deactivates the row rather than deleting it.
type TribeCuratedProduct struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Tribe     primitive.ObjectID  `bson:"tribe" json:"tribe"`
	Product   primitive.ObjectID  `bson:"product" json:"product"`
	Reason    string              `bson:"reason" json:"reason"`
	IsActive  bool                `bson:"is_active" json:"isActive"`
	Order     int                 `bson:"order" json:"order"`
	CuratedBy *primitive.ObjectID `bson:"curated_by,omitempty" json:"curatedBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TribeView is a Tribe with its owner and product set resolved.
type TribeView struct {
	Tribe
	Owner    *UserSummary `json:"owner,omitempty"`
	Products []Product    `json:"products"`
}

// CuratedProductView is a curation row with its product and curator resolved.
type CuratedProductView struct {
	TribeCuratedProduct
	Product   *Product     `json:"product,omitempty"`
	CuratedBy *UserSummary `json:"curatedBy,omitempty"`
}
