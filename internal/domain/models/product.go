// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product audiences.
const (
	AudienceMen    = "MEN"
	AudienceWomen  = "WOMEN"
	AudienceUnisex = "UNISEX"
)

// Product is a catalog item. Title, brand, tags and category are covered by
// the products text index.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title           string             `bson:"title" json:"title"`
	Brand           string             `bson:"brand" json:"brand"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64            `bson:"price" json:"price"`
	MRP             float64            `bson:"mrp,omitempty" json:"mrp,omitempty"`
	DiscountPercent float64            `bson:"discount_percent,omitempty" json:"discountPercent,omitempty"`
	Category        string             `bson:"category" json:"category"`
	Gender          string             `bson:"gender" json:"gender"` // MEN | WOMEN | UNISEX
	Sizes           []string           `bson:"sizes,omitempty" json:"sizes"`
	Colors          []string           `bson:"colors,omitempty" json:"colors"`
	Images          []string           `bson:"images,omitempty" json:"images"`
	InStock         bool               `bson:"in_stock" json:"inStock"`
	Rating          float64            `bson:"rating" json:"rating"`
	RatingCount     int                `bson:"rating_count" json:"ratingCount"`
	Tags            []string           `bson:"tags,omitempty" json:"tags"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProductBrief is the product projection embedded in feed posts.
type ProductBrief struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Title  string             `bson:"title" json:"title"`
	Brand  string             `bson:"brand" json:"brand"`
	Price  float64            `bson:"price" json:"price"`
	Images []string           `bson:"images,omitempty" json:"images"`
}
