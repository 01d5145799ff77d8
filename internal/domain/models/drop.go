// internal/domain/models/drop.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Drop statuses.
const (
	DropDraft     = "draft"
	DropScheduled = "scheduled"
	DropUpcoming  = "upcoming"
	DropLive      = "live"
	DropCompleted = "completed"
	DropCancelled = "cancelled"
)

// ValidDropStatus reports whether s is a known drop status.
func ValidDropStatus(s string) bool {
	switch s {
	case DropDraft, DropScheduled, DropUpcoming, DropLive, DropCompleted, DropCancelled:
		return true
	}
	return false
}

// DropProduct is embedded inside a Drop; it is not a catalog Product.
type DropProduct struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64            `bson:"price" json:"price"`
	OriginalPrice   float64            `bson:"original_price,omitempty" json:"original_price,omitempty"`
	ImageURL        string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	Sizes           []string           `bson:"sizes,omitempty" json:"sizes"`
	Colors          []string           `bson:"colors,omitempty" json:"colors"`
	StockQuantity   int                `bson:"stock_quantity" json:"stock_quantity"`
	SoldQuantity    int                `bson:"sold_quantity" json:"sold_quantity"`
	IsExclusive     bool               `bson:"is_exclusive" json:"is_exclusive"`
	LimitedQuantity bool               `bson:"limited_quantity" json:"limited_quantity"`
	Rating          float64            `bson:"rating" json:"rating"`
}

// PriceRange is the min/max price across a drop's products.
type PriceRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Drop is a creator-authored limited collection.
//
// NOTE:
//   - TotalItems, TotalStock, SoldCount and PriceRange are derived from
//     Products by dropcalc.Recompute before every write.
//   - Status advances scheduled → live → completed by time and stock
//     comparison at write time, not by a scheduler.
type Drop struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	CreatorID         primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	CreatorName       string             `bson:"creator_name" json:"creator_name"`
	CreatorImage      string             `bson:"creator_image,omitempty" json:"creator_image,omitempty"`
	LaunchDatetime    time.Time          `bson:"launch_datetime" json:"launch_datetime"`
	Status            string             `bson:"status" json:"status"`
	Products          []DropProduct      `bson:"products" json:"products"`
	PriceRange        PriceRange         `bson:"price_range" json:"price_range"`
	TotalItems        int                `bson:"total_items" json:"total_items"`
	TotalStock        int                `bson:"total_stock" json:"total_stock"`
	SoldCount         int                `bson:"sold_count" json:"sold_count"`
	Tags              []string           `bson:"tags,omitempty" json:"tags"`
	CollectionImage   string             `bson:"collection_image,omitempty" json:"collection_image,omitempty"`
	IsFeatured        bool               `bson:"is_featured" json:"is_featured"`
	Views             int                `bson:"views" json:"views"`
	EngagementRate    float64            `bson:"engagement_rate" json:"engagement_rate"`
	NotificationCount int                `bson:"notification_count" json:"notification_count"`
	CommissionRate    float64            `bson:"commission_rate" json:"commission_rate"`
	TotalSales        float64            `bson:"total_sales" json:"total_sales"`
	Rating            float64            `bson:"rating" json:"rating"`
	ReviewCount       int                `bson:"review_count" json:"review_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultDropCommission is applied when a drop is created without one.
const DefaultDropCommission = 15

// DropView is a Drop plus the read-time virtual fields.
type DropView struct {
	Drop
	SelloutPercentage int   `json:"sellout_percentage"`
	IsSoldOut         bool  `json:"is_sold_out"`
	TimeUntilLaunchMS int64 `json:"time_until_launch"`
	DaysSinceLaunch   int   `json:"days_since_launch"`
}
