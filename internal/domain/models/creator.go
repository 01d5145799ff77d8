// internal/domain/models/creator.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creator statuses.
const (
	CreatorActive    = "active"
	CreatorInactive  = "inactive"
	CreatorSuspended = "suspended"
)

// Lockout policy for creator logins.
const (
	MaxCreatorLoginAttempts = 5
	CreatorLockDuration     = 2 * time.Hour
)

// DefaultCreatorCommission is the commission rate for new creators.
const DefaultCreatorCommission = 10

// SocialLinks are optional profile links.
type SocialLinks struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

// Creator is a separate credential entity from User. It carries its own
// login-attempt counter and lock timestamp.
type Creator struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Username       string              `bson:"username" json:"username"`
	UsernameCI     string              `bson:"username_ci" json:"-"`
	PasswordHash   string              `bson:"password_hash" json:"-"`
	Name           string              `bson:"name" json:"name"`
	Email          string              `bson:"email" json:"email"` // stored lowercased
	ProfileImage   string              `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Bio            string              `bson:"bio,omitempty" json:"bio,omitempty"`
	SocialLinks    SocialLinks         `bson:"social_links" json:"social_links"`
	Followers      int                 `bson:"followers" json:"followers"`
	Verified       bool                `bson:"verified" json:"verified"`
	Status         string              `bson:"status" json:"status"`
	Rating         float64             `bson:"rating" json:"rating"`
	TotalDrops     int                 `bson:"total_drops" json:"total_drops"`
	TotalSales     float64             `bson:"total_sales" json:"total_sales"`
	CommissionRate float64             `bson:"commission_rate" json:"commission_rate"`
	CreatedByAdmin *primitive.ObjectID `bson:"created_by_admin,omitempty" json:"created_by_admin,omitempty"`
	LastLogin      *time.Time          `bson:"last_login,omitempty" json:"last_login,omitempty"`
	LoginAttempts  int                 `bson:"login_attempts" json:"-"`
	LockedUntil    *time.Time          `bson:"locked_until,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsLocked reports whether the account is locked at now.
func (c Creator) IsLocked(now time.Time) bool {
	return c.LockedUntil != nil && c.LockedUntil.After(now)
}
