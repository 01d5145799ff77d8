// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Genders accepted on a user profile.
const (
	GenderMale      = "MALE"
	GenderFemale    = "FEMALE"
	GenderNonBinary = "NON_BINARY"
	GenderOther     = "OTHER"
)

// User is a shopper account. Users are never hard-deleted.
//
// NOTE:
//   - PasswordHash is never serialized to JSON.
//   - UsernameCI / EmailCI carry the folded values the unique indexes use.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username    string             `bson:"username" json:"username"`
	UsernameCI  string             `bson:"username_ci" json:"-"`
	DisplayName string             `bson:"display_name" json:"displayName"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Age         *int               `bson:"age,omitempty" json:"age,omitempty"`
	Gender      string             `bson:"gender" json:"gender"`
	Email       string             `bson:"email" json:"email"`
	EmailCI     string             `bson:"email_ci" json:"-"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL   string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Role        string             `bson:"role" json:"role"` // USER | ADMIN
	Badges      []string           `bson:"badges,omitempty" json:"badges"`

	PasswordHash string `bson:"password_hash" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSummary is the public projection used when a user is embedded in
// another response (post author, submission owner).
type UserSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Username    string             `bson:"username" json:"username"`
	DisplayName string             `bson:"display_name" json:"displayName"`
	AvatarURL   string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
}

// ValidGender reports whether g is one of the profile gender values.
func ValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther:
		return true
	}
	return false
}
