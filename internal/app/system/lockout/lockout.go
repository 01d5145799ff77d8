// internal/app/system/lockout/lockout.go
package lockout

import (
	"time"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// State is the part of a creator account the lockout policy reads.
type State struct {
	Attempts    int
	LockedUntil *time.Time
}

// FromCreator extracts the lockout state from a creator document.
func FromCreator(c models.Creator) State {
	return State{Attempts: c.LoginAttempts, LockedUntil: c.LockedUntil}
}

// Locked reports whether the account rejects logins at now.
func (s State) Locked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// AfterFailure returns the state following a failed password check at now.
//
// An expired lock restarts the count at 1. Otherwise the count goes up by
// one, and reaching the limit while not already locked sets the lock to
// now + CreatorLockDuration.
func AfterFailure(s State, now time.Time) State {
	if s.LockedUntil != nil && !s.LockedUntil.After(now) {
		return State{Attempts: 1}
	}
	next := State{Attempts: s.Attempts + 1, LockedUntil: s.LockedUntil}
	if next.Attempts >= models.MaxCreatorLoginAttempts && !s.Locked(now) {
		until := now.Add(models.CreatorLockDuration)
		next.LockedUntil = &until
	}
	return next
}

// FailureUpdate is the Mongo update for a failed attempt against the state
// that was read. The counter uses $inc so concurrent failures are all
// counted.
func FailureUpdate(s State, now time.Time) bson.M {
	if s.LockedUntil != nil && !s.LockedUntil.After(now) {
		return bson.M{
			"$set":   bson.M{"login_attempts": 1, "updated_at": now},
			"$unset": bson.M{"locked_until": ""},
		}
	}
	set := bson.M{"updated_at": now}
	if s.Attempts+1 >= models.MaxCreatorLoginAttempts && !s.Locked(now) {
		set["locked_until"] = now.Add(models.CreatorLockDuration)
	}
	return bson.M{
		"$inc": bson.M{"login_attempts": 1},
		"$set": set,
	}
}

// SuccessUpdate clears the counter and lock and records the login time.
func SuccessUpdate(now time.Time) bson.M {
	return bson.M{
		"$set":   bson.M{"login_attempts": 0, "last_login": now, "updated_at": now},
		"$unset": bson.M{"locked_until": ""},
	}
}
