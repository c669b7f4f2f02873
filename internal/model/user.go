// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// Identity comes from Google Sign-In, so the natural external key is the
// email address carried in the verified ID token. We still generate our
// own internal string ID (xid) rather than keying everything off the
// email, so file ownership never depends on a third party's identifier.
//
// The UNIQUE constraint on email in the DB guarantees at most one account
// per address, even when two first logins for the same address race.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`   // unique lookup key, matched exactly
	Name      string    `json:"name"`    // display name from the ID token
	Picture   string    `json:"picture"` // profile picture URL (may be empty)
	CreatedAt time.Time `json:"createdAt"`
}
