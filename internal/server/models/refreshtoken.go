// Package models holds server-side records that are not part of the member
// wire format.
package models

import "time"

type RefreshToken struct {
	ID        string
	MemberID  string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
