package models

import "time"

// Session is a server-side login session. The opaque ID travels inside a
// signed token; deleting the row revokes it.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
