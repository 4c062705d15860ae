package models

import "time"

// Connection is a creator's own social account. Platform is always derived
// from URL, never taken from the client.
type Connection struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
