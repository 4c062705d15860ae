package models

import (
	"database/sql/driver"
	"time"
)

// CompletedActions is the stored set of "{connectionId}-{action}" keys.
// Order carries no meaning; it is kept sorted for stable output.
type CompletedActions []string

func (c CompletedActions) Value() (driver.Value, error) {
	if c == nil {
		c = CompletedActions{}
	}
	return valueJSON([]string(c))
}

func (c *CompletedActions) Scan(src any) error {
	var out []string
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*c = out
	return nil
}

// UnlockAttempt tracks progress of visitors through a link's gate.
// Unlocked never goes back to false and UnlockedAt is written once.
type UnlockAttempt struct {
	ID               int64            `json:"id"`
	LinkID           int64            `json:"linkId"`
	CompletedActions CompletedActions `json:"completedActions"`
	Unlocked         bool             `json:"unlocked"`
	UnlockedAt       *time.Time       `json:"unlockedAt"`
	CreatedAt        time.Time        `json:"createdAt"`
}
