package models

import (
	"database/sql/driver"
	"time"
)

// FilesTarget is stored as a link's target when the gated content is the set
// of files attached to the link instead of a URL.
const FilesTarget = "__FILES__"

// RequiredAction is one gating task: perform Action on the connection.
type RequiredAction struct {
	Platform     string `json:"platform"`
	Action       string `json:"action"`
	ConnectionID int64  `json:"connectionId"`
}

// RequiredActions is stored as a JSONB array and keeps its order.
type RequiredActions []RequiredAction

func (a RequiredActions) Value() (driver.Value, error) {
	if a == nil {
		a = RequiredActions{}
	}
	return valueJSON([]RequiredAction(a))
}

func (a *RequiredActions) Scan(src any) error {
	var out []RequiredAction
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	*a = out
	return nil
}

type LockedLink struct {
	ID                  int64           `json:"id"`
	UserID              int64           `json:"userId"`
	TargetURL           string          `json:"targetUrl"`
	UnlockCode          string          `json:"unlockCode"`
	RequiredActions     RequiredActions `json:"requiredActions"`
	ExpiresAt           *time.Time      `json:"expiresAt"`
	CustomUnlockMessage *string         `json:"customUnlockMessage"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// HasFiles reports whether the link gates attached files.
func (l *LockedLink) HasFiles() bool {
	return l.TargetURL == FilesTarget
}

// LinkCreate is the input for creating a locked link.
type LinkCreate struct {
	TargetURL           string           `json:"targetUrl" binding:"required"`
	UnlockCode          string           `json:"unlockCode" binding:"required"`
	RequiredActions     []RequiredAction `json:"requiredActions" binding:"required"`
	ExpiresAt           *time.Time       `json:"expiresAt,omitempty"`
	CustomUnlockMessage *string          `json:"customUnlockMessage,omitempty"`
}

// ResolvedAction is a required action joined with the live connection URL.
type ResolvedAction struct {
	RequiredAction
	URL string `json:"url"`
}

// ResolvedLink is what visitors of an unlock page receive.
type ResolvedLink struct {
	ID                  int64            `json:"id"`
	TargetURL           string           `json:"targetUrl"`
	UnlockCode          string           `json:"unlockCode"`
	RequiredActions     []ResolvedAction `json:"requiredActions"`
	ExpiresAt           *time.Time       `json:"expiresAt"`
	CustomUnlockMessage *string          `json:"customUnlockMessage"`
	CreatedAt           time.Time        `json:"createdAt"`
	Creator             *Creator         `json:"creator"`
}
