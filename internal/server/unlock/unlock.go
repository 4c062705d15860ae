// Package unlock holds the rules that decide when a visitor has completed
// every action a locked link requires.
package unlock

import (
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

// Key identifies one completed action, "{connectionId}-{action}".
func Key(connectionID int64, action string) string {
	return strconv.FormatInt(connectionID, 10) + "-" + action
}

// ActionSet is an order-insensitive set of action keys.
type ActionSet map[string]struct{}

func NewActionSet(keys ...string) ActionSet {
	s := make(ActionSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// RequiredSet builds the set of keys a link demands.
func RequiredSet(actions []models.RequiredAction) ActionSet {
	s := make(ActionSet, len(actions))
	for _, a := range actions {
		s[Key(a.ConnectionID, a.Action)] = struct{}{}
	}
	return s
}

func (s ActionSet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Merge returns the union of s and other. Neither input is modified.
func (s ActionSet) Merge(other ActionSet) ActionSet {
	out := make(ActionSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the keys in lexical order.
func (s ActionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsUnlocked reports whether required is non-empty and fully covered by completed.
func IsUnlocked(required, completed ActionSet) bool {
	if len(required) == 0 {
		return false
	}
	for k := range required {
		if !completed.Has(k) {
			return false
		}
	}
	return true
}

// Progress counts the distinct required keys present in completed.
func Progress(required, completed ActionSet) int {
	n := 0
	for k := range required {
		if completed.Has(k) {
			n++
		}
	}
	return n
}

// Apply merges incoming into the attempt and flips it to unlocked when the
// requirements become satisfied. It reports whether this call did the flip.
// An unlocked attempt stays unlocked and keeps its original UnlockedAt.
func Apply(a *models.UnlockAttempt, required []models.RequiredAction, incoming []string, now time.Time) bool {
	completed := NewActionSet(a.CompletedActions...).Merge(NewActionSet(incoming...))
	a.CompletedActions = completed.Sorted()

	if a.Unlocked {
		return false
	}
	if !IsUnlocked(RequiredSet(required), completed) {
		return false
	}
	a.Unlocked = true
	if a.UnlockedAt == nil {
		t := now
		a.UnlockedAt = &t
	}
	return true
}
