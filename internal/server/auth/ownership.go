// Package auth issues and verifies session tokens and holds the ownership
// rule shared by every mutating operation.
package auth

import (
	"fmt"

	"github.com/dmitrijs2005/linkgate/internal/common"
)

// CheckOwnership allows the call only when userID owns the resource.
func CheckOwnership(userID, ownerID int64) error {
	if userID <= 0 {
		return common.ErrorUnauthorized
	}
	if userID != ownerID {
		return fmt.Errorf("user %d does not own the resource: %w", userID, common.ErrorForbidden)
	}
	return nil
}
