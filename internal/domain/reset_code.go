package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResetCode is a short-lived numeric one-time code proving control of the
// account's email for password recovery. Rows are never deleted; a code is
// retired once its window elapses or a newer code is issued for the account.
type ResetCode struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Code      string
	CreatedAt time.Time
}

// Expired reports whether the code's validity window has elapsed at now.
func (c *ResetCode) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(c.CreatedAt) > window
}
