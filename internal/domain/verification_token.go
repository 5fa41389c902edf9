package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken is a single-use opaque credential proving control of the
// registration email. It is exchanged for setting the account's first
// password and deleted on redemption; it carries no expiry.
type VerificationToken struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Token     string
	CreatedAt time.Time
}
