package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered identity. Email and username are unique
// and immutable after creation. PasswordHash stays nil until the account
// completes email verification and sets its first password.
type Account struct {
	ID           uuid.UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	DOB          time.Time
	Country      string
	State        string
	Town         string
	PasswordHash *string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account has ever set a password.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
