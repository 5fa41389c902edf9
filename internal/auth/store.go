package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/signond/signond/internal/domain"
)

// Store is the credential store the workflow engine runs against.
// Implementations are responsible for uniqueness enforcement and for the
// atomicity of RedeemVerificationToken.
type Store interface {
	// CreateAccount inserts an unverified account, failing with
	// domain.ErrEmailTaken or domain.ErrUsernameTaken on conflict.
	CreateAccount(ctx context.Context, a *domain.Account) error

	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	AccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// IssueVerificationToken persists a fresh token bound to the account.
	IssueVerificationToken(ctx context.Context, accountID uuid.UUID, token string) (*domain.VerificationToken, error)

	// RedeemVerificationToken atomically locates the token and its owner,
	// sets the password hash, marks the account verified, and deletes the
	// token. Unknown token: domain.ErrTokenNotFound. Orphaned token:
	// domain.ErrAccountNotFound.
	RedeemVerificationToken(ctx context.Context, token, passwordHash string) (*domain.Account, error)

	// IssueResetCode persists a new code; older codes stay in place and are
	// superseded only by the latest-wins read rule.
	IssueResetCode(ctx context.Context, accountID uuid.UUID, code string) (*domain.ResetCode, error)

	// LatestResetCode returns the most recently issued code for the account,
	// or domain.ErrNoResetCode.
	LatestResetCode(ctx context.Context, accountID uuid.UUID) (*domain.ResetCode, error)

	// SetPassword unconditionally overwrites the account's password hash.
	SetPassword(ctx context.Context, accountID uuid.UUID, passwordHash string) error
}
