package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/signond/signond/internal/domain"
)

// Store is the Postgres-backed credential store. It satisfies auth.Store.
type Store struct {
	db       *sql.DB
	accounts *AccountsRepository
	tokens   *VerificationTokensRepository
	codes    *ResetCodesRepository
}

// NewStore creates a store over the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		accounts: NewAccountsRepository(db),
		tokens:   NewVerificationTokensRepository(db),
		codes:    NewResetCodesRepository(db),
	}
}

// Named unique constraints from the accounts migration.
const (
	constraintAccountsEmail    = "accounts_email_key"
	constraintAccountsUsername = "accounts_username_key"
)

const uniqueViolation = "23505"

// mapUniqueViolation translates a Postgres unique-constraint error into the
// matching domain conflict, so duplicate registrations fail cleanly even
// when two inserts race past the existence checks.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case constraintAccountsEmail:
			return domain.ErrEmailTaken
		case constraintAccountsUsername:
			return domain.ErrUsernameTaken
		}
	}
	return err
}

// CreateAccount inserts the account, failing with ErrEmailTaken or
// ErrUsernameTaken if either identity is already present.
func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	exists, err := s.accounts.ExistsByEmail(ctx, a.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return domain.ErrEmailTaken
	}

	exists, err = s.accounts.ExistsByUsername(ctx, a.Username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return domain.ErrUsernameTaken
	}

	if err := s.accounts.CreateTx(ctx, s.db, a); err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// AccountByEmail retrieves an account by email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.accounts.GetByEmail(ctx, email)
}

// AccountByUsername retrieves an account by username.
func (s *Store) AccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}

// IssueVerificationToken persists a fresh token bound to the account. A
// colliding token value surfaces as the insert error.
func (s *Store) IssueVerificationToken(ctx context.Context, accountID uuid.UUID, token string) (*domain.VerificationToken, error) {
	t := &domain.VerificationToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	if err := s.tokens.CreateTx(ctx, s.db, t); err != nil {
		return nil, fmt.Errorf("failed to create verification token: %w", err)
	}
	return t, nil
}

// RedeemVerificationToken atomically locates the token and its owning
// account, sets the password hash, marks the account verified, and deletes
// the token. Either all effects commit or none do.
func (s *Store) RedeemVerificationToken(ctx context.Context, token, passwordHash string) (*domain.Account, error) {
	var account *domain.Account
	err := Tx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := s.tokens.GetByTokenForUpdateTx(ctx, tx, token)
		if err != nil {
			return err
		}

		account, err = s.accounts.GetByIDTx(ctx, tx, t.AccountID)
		if err != nil {
			return err
		}

		if err := s.accounts.SetPasswordAndVerifyTx(ctx, tx, account.ID, passwordHash); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		if err := s.tokens.DeleteTx(ctx, tx, t.ID); err != nil {
			return fmt.Errorf("failed to delete token: %w", err)
		}

		account.PasswordHash = &passwordHash
		account.Verified = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// IssueResetCode persists a new reset code without touching older ones.
func (s *Store) IssueResetCode(ctx context.Context, accountID uuid.UUID, code string) (*domain.ResetCode, error) {
	c := &domain.ResetCode{
		ID:        uuid.New(),
		AccountID: accountID,
		Code:      code,
		CreatedAt: time.Now(),
	}
	if err := s.codes.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create reset code: %w", err)
	}
	return c, nil
}

// LatestResetCode returns the most recently issued code for the account.
func (s *Store) LatestResetCode(ctx context.Context, accountID uuid.UUID) (*domain.ResetCode, error) {
	return s.codes.LatestByAccount(ctx, accountID)
}

// SetPassword unconditionally overwrites the account's password hash.
func (s *Store) SetPassword(ctx context.Context, accountID uuid.UUID, passwordHash string) error {
	return s.accounts.SetPassword(ctx, accountID, passwordHash)
}
