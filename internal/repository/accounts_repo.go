package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/signond/signond/internal/domain"
)

// AccountsRepository handles account persistence.
type AccountsRepository struct {
	db *sql.DB
}

// NewAccountsRepository creates a new accounts repository.
func NewAccountsRepository(db *sql.DB) *AccountsRepository {
	return &AccountsRepository{db: db}
}

const accountColumns = `
	id, email, username, first_name, last_name, dob, country, state, town,
	password_hash, verified, created_at, updated_at
`

func scanAccount(row *sql.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName, &a.DOB,
		&a.Country, &a.State, &a.Town, &a.PasswordHash, &a.Verified,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateTx inserts a new account within a transaction.
func (r *AccountsRepository) CreateTx(ctx context.Context, q Querier, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, username, first_name, last_name, dob,
		                      country, state, town, password_hash, verified,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := q.ExecContext(ctx, query,
		a.ID, a.Email, a.Username, a.FirstName, a.LastName, a.DOB,
		a.Country, a.State, a.Town, a.PasswordHash, a.Verified,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetByEmail retrieves an account by email.
func (r *AccountsRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves an account by username.
func (r *AccountsRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, username))
}

// GetByIDTx retrieves an account by ID within a transaction.
func (r *AccountsRepository) GetByIDTx(ctx context.Context, q Querier, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(q.QueryRowContext(ctx, query, id))
}

// ExistsByEmail checks if an account exists by email.
func (r *AccountsRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	return exists, err
}

// ExistsByUsername checks if an account exists by username.
func (r *AccountsRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	return exists, err
}

// SetPassword unconditionally overwrites the account's password hash.
func (r *AccountsRepository) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, hash, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SetPasswordAndVerifyTx sets the password hash and marks the account
// verified within a transaction.
func (r *AccountsRepository) SetPasswordAndVerifyTx(ctx context.Context, q Querier, id uuid.UUID, hash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, verified = true, updated_at = $3
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, id, hash, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
