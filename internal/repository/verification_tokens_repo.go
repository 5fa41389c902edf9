package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/signond/signond/internal/domain"
)

// VerificationTokensRepository handles verification token persistence.
type VerificationTokensRepository struct {
	db *sql.DB
}

// NewVerificationTokensRepository creates a new verification tokens repository.
func NewVerificationTokensRepository(db *sql.DB) *VerificationTokensRepository {
	return &VerificationTokensRepository{db: db}
}

// CreateTx inserts a new verification token within a transaction.
func (r *VerificationTokensRepository) CreateTx(ctx context.Context, q Querier, t *domain.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (id, account_id, token, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query, t.ID, t.AccountID, t.Token, t.CreatedAt)
	return err
}

// GetByTokenForUpdateTx retrieves a verification token by its opaque value,
// locking the row so concurrent redemptions serialize.
func (r *VerificationTokensRepository) GetByTokenForUpdateTx(ctx context.Context, q Querier, token string) (*domain.VerificationToken, error) {
	query := `
		SELECT id, account_id, token, created_at
		FROM verification_tokens
		WHERE token = $1
		FOR UPDATE
	`
	t := &domain.VerificationToken{}
	err := q.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.AccountID, &t.Token, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTx deletes a verification token within a transaction. Deletion is
// what enforces single use: a redeemed token is indistinguishable from an
// unknown one.
func (r *VerificationTokensRepository) DeleteTx(ctx context.Context, q Querier, id uuid.UUID) error {
	query := `DELETE FROM verification_tokens WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}
