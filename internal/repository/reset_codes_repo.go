package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/signond/signond/internal/domain"
)

// ResetCodesRepository handles reset code persistence. Codes are append-only:
// issuing a new code never deletes older ones, and validity is decided by the
// latest-row read below.
type ResetCodesRepository struct {
	db *sql.DB
}

// NewResetCodesRepository creates a new reset codes repository.
func NewResetCodesRepository(db *sql.DB) *ResetCodesRepository {
	return &ResetCodesRepository{db: db}
}

// Create inserts a new reset code.
func (r *ResetCodesRepository) Create(ctx context.Context, c *domain.ResetCode) error {
	query := `
		INSERT INTO reset_codes (id, account_id, code, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.AccountID, c.Code, c.CreatedAt)
	return err
}

// LatestByAccount retrieves the most recently issued code for an account.
// Older codes are never considered, even if their value would match.
func (r *ResetCodesRepository) LatestByAccount(ctx context.Context, accountID uuid.UUID) (*domain.ResetCode, error) {
	query := `
		SELECT id, account_id, code, created_at
		FROM reset_codes
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	c := &domain.ResetCode{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&c.ID, &c.AccountID, &c.Code, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoResetCode
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
