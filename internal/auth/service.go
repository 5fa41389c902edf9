package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/signond/signond/internal/domain"
)

// Config holds workflow engine settings.
type Config struct {
	OTPLength int
	OTPWindow time.Duration
}

// Service is the credential workflow engine. It drives an account through
// registration, verification, login, and password recovery against the
// store, using the notifier for outbound messages.
type Service struct {
	config   Config
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a new workflow service.
func NewService(config Config, store Store, notifier Notifier, logger *slog.Logger) *Service {
	if config.OTPLength == 0 {
		config.OTPLength = 6
	}
	if config.OTPWindow == 0 {
		config.OTPWindow = 5 * time.Minute
	}
	return &Service{
		config:   config,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterParams carries the profile fields for a new account.
type RegisterParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	DOB       time.Time
	Country   string
	State     string
	Town      string
}

// Register creates an unverified account without a password, issues a
// verification token, and requests the verification email. Registration
// succeeds regardless of whether the email can be delivered.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*domain.Account, error) {
	now := time.Now()
	account := &domain.Account{
		ID:        uuid.New(),
		Email:     p.Email,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		DOB:       p.DOB,
		Country:   p.Country,
		State:     p.State,
		Town:      p.Town,
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	token, err := s.store.IssueVerificationToken(ctx, account.ID, GenerateVerificationToken())
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	s.notifier.VerificationIssued(account.Email, token.Token)

	s.logger.Info("account registered", "account_id", account.ID)
	return account, nil
}

// VerifyAndSetPassword redeems a verification token, setting the account's
// first password and marking it verified. The token is single-use:
// re-presenting it fails with domain.ErrTokenNotFound exactly like an
// unknown token.
func (s *Service) VerifyAndSetPassword(ctx context.Context, token, password string) (*domain.Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.store.RedeemVerificationToken(ctx, token, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account verified", "account_id", account.ID)
	return account, nil
}

// Login confirms credentials. It has no side effect beyond the result: no
// session or token is minted. The verified gate is checked before any
// password comparison, so an unverified account never learns whether a
// password would have matched.
func (s *Service) Login(ctx context.Context, email, password string) error {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !account.Verified {
		return domain.ErrNotVerified
	}

	if !account.HasPassword() || !VerifyPassword(password, *account.PasswordHash) {
		return domain.ErrBadCredentials
	}
	return nil
}

// RequestPasswordReset issues a fresh reset code and requests its delivery.
// Prior unconsumed codes are left in place; they are superseded by the
// latest-wins read rule, not by deletion.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	otp, err := GenerateOTP(s.config.OTPLength)
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	code, err := s.store.IssueResetCode(ctx, account.ID, otp)
	if err != nil {
		return err
	}

	s.notifier.ResetCodeIssued(account.Email, code.Code)

	s.logger.Info("reset code issued", "account_id", account.ID)
	return nil
}

// VerifyResetCode checks a presented code against the account's most recent
// one. Only the latest code is ever eligible: older codes fail with
// domain.ErrInvalidResetCode even when their value matches. The check is
// read-only and does not consume the code.
func (s *Service) VerifyResetCode(ctx context.Context, email, code string) error {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	latest, err := s.store.LatestResetCode(ctx, account.ID)
	if err != nil {
		return err
	}

	if !otpEqual(latest.Code, code) {
		return domain.ErrInvalidResetCode
	}
	if latest.Expired(time.Now(), s.config.OTPWindow) {
		return domain.ErrResetCodeExpired
	}
	return nil
}

// ConfirmPasswordReset overwrites the account's password hash. It performs
// no reset-code check of its own; VerifyResetCode is advisory and does not
// gate this step.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, password string) error {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.SetPassword(ctx, account.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset", "account_id", account.ID)
	return nil
}
