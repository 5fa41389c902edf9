package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/signond/signond/internal/domain"
)

// fakeStore is an in-memory Store for exercising the workflow state machine
// without a database.
type fakeStore struct {
	accounts map[uuid.UUID]*domain.Account
	tokens   map[string]*domain.VerificationToken
	codes    []*domain.ResetCode
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[uuid.UUID]*domain.Account),
		tokens:   make(map[string]*domain.VerificationToken),
	}
}

func (f *fakeStore) CreateAccount(_ context.Context, a *domain.Account) error {
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return domain.ErrEmailTaken
		}
	}
	for _, existing := range f.accounts {
		if existing.Username == a.Username {
			return domain.ErrUsernameTaken
		}
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeStore) AccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) AccountByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) IssueVerificationToken(_ context.Context, accountID uuid.UUID, token string) (*domain.VerificationToken, error) {
	t := &domain.VerificationToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	f.tokens[token] = t
	return t, nil
}

func (f *fakeStore) RedeemVerificationToken(_ context.Context, token, passwordHash string) (*domain.Account, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	a, ok := f.accounts[t.AccountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.PasswordHash = &passwordHash
	a.Verified = true
	delete(f.tokens, token)
	return a, nil
}

func (f *fakeStore) IssueResetCode(_ context.Context, accountID uuid.UUID, code string) (*domain.ResetCode, error) {
	c := &domain.ResetCode{
		ID:        uuid.New(),
		AccountID: accountID,
		Code:      code,
		CreatedAt: time.Now(),
	}
	f.codes = append(f.codes, c)
	return c, nil
}

func (f *fakeStore) LatestResetCode(_ context.Context, accountID uuid.UUID) (*domain.ResetCode, error) {
	var latest *domain.ResetCode
	for _, c := range f.codes {
		if c.AccountID != accountID {
			continue
		}
		if latest == nil || !c.CreatedAt.Before(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrNoResetCode
	}
	return latest, nil
}

func (f *fakeStore) SetPassword(_ context.Context, accountID uuid.UUID, passwordHash string) error {
	a, ok := f.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = &passwordHash
	return nil
}

// fakeNotifier captures issued secrets.
type fakeNotifier struct {
	tokens map[string]string // email -> token
	codes  map[string]string // email -> last code
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		tokens: make(map[string]string),
		codes:  make(map[string]string),
	}
}

func (n *fakeNotifier) VerificationIssued(email, token string) { n.tokens[email] = token }
func (n *fakeNotifier) ResetCodeIssued(email, code string)     { n.codes[email] = code }

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeNotifier) {
	t.Helper()
	store := newFakeStore()
	notifier := newFakeNotifier()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(Config{OTPLength: 6, OTPWindow: 5 * time.Minute}, store, notifier, logger)
	return svc, store, notifier
}

func aliceParams() RegisterParams {
	return RegisterParams{
		Email:     "a@x.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Archer",
		DOB:       time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Country:   "US",
		State:     "CA",
		Town:      "Oakland",
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	dup := aliceParams()
	dup.Username = "alice2"
	if _, err := svc.Register(ctx, dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("Register with taken email = %v, want ErrEmailTaken", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	dup := aliceParams()
	dup.Email = "other@x.com"
	if _, err := svc.Register(ctx, dup); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("Register with taken username = %v, want ErrUsernameTaken", err)
	}
}

func TestRegister_CreatesUnverifiedAccountAndNotifies(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, aliceParams())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if account.Verified {
		t.Error("new account should not be verified")
	}
	if account.HasPassword() {
		t.Error("new account should not have a password hash")
	}

	token := notifier.tokens["a@x.com"]
	if token == "" {
		t.Fatal("no verification token was sent")
	}
	if _, ok := store.tokens[token]; !ok {
		t.Error("sent token was not persisted")
	}
}

func TestLogin_NeverSucceedsUnverified(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Give the unverified account a correct password through the reset
	// flow's unconditional overwrite; the verified gate must still win.
	if err := svc.ConfirmPasswordReset(ctx, "a@x.com", "pw123456"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}

	if err := svc.Login(ctx, "a@x.com", "pw123456"); !errors.Is(err, domain.ErrNotVerified) {
		t.Errorf("Login on unverified account = %v, want ErrNotVerified", err)
	}
}

func TestVerifyAndSetPassword_SingleUse(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := notifier.tokens["a@x.com"]

	account, err := svc.VerifyAndSetPassword(ctx, token, "pw123456")
	if err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}
	if !account.Verified {
		t.Error("account should be verified after redemption")
	}

	if _, err := svc.VerifyAndSetPassword(ctx, token, "hijacked-pw"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Errorf("second redemption = %v, want ErrTokenNotFound", err)
	}

	// State from the first redemption persists unchanged.
	if err := svc.Login(ctx, "a@x.com", "pw123456"); err != nil {
		t.Errorf("Login with first-redemption password failed: %v", err)
	}
	if err := svc.Login(ctx, "a@x.com", "hijacked-pw"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("Login with second-attempt password = %v, want ErrBadCredentials", err)
	}
}

func TestVerifyAndSetPassword_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.VerifyAndSetPassword(context.Background(), "no-such-token", "pw123456")
	if !errors.Is(err, domain.ErrTokenNotFound) {
		t.Errorf("VerifyAndSetPassword = %v, want ErrTokenNotFound", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Login(context.Background(), "ghost@x.com", "whatever1")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Login = %v, want ErrAccountNotFound", err)
	}
}

func TestResetCode_LatestWinsAndExpiry(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := notifier.tokens["a@x.com"]
	if _, err := svc.VerifyAndSetPassword(ctx, token, "pw123456"); err != nil {
		t.Fatalf("VerifyAndSetPassword failed: %v", err)
	}

	if err := svc.VerifyResetCode(ctx, "a@x.com", "000000"); !errors.Is(err, domain.ErrNoResetCode) {
		t.Errorf("VerifyResetCode before any request = %v, want ErrNoResetCode", err)
	}

	if err := svc.RequestPasswordReset(ctx, "a@x.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	first := notifier.codes["a@x.com"]

	// Round trip: issuing then immediately verifying succeeds.
	if err := svc.VerifyResetCode(ctx, "a@x.com", first); err != nil {
		t.Errorf("VerifyResetCode with fresh code = %v, want nil", err)
	}

	// Push the second request's timestamp past the first so the latest-wins
	// rule is unambiguous even at coarse clock resolution.
	store.codes[0].CreatedAt = store.codes[0].CreatedAt.Add(-time.Second)

	if err := svc.RequestPasswordReset(ctx, "a@x.com"); err != nil {
		t.Fatalf("second RequestPasswordReset failed: %v", err)
	}
	second := notifier.codes["a@x.com"]

	if len(store.codes) != 2 {
		t.Fatalf("expected 2 stored codes, got %d", len(store.codes))
	}

	// Only the most recent code is eligible, even if the older value matches.
	if first != second {
		if err := svc.VerifyResetCode(ctx, "a@x.com", first); !errors.Is(err, domain.ErrInvalidResetCode) {
			t.Errorf("VerifyResetCode with superseded code = %v, want ErrInvalidResetCode", err)
		}
	}
	if err := svc.VerifyResetCode(ctx, "a@x.com", second); err != nil {
		t.Errorf("VerifyResetCode with latest code = %v, want nil", err)
	}

	// Just inside the window the code is still valid.
	store.codes[1].CreatedAt = time.Now().Add(-5*time.Minute + time.Second)
	if err := svc.VerifyResetCode(ctx, "a@x.com", second); err != nil {
		t.Errorf("VerifyResetCode inside window = %v, want nil", err)
	}

	// One second past the window it expires.
	store.codes[1].CreatedAt = time.Now().Add(-5*time.Minute - time.Second)
	if err := svc.VerifyResetCode(ctx, "a@x.com", second); !errors.Is(err, domain.ErrResetCodeExpired) {
		t.Errorf("VerifyResetCode past window = %v, want ErrResetCodeExpired", err)
	}
}

func TestVerifyResetCode_ValueMismatch(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, "a@x.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	wrong := "999999"
	if notifier.codes["a@x.com"] == wrong {
		wrong = "000000"
	}
	if err := svc.VerifyResetCode(ctx, "a@x.com", wrong); !errors.Is(err, domain.ErrInvalidResetCode) {
		t.Errorf("VerifyResetCode with wrong value = %v, want ErrInvalidResetCode", err)
	}
}

func TestConfirmPasswordReset_RotatesPassword(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.VerifyAndSetPassword(ctx, notifier.tokens["a@x.com"], "old-pass-1"); err != nil {
		t.Fatalf("VerifyAndSetPassword failed: %v", err)
	}

	if err := svc.ConfirmPasswordReset(ctx, "a@x.com", "new-pass-2"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}

	if err := svc.Login(ctx, "a@x.com", "new-pass-2"); err != nil {
		t.Errorf("Login with new password = %v, want nil", err)
	}
	if err := svc.Login(ctx, "a@x.com", "old-pass-1"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("Login with old password = %v, want ErrBadCredentials", err)
	}
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.RequestPasswordReset(context.Background(), "ghost@x.com")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("RequestPasswordReset = %v, want ErrAccountNotFound", err)
	}
}

func TestEndToEnd_RegisterVerifyLogin(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceParams()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.Login(ctx, "a@x.com", "pw123456"); !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("Login before verification = %v, want ErrNotVerified", err)
	}

	if _, err := svc.VerifyAndSetPassword(ctx, notifier.tokens["a@x.com"], "pw123456"); err != nil {
		t.Fatalf("VerifyAndSetPassword failed: %v", err)
	}

	if err := svc.Login(ctx, "a@x.com", "pw123456"); err != nil {
		t.Errorf("Login after verification = %v, want nil", err)
	}
	if err := svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("Login with wrong password = %v, want ErrBadCredentials", err)
	}
}
