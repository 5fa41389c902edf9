package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/signond/signond/internal/auth"
	"github.com/signond/signond/internal/domain"
	"github.com/signond/signond/internal/httputil"
)

// Handler handles registration and account verification endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new account handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Country   string `json:"country"`
	State     string `json:"state"`
	Town      string `json:"town"`
}

// VerifyAccountRequest represents a verify-and-set-password request.
type VerifyAccountRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Register handles account registration.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Username == "" || req.FirstName == "" || req.LastName == "" ||
		req.DOB == "" || req.Country == "" || req.State == "" || req.Town == "" {
		httputil.Error(w, http.StatusBadRequest, "all profile fields are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 20 {
		httputil.Error(w, http.StatusBadRequest, "username must be 3-20 characters")
		return
	}
	dob, err := time.Parse(time.DateOnly, req.DOB)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "dob must be in YYYY-MM-DD format")
		return
	}

	_, err = h.service.Register(r.Context(), auth.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       dob,
		Country:   req.Country,
		State:     req.State,
		Town:      req.Town,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			httputil.Error(w, http.StatusConflict, "email already registered")
		case errors.Is(err, domain.ErrUsernameTaken):
			httputil.Error(w, http.StatusConflict, "username already taken")
		default:
			h.logger.Error("registration failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	httputil.Message(w, http.StatusCreated, "Verification email sent")
}

// VerifyAccount redeems a verification token and sets the first password.
// POST /v1/auth/verify-account
func (h *Handler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req VerifyAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Token == "" {
		httputil.Error(w, http.StatusBadRequest, "token is required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		httputil.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	_, err := h.service.VerifyAndSetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound):
			httputil.Error(w, http.StatusNotFound, "invalid or expired token")
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		default:
			h.logger.Error("account verification failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "Account verified and password set")
}
