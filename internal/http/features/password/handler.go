package password

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/signond/signond/internal/auth"
	"github.com/signond/signond/internal/domain"
	"github.com/signond/signond/internal/httputil"
)

// Handler handles login and password recovery endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new password handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetRequestRequest represents a password reset request.
type ResetRequestRequest struct {
	Email string `json:"email"`
}

// ResetVerifyRequest represents an OTP verification request.
type ResetVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetConfirmRequest represents a password reset confirmation.
type ResetConfirmRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login confirms credentials. No session or token is issued.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if err := h.service.Login(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		case errors.Is(err, domain.ErrNotVerified):
			httputil.Error(w, http.StatusForbidden, "please verify your email first")
		case errors.Is(err, domain.ErrBadCredentials):
			httputil.Error(w, http.StatusForbidden, "incorrect password")
		default:
			h.logger.Error("login failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "Login successful")
}

// ResetRequest issues a fresh OTP and emails it.
// POST /v1/auth/password/reset-request
func (h *Handler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	var req ResetRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "email not found")
		default:
			h.logger.Error("reset request failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "reset request failed")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "OTP sent to your email")
}

// ResetVerify checks the presented OTP against the latest issued one.
// POST /v1/auth/password/reset-verify
func (h *Handler) ResetVerify(w http.ResponseWriter, r *http.Request) {
	var req ResetVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.OTP == "" {
		httputil.Error(w, http.StatusBadRequest, "email and otp are required")
		return
	}

	if err := h.service.VerifyResetCode(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		case errors.Is(err, domain.ErrNoResetCode):
			httputil.Error(w, http.StatusBadRequest, "no reset code issued")
		case errors.Is(err, domain.ErrInvalidResetCode):
			httputil.Error(w, http.StatusBadRequest, "invalid OTP")
		case errors.Is(err, domain.ErrResetCodeExpired):
			httputil.Error(w, http.StatusBadRequest, "OTP expired")
		default:
			h.logger.Error("otp verification failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "otp verification failed")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "OTP verified")
}

// ResetConfirm overwrites the account's password.
// POST /v1/auth/password/reset-confirm
func (h *Handler) ResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		httputil.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if err := h.service.ConfirmPasswordReset(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		default:
			h.logger.Error("password reset failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "password reset failed")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "Password reset successful")
}
