package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"evstations/backend/services/station-api/internal/http/middleware"
	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/service"
)

// AuthService is the account logic behind the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	SessionTTL() time.Duration
}

// AuthHandlers serves /api/auth.
type AuthHandlers struct {
	svc          AuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandlers returns handler struct. secureCookie marks the session
// cookie HTTPS-only.
func NewAuthHandlers(svc AuthService, secureCookie bool, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{svc: svc, secureCookie: secureCookie, logger: logger}
}

type publicUser struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userData struct {
	User publicUser `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	case errors.Is(err, service.ErrEmailInUse):
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	default:
		h.logger.Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSession(w, token)
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Data:    userData{User: publicUser{Name: user.Name, Email: user.Email}},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	default:
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	h.setSession(w, token)
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: fmt.Sprintf("Welcome back, %s!", user.Name),
		Data:    userData{User: publicUser{Name: user.Name, Email: user.Email}},
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		h.logger.Warn("token revocation failed", zap.Error(err))
	}
	http.SetCookie(w, h.cookie("", -1))
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    userData{User: publicUser{ID: user.ID, Name: user.Name, Email: user.Email}},
	})
}

func (h *AuthHandlers) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.cookie(token, int(h.svc.SessionTTL().Seconds())))
}

func (h *AuthHandlers) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
