package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth rejects requests without a valid session and stores the user in the
// request context.
func Auth(authn Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, no token found")
				return
			}

			user, err := authn.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrUnknownUser):
				writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
				return
			default:
				if !errors.Is(err, service.ErrInvalidToken) && !errors.Is(err, service.ErrTokenRevoked) {
					logger.Error("session lookup failed", zap.Error(err))
				}
				writeMessage(w, http.StatusUnauthorized, "Not authorized, invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from request context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
