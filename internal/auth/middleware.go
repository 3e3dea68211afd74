package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/taskstack/taskstack-be/internal/apperr"
	"github.com/taskstack/taskstack-be/internal/models"
)

// UserResolver looks up the token subject in the user store. Satisfied
// by services.UserService.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// userContextKey is the context key for the resolved identity.
type contextKey string

const userContextKey = contextKey("authUser")

// ContextWithUser attaches the resolved identity to a context.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the identity attached by the middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// Middleware creates a middleware for protecting routes. Every request
// is independently re-verified: token extraction, signature/expiry
// check, then exactly one subject lookup against the user store.
func Middleware(codec *TokenCodec, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the cookie
			if cookie, err := r.Cookie("token"); err == nil {
				tokenStr = cookie.Value
			}

			// 2. If not in the cookie, fall back to the Authorization header
			if tokenStr == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "You are not logged in, please provide token")
				return
			}

			// 3. Validate signature and expiry
			claims, err := codec.Verify(tokenStr)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// A malformed subject is treated the same as a bad signature.
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// 4. Verify the subject still exists in the user store
			user, err := users.GetUserByID(r.Context(), userID.String())
			if err != nil {
				if apperr.IsNotFound(err) {
					writeAuthError(w, http.StatusUnauthorized, "The user belonging to this token no longer exists")
					return
				}
				log.Error().Err(err).Str("user_id", userID.String()).Msg("Auth: failed to resolve token subject")
				writeAuthError(w, http.StatusInternalServerError, err.Error())
				return
			}

			// 5. Pass the resolved identity down via context
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// writeAuthError writes the standard fail envelope. The middleware
// cannot use the handlers package helpers without an import cycle.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	statusLabel := "fail"
	if status >= http.StatusInternalServerError {
		statusLabel = "error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  statusLabel,
		"message": message,
	})
}
