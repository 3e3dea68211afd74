package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/services"
	"github.com/taskstack/taskstack-be/internal/validate"
)

// UserHandler handles HTTP requests for registration, login and the
// authenticated profile.
type UserHandler struct {
	service      services.UserServiceProvider
	codec        *auth.TokenCodec
	cookieMaxAge int
	secureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, codec *auth.TokenCodec, cookieMaxAge int, secureCookie bool) *UserHandler {
	return &UserHandler{
		service:      service,
		codec:        codec,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// Register handles new user registration. On success the bearer token
// cookie is set and the created user is echoed without its password.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var entry validate.RegisterEntry
	if err := validate.Body(r, &entry); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), entry.Username, entry.Email, entry.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", entry.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	token, err := h.codec.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, err)
		return
	}

	h.setTokenCookie(w, token, h.cookieMaxAge)
	respondData(w, http.StatusCreated, envelope{"user": user.Filtered()})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var entry validate.LoginEntry
	if err := validate.Body(r, &entry); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), entry.Email, entry.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", entry.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.codec.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, err)
		return
	}

	h.setTokenCookie(w, token, h.cookieMaxAge)
	respondData(w, http.StatusOK, envelope{"user": user.Filtered()})
}

// Logout clears the token cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// GetMe returns the identity resolved by the auth middleware.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from request context")
		writeJSON(w, http.StatusInternalServerError, envelope{
			"status":  "error",
			"message": "Could not retrieve user from token",
		})
		return
	}

	respondData(w, http.StatusOK, envelope{"user": user.Filtered()})
}

func (h *UserHandler) setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
