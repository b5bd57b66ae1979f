package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/salonx-be/internal/auth"
	"github.com/isdelr/salonx-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Client-visible messages.
const (
	msgInvalidBody        = "Invalid request body"
	msgUserNotFound       = "User does not exist"
	msgInvalidPassword    = "Invalid password"
	msgInvalidCredentials = "Invalid credentials"
	msgServerConfig       = "Server configuration error"
	msgLoginFailed        = "An error occurred during login"
	msgSignupFailed       = "An error occurred during signup"
	msgLogoutFailed       = "An error occurred during logout"
)

// UserHandler handles HTTP requests for customer authentication.
type UserHandler struct {
	service       services.UserServiceProvider
	cookies       auth.CookieOptions
	uniformErrors bool
}

// NewUserHandler creates a new UserHandler. With uniformErrors set, unknown
// emails and wrong passwords produce the same message.
func NewUserHandler(service services.UserServiceProvider, cookies auth.CookieOptions, uniformErrors bool) *UserHandler {
	return &UserHandler{service: service, cookies: cookies, uniformErrors: uniformErrors}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for signup requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles new customer registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.service.Signup(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Username, email and password are required")
		case errors.Is(err, services.ErrUserExists):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, services.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, "Password must be at most 72 bytes")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			writeError(w, http.StatusInternalServerError, msgSignupFailed)
		}
		return
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"success": true,
		"user":    user,
	})
}

// Login handles credential verification and sets the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Login handler panicked")
			writeError(w, http.StatusInternalServerError, msgLoginFailed)
		}
	}()

	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, token, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, services.ErrUserNotFound):
			log.Warn().Str("email", payload.Email).Msg("Login for unknown email")
			writeError(w, http.StatusBadRequest, h.credentialMessage(msgUserNotFound))
		case errors.Is(err, services.ErrInvalidPassword):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeError(w, http.StatusBadRequest, h.credentialMessage(msgInvalidPassword))
		case errors.Is(err, services.ErrServerMisconfigured):
			log.Error().Err(err).Msg("TOKEN_SECRET is not configured")
			writeError(w, http.StatusInternalServerError, msgServerConfig)
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
			writeError(w, http.StatusInternalServerError, msgLoginFailed)
		}
		return
	}

	auth.SetTokenCookie(w, token, h.cookies)

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"success": true,
	})
}

func (h *UserHandler) credentialMessage(specific string) string {
	if h.uniformErrors {
		return msgInvalidCredentials
	}
	return specific
}

// Logout revokes the current token and clears the cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, msgLogoutFailed)
		return
	}

	auth.ClearTokenCookie(w, h.cookies)

	if err := h.service.Logout(r.Context(), claims); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to revoke token")
		writeError(w, http.StatusInternalServerError, msgLogoutFailed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
		"success": true,
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Warn().Str("user_id", claims.UserID).Msg("User from token not found in DB")
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
