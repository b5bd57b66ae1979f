package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/salonx-be/internal/auth"
	"github.com/isdelr/salonx-be/internal/database"
	"github.com/isdelr/salonx-be/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for the authentication service.
type UserServiceProvider interface {
	Signup(ctx context.Context, username, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, auth.Token, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService registers customers, verifies their credentials and issues
// session tokens.
type UserService struct {
	db       *sql.DB
	tokens   *auth.Codec
	revoker  auth.Revoker
	events   EventServiceProvider
	hashCost int
}

// NewUserService creates a new UserService. The codec carries the signing
// secret; a codec without one makes Login fail with ErrServerMisconfigured.
func NewUserService(db *sql.DB, tokens *auth.Codec, revoker auth.Revoker, events EventServiceProvider) *UserService {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &UserService{
		db:       db,
		tokens:   tokens,
		revoker:  revoker,
		events:   events,
		hashCost: bcrypt.DefaultCost,
	}
}

// normalizeEmail makes the login key case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// Signup creates a new user, hashing their password.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, ErrMissingFields
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = ? OR username = ?)", email, username).Scan(&exists)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return models.User{}, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, ErrPasswordTooLong
		}
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		// A concurrent signup for the same email can slip past the pre-check.
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	s.record(ctx, models.EventSignup, "info", "Account created", &user.ID, user.Email)

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Login verifies a user's credentials and issues a signed session token.
// The signing secret is checked only after the credentials are known to be
// valid.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, auth.Token, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, auth.Token{}, ErrMissingFields
	}

	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.record(ctx, models.EventLoginFail, "warn", "Login for unknown email", nil, email)
		}
		return models.User{}, auth.Token{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.record(ctx, models.EventLoginFail, "warn", "Invalid password", &user.ID, user.Email)
			return models.User{}, auth.Token{}, ErrInvalidPassword
		}
		return models.User{}, auth.Token{}, fmt.Errorf("failed to compare password: %w", err)
	}

	if !s.tokens.Configured() {
		return models.User{}, auth.Token{}, ErrServerMisconfigured
	}

	token, err := s.tokens.Sign(auth.Payload{ID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return models.User{}, auth.Token{}, err
	}

	s.record(ctx, models.EventLoginSuccess, "info", "Login successful", &user.ID, user.Email)

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, token, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.record(ctx, models.EventLogout, "info", "Logged out", &claims.UserID, claims.Email)
	return nil
}

// record writes to the event journal. Failures are logged, never returned.
func (s *UserService) record(ctx context.Context, eventType, level, message string, userID *string, email string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, eventType, level, message, userID, email); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record auth event")
	}
}
