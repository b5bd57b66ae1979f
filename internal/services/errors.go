package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is the parent of every credential failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound means no account is registered under the email.
	ErrUserNotFound = fmt.Errorf("%w: user does not exist", ErrInvalidCredentials)
	// ErrInvalidPassword means the password did not match the stored hash.
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrInvalidCredentials)

	// ErrServerMisconfigured is returned by Login when no signing secret is set.
	ErrServerMisconfigured = errors.New("server misconfigured: token secret is not set")

	ErrMissingFields   = errors.New("required fields are missing")
	ErrUserExists      = errors.New("user already exists")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)
