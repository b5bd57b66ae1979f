package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned for any token that must be treated as absent.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is an ErrInvalidToken whose only defect is its age.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
	// ErrMissingSecret means the codec was built without a signing key.
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// Payload is the identity embedded in a session token.
type Payload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Payload returns the identity carried by the claims.
func (c *Claims) Payload() Payload {
	return Payload{ID: c.UserID, Username: c.Username, Email: c.Email}
}

// Token is a signed session token together with its metadata.
type Token struct {
	Value     string
	ID        string // jti, used for revocation
	ExpiresAt time.Time
}

// Codec signs and verifies HS256 session tokens with a fixed secret and lifetime.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a Codec. An empty secret yields a codec that refuses to
// sign and rejects every token.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Configured reports whether a signing secret is present.
func (c *Codec) Configured() bool {
	return len(c.secret) > 0
}

// TTL returns the lifetime given to new tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign creates a new token for the payload, expiring TTL from now.
func (c *Codec) Sign(p Payload) (Token, error) {
	if !c.Configured() {
		return Token{}, ErrMissingSecret
	}

	now := c.now()
	claims := &Claims{
		UserID:   p.ID,
		Username: p.Username,
		Email:    p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Token{Value: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify parses and validates a token string. Any failure, whether structural,
// signature or expiry, yields an error wrapping ErrInvalidToken and nil claims.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSecret)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}
	return claims, nil
}
