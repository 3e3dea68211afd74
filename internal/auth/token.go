package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskstack/taskstack-be/internal/apperr"
)

// Claims defines the JWT claims structure: subject, issued-at, expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed bearer tokens. The secret and
// TTL come from configuration; there is no refresh or rotation.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec for the given signing secret and token
// lifetime.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue creates a token for the subject using the wall clock.
func (c *TokenCodec) Issue(subject string) (string, error) {
	return c.IssueAt(subject, time.Now())
}

// IssueAt creates a token with issued-at = now and expiry = now + TTL.
func (c *TokenCodec) IssueAt(subject string, now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperr.Upstream("failed to sign token", err)
	}
	return signed, nil
}

// Verify parses and validates a token string against the wall clock.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	return c.VerifyAt(tokenStr, time.Now())
}

// VerifyAt validates a token at the given instant. Bad signatures,
// malformed payloads and expired tokens all collapse to the same
// authentication failure.
func (c *TokenCodec) VerifyAt(tokenStr string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return nil, apperr.Unauthenticated("Invalid token")
	}
	return claims, nil
}
