// Package auth issues and checks the credentials that identify a requester:
// HS256 JWT access tokens, bcrypt password hashes, and GitHub OAuth logins.
//
// The only thing a token carries is the internal user ID in the "sub" claim.
// Everything downstream (the ownership check in particular) compares that ID.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "snippets"

	// DefaultTokenTTL is how long an access token stays valid.
	DefaultTokenTTL = 24 * time.Hour
)

var ErrTokenExpired = errors.New("auth: token expired")

// TokenService signs and verifies access tokens with a shared HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService requires a secret of at least 16 characters.
// Generate one with: openssl rand -hex 32
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: DefaultTokenTTL}, nil
}

// TTL is the lifetime of tokens from Generate; handlers use it for cookie MaxAge.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate issues a token for userID with the default lifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration issues a token that expires after d. A negative d
// yields an already-expired token, which tests rely on.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm (HS256 only), issuer and expiry,
// and returns the user ID from the subject claim.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("auth: invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}

	return claims.Subject, nil
}
