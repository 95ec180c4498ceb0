// Package auth validates the HS256 service tokens that protect the
// admin endpoints. Tokens are issued out of band by the deployment
// tooling; this service only verifies them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid service token")
	ErrTokenExpired = errors.New("service token has expired")
)

// Claims carried by a service token.
type Claims struct {
	jwt.RegisteredClaims

	// Scope names the capability granted, e.g. "admin".
	Scope string `json:"scope"`
}

// TokenVerifier validates service tokens.
type TokenVerifier struct {
	signingKey []byte
	audience   string
}

// VerifierConfig holds configuration for the token verifier.
type VerifierConfig struct {
	// SigningKey is the shared HS256 secret.
	SigningKey string

	// Audience is the expected audience claim. Empty disables the check.
	Audience string
}

// NewTokenVerifier creates a service token verifier.
func NewTokenVerifier(cfg VerifierConfig) *TokenVerifier {
	return &TokenVerifier{
		signingKey: []byte(cfg.SigningKey),
		audience:   cfg.Audience,
	}
}

// Verify parses and validates a token string, returning its claims.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issue creates a signed token, used by tests and local tooling.
func (v *TokenVerifier) Issue(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.signingKey)
}
