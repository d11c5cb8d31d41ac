// Package identity resolves the authenticated user on whose behalf remote
// writes are made.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession indicates there is no usable authenticated session.
var ErrNoSession = errors.New("no authenticated session")

// Provider supplies the current authenticated user id.
type Provider interface {
	UserID(ctx context.Context) (string, error)
}

// Static is a fixed-identity provider for tests and single-user tooling.
type Static struct {
	ID string
}

// UserID returns the configured id, or ErrNoSession when empty.
func (s Static) UserID(context.Context) (string, error) {
	if s.ID == "" {
		return "", ErrNoSession
	}
	return s.ID, nil
}

// TokenProvider reads the user id from the session's access token (a JWT
// issued by the hosted auth service). The token is parsed without signature
// verification: the remote store verifies it on every request, this side
// only needs the subject claim for membership rows.
type TokenProvider struct {
	// Token returns the current raw access token, or "" when signed out.
	Token func() string

	now func() time.Time
}

// NewTokenProvider builds a provider over a token source.
func NewTokenProvider(token func() string) *TokenProvider {
	return &TokenProvider{Token: token, now: time.Now}
}

// UserID extracts the subject claim from the session token. Missing, expired,
// malformed, and subject-less tokens all yield ErrNoSession.
func (p *TokenProvider) UserID(context.Context) (string, error) {
	raw := ""
	if p.Token != nil {
		raw = p.Token()
	}
	if raw == "" {
		return "", ErrNoSession
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(p.now()) {
		return "", fmt.Errorf("%w: token expired", ErrNoSession)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrNoSession)
	}
	return claims.Subject, nil
}
