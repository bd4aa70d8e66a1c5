// Package relay carries requests to the keyword MCP server through an
// authenticating reverse proxy. The proxy mints a short-lived HS256 token per
// request; the Verifier middleware in front of the MCP server checks it.
package relay

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer   = "internal-auth-service"
	Audience = "mcp-internal-api"
	Subject  = "proxy-client"

	// TokenTTL is how long a minted token stays valid.
	TokenTTL = 300 * time.Second
)

// ErrEmptySecret is returned when signing or verifying with no key.
var ErrEmptySecret = errors.New("relay: empty secret")

// Signer mints bearer tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a Signer for the shared secret.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), now: time.Now}, nil
}

// Token returns a fresh signed token.
func (s *Signer) Token() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{Audience},
		Subject:   Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate parses token and checks its signature, issuer, audience and
// expiry.
func Validate(secret, token string) (*jwt.RegisteredClaims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
