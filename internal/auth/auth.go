// Package auth issues and verifies the bearer tokens shared by the sales and
// inventory services. Both services are configured with the same symmetric
// signing settings; a token issued by either verifies on both.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

// Fixed demo credential pair, as in the original system.
const (
	demoUsername = "demo"
	demoPassword = "demo"
)

const tokenTTL = 6 * time.Hour

// Settings is the process-wide signing configuration. It is loaded once at
// startup and never mutated.
type Settings struct {
	Secret   string
	Issuer   string
	Audience string
}

type Authenticator struct {
	settings Settings
	now      func() time.Time
}

func New(settings Settings) *Authenticator {
	return &Authenticator{settings: settings, now: time.Now}
}

// Login checks the demo credential pair and returns a signed token on
// success.
func (a *Authenticator) Login(username, password string) (string, error) {
	if username != demoUsername || password != demoPassword {
		return "", ErrInvalidCredentials
	}
	return a.Issue(username)
}

// Issue signs a token for the given subject.
func (a *Authenticator) Issue(subject string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.settings.Issuer,
		Audience:  jwt.ClaimStrings{a.settings.Audience},
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.settings.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature, issuer, audience and expiry, returning the
// token subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return []byte(a.settings.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.settings.Issuer),
		jwt.WithAudience(a.settings.Audience),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}
