package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "vastusite-admin"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrWeakSecret     = errors.New("session secret too short")
)

const MinSecretLen = 32

type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionCodec signs and verifies admin session tokens. Tokens are HS256 JWTs;
// the payload is readable but any modification breaks the signature.
type SessionCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSessionCodec(secret string) (*SessionCodec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return &SessionCodec{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
	clone := *c
	clone.now = now
	return &clone
}

func (c *SessionCodec) Sign(principal string, expiresAt time.Time) (string, error) {
	if strings.TrimSpace(principal) == "" {
		return "", fmt.Errorf("sign session: empty principal")
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(c.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Verify returns the principal embedded in token. Every failure, including an
// expiry at or before the current time, yields ErrInvalidSession.
func (c *SessionCodec) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidSession
	}

	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
