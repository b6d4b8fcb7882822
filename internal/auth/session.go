// Package auth issues and validates the stateless session tokens that gate
// mutating routes. A token is an HS256 JWT carrying the account id and a
// validity window, so verifying it needs no database round trip.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/questionhub/qa-server-go/internal/model"
)

// ErrInvalidToken is returned for malformed, tampered, premature or expired tokens.
var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	AccountID int64 `json:"account_id"`
	jwt.RegisteredClaims
}

type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret []byte, ttl time.Duration) *SessionCodec {
	return &SessionCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
	return &SessionCodec{secret: c.secret, ttl: c.ttl, now: now}
}

// Issue signs a token for accountID valid from now until now+ttl.
func (c *SessionCodec) Issue(accountID int64) (string, error) {
	now := c.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and the validity window of tokenString.
func (c *SessionCodec) Parse(tokenString string) (*model.Session, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.NotBefore == nil || claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing time claims", ErrInvalidToken)
	}

	session := &model.Session{
		AccountID: claims.AccountID,
		IssuedAt:  claims.IssuedAt.Time,
		NotBefore: claims.NotBefore.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if !session.ValidAt(c.now()) {
		return nil, fmt.Errorf("%w: outside validity window", ErrInvalidToken)
	}

	return session, nil
}
