// Package jwt issues and checks the bearer tokens CMS operators present.
// Tokens are HS256, issued by cmd/server -issue-token.
package jwt

import (
	"errors"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "cms-core"
	leeway = 30 * time.Second
)

// devSecret only signs tokens until SetSecret runs. app.New refuses to start
// outside development without a configured secret.
const devSecret = "cms-core-dev-secret"

var (
	ErrNoSubject = errors.New("token has no user id")

	mu     sync.RWMutex
	secret = []byte(devSecret)

	parser = jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(leeway),
	)
)

// SetSecret replaces the signing key. An empty s is ignored.
func SetSecret(s string) {
	if s == "" {
		return
	}
	mu.Lock()
	secret = []byte(s)
	mu.Unlock()
}

func key() []byte {
	mu.RLock()
	defer mu.RUnlock()
	return secret
}

// Claims carries the operator's user id and, optionally, the author record
// their saves are attributed to.
type Claims struct {
	UserID   string `json:"uid"`
	AuthorID string `json:"aid,omitempty"`
	jwtlib.RegisteredClaims
}

// Sign issues a token for userID valid for ttl.
func Sign(userID, authorID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", ErrNoSubject
	}
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		AuthorID: authorID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(key())
}

// Parse verifies raw and returns its claims.
func Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwtlib.Token) (interface{}, error) {
		return key(), nil
	}); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}
