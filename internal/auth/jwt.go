// Package auth issues and checks the bearer tokens that bind a client to a
// run.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "gambitrogue"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongGame    = errors.New("token does not belong to this game")
)

// RunClaims are the claims of a run token.
type RunClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 run tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer. An empty secret generates a random one, which
// invalidates tokens across restarts.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for gameID.
func (i *Issuer) Issue(gameID string) (string, error) {
	now := i.now()
	claims := RunClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   gameID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and checks signature, algorithm, issuer and expiry.
func (i *Issuer) Verify(raw string) (*RunClaims, error) {
	claims := &RunClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.GameID == "" {
		return nil, fmt.Errorf("%w: no game id", ErrInvalidToken)
	}
	return claims, nil
}

// Authorize checks that the request carries a valid token for gameID.
func (i *Issuer) Authorize(r *http.Request, gameID string) (*RunClaims, error) {
	raw := BearerToken(r)
	if raw == "" {
		return nil, ErrMissingToken
	}
	claims, err := i.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.GameID != gameID {
		return nil, ErrWrongGame
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
