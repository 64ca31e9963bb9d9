package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/bptrack/bptrack-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, malformed payloads and expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity embedded in a bearer token. The fields are copied
// from the user record at login time and are not re-read afterwards, so they
// can go stale if the user record changes during the token's lifetime.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// IssueToken signs a token for the given user, valid for validity from now.
func IssueToken(user *models.User, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Email: user.Email,
		Name:  user.Name,
	})

	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry and returns the embedded
// claims verbatim. Any failure collapses into ErrInvalidToken so callers
// cannot distinguish why verification failed.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
