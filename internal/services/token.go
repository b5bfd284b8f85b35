package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pustakahub/pustaka-backend/internal/identity"
	"github.com/pustakahub/pustaka-backend/internal/models"
)

// ErrTokenInvalid covers signature mismatch, malformed structure, and expiry.
// A rejected token never yields partial claims.
var ErrTokenInvalid = errors.New("invalid or expired token")

// TokenIssuer signs and validates stateless session tokens. The signing
// secret is injected at construction and never mutated afterwards; no record
// of issued tokens is kept.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints an HS256 token whose payload carries id, email, name and role,
// expiring ttl from now.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID.String(),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"exp":   time.Now().Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates the signature and expiry of a bearer token and returns
// the embedded identity.
func (t *TokenIssuer) Verify(tokenString string) (*identity.Identity, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	ident, err := identity.FromClaims(claims)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return ident, nil
}

// Secret exposes the signing key for the JWT middleware. Read-only use.
func (t *TokenIssuer) Secret() []byte {
	return t.secret
}
