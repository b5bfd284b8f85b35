// Package identity carries the authenticated caller derived from verified
// session-token claims.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoToken       = errors.New("no verified token in request context")
	ErrInvalidClaims = errors.New("malformed claims in verified token")
)

// Identity is the attribute set embedded in a session token.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  string
}

// FromClaims builds an Identity from verified JWT claims. It fails if the id
// claim is missing or not a UUID; the remaining attributes default to empty
// strings when absent.
func FromClaims(claims jwt.MapClaims) (*Identity, error) {
	sub, ok := claims["id"].(string)
	if !ok {
		return nil, ErrInvalidClaims
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	ident := &Identity{ID: id}
	ident.Email, _ = claims["email"].(string)
	ident.Name, _ = claims["name"].(string)
	ident.Role, _ = claims["role"].(string)
	return ident, nil
}

// FromContext extracts the Identity placed in Fiber locals by the JWT
// middleware. It never re-verifies the signature; that already happened
// before the request reached this point.
func FromContext(c *fiber.Ctx) (*Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return FromClaims(claims)
}
