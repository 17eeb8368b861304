package viewer

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localsKey = "viewer"

var ErrNoViewer = errors.New("no viewer in context")

// Viewer is the identity a query runs on behalf of.
type Viewer struct {
	PersonID uuid.UUID
	Admin    bool
}

// GetPersonID extracts the person UUID from JWT claims in context.
func GetPersonID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

func Set(c *fiber.Ctx, v Viewer) {
	c.Locals(localsKey, v)
}

func Get(c *fiber.Ctx) (Viewer, error) {
	v, ok := c.Locals(localsKey).(Viewer)
	if !ok {
		return Viewer{}, ErrNoViewer
	}
	return v, nil
}
