package actor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
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

// FromCtx resolves the request's actor: the JWT identity when present,
// otherwise the anonymous session token set by the session middleware.
func FromCtx(c *fiber.Ctx) (Actor, error) {
	if userID, err := GetUserID(c); err == nil {
		return Identified(userID), nil
	}
	if tok, ok := c.Locals("session_token").(string); ok && tok != "" {
		return Anonymous(tok), nil
	}
	return Actor{}, ErrNoActor
}
