package middleware

import (
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const sessionTokenHeader = "X-Session-Token"

// Session extracts the anonymous session token from the X-Session-Token
// header and stores it in context locals. The token is an opaque value
// minted by the client; we only require a sane shape.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Get(sessionTokenHeader)
		if tok == "" {
			return c.Next()
		}
		if !validSessionToken(tok) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Invalid " + sessionTokenHeader,
			})
		}
		c.Locals("session_token", tok)
		return c.Next()
	}
}

func validSessionToken(tok string) bool {
	if len(tok) < 16 || len(tok) > 64 {
		return false
	}
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
