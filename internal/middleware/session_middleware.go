package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TokenResolver maps a session token back to the candidate it was issued for.
type TokenResolver interface {
	Resolve(token string) (uuid.UUID, error)
}

const candidateIDKey = "session_candidate_id"

// CandidateSession resolves the X-Session-Token header and stores the bound
// candidate id on the request context. Requests without a valid token get 401.
func CandidateSession(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Session-Token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "message": "session token required",
			})
		}
		id, err := resolver.Resolve(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "message": "invalid session token",
			})
		}
		c.Locals(candidateIDKey, id)
		return c.Next()
	}
}

// SessionCandidateID returns the candidate id the request's token proves
// identity for, or uuid.Nil when the middleware did not run.
func SessionCandidateID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(candidateIDKey).(uuid.UUID)
	return id
}
