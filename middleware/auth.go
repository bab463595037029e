// middleware/auth.go
package middleware

import (
	"strings"

	"insan-mission-system/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserIDKey is the fiber.Locals key holding the caller's user id.
const UserIDKey = "user_id"

// UserContextMiddleware extracts the caller identity forwarded by the
// gateway in X-User-ID. Routes behind it always have a non-empty user id.
func UserContextMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			log.Debug("❌ [USER_CTX] X-User-ID missing on secured route", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id stored by UserContextMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// RoleLookup resolves the role of a live session user.
type RoleLookup func(userID string) (models.Role, error)

// RequireRole only lets users holding one of roles through. The role comes
// from the session, never from a request header.
func RequireRole(lookup RoleLookup, log *zap.Logger, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		role, err := lookup(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "no active session",
				"cause": err.Error(),
			})
		}
		if _, ok := allowed[role]; !ok {
			log.Info("🚫 [ROLE] forbidden",
				zap.String("user_id", userID),
				zap.String("role", string(role)),
				zap.String("path", c.Path()))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return c.Next()
	}
}
