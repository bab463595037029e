// handlers/intention_routes.go
package handlers

import (
	"insan-mission-system/middleware"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupIntentionRoutes maps the niat press-and-hold gesture: the client
// calls /arm on press and /release on lift.
func SetupIntentionRoutes(secured fiber.Router, svc *services.MissionService) {
	secured.Get("/intention", func(c *fiber.Ctx) error {
		st, err := svc.IntentionStatus(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to get intention", err)
		}
		return c.JSON(st)
	})

	secured.Post("/intention/arm", func(c *fiber.Ctx) error {
		st, err := svc.ArmIntention(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to arm intention", err)
		}
		return c.Status(fiber.StatusAccepted).JSON(st)
	})

	secured.Post("/intention/release", func(c *fiber.Ctx) error {
		st, err := svc.ReleaseIntention(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to release intention", err)
		}
		return c.JSON(st)
	})
}
