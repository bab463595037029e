// handlers/plan_routes.go
package handlers

import (
	"insan-mission-system/middleware"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlanRoutes(secured fiber.Router, svc *services.MissionService) {
	secured.Get("/plan", func(c *fiber.Ctx) error {
		view, err := svc.Plan(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to load plan", err)
		}
		return c.JSON(view)
	})

	secured.Get("/plan/candidates", func(c *fiber.Ctx) error {
		candidates, err := svc.ResolvePlanCandidates(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to resolve candidates", err)
		}
		return c.JSON(candidates)
	})

	secured.Post("/plan/:id/toggle", func(c *fiber.Ctx) error {
		st, err := svc.TogglePlan(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to toggle plan", err)
		}
		return c.JSON(st)
	})

	// Without a body, or with selection omitted, the working selection
	// built through /toggle is saved.
	secured.Put("/plan", func(c *fiber.Ctx) error {
		type Req struct {
			Selection []string `json:"selection" validate:"omitempty,dive,required"`
		}
		var req Req
		if len(c.Body()) > 0 {
			if err := parseBody(c, &req); err != nil {
				return fail(c, "invalid plan", err)
			}
		}
		st, err := svc.SavePlan(middleware.UserID(c), req.Selection)
		if err != nil {
			return fail(c, "failed to save plan", err)
		}
		return c.JSON(st)
	})
}
