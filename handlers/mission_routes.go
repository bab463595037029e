// handlers/mission_routes.go
package handlers

import (
	"insan-mission-system/middleware"
	"insan-mission-system/models"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

type personalMissionReq struct {
	Title    string `json:"title" validate:"required,max=200"`
	Category string `json:"category" validate:"required"`
}

func SetupMissionRoutes(secured fiber.Router, svc *services.MissionService) {
	// ?grouped=true returns category groups instead of a flat list
	secured.Get("/missions/today", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		if c.QueryBool("grouped") {
			groups, err := svc.TodayGroups(userID)
			if err != nil {
				return fail(c, "failed to resolve missions", err)
			}
			return c.JSON(groups)
		}
		missions, err := svc.ResolveTodayMissions(userID)
		if err != nil {
			return fail(c, "failed to resolve missions", err)
		}
		return c.JSON(missions)
	})

	secured.Post("/missions/:id/complete", func(c *fiber.Ctx) error {
		res, err := svc.CompleteMission(c.UserContext(), middleware.UserID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to complete mission", err)
		}
		return c.JSON(res)
	})

	secured.Post("/missions/:id/uncomplete", func(c *fiber.Ctx) error {
		res, err := svc.UncompleteMission(c.UserContext(), middleware.UserID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to uncomplete mission", err)
		}
		return c.JSON(res)
	})

	secured.Post("/missions/:id/toggle", func(c *fiber.Ctx) error {
		res, err := svc.ToggleMission(c.UserContext(), middleware.UserID(c), c.Params("id"))
		if err != nil {
			return fail(c, "failed to toggle mission", err)
		}
		return c.JSON(res)
	})

	secured.Post("/missions/personal", func(c *fiber.Ctx) error {
		var req personalMissionReq
		if err := parseBody(c, &req); err != nil {
			return fail(c, "invalid mission", err)
		}
		def, err := svc.AddPersonalMission(req.Title, models.Category(req.Category), middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to add mission", err)
		}
		return c.Status(fiber.StatusCreated).JSON(def)
	})
}
