// handlers/admin_routes.go
package handlers

import (
	"insan-mission-system/models"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

type systemMissionReq struct {
	ID           string `json:"id" validate:"omitempty,max=64"`
	Title        string `json:"title" validate:"required,max=200"`
	Category     string `json:"category" validate:"required"`
	XP           int64  `json:"xp" validate:"min=0"`
	GenderTarget string `json:"gender_target" validate:"omitempty,oneof=ikhwan akhwat"`
}

func SetupAdminRoutes(admin fiber.Router, svc *services.MissionService) {
	admin.Get("/missions", func(c *fiber.Ctx) error {
		return c.JSON(svc.ListMissions())
	})

	admin.Post("/missions", func(c *fiber.Ctx) error {
		var req systemMissionReq
		if err := parseBody(c, &req); err != nil {
			return fail(c, "invalid mission", err)
		}
		def := models.MissionDefinition{
			ID:       req.ID,
			Title:    req.Title,
			Category: models.Category(req.Category),
			XP:       req.XP,
		}
		if req.GenderTarget != "" {
			g := models.Gender(req.GenderTarget)
			def.GenderTarget = &g
		}
		created, err := svc.AddSystemMission(def)
		if err != nil {
			return fail(c, "failed to add mission", err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	admin.Patch("/missions/:id", func(c *fiber.Ctx) error {
		var patch models.MissionPatch
		if err := parseBody(c, &patch); err != nil {
			return fail(c, "invalid patch", err)
		}
		updated, err := svc.UpdateMission(c.Params("id"), patch)
		if err != nil {
			return fail(c, "failed to update mission", err)
		}
		return c.JSON(updated)
	})

	admin.Delete("/missions/:id", func(c *fiber.Ctx) error {
		svc.RemoveMission(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Get("/role-unlocks", func(c *fiber.Ctx) error {
		return c.JSON(svc.RoleUnlocks())
	})

	admin.Put("/role-unlocks/:category", func(c *fiber.Ctx) error {
		type Req struct {
			MinLevel *int `json:"min_level" validate:"required"`
		}
		var req Req
		if err := parseBody(c, &req); err != nil {
			return fail(c, "invalid role unlock", err)
		}
		category := models.Category(c.Params("category"))
		if err := svc.SetCategoryMinLevel(category, *req.MinLevel); err != nil {
			return fail(c, "failed to update role unlock", err)
		}
		return c.JSON(svc.RoleUnlocks())
	})
}
