// handlers/session_routes.go
package handlers

import (
	"insan-mission-system/middleware"
	"insan-mission-system/models"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type startSessionReq struct {
	ID       string `json:"id" validate:"omitempty,max=64"`
	Name     string `json:"name" validate:"required,max=120"`
	Username string `json:"username" validate:"omitempty,max=64"`
	Gender   string `json:"gender" validate:"required,oneof=ikhwan akhwat"`
	Role     string `json:"role" validate:"omitempty,max=32"`
	TotalXP  int64  `json:"total_xp" validate:"min=0"`
}

func SetupSessionRoutes(app *fiber.App, secured fiber.Router, svc *services.MissionService) {
	// 🔓 Login / register. The gateway has already authenticated the caller
	// and is trusted to set id and role; nothing here checks them.
	app.Post("/login", func(c *fiber.Ctx) error {
		var req startSessionReq
		if err := parseBody(c, &req); err != nil {
			return fail(c, "invalid session request", err)
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		user, err := svc.StartSession(services.NewUserInput{
			ID:       req.ID,
			Name:     req.Name,
			Username: req.Username,
			Gender:   models.Gender(req.Gender),
			Role:     models.Role(req.Role),
			TotalXP:  req.TotalXP,
		})
		if err != nil {
			return fail(c, "failed to start session", err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":     user,
			"progress": svc.ComputeProgress(user.TotalXP, user.Level),
		})
	})

	secured.Delete("/session", func(c *fiber.Ctx) error {
		if err := svc.EndSession(middleware.UserID(c)); err != nil {
			return fail(c, "failed to end session", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	secured.Put("/session/exempt", func(c *fiber.Ctx) error {
		type Req struct {
			On *bool `json:"on" validate:"required"`
		}
		var req Req
		if err := parseBody(c, &req); err != nil {
			return fail(c, "invalid exempt request", err)
		}
		if err := svc.SetExemptMode(middleware.UserID(c), *req.On); err != nil {
			return fail(c, "failed to set exempt mode", err)
		}
		return c.JSON(fiber.Map{"exempt": *req.On})
	})
}
