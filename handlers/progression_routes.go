// handlers/progression_routes.go
package handlers

import (
	"strconv"

	"insan-mission-system/middleware"
	"insan-mission-system/models"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, secured fiber.Router, svc *services.MissionService) {
	// 🔓 Level curve calculator. level is optional and defaults to the
	// level derived from xp.
	app.Get("/level", func(c *fiber.Ctx) error {
		xp, err := strconv.ParseInt(c.Query("xp", "0"), 10, 64)
		if err != nil {
			return fail(c, "invalid xp", &services.ValidationError{Field: "xp", Reason: err.Error()})
		}
		level := svc.ComputeLevel(xp)
		if raw := c.Query("level"); raw != "" {
			if level, err = strconv.Atoi(raw); err != nil {
				return fail(c, "invalid level", &services.ValidationError{Field: "level", Reason: err.Error()})
			}
		}
		return c.JSON(fiber.Map{
			"xp":       xp,
			"level":    level,
			"progress": svc.ComputeProgress(xp, level),
		})
	})

	secured.Get("/me", func(c *fiber.Ctx) error {
		user, err := svc.User(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to get user", err)
		}
		return c.JSON(fiber.Map{
			"user":     user,
			"progress": svc.ComputeProgress(user.TotalXP, user.Level),
		})
	})

	secured.Get("/dashboard", func(c *fiber.Ctx) error {
		d, err := svc.Dashboard(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to build dashboard", err)
		}
		return c.JSON(d)
	})

	secured.Get("/xp/events", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		events, err := svc.RecentEvents(c.UserContext(), middleware.UserID(c), limit)
		if err != nil {
			return fail(c, "failed to get xp events", err)
		}
		return c.JSON(events)
	})

	secured.Get("/categories/:category/unlocked", func(c *fiber.Ctx) error {
		user, err := svc.User(middleware.UserID(c))
		if err != nil {
			return fail(c, "failed to get user", err)
		}
		category := models.Category(c.Params("category"))
		if !category.Valid() {
			return fail(c, "invalid category", &services.ValidationError{Field: "category", Reason: "unknown category " + string(category)})
		}
		return c.JSON(fiber.Map{
			"category":  category,
			"unlocked":  svc.IsCategoryUnlocked(category, user.Level),
			"min_level": svc.RoleUnlocks()[category],
			"level":     user.Level,
		})
	})
}
