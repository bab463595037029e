// handlers/routes.go
package handlers

import (
	"insan-mission-system/middleware"
	"insan-mission-system/models"
	"insan-mission-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupRoutes mounts every route group. Public routes live at the root,
// routes needing a caller identity under /s, admin routes under /s/admin.
func SetupRoutes(app *fiber.App, svc *services.MissionService, log *zap.Logger) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"active_sessions": svc.ActiveSessions(),
		})
	})

	// 🔐 Secured routes: require X-User-ID
	secured := app.Group("/s", middleware.UserContextMiddleware(log))

	SetupSessionRoutes(app, secured, svc)
	SetupProgressionRoutes(app, secured, svc)
	SetupMissionRoutes(secured, svc)
	SetupIntentionRoutes(secured, svc)
	SetupPlanRoutes(secured, svc)

	admin := secured.Group("/admin", middleware.RequireRole(roleOf(svc), log, models.RoleAdmin))
	SetupAdminRoutes(admin, svc)
}

func roleOf(svc *services.MissionService) middleware.RoleLookup {
	return func(userID string) (models.Role, error) {
		u, err := svc.User(userID)
		if err != nil {
			return "", err
		}
		return u.Role, nil
	}
}
