// handlers/respond.go
package handlers

import (
	"errors"

	"insan-mission-system/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody decodes the JSON body into req and runs its validate tags.
// Failures come back as validation errors so fail() answers 400.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &services.ValidationError{Field: "body", Reason: err.Error()}
	}
	if err := validate.Struct(req); err != nil {
		return &services.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// statusFor maps service errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrLockedCategory):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrIntentionNotConfirmed):
		return fiber.StatusPreconditionRequired
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, msg string, err error) error {
	body := fiber.Map{
		"error": msg,
		"cause": err.Error(),
	}
	var locked *services.LockedCategoryError
	if errors.As(err, &locked) {
		body["category"] = locked.Category
		body["required_level"] = locked.RequiredLevel
		body["user_level"] = locked.UserLevel
	}
	return c.Status(statusFor(err)).JSON(body)
}
