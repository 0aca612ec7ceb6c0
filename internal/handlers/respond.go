package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
)

// actorUUID pulls the acting user out of the JWT locals. Every service
// call takes this explicitly; there is no ambient current-user state.
func actorUUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Locals("userId")
	if raw == nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid user ID format")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid user ID")
	}
	return id, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// respondErr maps service errors onto the response envelope. Unknown
// errors are logged and masked as 500.
func respondErr(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
	}
	code := apperrors.StatusCode(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(code).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "message": err.Error()})
}

func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func respondCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}
