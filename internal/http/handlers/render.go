package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/services"
)

// All error responses share one envelope: {"error": "..."}.
func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps service errors onto HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return jsonError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrConflict):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalid):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBadCreds), errors.Is(err, services.ErrBadToken):
		return jsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserExists):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUpstream):
		return jsonError(c, fiber.StatusBadGateway, err.Error())
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
}
