package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/validate"
)

type RoleHandler struct {
	Roles *repos.RoleRepo
}

func (h *RoleHandler) Get(c *fiber.Ctx) error {
	role, err := h.Roles.Get(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"role": role})
}

type roleBody struct {
	Role string `json:"role"`
}

// Set assigns the caller's role. Setting the same role again is a no-op and
// still answers 200. Users cannot grant themselves admin.
func (h *RoleHandler) Set(c *fiber.Ctx) error {
	var body roleBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	role, ok := validate.Role(body.Role)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "role must be guest or host")
	}
	if role == "admin" {
		current, err := h.Roles.Get(viewerID(c))
		if err != nil {
			return fail(c, err)
		}
		if current != "admin" {
			applog.Security(c, "role.escalation.denied", map[string]any{"user_id": viewerID(c)})
			return jsonError(c, fiber.StatusForbidden, "forbidden")
		}
	}
	out, err := h.Roles.Upsert(viewerID(c), role)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "role.set", map[string]any{"user_id": viewerID(c), "role": role})
	return c.JSON(out)
}
