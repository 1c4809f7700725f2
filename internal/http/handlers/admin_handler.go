package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/repos"
)

type AdminHandler struct {
	Users   *repos.UserRepo
	Reports *repos.ReportRepo
}

func (h *AdminHandler) ListHosts(c *fiber.Ctx) error {
	out, err := h.Users.Hosts()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	out, err := h.Reports.List(c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeleteUser removes a user and all their data in one transaction.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if id == viewerID(c) {
		return jsonError(c, fiber.StatusBadRequest, "cannot delete your own account here")
	}
	if _, err := h.Users.ByID(id); err != nil {
		return fail(c, err)
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.user.delete", map[string]any{"target_user_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
