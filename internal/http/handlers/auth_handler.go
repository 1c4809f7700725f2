package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

type registerBody struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body registerBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "username, email and password (min 8 chars) are required")
	}

	u, token, err := h.Auth.Register(body.Username, body.Email, body.Password)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"email": body.Email})
		return fail(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "token": token})
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	u, token, err := h.Auth.Login(body.Email, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": body.Email})
		return fail(c, err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	setSessionCookie(c, token)
	return c.JSON(fiber.Map{"user": u, "token": token})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := bearerToken(c); tok != "" {
		_ = h.Auth.Logout(tok)
	}
	clearSessionCookie(c)
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}
