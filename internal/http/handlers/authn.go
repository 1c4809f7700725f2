package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/services"
)

// sessionCookie carries the token for browser clients; the Authorization
// header wins when both are present.
const sessionCookie = "session"

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	if h == "" {
		return c.Cookies(sessionCookie)
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireUser authenticates the bearer token and stores the user in Locals.
// Every failure mode answers 401 so callers cannot probe token validity.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := auth.Authenticate(bearerToken(c))
		if err != nil {
			applog.Security(c, "auth.denied", map[string]any{"path": c.Path()})
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// OptionalUser resolves the bearer token when present but lets anonymous
// requests through.
func OptionalUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearerToken(c); tok != "" {
			if u, err := auth.Authenticate(tok); err == nil {
				c.Locals("user", u)
				c.Locals("userID", u.ID)
			}
		}
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService, roles *repos.RoleRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := auth.Authenticate(bearerToken(c))
		if err != nil {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		role, err := roles.Get(u.ID)
		if err != nil || role != "admin" {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return jsonError(c, fiber.StatusForbidden, "forbidden")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// viewerID returns the authenticated user id, or 0 for anonymous requests.
func viewerID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("userID").(int64)
	return id
}
