package handlers

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/validate"
)

type AccountHandler struct {
	Users *repos.UserRepo
	Roles *repos.RoleRepo
}

func (h *AccountHandler) profilePayload(u *domain.User) (fiber.Map, error) {
	out := fiber.Map{"user": u}
	p, err := h.Users.Profile(u.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if p != nil {
		out["profile"] = p
	}
	role, err := h.Roles.Get(u.ID)
	if err != nil {
		return nil, err
	}
	out["role"] = role
	return out, nil
}

func (h *AccountHandler) Me(c *fiber.Ctx) error {
	payload, err := h.profilePayload(currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payload)
}

// GetUser returns another user's public profile.
func (h *AccountHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	u, err := h.Users.ByID(id)
	if err != nil {
		return fail(c, err)
	}
	payload, err := h.profilePayload(u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payload)
}

type updateAccountBody struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`

	LegalName   *string `json:"legal_name"`
	Phone       *string `json:"phone"`
	Bio         *string `json:"bio"`
	Avatar      *string `json:"avatar"`
	Location    *string `json:"location"`
	Language    *string `json:"language"`
	Currency    *string `json:"currency"`
	NotifyEmail *bool   `json:"notify_email"`
	NotifySMS   *bool   `json:"notify_sms"`
}

// UpdateMe merges the sent fields into the account and profile.
func (h *AccountHandler) UpdateMe(c *fiber.Ctx) error {
	u := currentUser(c)
	var body updateAccountBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if body.Email != nil {
		if _, ok := validate.Email(*body.Email); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid email")
		}
	}
	if body.Username != nil {
		if _, ok := validate.Username(*body.Username); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid username")
		}
	}

	if err := h.Users.UpdateAccount(u.ID, body.Username, body.Email); err != nil {
		return fail(c, err)
	}
	if err := h.Users.UpsertProfile(&domain.Profile{
		UserID:      u.ID,
		LegalName:   body.LegalName,
		Phone:       body.Phone,
		Bio:         body.Bio,
		Avatar:      body.Avatar,
		Location:    body.Location,
		Language:    body.Language,
		Currency:    body.Currency,
		NotifyEmail: body.NotifyEmail,
		NotifySMS:   body.NotifySMS,
	}); err != nil {
		return fail(c, err)
	}

	applog.Audit(c, "account.update", map[string]any{"user_id": u.ID})
	fresh, err := h.Users.ByID(u.ID)
	if err != nil {
		return fail(c, err)
	}
	payload, err := h.profilePayload(fresh)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payload)
}
