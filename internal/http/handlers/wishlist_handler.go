package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/repos"
	"marketnest/internal/validate"
)

type WishlistHandler struct {
	Wishlist *repos.WishlistRepo
	Listings *repos.ListingRepo
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	out, err := h.Wishlist.List(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *WishlistHandler) Count(c *fiber.Ctx) error {
	n, err := h.Wishlist.Count(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// Check reports whether a listing is already saved.
func (h *WishlistHandler) Check(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	exists, err := h.Wishlist.Exists(viewerID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"in_wishlist": exists})
}

type wishlistBody struct {
	ListingID string `json:"listing_id" validate:"required,uuid4"`
}

// Add saves a listing; adding the same listing twice answers 409.
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	var body wishlistBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	id, ok := validate.UUID(body.ListingID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "listing_id is required")
	}
	if _, err := h.Listings.Get(id); errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	} else if err != nil {
		return fail(c, err)
	}

	exists, err := h.Wishlist.Exists(viewerID(c), id)
	if err != nil {
		return fail(c, err)
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "already in wishlist")
	}
	item, err := h.Wishlist.Add(viewerID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	removed, err := h.Wishlist.Remove(viewerID(c), id)
	if err != nil {
		return fail(c, err)
	}
	if !removed {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	return c.JSON(fiber.Map{"ok": true})
}
