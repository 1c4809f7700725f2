package handlers

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/repos"
	"marketnest/internal/validate"
)

type CartHandler struct {
	Cart     *repos.CartRepo
	Listings *repos.ListingRepo
}

func (h *CartHandler) List(c *fiber.Ctx) error {
	out, err := h.Cart.List(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *CartHandler) Count(c *fiber.Ctx) error {
	n, err := h.Cart.Count(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

type cartAddBody struct {
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body cartAddBody
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
	qty := body.Quantity
	if qty < 1 {
		qty = 1
	}
	if err := h.Cart.Add(viewerID(c), id, qty); err != nil {
		return fail(c, err)
	}
	return h.listWithStatus(c, fiber.StatusCreated)
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil || body.Quantity < 1 {
		return jsonError(c, fiber.StatusBadRequest, "quantity must be at least 1")
	}
	qty := validate.Qty(strconv.Itoa(body.Quantity))
	updated, err := h.Cart.SetQuantity(viewerID(c), id, qty)
	if err != nil {
		return fail(c, err)
	}
	if !updated {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	return h.listWithStatus(c, fiber.StatusOK)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	removed, err := h.Cart.Remove(viewerID(c), id)
	if err != nil {
		return fail(c, err)
	}
	if !removed {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	return h.listWithStatus(c, fiber.StatusOK)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(viewerID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *CartHandler) listWithStatus(c *fiber.Ctx, status int) error {
	out, err := h.Cart.List(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(status).JSON(out)
}
