package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type BookingHandler struct {
	Bookings *services.BookingService
}

type createBookingBody struct {
	ListingID string `json:"listing_id" validate:"required,uuid4"`
	CheckIn   string `json:"check_in" validate:"required"`
	CheckOut  string `json:"check_out" validate:"required"`
	Guests    int    `json:"guests"`
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var body createBookingBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "listing_id, check_in and check_out are required")
	}
	if _, ok := validate.Date(body.CheckIn); !ok {
		return jsonError(c, fiber.StatusBadRequest, "check_in must be YYYY-MM-DD")
	}
	if _, ok := validate.Date(body.CheckOut); !ok {
		return jsonError(c, fiber.StatusBadRequest, "check_out must be YYYY-MM-DD")
	}

	b, err := h.Bookings.Create(viewerID(c), body.ListingID, body.CheckIn, body.CheckOut, body.Guests)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "booking.create", map[string]any{"booking_id": b.ID, "status": b.Status})
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BookingHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Bookings.ForGuest(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *BookingHandler) Host(c *fiber.Ctx) error {
	out, err := h.Bookings.ForHost(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *BookingHandler) HostToday(c *fiber.Ctx) error {
	out, err := h.Bookings.HostToday(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *BookingHandler) HostUpcoming(c *fiber.Ctx) error {
	out, err := h.Bookings.HostUpcoming(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *BookingHandler) Approve(c *fiber.Ctx) error { return h.decide(c, true) }
func (h *BookingHandler) Decline(c *fiber.Ctx) error { return h.decide(c, false) }

func (h *BookingHandler) decide(c *fiber.Ctx, approve bool) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	// Declines may carry an optional reason for the guest.
	var body struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&body)
	}
	b, err := h.Bookings.Decide(id, viewerID(c), approve, body.Reason)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "booking.decide", map[string]any{"booking_id": id, "status": b.Status})
	return c.JSON(b)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	b, err := h.Bookings.Cancel(id, viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "booking.cancel", map[string]any{"booking_id": id})
	return c.JSON(b)
}
