package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	"marketnest/internal/repos"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type MiscHandler struct {
	Translate *services.TranslateService
	Listings  *repos.ListingRepo
	Bookings  *repos.BookingRepo
	Messages  *repos.MessageRepo
	Wishlist  *repos.WishlistRepo
}

// DoTranslate proxies a translation request; upstream failures answer 502.
func (h *MiscHandler) DoTranslate(c *fiber.Ctx) error {
	var req services.TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "q and target are required")
	}
	text, err := h.Translate.Translate(req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"translatedText": text})
}

// DashboardSummary aggregates the caller's key numbers in one response.
// Anonymous callers get all zeroes instead of a 401.
func (h *MiscHandler) DashboardSummary(c *fiber.Ctx) error {
	uid := viewerID(c)
	if uid == 0 {
		return c.JSON(fiber.Map{
			"listings_total":     0,
			"listings_active":    0,
			"bookings_pending":   0,
			"bookings_confirmed": 0,
			"revenue_confirmed":  0,
			"unread_messages":    0,
			"wishlist_count":     0,
		})
	}

	listings, err := h.Listings.Mine(uid)
	if err != nil {
		return fail(c, err)
	}
	active := 0
	for _, l := range listings {
		if l.Status == "active" {
			active++
		}
	}

	bookings, err := h.Bookings.ForHost(uid)
	if err != nil {
		return fail(c, err)
	}
	pending, confirmed := 0, 0
	var revenue float64
	for _, b := range bookings {
		switch b.Status {
		case domain.BookingPending:
			pending++
		case domain.BookingConfirmed:
			confirmed++
			revenue += b.TotalPrice
		}
	}

	unread, err := h.Messages.UnreadCount(uid)
	if err != nil {
		return fail(c, err)
	}
	wished, err := h.Wishlist.Count(uid)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"listings_total":     len(listings),
		"listings_active":    active,
		"bookings_pending":   pending,
		"bookings_confirmed": confirmed,
		"revenue_confirmed":  revenue,
		"unread_messages":    unread,
		"wishlist_count":     wished,
	})
}

func Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
