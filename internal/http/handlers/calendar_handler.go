package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/validate"
)

type CalendarHandler struct {
	Calendar *repos.CalendarRepo
	Listings *repos.ListingRepo
}

// owned resolves the listing and checks the caller owns it.
func (h *CalendarHandler) owned(c *fiber.Ctx) (*domain.Listing, error) {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return nil, jsonError(c, fiber.StatusNotFound, "not found")
	}
	l, err := h.Listings.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, fail(c, err)
	}
	if l.UserID != viewerID(c) {
		return nil, jsonError(c, fiber.StatusForbidden, "forbidden")
	}
	return l, nil
}

func (h *CalendarHandler) GetDays(c *fiber.Ctx) error {
	l, errResp := h.owned(c)
	if l == nil {
		return errResp
	}
	from := c.Query("from")
	to := c.Query("to")
	if _, ok := validate.Date(from); !ok {
		from = time.Now().Format("2006-01-02")
	}
	if _, ok := validate.Date(to); !ok {
		to = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	}
	out, err := h.Calendar.Range(l.ID, from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

type calendarDayBody struct {
	Date        string  `json:"date" validate:"required"`
	Price       float64 `json:"price"`
	IsAvailable *bool   `json:"is_available"`
}

type upsertDaysBody struct {
	Days []calendarDayBody `json:"days" validate:"required,min=1,dive"`
}

// UpsertDays writes day-level price and availability overrides.
func (h *CalendarHandler) UpsertDays(c *fiber.Ctx) error {
	l, errResp := h.owned(c)
	if l == nil {
		return errResp
	}
	var body upsertDaysBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "days is required")
	}

	days := make([]domain.CalendarDay, 0, len(body.Days))
	for _, d := range body.Days {
		if _, ok := validate.Date(d.Date); !ok {
			return jsonError(c, fiber.StatusBadRequest, "dates must be YYYY-MM-DD")
		}
		available := true
		if d.IsAvailable != nil {
			available = *d.IsAvailable
		}
		days = append(days, domain.CalendarDay{Date: d.Date, Price: d.Price, IsAvailable: available})
	}
	if err := h.Calendar.UpsertDays(l.ID, days); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "calendar.upsert", map[string]any{"listing_id": l.ID, "days": len(days)})
	return c.JSON(fiber.Map{"ok": true, "updated": len(days)})
}

func (h *CalendarHandler) GetSettings(c *fiber.Ctx) error {
	l, errResp := h.owned(c)
	if l == nil {
		return errResp
	}
	s, err := h.Calendar.Settings(l.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(s)
}

type settingsBody struct {
	BasePrice          *float64 `json:"base_price"`
	WeekendPrice       *float64 `json:"weekend_price"`
	WeeklyDiscount     float64  `json:"weekly_discount" validate:"gte=0,lte=100"`
	MonthlyDiscount    float64  `json:"monthly_discount" validate:"gte=0,lte=100"`
	MinNights          int      `json:"min_nights" validate:"gte=1"`
	MaxNights          int      `json:"max_nights" validate:"gte=1"`
	AvailabilityWindow int      `json:"availability_window" validate:"gte=1"`
}

func (h *CalendarHandler) UpsertSettings(c *fiber.Ctx) error {
	l, errResp := h.owned(c)
	if l == nil {
		return errResp
	}
	body := settingsBody{MinNights: 1, MaxNights: 365, AvailabilityWindow: 365}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid settings")
	}
	if body.MaxNights < body.MinNights {
		return jsonError(c, fiber.StatusBadRequest, "max_nights must be >= min_nights")
	}

	s := &domain.ListingSettings{
		ListingID:          l.ID,
		BasePrice:          body.BasePrice,
		WeekendPrice:       body.WeekendPrice,
		WeeklyDiscount:     body.WeeklyDiscount,
		MonthlyDiscount:    body.MonthlyDiscount,
		MinNights:          body.MinNights,
		MaxNights:          body.MaxNights,
		AvailabilityWindow: body.AvailabilityWindow,
	}
	if err := h.Calendar.UpsertSettings(s); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "calendar.settings", map[string]any{"listing_id": l.ID})
	out, err := h.Calendar.Settings(l.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
