package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	applog "marketnest/internal/log"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
	Uploads  *services.UploadService
}

func parseFilters(c *fiber.Ctx) domain.ListingFilters {
	atoi := func(s string) int { n, _ := strconv.Atoi(s); return n }
	atof := func(s string) float64 { f, _ := strconv.ParseFloat(s, 64); return f }
	return domain.ListingFilters{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		Location:  c.Query("location"),
		Condition: c.Query("condition"),
		MinPrice:  atof(c.Query("min_price")),
		MaxPrice:  atof(c.Query("max_price")),
		Guests:    atoi(c.Query("guests")),
		Limit:     atoi(c.Query("limit")),
		Offset:    atoi(c.Query("offset")),
	}
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	out, err := h.Listings.List(parseFilters(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	d, err := h.Listings.Get(id, viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Listings.Mine(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *ListingHandler) Towns(c *fiber.Ctx) error {
	out, err := h.Listings.Towns()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create accepts a multipart form: listing fields plus an images[] file list.
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	title := c.FormValue("title")
	description := c.FormValue("description")
	price, perr := strconv.ParseFloat(c.FormValue("price"), 64)
	if title == "" || description == "" || perr != nil || price < 0 {
		return jsonError(c, fiber.StatusBadRequest, "title, description and a non-negative price are required")
	}

	l := &domain.Listing{
		UserID:      viewerID(c),
		Title:       title,
		Description: description,
		Price:       price,
		Condition:   c.FormValue("condition"),
		Category:    c.FormValue("category"),
		Location:    c.FormValue("location"),
	}
	if v := c.FormValue("contact_phone"); v != "" {
		l.ContactPhone = &v
	}
	if v := c.FormValue("contact_email"); v != "" {
		if _, ok := validate.Email(v); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid contact_email")
		}
		l.ContactEmail = &v
	}
	if v := c.FormValue("instant_book"); v != "" {
		l.InstantBook, _ = strconv.ParseBool(v)
	}
	if v := c.FormValue("max_guests"); v != "" {
		l.MaxGuests, _ = strconv.Atoi(v)
	}
	if v := c.FormValue("company_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			l.CompanyID = &id
		}
	}

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["images[]"]
		if len(files) == 0 {
			files = form.File["images"]
		}
		if imageURLs, err = h.Uploads.SaveAll(files); err != nil {
			return fail(c, err)
		}
	}

	d, err := h.Listings.Create(l, imageURLs)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": d.ID})
	return c.Status(fiber.StatusCreated).JSON(d)
}

type updateListingBody struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Condition    *string  `json:"condition"`
	Category     *string  `json:"category"`
	Location     *string  `json:"location"`
	ContactPhone *string  `json:"contact_phone"`
	ContactEmail *string  `json:"contact_email"`
	InstantBook  *bool    `json:"instant_book"`
	MaxGuests    *int     `json:"max_guests"`
}

// Update accepts either JSON field changes or a multipart form; sending files
// in the multipart form replaces the listing's images.
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}

	var body updateListingBody
	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		body = updateFromForm(c)
		files := form.File["images[]"]
		if len(files) == 0 {
			files = form.File["images"]
		}
		if len(files) > 0 {
			if imageURLs, err = h.Uploads.SaveAll(files); err != nil {
				return fail(c, err)
			}
		}
	} else if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if body.Price != nil && *body.Price < 0 {
		return jsonError(c, fiber.StatusBadRequest, "price must be non-negative")
	}

	d, err := h.Listings.Update(id, viewerID(c), func(l *domain.Listing) {
		if body.Title != nil {
			l.Title = *body.Title
		}
		if body.Description != nil {
			l.Description = *body.Description
		}
		if body.Price != nil {
			l.Price = *body.Price
		}
		if body.Condition != nil {
			l.Condition = *body.Condition
		}
		if body.Category != nil {
			l.Category = *body.Category
		}
		if body.Location != nil {
			l.Location = *body.Location
		}
		if body.ContactPhone != nil {
			l.ContactPhone = body.ContactPhone
		}
		if body.ContactEmail != nil {
			l.ContactEmail = body.ContactEmail
		}
		if body.InstantBook != nil {
			l.InstantBook = *body.InstantBook
		}
		if body.MaxGuests != nil && *body.MaxGuests > 0 {
			l.MaxGuests = *body.MaxGuests
		}
	}, imageURLs)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "listing.update", map[string]any{"listing_id": id})
	return c.JSON(d)
}

// updateFromForm lifts the multipart form values into the same optional-field
// shape the JSON path uses. Absent fields stay nil.
func updateFromForm(c *fiber.Ctx) updateListingBody {
	var body updateListingBody
	str := func(name string) *string {
		if v := c.FormValue(name); v != "" {
			return &v
		}
		return nil
	}
	body.Title = str("title")
	body.Description = str("description")
	body.Condition = str("condition")
	body.Category = str("category")
	body.Location = str("location")
	body.ContactPhone = str("contact_phone")
	body.ContactEmail = str("contact_email")
	if v := c.FormValue("price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			body.Price = &f
		}
	}
	if v := c.FormValue("instant_book"); v != "" {
		b, _ := strconv.ParseBool(v)
		body.InstantBook = &b
	}
	if v := c.FormValue("max_guests"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			body.MaxGuests = &n
		}
	}
	return body
}

func (h *ListingHandler) Publish(c *fiber.Ctx) error   { return h.setStatus(c, "active") }
func (h *ListingHandler) Unpublish(c *fiber.Ctx) error { return h.setStatus(c, "inactive") }

func (h *ListingHandler) setStatus(c *fiber.Ctx, status string) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Listings.SetStatus(id, viewerID(c), status); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "listing.status", map[string]any{"listing_id": id, "status": status})
	return c.JSON(fiber.Map{"id": id, "status": status})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Listings.Delete(id, viewerID(c)); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "listing.delete", map[string]any{"listing_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
