package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
	Uploads *services.UploadService
	Roles   *repos.RoleRepo
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	out, err := h.Reviews.List(id, viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *ReviewHandler) Stats(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("listingId"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	out, err := h.Reviews.Stats(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create accepts a multipart form: listing_id, rating, optional title,
// comment and images[].
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	listingID, ok := validate.UUID(c.FormValue("listing_id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "listing_id is required")
	}
	rating, ok := validate.Rating(c.FormValue("rating"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	var title, comment *string
	if v := c.FormValue("title"); v != "" {
		title = &v
	}
	if v := c.FormValue("comment"); v != "" {
		comment = &v
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

	rv, err := h.Reviews.Create(viewerID(c), listingID, rating, title, comment, imageURLs)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.create", map[string]any{"review_id": rv.ID, "listing_id": listingID})
	return c.Status(fiber.StatusCreated).JSON(rv)
}

type voteBody struct {
	Helpful *bool `json:"is_helpful" validate:"required"`
}

func (h *ReviewHandler) Vote(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	var body voteBody
	if err := c.BodyParser(&body); err != nil || body.Helpful == nil {
		return jsonError(c, fiber.StatusBadRequest, "is_helpful (true/false) is required")
	}
	if err := h.Reviews.Vote(id, viewerID(c), *body.Helpful); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

type respondBody struct {
	Text string `json:"response_text" validate:"required,max=4000"`
}

func (h *ReviewHandler) Respond(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	var body respondBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "response_text is required")
	}
	resp, err := h.Reviews.Respond(id, viewerID(c), body.Text)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.respond", map[string]any{"review_id": id})
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	role, err := h.Roles.Get(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	if err := h.Reviews.Delete(id, viewerID(c), role == "admin"); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.delete", map[string]any{"review_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
