package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/services"
)

type UploadHandler struct {
	Uploads *services.UploadService
}

// Upload stores the files from the images[] field and returns their public
// URLs in order.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return jsonError(c, fiber.StatusBadRequest, "multipart form required")
	}
	files := form.File["images[]"]
	if len(files) == 0 {
		files = form.File["images"]
	}
	if len(files) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "no files sent")
	}

	urls, err := h.Uploads.SaveAll(files)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "upload.save", map[string]any{"count": len(urls)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"urls": urls})
}
