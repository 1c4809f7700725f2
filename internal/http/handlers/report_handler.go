package handlers

import (
	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/validate"
)

type ReportHandler struct {
	Reports *repos.ReportRepo
	Users   *repos.UserRepo
}

type reportBody struct {
	HostID    int64   `json:"host_id" validate:"required"`
	ListingID *string `json:"listing_id"`
	Reason    string  `json:"reason" validate:"required,max=2000"`
}

// Create files a report against a host, optionally tied to a listing.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var body reportBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "host_id and reason are required")
	}
	if body.ListingID != nil {
		if _, ok := validate.UUID(*body.ListingID); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid listing_id")
		}
	}
	if _, err := h.Users.ByID(body.HostID); err != nil {
		return fail(c, err)
	}

	out, err := h.Reports.Create(&domain.Report{
		ReporterID: viewerID(c),
		HostID:     body.HostID,
		ListingID:  body.ListingID,
		Reason:     body.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "report.create", map[string]any{"report_id": out.ID, "host_id": body.HostID})
	return c.Status(fiber.StatusCreated).JSON(out)
}
