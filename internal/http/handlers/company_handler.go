package handlers

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"marketnest/internal/domain"
	applog "marketnest/internal/log"
	"marketnest/internal/repos"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type CompanyHandler struct {
	Companies *repos.CompanyRepo
	Uploads   *services.UploadService
}

type shopBody struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,max=30"`
	Location    string  `json:"location" validate:"required,max=100"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	BannerURL   *string `json:"banner_url"`
}

// Upsert creates or updates the caller's shop profile.
func (h *CompanyHandler) Upsert(c *fiber.Ctx) error {
	var body shopBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "name, email, phone and location are required")
	}

	out, err := h.Companies.Upsert(&domain.Company{
		UserID:      viewerID(c),
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		Location:    body.Location,
		Description: body.Description,
		LogoURL:     body.LogoURL,
		BannerURL:   body.BannerURL,
	})
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "shop.upsert", map[string]any{"company_id": out.ID})
	return c.JSON(out)
}

func (h *CompanyHandler) Mine(c *fiber.Ctx) error {
	out, err := h.Companies.ByUserID(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Get returns a shop's public profile with its active listing count.
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid company id")
	}
	company, err := h.Companies.ByID(id)
	if err != nil {
		return fail(c, err)
	}
	count, err := h.Companies.ActiveListingCount(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"company": company, "active_listings": count})
}

func (h *CompanyHandler) Projects(c *fiber.Ctx) error {
	out, err := h.Companies.ProjectsFor(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateProject adds a portfolio project to the caller's shop profile. The
// multipart form carries name, description, cost and location plus optional
// plan and showcase files and an images[] gallery. A shop profile must exist
// first.
func (h *CompanyHandler) CreateProject(c *fiber.Ctx) error {
	company, err := h.Companies.ByUserID(viewerID(c))
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusBadRequest, "create a shop profile first")
	}
	if err != nil {
		return fail(c, err)
	}

	name := c.FormValue("name")
	if name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	p := &domain.CompanyProject{
		CompanyID: company.ID,
		UserID:    viewerID(c),
		Name:      name,
	}
	if v := c.FormValue("description"); v != "" {
		p.Description = &v
	}
	if v := c.FormValue("location"); v != "" {
		p.Location = &v
	}
	if v := c.FormValue("cost"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return jsonError(c, fiber.StatusBadRequest, "cost must be a non-negative number")
		}
		p.Cost = &f
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		if fhs := form.File["plan"]; len(fhs) > 0 {
			url, err := h.Uploads.SaveFile(fhs[0])
			if err != nil {
				return fail(c, err)
			}
			p.PlanURL = &url
		}
		if fhs := form.File["showcase"]; len(fhs) > 0 {
			url, err := h.Uploads.SaveFile(fhs[0])
			if err != nil {
				return fail(c, err)
			}
			p.ShowcaseURL = &url
		}
		files := form.File["images[]"]
		if len(files) == 0 {
			files = form.File["images"]
		}
		if p.Images, err = h.Uploads.SaveAll(files); err != nil {
			return fail(c, err)
		}
	}

	out, err := h.Companies.CreateProject(p)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "shop.project.create", map[string]any{"project_id": out.ID})
	return c.Status(fiber.StatusCreated).JSON(out)
}

type projectBody struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Cost        *float64 `json:"cost"`
	Location    *string  `json:"location"`
}

// UpdateProject changes a project's fields; uploads stay as they are.
func (h *CompanyHandler) UpdateProject(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	var body projectBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if body.Cost != nil && *body.Cost < 0 {
		return jsonError(c, fiber.StatusBadRequest, "cost must be a non-negative number")
	}

	p, err := h.Companies.ProjectByID(id)
	if err != nil {
		return fail(c, err)
	}
	if p.UserID != viewerID(c) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if body.Name != nil && *body.Name != "" {
		p.Name = *body.Name
	}
	if body.Description != nil {
		p.Description = body.Description
	}
	if body.Cost != nil {
		p.Cost = body.Cost
	}
	if body.Location != nil {
		p.Location = body.Location
	}
	if err := h.Companies.UpdateProject(p); err != nil {
		return fail(c, err)
	}
	out, err := h.Companies.ProjectByID(id)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "shop.project.update", map[string]any{"project_id": id})
	return c.JSON(out)
}

func (h *CompanyHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Companies.DeleteProject(id, viewerID(c)); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "shop.project.delete", map[string]any{"project_id": id})
	return c.JSON(fiber.Map{"deleted": true})
}
