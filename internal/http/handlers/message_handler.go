package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "marketnest/internal/log"
	"marketnest/internal/services"
	"marketnest/internal/validate"
)

type MessageHandler struct {
	Messages *services.MessageService
	Uploads  *services.UploadService
}

func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	out, err := h.Messages.Conversations(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

type startConversationBody struct {
	ListingID string `json:"listing_id" validate:"required,uuid4"`
	Content   string `json:"content" validate:"required,max=4000"`
}

func (h *MessageHandler) Start(c *fiber.Ctx) error {
	var body startConversationBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid json body")
	}
	if err := validate.V.Struct(body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "listing_id and content are required")
	}

	conv, msg, err := h.Messages.Start(viewerID(c), body.ListingID, body.Content, nil)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "message.conversation.start", map[string]any{"conversation_id": conv.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"conversation": conv, "message": msg})
}

// History returns the conversation's messages, marking the other side's
// messages as read.
func (h *MessageHandler) History(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	out, err := h.Messages.History(id, viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Send posts a message; a multipart form with an image file attaches it.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}

	content := ""
	var imageURL *string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		content = c.FormValue("content")
		if files := form.File["image"]; len(files) > 0 {
			u, err := h.Uploads.SaveFile(files[0])
			if err != nil {
				return fail(c, err)
			}
			imageURL = &u
		}
	} else {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid body")
		}
		content = body.Content
	}

	msg, err := h.Messages.Send(id, viewerID(c), content, imageURL)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) DeleteConversation(c *fiber.Ctx) error {
	id, ok := validate.UUID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err := h.Messages.Delete(id, viewerID(c)); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "message.conversation.delete", map[string]any{"conversation_id": id})
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Messages.UnreadCount(viewerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"unread": n})
}

func (h *MessageHandler) Templates(c *fiber.Ctx) error {
	return c.JSON(services.Templates)
}
