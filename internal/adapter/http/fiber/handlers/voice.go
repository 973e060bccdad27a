package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const defaultHistoryLimit = 20

type VoiceHandler struct {
	assistant ports.VoiceAssistant
	log       *zap.Logger
}

func NewVoiceHandler(assistant ports.VoiceAssistant, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		assistant: assistant,
		log:       log,
	}
}

// Copy returns the voice UI strings for the caller's locale.
func (h *VoiceHandler) Copy(c *fiber.Ctx) error {
	return c.JSON(h.assistant.Copy(middleware.Locale(c)))
}

func (h *VoiceHandler) Session(c *fiber.Ctx) error {
	session, err := h.assistant.Session(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

type ListenRequest struct {
	Locale string `json:"locale"`
}

func (h *VoiceHandler) Listen(c *fiber.Ctx) error {
	var req ListenRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
		}
	}
	if req.Locale == "" {
		req.Locale = middleware.Locale(c)
	}

	session, err := h.assistant.StartListening(c.UserContext(), middleware.VendorID(c), req.Locale)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

type TranscriptRequest struct {
	Transcript string `json:"transcript"`
}

// Transcript parses a spoken sentence into a draft awaiting confirmation.
// Parse failures come back as an idle session carrying the message, not as an HTTP error.
func (h *VoiceHandler) Transcript(c *fiber.Ctx) error {
	var req TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	session, err := h.assistant.SubmitTranscript(c.UserContext(), middleware.VendorID(c), req.Transcript)
	if err != nil {
		h.log.Error("Failed to process transcript", zap.Error(err))
		return err
	}
	return c.JSON(session)
}

func (h *VoiceHandler) Confirm(c *fiber.Ctx) error {
	result, err := h.assistant.Confirm(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *VoiceHandler) Cancel(c *fiber.Ctx) error {
	session, err := h.assistant.Cancel(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

func (h *VoiceHandler) Balance(c *fiber.Ctx) error {
	session, err := h.assistant.CheckBalance(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

func (h *VoiceHandler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}

	history, err := h.assistant.History(c.UserContext(), middleware.VendorID(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(history)
}
