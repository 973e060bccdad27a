package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/ports"
)

type StoreHandler struct {
	generator ports.StoreGenerator
	log       *zap.Logger
}

func NewStoreHandler(generator ports.StoreGenerator, log *zap.Logger) *StoreHandler {
	return &StoreHandler{
		generator: generator,
		log:       log,
	}
}

type GenerateStoreRequest struct {
	Description string `json:"description"`
}

func (h *StoreHandler) Generate(c *fiber.Ctx) error {
	var req GenerateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	store, err := h.generator.Generate(c.UserContext(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(store)
}
