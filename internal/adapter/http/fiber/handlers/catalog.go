package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type ProductHandler struct {
	service ports.CatalogService
	log     *zap.Logger
}

func NewProductHandler(service ports.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	product, err := h.service.Create(c.UserContext(), middleware.VendorID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	product, err := h.service.Update(c.UserContext(), middleware.VendorID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.VendorID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
