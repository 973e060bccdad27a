package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type OrderHandler struct {
	service ports.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service ports.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.service.Get(c.UserContext(), middleware.VendorID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	order, err := h.service.UpdateStatus(c.UserContext(), middleware.VendorID(c), c.Params("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	order, err := h.service.UpdatePaymentStatus(c.UserContext(), middleware.VendorID(c), c.Params("id"), domain.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// Checkout opens a card payment for the order and returns the gateway client secret.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	intent, err := h.service.Checkout(c.UserContext(), middleware.VendorID(c), c.Params("id"))
	if err != nil {
		h.log.Warn("Checkout failed", zap.String("order_id", c.Params("id")), zap.Error(err))
		return err
	}
	return c.JSON(intent)
}
