package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/ports"
)

// PaymentWebhookHandler applies gateway callbacks to order payment status.
type PaymentWebhookHandler struct {
	webhooks ports.PaymentWebhooks
	orders   ports.OrderService
	log      *zap.Logger
}

func NewPaymentWebhookHandler(webhooks ports.PaymentWebhooks, orders ports.OrderService, log *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		webhooks: webhooks,
		orders:   orders,
		log:      log,
	}
}

func (h *PaymentWebhookHandler) Stripe(c *fiber.Ctx) error {
	event, err := h.webhooks.ParseWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		h.log.Warn("Rejected payment webhook", zap.Error(err))
		return err
	}

	if event.Status == "" || event.OrderID == "" {
		h.log.Debug("Ignoring payment webhook", zap.String("type", event.Type))
		return c.SendStatus(fiber.StatusOK)
	}

	if _, err := h.orders.UpdatePaymentStatus(c.UserContext(), event.VendorID, event.OrderID, event.Status); err != nil {
		h.log.Error("Failed to apply payment webhook",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return err
	}

	h.log.Info("Payment webhook applied",
		zap.String("order_id", event.OrderID),
		zap.String("status", string(event.Status)),
	)
	return c.SendStatus(fiber.StatusOK)
}
