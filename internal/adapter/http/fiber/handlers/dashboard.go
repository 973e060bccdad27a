package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// DashboardHandler serves the read-mostly merchant views: summary, wallet and insights.
type DashboardHandler struct {
	dashboard ports.DashboardService
	wallet    ports.WalletService
	insights  ports.InsightService
	log       *zap.Logger
}

func NewDashboardHandler(dashboard ports.DashboardService, wallet ports.WalletService, insights ports.InsightService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		wallet:    wallet,
		insights:  insights,
		log:       log,
	}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *DashboardHandler) Wallet(c *fiber.Ctx) error {
	overview, err := h.wallet.Overview(c.UserContext(), middleware.VendorID(c))
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

func (h *DashboardHandler) Insights(c *fiber.Ctx) error {
	insights, err := h.insights.List(c.UserContext(), middleware.VendorID(c), middleware.Locale(c))
	if err != nil {
		return err
	}
	return c.JSON(insights)
}

func (h *DashboardHandler) DismissInsight(c *fiber.Ctx) error {
	if err := h.insights.Dismiss(c.UserContext(), middleware.VendorID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DashboardHandler) ResetInsights(c *fiber.Ctx) error {
	if err := h.insights.Reset(c.UserContext(), middleware.VendorID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
