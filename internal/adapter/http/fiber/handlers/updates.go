package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	wsAdapter "github.com/mru-labs/merchant-os/internal/adapter/websocket"
)

// UpdatesHandler upgrades authenticated requests to the realtime event stream.
type UpdatesHandler struct {
	hub *wsAdapter.Hub
	log *zap.Logger
}

func NewUpdatesHandler(hub *wsAdapter.Hub, log *zap.Logger) *UpdatesHandler {
	return &UpdatesHandler{hub: hub, log: log}
}

func (h *UpdatesHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *UpdatesHandler) Stream() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		merchantID, _ := c.Locals(middleware.LocalVendorID).(string)
		if merchantID == "" {
			h.log.Warn("Rejecting websocket without merchant")
			c.Close()
			return
		}
		h.hub.Serve(c, merchantID)
	})
}
