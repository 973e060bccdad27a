package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	Auth      *AuthHandler
	Voice     *VoiceHandler
	Ledger    *LedgerHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Dashboard *DashboardHandler
	Store     *StoreHandler
	Updates   *UpdatesHandler
	Payments  *PaymentWebhookHandler
}

// RegisterRoutes mounts the public auth routes, the authenticated API and the websocket stream.
func RegisterRoutes(app *fiber.App, h Handlers, auth ports.AuthService) {
	requireAuth := middleware.AuthRequired(auth)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", requireAuth, h.Auth.Logout)
	authGroup.Get("/me", requireAuth, h.Auth.Me)

	voice := api.Group("/voice", requireAuth)
	voice.Get("/copy", h.Voice.Copy)
	voice.Get("/session", h.Voice.Session)
	voice.Post("/listen", h.Voice.Listen)
	voice.Post("/transcript", h.Voice.Transcript)
	voice.Post("/confirm", h.Voice.Confirm)
	voice.Post("/cancel", h.Voice.Cancel)
	voice.Post("/balance", h.Voice.Balance)
	voice.Get("/history", h.Voice.History)

	ledger := api.Group("/ledger", requireAuth)
	ledger.Get("/", h.Ledger.View)
	ledger.Post("/", h.Ledger.Append)
	ledger.Get("/export", h.Ledger.Export)

	products := api.Group("/products", requireAuth)
	products.Get("/", h.Products.List)
	products.Post("/", h.Products.Create)
	products.Put("/:id", h.Products.Update)
	products.Delete("/:id", h.Products.Delete)

	orders := api.Group("/orders", requireAuth)
	orders.Get("/", h.Orders.List)
	orders.Get("/:id", h.Orders.Get)
	orders.Patch("/:id/status", h.Orders.UpdateStatus)
	orders.Patch("/:id/payment-status", h.Orders.UpdatePaymentStatus)
	orders.Post("/:id/checkout", h.Orders.Checkout)

	api.Get("/dashboard", requireAuth, h.Dashboard.Summary)
	api.Get("/wallet", requireAuth, h.Dashboard.Wallet)

	insights := api.Group("/insights", requireAuth)
	insights.Get("/", h.Dashboard.Insights)
	insights.Post("/reset", h.Dashboard.ResetInsights)
	insights.Delete("/:id", h.Dashboard.DismissInsight)

	api.Post("/store/generate", requireAuth, h.Store.Generate)

	if h.Payments != nil {
		api.Post("/payments/webhook", h.Payments.Stripe)
	}

	if h.Updates != nil {
		app.Get("/ws/updates", h.Updates.RequireUpgrade, requireAuth, h.Updates.Stream())
	}
}
