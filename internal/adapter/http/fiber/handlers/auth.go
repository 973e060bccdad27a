package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// DemoSeeder fills a new merchant's ledger and wallet with demo data.
type DemoSeeder interface {
	SeedMerchant(ctx context.Context, merchantID string) error
}

type AuthHandler struct {
	service ports.AuthService
	seeder  DemoSeeder
	log     *zap.Logger
}

// NewAuthHandler builds the auth endpoints. seeder may be nil.
func NewAuthHandler(service ports.AuthService, seeder DemoSeeder, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		seeder:  seeder,
		log:     log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	token, refreshToken, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}

	principal, _ := h.service.ValidateToken(c.UserContext(), token)

	return c.JSON(fiber.Map{
		"tokens": fiber.Map{
			"accessToken":  token,
			"refreshToken": refreshToken,
		},
		"user": principal,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req ports.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, vendor, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	if h.seeder != nil && vendor != nil {
		if err := h.seeder.SeedMerchant(c.UserContext(), vendor.ID); err != nil {
			h.log.Warn("Failed to seed demo data", zap.String("vendor_id", vendor.ID), zap.Error(err))
		}
	}

	// Auto-login after registration
	token, refreshToken, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "vendor": vendor})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"vendor": vendor,
		"tokens": fiber.Map{
			"accessToken":  token,
			"refreshToken": refreshToken,
		},
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, err := h.service.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"accessToken":  token,
		"refreshToken": req.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), middleware.Token(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := c.Locals(middleware.LocalPrincipal)
	if principal == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return c.JSON(principal)
}
