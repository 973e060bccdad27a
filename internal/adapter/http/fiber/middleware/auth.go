package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const (
	LocalUserID    = "user_id"
	LocalVendorID  = "vendor_id"
	LocalLocale    = "locale"
	LocalPrincipal = "principal"
	LocalToken     = "token"
)

// AuthRequired validates the bearer token and stores the caller in locals.
// A "token" query parameter is accepted for websocket upgrades, where browsers cannot set headers.
func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
			}
			token = parts[1]
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		principal, err := service.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		locale := principal.Locale
		if lang := c.Query("lang"); lang != "" {
			locale = domain.Locale(lang)
		} else if locale == "" && strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderAcceptLanguage)), "fr") {
			locale = domain.LocaleFR
		}

		c.Locals(LocalUserID, principal.UserID)
		c.Locals(LocalVendorID, principal.VendorID)
		c.Locals(LocalLocale, string(locale))
		c.Locals(LocalPrincipal, principal)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

// VendorID returns the authenticated merchant's vendor ID.
func VendorID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalVendorID).(string)
	return id
}

func Locale(c *fiber.Ctx) string {
	l, _ := c.Locals(LocalLocale).(string)
	return l
}

func Token(c *fiber.Ctx) string {
	t, _ := c.Locals(LocalToken).(string)
	return t
}
