package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
)

// CircuitBreaker sheds load with 503 while cb is open. Only 5xx outcomes count as failures.
func CircuitBreaker(cb *gobreaker.CircuitBreaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var handlerErr error
		_, err := cb.Execute(func() (interface{}, error) {
			handlerErr = c.Next()
			if serverFailure(c, handlerErr) {
				return nil, errServerFailure
			}
			return nil, nil
		})

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Service temporarily unavailable",
			})
		}
		return handlerErr
	}
}

var errServerFailure = errors.New("server failure")

func serverFailure(c *fiber.Ctx, err error) bool {
	if err != nil {
		return StatusFor(err) >= fiber.StatusInternalServerError
	}
	return c.Response().StatusCode() >= fiber.StatusInternalServerError
}
