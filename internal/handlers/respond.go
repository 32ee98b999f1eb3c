// Package handlers contains the Fiber resource controllers. Handlers
// parse and validate input, delegate to a service, and shape the
// { success, data, count, pagination } envelope; failures propagate to
// the central error handler.
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/query"
)

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func respondList(c *fiber.Ctx, count int, data any) error {
	return c.JSON(fiber.Map{"success": true, "count": count, "data": data})
}

func respondPage(c *fiber.Ctx, count int, p query.Pagination, data any) error {
	return c.JSON(fiber.Map{"success": true, "count": count, "pagination": p, "data": data})
}

// CookieSettings controls the session cookie the token responses set.
type CookieSettings struct {
	ExpireDays int
	Secure     bool
}

// respondToken returns the token in the body and as an httpOnly cookie.
func respondToken(c *fiber.Ctx, opts CookieSettings, status int, token string) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(opts.ExpireDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   opts.Secure,
	})
	return c.Status(status).JSON(fiber.Map{"success": true, "token": token})
}

// clearTokenCookie expires the session cookie on logout.
func clearTokenCookie(c *fiber.Ctx, opts CookieSettings) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   opts.Secure,
	})
}
