package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/repository"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

const userLocalKey = "current_user"

// TokenCookie is the session cookie name shared with the auth handlers.
const TokenCookie = "token"

// Protect extracts the bearer token from the Authorization header or the
// session cookie, verifies it, resolves the user, and stores the identity
// on the request.
func Protect(users repository.UserRepository, tokens *utils.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return apperr.Unauthorized("not authorized to access this route")
			}
			token = parts[1]
		} else {
			token = c.Cookies(TokenCookie)
		}
		if token == "" {
			return apperr.Unauthorized("not authorized to access this route")
		}

		userID, err := tokens.Parse(token)
		if err != nil {
			return apperr.Unauthorized("not authorized to access this route")
		}

		u, err := users.FindByID(c.Context(), userID)
		if err != nil {
			return apperr.Unauthorized("not authorized to access this route")
		}

		c.Locals(userLocalKey, u)
		return c.Next()
	}
}

// Authorize gates a route to the given roles; it must run after Protect.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return apperr.Unauthorized("not authorized to access this route")
		}
		for _, role := range roles {
			if u.Role == role {
				return c.Next()
			}
		}
		return apperr.Forbidden("user role %s is not authorized to access this route", u.Role)
	}
}

// CurrentUser returns the identity Protect attached, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(userLocalKey).(*models.User)
	return u
}
