package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/services"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

type AuthHandler struct {
	svc    *services.AuthService
	cookie CookieSettings
}

func NewAuthHandler(svc *services.AuthService, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

// Register creates an account and opens a session.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return apperr.BadRequest("%v", err)
	}

	_, token, err := h.svc.Register(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return respondToken(c, h.cookie, fiber.StatusOK, token)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	_, token, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondToken(c, h.cookie, fiber.StatusOK, token)
}

// Me returns the authenticated user's public profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, middleware.CurrentUser(c))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearTokenCookie(c, h.cookie)
	return respond(c, fiber.StatusOK, fiber.Map{})
}

type updateDetailsReq struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *AuthHandler) UpdateDetails(c *fiber.Ctx) error {
	var req updateDetailsReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return apperr.BadRequest("%v", err)
	}

	u, err := h.svc.UpdateDetails(c.Context(), middleware.CurrentUser(c).ID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, u)
}

type updatePasswordReq struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return apperr.BadRequest("%v", err)
	}

	token, err := h.svc.UpdatePassword(c.Context(), middleware.CurrentUser(c).ID.Hex(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return respondToken(c, h.cookie, fiber.StatusOK, token)
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return apperr.BadRequest("%v", err)
	}

	if err := h.svc.ForgotPassword(c.Context(), req.Email, c.BaseURL()); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "email sent")
}

type resetPasswordReq struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return apperr.BadRequest("%v", err)
	}

	_, token, err := h.svc.ResetPassword(c.Context(), c.Params("token"), req.Password)
	if err != nil {
		return err
	}
	return respondToken(c, h.cookie, fiber.StatusOK, token)
}
