package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
	"github.com/Mucyobrian123/DevCamp/internal/services"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

// UserHandler is the admin-only user CRUD; routes mount it behind
// Protect + Authorize(admin).
type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	q := query.Parse(c.Queries())
	users, total, err := h.svc.List(c.Context(), q)
	if err != nil {
		return err
	}
	return respondPage(c, len(users), q.Pagination(total), users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, u)
}

type createUserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return apperr.BadRequest("%v", err)
	}

	u, err := h.svc.Create(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var upd models.UserUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&upd); err != nil {
		return apperr.BadRequest("%v", err)
	}

	u, err := h.svc.Update(c.Context(), c.Params("id"), &upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, u)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}
