package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
	"github.com/Mucyobrian123/DevCamp/internal/services"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

type CourseHandler struct {
	svc *services.CourseService
}

func NewCourseHandler(svc *services.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// List is the query-shaped global listing.
func (h *CourseHandler) List(c *fiber.Ctx) error {
	q := query.Parse(c.Queries())
	courses, total, err := h.svc.List(c.Context(), q)
	if err != nil {
		return err
	}
	return respondPage(c, len(courses), q.Pagination(total), courses)
}

// ListByBootcamp lists every course under one bootcamp, unpaginated.
func (h *CourseHandler) ListByBootcamp(c *fiber.Ctx) error {
	courses, err := h.svc.ListByBootcamp(c.Context(), c.Params("bootcampId"))
	if err != nil {
		return err
	}
	return respondList(c, len(courses), courses)
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, course)
}

func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&course); err != nil {
		return apperr.BadRequest("%v", err)
	}

	if err := h.svc.Create(c.Context(), middleware.CurrentUser(c), c.Params("bootcampId"), &course); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, course)
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	var upd models.CourseUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&upd); err != nil {
		return apperr.BadRequest("%v", err)
	}

	course, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), &upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, course)
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}
