package handlers

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/query"
	"github.com/Mucyobrian123/DevCamp/internal/services"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

type BootcampHandler struct {
	svc       *services.BootcampService
	maxUpload int64
}

func NewBootcampHandler(svc *services.BootcampService, maxUpload int64) *BootcampHandler {
	return &BootcampHandler{svc: svc, maxUpload: maxUpload}
}

// List returns a filtered, field-selected, sorted, paginated page.
func (h *BootcampHandler) List(c *fiber.Ctx) error {
	q := query.Parse(c.Queries())
	bootcamps, total, err := h.svc.List(c.Context(), q)
	if err != nil {
		return err
	}
	return respondPage(c, len(bootcamps), q.Pagination(total), bootcamps)
}

func (h *BootcampHandler) Get(c *fiber.Ctx) error {
	b, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, b)
}

func (h *BootcampHandler) Create(c *fiber.Ctx) error {
	var b models.Bootcamp
	if err := c.BodyParser(&b); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&b); err != nil {
		return apperr.BadRequest("%v", err)
	}

	if err := h.svc.Create(c.Context(), middleware.CurrentUser(c), &b); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, b)
}

func (h *BootcampHandler) Update(c *fiber.Ctx) error {
	var upd models.BootcampUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := utils.ValidateStruct(&upd); err != nil {
		return apperr.BadRequest("%v", err)
	}

	b, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), &upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, b)
}

func (h *BootcampHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{})
}

// Radius lists the bootcamps within :distance miles of :zipcode.
func (h *BootcampHandler) Radius(c *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(c.Params("distance"), 64)
	if err != nil {
		return apperr.BadRequest("distance must be a number of miles")
	}

	bootcamps, err := h.svc.WithinRadius(c.Context(), c.Params("zipcode"), distance)
	if err != nil {
		return err
	}
	return respondList(c, len(bootcamps), bootcamps)
}

// UploadPhoto accepts a single multipart image under the "file" field.
func (h *BootcampHandler) UploadPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.BadRequest("please upload a file")
	}

	ct := fileHeader.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(ct, "image/") {
		return apperr.BadRequest("please upload an image file")
	}
	if fileHeader.Size > h.maxUpload {
		return apperr.BadRequest("please upload an image less than %d bytes", h.maxUpload)
	}
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		return apperr.BadRequest("uploaded file must have an extension")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return apperr.Internal("problem with file upload")
	}
	defer f.Close()

	filename, err := h.svc.UploadPhoto(c.Context(), middleware.CurrentUser(c), c.Params("id"), ext, f)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, filename)
}
