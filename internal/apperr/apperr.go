// Package apperr carries an HTTP status alongside an error message so the
// central Fiber error handler can translate service failures into the
// response envelope without per-handler switch statements.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return New(fiber.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(fiber.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(fiber.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(fiber.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(fiber.StatusConflict, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(fiber.StatusInternalServerError, format, args...)
}

// StatusOf returns the HTTP status an error maps to, 500 when untyped.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return fiber.StatusInternalServerError
}
