// Package server assembles the Fiber application: middleware stack,
// central error handler, static file serving and the API route table.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/routes"
)

// Options carries everything New needs beyond the handlers themselves.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// StaticDir is served at the site root; uploaded photos land under it.
	StaticDir string

	Handlers routes.Handlers
	Protect  fiber.Handler
	Limiter  *middleware.RateLimiter
	Logger   *zap.Logger
}

// New builds the app. Every handler error funnels through ErrorHandler so
// the { success:false, error } envelope is produced in exactly one place.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
		ErrorHandler: errorHandler(opts.Logger),
	})

	app.Use(middleware.Recovery(opts.Logger))
	app.Use(cors.New())
	app.Use(middleware.Logging(opts.Logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": "ok"})
	})

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}

	routes.Setup(app, opts.Handlers, opts.Protect, opts.Limiter)

	return app
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "server error"

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = ae.Status
			message = ae.Message
		case errors.As(err, &fe):
			status = fe.Code
			message = fe.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
	}
}
