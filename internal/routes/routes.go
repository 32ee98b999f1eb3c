package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mucyobrian123/DevCamp/internal/handlers"
	"github.com/Mucyobrian123/DevCamp/internal/middleware"
	"github.com/Mucyobrian123/DevCamp/internal/models"
)

// Handlers bundles the resource controllers for route wiring.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Bootcamps *handlers.BootcampHandler
	Courses   *handlers.CourseHandler
	Users     *handlers.UserHandler
}

// Setup mounts the API. protect resolves the session; limiter is optional
// and guards the credential endpoints when redis is configured.
func Setup(app *fiber.App, h Handlers, protect fiber.Handler, limiter *middleware.RateLimiter) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", limited(limiter, h.Auth.Login)...)
	auth.Post("/logout", protect, h.Auth.Logout)
	auth.Get("/me", protect, h.Auth.Me)
	auth.Put("/updatedetails", protect, h.Auth.UpdateDetails)
	auth.Put("/updatepassword", protect, h.Auth.UpdatePassword)
	auth.Post("/forgotpassword", limited(limiter, h.Auth.ForgotPassword)...)
	auth.Put("/resetpassword/:token", h.Auth.ResetPassword)

	publish := middleware.Authorize(models.RolePublisher, models.RoleAdmin)

	bootcamps := api.Group("/bootcamps")
	bootcamps.Get("/", h.Bootcamps.List)
	bootcamps.Post("/", protect, publish, h.Bootcamps.Create)
	bootcamps.Get("/radius/:zipcode/:distance", h.Bootcamps.Radius)
	bootcamps.Get("/:bootcampId/courses", h.Courses.ListByBootcamp)
	bootcamps.Post("/:bootcampId/courses", protect, publish, h.Courses.Create)
	bootcamps.Put("/:id/photo", protect, publish, h.Bootcamps.UploadPhoto)
	bootcamps.Get("/:id", h.Bootcamps.Get)
	bootcamps.Put("/:id", protect, publish, h.Bootcamps.Update)
	bootcamps.Delete("/:id", protect, publish, h.Bootcamps.Delete)

	courses := api.Group("/courses")
	courses.Get("/", h.Courses.List)
	courses.Get("/:id", h.Courses.Get)
	courses.Put("/:id", protect, publish, h.Courses.Update)
	courses.Delete("/:id", protect, publish, h.Courses.Delete)

	users := api.Group("/users", protect, middleware.Authorize(models.RoleAdmin))
	users.Get("/", h.Users.List)
	users.Post("/", h.Users.Create)
	users.Get("/:id", h.Users.Get)
	users.Put("/:id", h.Users.Update)
	users.Delete("/:id", h.Users.Delete)
}

func limited(limiter *middleware.RateLimiter, handler fiber.Handler) []fiber.Handler {
	if limiter == nil {
		return []fiber.Handler{handler}
	}
	return []fiber.Handler{limiter.ByIP(), handler}
}
