package v1

import (
	"careerpath/internal/delivery/http/handler"
	"careerpath/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Assessment *handler.AssessmentHandler
	Attempt    *handler.AttemptHandler
	Career     *handler.CareerHandler
	Directory  *handler.DirectoryHandler
}

// Register mounts the versioned API. Everything except /auth sits behind
// authMw; the /admin group additionally requires the admin claim.
func Register(r fiber.Router, h Handlers, authMw fiber.Handler) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", authMw)

	if h.User != nil {
		h.User.RegisterRoutes(protected.Group("/users"))
	}
	if h.Assessment != nil {
		h.Assessment.RegisterRoutes(protected.Group("/assessments"))
	}
	if h.Attempt != nil {
		h.Attempt.RegisterRoutes(protected.Group("/attempts"))
	}
	if h.Career != nil {
		h.Career.RegisterReportRoutes(protected.Group("/me"))
		h.Career.RegisterRoutes(protected.Group("/careers"))
	}
	if h.Directory != nil {
		h.Directory.RegisterRoutes(protected)
		h.Directory.RegisterAdminRoutes(protected.Group("/admin", middleware.RequireAdmin()))
	}
}
