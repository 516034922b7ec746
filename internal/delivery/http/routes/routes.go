package routes

import (
	"net/http"

	"careerpath/internal/delivery/http/handler"
	v1 "careerpath/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	health  *handler.HealthHandler
	metrics http.Handler
	ws      fiber.Handler
	api     v1.Handlers
	authMw  fiber.Handler
}

type Options struct {
	Health  *handler.HealthHandler
	Metrics http.Handler
	// WebSocket serves /ws; it authenticates from the query string itself.
	WebSocket fiber.Handler
	API       v1.Handlers
	Auth      fiber.Handler
}

func NewRegistry(opts Options) *Registry {
	health := opts.Health
	if health == nil {
		health = handler.NewHealthHandler()
	}
	return &Registry{
		health:  health,
		metrics: opts.Metrics,
		ws:      opts.WebSocket,
		api:     opts.API,
		authMw:  opts.Auth,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerWebSocket(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerMetrics(app *fiber.App) {
	if r.metrics == nil {
		return
	}
	app.Get("/metrics", adaptor.HTTPHandler(r.metrics))
}

func (r *Registry) registerWebSocket(app *fiber.App) {
	if r.ws == nil {
		return
	}
	app.Get("/ws", r.ws)
}

func (r *Registry) registerAPI(app *fiber.App) {
	authMw := r.authMw
	if authMw == nil {
		authMw = func(c fiber.Ctx) error { return fiber.ErrUnauthorized }
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.api, authMw)
}
