package app

import (
	"context"
	"fmt"
	"strings"

	"careerpath/internal/catalog"
	"careerpath/internal/config"
	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/delivery/http/handler"
	"careerpath/internal/delivery/http/middleware"
	"careerpath/internal/delivery/http/routes"
	v1 "careerpath/internal/delivery/http/routes/v1"
	"careerpath/internal/domain/matching"
	"careerpath/internal/onet"
	"careerpath/internal/pkg/logger"
	"careerpath/internal/repository"
	"careerpath/internal/usecase"
	"careerpath/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New assembles the HTTP application on top of an initialised container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	buildRegistry(c).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects the infrastructure, starts the websocket hub and returns
// the application with a cleanup func that stops both.
func Bootstrap(cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger.Component(c.Logger, "http")).Middleware())
	app.Use(middleware.NewMetricsMiddleware(c.Metrics).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger.Component(c.Logger, "http")).Middleware())
}

func buildRegistry(c *Container) *routes.Registry {
	cfg := c.Config
	validator := dto.NewValidator()
	notifier := ws.NewNotifier(c.Hub)

	users := repository.NewPostgresUserRepository(c.DB)
	assessments := repository.NewPostgresAssessmentRepository(c.DB)
	attempts := repository.NewPostgresAttemptRepository(c.DB)
	reports := repository.NewPostgresReportRepository(c.DB)
	occupations := repository.NewPostgresOccupationRepository(c.DB)

	source := onet.NewCachedSource(
		onet.NewFallbackSource(occupations, catalog.NewSource(), logger.Component(c.Logger, "careers")),
		c.Cache,
		cfg.Redis.TTL,
		c.Metrics,
		logger.Component(c.Logger, "careers"),
	)

	authUC := usecase.NewAuthUsecase(users, c.JWT)
	userUC := usecase.NewUserUsecase(users)
	assessmentUC := usecase.NewAssessmentUsecase(assessments)
	attemptUC := usecase.NewAttemptUsecase(assessments, attempts, c.Cache, c.Metrics, notifier, logger.Component(c.Logger, "attempts"))
	careerUC := usecase.NewCareerUsecase(usecase.CareerDeps{
		Attempts: attempts,
		Source:   source,
		Reports:  reports,
		Cache:    c.Cache,
		CacheTTL: cfg.Redis.TTL,
		Metrics:  c.Metrics,
		Notifier: notifier,
		Weights: matching.Weights{
			Interest:    cfg.Matching.InterestWeight,
			Skills:      cfg.Matching.SkillsWeight,
			Personality: cfg.Matching.PersonalityWeight,
		},
		TopN:   cfg.Matching.TopN,
		Logger: logger.Component(c.Logger, "careers"),
	})
	directoryUC := usecase.NewDirectoryUsecase(
		repository.NewPostgresUniversityRepository(c.DB),
		repository.NewPostgresCompanyRepository(c.DB),
		logger.Component(c.Logger, "directory"),
	).WithCache(c.Cache, cfg.Redis.TTL)

	return routes.NewRegistry(routes.Options{
		Health: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Pinger: c.DB, Critical: true},
			handler.HealthCheck{Name: "redis", Pinger: c.Cache},
		),
		Metrics:   c.Metrics.Handler(),
		WebSocket: ws.NewHandler(c.Hub, c.JWT, logger.Component(c.Logger, "ws")).Handle,
		API: v1.Handlers{
			Auth:       handler.NewAuthHandler(authUC, validator),
			User:       handler.NewUserHandler(userUC),
			Assessment: handler.NewAssessmentHandler(assessmentUC, attemptUC),
			Attempt:    handler.NewAttemptHandler(attemptUC, validator),
			Career:     handler.NewCareerHandler(careerUC, validator),
			Directory:  handler.NewDirectoryHandler(directoryUC, validator),
		},
		Auth: middleware.NewAuthMiddleware(c.JWT).Middleware(),
	})
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
