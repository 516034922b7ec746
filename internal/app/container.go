package app

import (
	"context"
	"errors"
	"time"

	"careerpath/internal/config"
	dbpostgres "careerpath/internal/database/postgres"
	"careerpath/internal/infrastructure/cache"
	"careerpath/internal/metrics"
	"careerpath/internal/pkg/jwt"
	"careerpath/internal/pkg/logger"
	"careerpath/internal/ws"

	"go.uber.org/zap"
)

// Container owns the process-wide infrastructure: connections, the metrics
// registry, the token service and the websocket hub.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      *dbpostgres.Pool
	Cache   *cache.Redis
	Metrics *metrics.Metrics
	JWT     *jwt.HMACService
	Hub     *ws.Hub
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger.Component(log, "postgres"))
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	m.RegisterPool(db.Stat)

	return &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   cache.NewRedis(ctx, cfg.Redis, logger.Component(log, "redis")),
		Metrics: m,
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
		Hub: ws.NewHub(logger.Component(log, "ws")),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
