package app

import (
	"context"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tariff-service/internal/config"
	httpserver "ksebtracker/backend/services/tariff-service/internal/http"
	"ksebtracker/backend/services/tariff-service/internal/http/handlers"
)

// App wires tariff service dependencies.
type App struct {
	server *httpserver.Server
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	routes := httpserver.Routes{
		Calculate: handlers.NewCalculateHandler(logger),
		Health:    handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}
