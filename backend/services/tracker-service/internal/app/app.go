package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"ksebtracker/backend/libs/db"
	libredis "ksebtracker/backend/libs/redis"
	"ksebtracker/backend/services/tracker-service/internal/cache"
	"ksebtracker/backend/services/tracker-service/internal/clients"
	"ksebtracker/backend/services/tracker-service/internal/config"
	httpserver "ksebtracker/backend/services/tracker-service/internal/http"
	"ksebtracker/backend/services/tracker-service/internal/http/handlers"
	"ksebtracker/backend/services/tracker-service/internal/http/middleware"
	"ksebtracker/backend/services/tracker-service/internal/repository"
	"ksebtracker/backend/services/tracker-service/internal/service"
	"ksebtracker/backend/services/tracker-service/internal/ws"
)

// App wires tracker service dependencies.
type App struct {
	server *httpserver.Server
	hub    *ws.Hub
	sqlDB  *sql.DB
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	readingRepo := repository.NewReadingRepository(sqlDB)
	billRepo := repository.NewBillRepository(sqlDB)

	tariffClient := clients.NewTariffClient(clients.NewDefaultHTTPClient(cfg.Tariff.Timeout), cfg.Tariff.BaseURL)
	estimateCache := cache.NewEstimateCache(redisClient, cfg.Redis.EstimateTTL)
	hub := ws.NewHub(cfg.Live.PingInterval, logger)

	resolver := service.NewCycleResolver(readingRepo, billRepo)
	estimator := service.NewEstimator(resolver, readingRepo, tariffClient, estimateCache, cfg.AdvisoryBands(), logger)
	readingService := service.NewReadingService(readingRepo, estimator, hub, logger)
	finalizer := service.NewFinalizer(readingRepo, billRepo, resolver, tariffClient, estimator, estimateCache, hub, logger)

	readingsHandler := handlers.NewReadingsHandler(readingService, logger)
	estimateHandler := handlers.NewEstimateHandler(estimator, logger)
	billsHandler := handlers.NewBillsHandler(finalizer, logger)
	wsServer := ws.NewServer(hub, cfg.Live.WriteTimeout, logger)

	routes := httpserver.Routes{
		CreateReading: readingsHandler.Create,
		ListReadings:  readingsHandler.List,
		LatestReading: readingsHandler.Latest,
		Estimate:      estimateHandler.Get,
		FinalizeBill:  billsHandler.Finalize,
		ListBills:     billsHandler.List,
		LiveWS:        wsServer.HandleWS,
		Health:        handlers.Health,
	}

	router := httpserver.NewRouter(routes, middleware.AuthMiddleware(cfg.JWT.Secret))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		hub:    hub,
		sqlDB:  sqlDB,
		logger: logger,
	}, nil
}

// Run starts HTTP server and the live-connection ping loop.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)

	defer func() {
		if err := a.sqlDB.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	return a.server.Run(ctx)
}
