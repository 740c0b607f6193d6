package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "evstations/backend/libs/redis"
	appconfig "evstations/backend/services/station-api/internal/config"
	"evstations/backend/services/station-api/internal/db"
	"evstations/backend/services/station-api/internal/http"
	"evstations/backend/services/station-api/internal/http/handlers"
	"evstations/backend/services/station-api/internal/http/middleware"
	"evstations/backend/services/station-api/internal/metrics"
	"evstations/backend/services/station-api/internal/password"
	"evstations/backend/services/station-api/internal/redisstore"
	"evstations/backend/services/station-api/internal/repository"
	"evstations/backend/services/station-api/internal/service"
	"evstations/backend/services/station-api/internal/ws"
)

// App wires dependencies for the station API.
type App struct {
	server *httpserver.Server
	events *ws.Manager
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := libredis.NewRedisClient(libredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	limiter, err := redisstore.NewFixedWindowLimiter(rdb, "stations:auth", cfg.RateLimit.Requests, cfg.RateLimitWindow(), logger)
	if err != nil {
		_ = sqlDB.Close()
		_ = rdb.Close()
		return nil, err
	}

	collectors := metrics.New(sqlDB)
	events := ws.NewManager(cfg.PingInterval(), collectors, logger)

	userRepo := repository.NewUserRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, password.NewBcryptHasher(0), tokenSvc, redisstore.NewTokenDenylist(rdb), logger)
	stationSvc := service.NewStationService(stationRepo, events, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(authSvc, cfg.IsProduction(), logger),
		StationsHandlers: handlers.NewStationsHandlers(stationSvc, collectors, !cfg.IsProduction(), logger),
		EventsHandler:    handlers.NewEventsHandler(ws.NewServer(events, cfg.WriteTimeout(), logger)),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Check{
			"postgres": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		MetricsHandler: collectors.Handler(),
		Authenticate:   middleware.Auth(authSvc, logger),
		RateLimit:      middleware.RateLimit(limiter),
		EnableSeed:     cfg.Seed.Enabled,
	})

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger,
		middleware.Recover(logger),
		middleware.RequestLogger(logger),
		middleware.Metrics(collectors),
	)

	return &App{
		server: server,
		events: events,
		db:     sqlDB,
		redis:  rdb,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.events.Start(ctx)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
