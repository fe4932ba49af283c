package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/game-club-manager/internal/config"
	"github.com/iliyamo/game-club-manager/internal/database"
	"github.com/iliyamo/game-club-manager/internal/handler"
	"github.com/iliyamo/game-club-manager/internal/logger"
	"github.com/iliyamo/game-club-manager/internal/memstore"
	"github.com/iliyamo/game-club-manager/internal/middleware"
	"github.com/iliyamo/game-club-manager/internal/queue"
	"github.com/iliyamo/game-club-manager/internal/repository"
	"github.com/iliyamo/game-club-manager/internal/router"
	"github.com/iliyamo/game-club-manager/internal/service"
)

// appStore is everything the services and auth handler need from a store.
type appStore interface {
	service.Store
	handler.StaffStore
	handler.TokenStore
}

var (
	_ appStore = (*repository.Store)(nil)
	_ appStore = (*memstore.Store)(nil)
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return err
	}
	defer logger.Sync()
	log := zap.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	policy, err := service.ParseAssignmentPolicy(cfg.AssignmentPolicy)
	if err != nil {
		return err
	}

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.RabbitURL)
	}
	if cfg.VisitConsumer {
		consumer := queue.NewVisitLogger(cfg.RabbitURL, cfg.VisitLogPath)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("visit consumer stopped", zap.Error(err))
			}
		}()
	}

	details := service.NewDetailAggregator(store, policy)
	reservations := service.NewReservationService(store, details, events)
	games := service.NewGameCatalog(store)
	menu := service.NewMenuCatalog(store)
	stats := service.NewStats(store, store, cfg.Timezone)

	var health handler.Pinger
	if db != nil {
		health = db
	}
	deps := router.Deps{
		JWTSecret:    cfg.JWTSecret,
		Health:       handler.Health(health),
		Auth:         handler.NewAuthHandler(cfg, store, store),
		Reservations: handler.NewReservationHandler(reservations, details, cfg.RequestTimeout),
		Games:        handler.NewGameHandler(games, cfg.RequestTimeout),
		Menu:         handler.NewMenuHandler(menu, cfg.RequestTimeout),
		Dashboard:    handler.NewDashboardHandler(stats, cfg.RequestTimeout),
	}

	// Redis is optional: without it rate limiting and caching are skipped.
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	if rlCfg.Enabled || cacheCfg.Enabled {
		rdb, err := config.NewRedisClient(config.RedisOptions())
		if err != nil {
			log.Warn("redis unavailable, rate limit and cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.RateLimit = middleware.NewTokenBucket(rlCfg, rdb)
			deps.Cache = middleware.NewRedisCache(cacheCfg, rdb)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	router.RegisterRoutes(e, deps)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver), zap.String("assignment_policy", string(policy)))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

// openStore returns the configured store.  For MySQL it also returns the
// pool so the caller can close it and health checks can ping it.
func openStore(ctx context.Context, cfg config.Config) (appStore, *sql.DB, error) {
	if cfg.StoreDriver == config.DriverMemory {
		zap.L().Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil, nil
	}
	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return repository.NewStore(db), db, nil
}
