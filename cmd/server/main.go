package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/haikyu-team-builder/internal/api"
	"github.com/dom/haikyu-team-builder/internal/cache"
	"github.com/dom/haikyu-team-builder/internal/config"
	"github.com/dom/haikyu-team-builder/internal/logging"
	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/dom/haikyu-team-builder/internal/repository/postgres"
	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/dom/haikyu-team-builder/internal/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	dbLogLevel := gormLogger.Info
	if cfg.IsProduction() {
		dbLogLevel = gormLogger.Warn
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, dbLogLevel)
	if err != nil {
		return err
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Roster cache: redis when configured, otherwise none
	var rosterCache cache.RosterCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, roster cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			rosterCache = cache.NewRedisRosterCache(client, cfg.RosterCacheTTL)
			logger.Info("roster cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RosterCacheTTL))
		}
	}

	recorder := metrics.NewRecorder()

	// Initialize services
	services, err := service.NewServices(repos, rosterCache, recorder, cfg, logger)
	if err != nil {
		return err
	}

	// Warm the roster so the first request does not pay for the load
	if _, err := services.Roster.Roster(ctx); err != nil {
		logger.Warn("initial roster load failed", zap.Error(err))
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(services.Builder, logger.Named("hub"))

	// Initialize router
	router := api.NewRouter(services, hub, recorder, logger.Named("http"))

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return services.Builder.RunReaper(gctx)
	})
	g.Go(func() error {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
