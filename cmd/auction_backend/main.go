package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portsrepo "github.com/SscSPs/sett_auction/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sett_auction/internal/core/ports/services"
	"github.com/SscSPs/sett_auction/internal/core/services"
	"github.com/SscSPs/sett_auction/internal/handlers"
	"github.com/SscSPs/sett_auction/internal/middleware"
	"github.com/SscSPs/sett_auction/internal/platform/clock"
	"github.com/SscSPs/sett_auction/internal/platform/config"
	"github.com/SscSPs/sett_auction/internal/platform/events"
	"github.com/SscSPs/sett_auction/internal/platform/lock"
	"github.com/SscSPs/sett_auction/internal/platform/pegfeed"
	"github.com/SscSPs/sett_auction/internal/repositories/database/pgsql"
	"github.com/SscSPs/sett_auction/internal/repositories/memory"
	"github.com/SscSPs/sett_auction/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title SETT Auction API
// @version 1.0
// @description Price-stabilization auctions for the SETT stable currency.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	locker, closeLocker, err := setupLockManager(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize settlement lock", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLocker()

	publisher, closePublisher := setupPublisher(cfg, logger)
	defer closePublisher()

	sysClock := clock.SystemClock{}
	container := services.NewServiceContainer(cfg, repos, sysClock, publisher, locker)

	bidLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, sysClock, bidLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return container.Blocks.Run(gctx, cfg.Settlement.BlockInterval)
	})

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaPegTopic != "" {
		consumer := pegfeed.NewConsumer(cfg.KafkaBrokers, cfg.KafkaPegTopic, cfg.KafkaGroupID, container.Stabilization, sysClock)
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// setupRepositories selects PostgreSQL when PGSQL_URL is set and in-memory storage otherwise.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("Using in-memory storage; state is lost on restart.")
		return portsrepo.RepositoryProvider{
			AuctionRepo: memory.NewAuctionRepository(),
			Ledger:      memory.NewLedger(cfg.Auction.IssuerAccountID),
		}, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool, cfg.Auction.IssuerAccountID), func() { database.ClosePgxPool(dbPool) }, nil
}

// setupLockManager selects the Redis lock when REDIS_ADDR is set.
func setupLockManager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portssvc.LockManager, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-process settlement lock")
		return lock.NewLocalLockManager(), func() {}, nil
	}

	lm, err := lock.NewRedisLockManager(ctx, lock.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis settlement lock", slog.String("addr", cfg.RedisAddr))
	return lm, func() {
		if err := lm.Close(); err != nil {
			logger.Warn("Failed to close Redis client", slog.String("error", err.Error()))
		}
	}, nil
}

// setupPublisher always logs events and additionally streams them to Kafka when brokers are configured.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (portssvc.EventPublisher, func()) {
	sinks := events.Fanout{events.Metered{Next: events.LogPublisher{}}}
	closer := func() {}

	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		sinks = append(sinks, events.Metered{Next: kp})
		closer = func() {
			if err := kp.Close(); err != nil {
				logger.Warn("Failed to close Kafka publisher", slog.String("error", err.Error()))
			}
		}
	}
	return sinks, closer
}
