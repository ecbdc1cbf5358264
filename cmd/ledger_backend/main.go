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

	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cashbook_ledger/internal/core/services"
	"github.com/SscSPs/cashbook_ledger/internal/handlers"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/SscSPs/cashbook_ledger/internal/platform/cache"
	"github.com/SscSPs/cashbook_ledger/internal/platform/config"
	"github.com/SscSPs/cashbook_ledger/internal/platform/database"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/SscSPs/cashbook_ledger/internal/platform/notify"
	"github.com/SscSPs/cashbook_ledger/internal/platform/queue"
	"github.com/SscSPs/cashbook_ledger/internal/platform/scheduler"
	"github.com/SscSPs/cashbook_ledger/internal/platform/storage"
	"github.com/SscSPs/cashbook_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/cashbook_ledger/internal/repositories/memory"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	reportQueueMaxRetries = 3
	shutdownTimeout       = 30 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, caps, cleanup, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("storage", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	caps.Cache = cache.NewLRUCache(cfg.BalanceCacheSize, cfg.BalanceCacheTTL)
	caps.Signer = storage.NewURLSigner(cfg.DownloadBaseURL, cfg.DownloadURLSecret)
	container := services.NewServiceContainer(cfg, repos, caps)

	sched, err := scheduler.NewScheduler(container.Report, scheduler.Config{
		ReportSweepSchedule: cfg.ReportSweepSchedule,
		ReportStaleAfter:    cfg.ReportStaleAfter,
	}, logger)
	if err != nil {
		logger.Error("Failed to create scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", handlers.IdempotencyKeyHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		metrics.GinMiddleware(),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Limits apply per user on /api/v1 and per IP on the worker routes.
	handlers.RegisterRoutes(r, cfg, container, middleware.RateLimit(limiter))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
}

// setupStorage builds the repositories and the queue and notifier that belong to the chosen driver.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, services.Capabilities, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		reportQueue := queue.NewChannelQueue(queue.LogDispatcher(logger), cfg.ReportQueueWorkers, cfg.ReportQueueSize, reportQueueMaxRetries, logger)
		reportQueue.Start(ctx)
		caps := services.Capabilities{
			Queue:    reportQueue,
			Notifier: notify.LogNotifier{},
		}
		return store.Provider(), caps, reportQueue.Stop, nil

	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, services.Capabilities{}, nil, err
		}
		logger.Info("Database connection pool established.")

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			pool.Close()
			return portsrepo.RepositoryProvider{}, services.Capabilities{}, nil, err
		}

		repos := pgsql.NewRepositoryProvider(pool, cfg.TxMaxRetries)
		caps := services.Capabilities{
			Queue:    pgsql.NewReportOutbox(pool),
			Notifier: notify.NewStoreNotifier(repos.NotificationRepo),
		}
		return repos, caps, pool.Close, nil
	}
}
