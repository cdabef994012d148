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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/peregrinehq/habitloop-scheduler/internal/config"
	"github.com/peregrinehq/habitloop-scheduler/internal/handler"
	"github.com/peregrinehq/habitloop-scheduler/internal/health"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/recorder"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/repository"
	"github.com/peregrinehq/habitloop-scheduler/internal/infra/syncer"
	"github.com/peregrinehq/habitloop-scheduler/internal/observability/metrics"
	"github.com/peregrinehq/habitloop-scheduler/internal/observability/middleware"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/habit"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reconcile"
	"github.com/peregrinehq/habitloop-scheduler/internal/service/reminder"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	reconcileMetrics, err := metrics.NewReconcileMetrics()
	if err != nil {
		slog.Error("failed to initialize reconcile metrics", slog.String("error", err.Error()))
		return 1
	}

	// Pass results go to InfluxDB locally and BigQuery on gcloud builds.
	resultRecorder, err := recorder.NewRecorder(ctx, recorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize reconcile result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close reconcile result recorder", slog.String("error", err.Error()))
		}
	}()

	scheduler, cleanup, err := initScheduler(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize notification scheduler", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("scheduler cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	ruleRepo := repository.NewRuleRepository(redisClient)
	habitRepo := repository.NewHabitRepository(redisClient)

	reminderService := reminder.NewService(habitRepo, scheduler)

	var syncClient *syncer.Client
	if cfg.Sync.Enabled() {
		syncClient = syncer.NewClient(cfg.Sync.BaseURL, cfg.Sync.APIKey, cfg.Sync.UserID)
		slog.Info("history sync enabled", slog.String("base_url", cfg.Sync.BaseURL))
	}

	habitService := habit.NewService(habitRepo, reminderService, syncClient)
	reconcileService := reconcile.NewService(ruleRepo, scheduler, reconcileMetrics, resultRecorder, cfg.Schedule.HorizonDays)

	ruleHandler := handler.NewRuleHandler(ruleRepo, reconcileService)
	reconcileHandler := handler.NewReconcileHandler(reconcileService, reminderService)
	habitHandler := handler.NewHabitHandler(habitService)
	settingsHandler := handler.NewSettingsHandler(habitService, reminderService)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		TracerName:  "github.com/peregrinehq/habitloop-scheduler/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, Version)
	healthChecker.AddCheck("scheduler", func(ctx context.Context) error {
		_, err := scheduler.ListScheduled(ctx)
		return err
	})
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/rules", ruleHandler.HandleCreateRule)
		v1.GET("/rules", ruleHandler.HandleListRules)
		v1.DELETE("/rules/:id", ruleHandler.HandleDeleteRule)
		v1.DELETE("/rules", ruleHandler.HandleResetRules)

		v1.POST("/reconcile", reconcileHandler.HandleReconcile)

		v1.POST("/habits/:type/log", habitHandler.HandleLog)
		v1.GET("/habits/:type/history", habitHandler.HandleHistory)
		v1.PUT("/habits/:type/history/:day", habitHandler.HandleEditHistory)
		v1.GET("/habits/:type/series/daily", habitHandler.HandleDailySeries)
		v1.GET("/habits/:type/series/weekly", habitHandler.HandleWeeklySeries)
		v1.PUT("/days/:day", habitHandler.HandleEditDay)
		v1.GET("/today", habitHandler.HandleToday)
		v1.POST("/sync", habitHandler.HandleSync)

		v1.GET("/settings", settingsHandler.HandleGetSettings)
		v1.PUT("/settings/goals", settingsHandler.HandleUpdateGoals)
		v1.PUT("/settings/reminders", settingsHandler.HandleUpdateReminders)
		v1.PUT("/settings/rollover", settingsHandler.HandleUpdateRollover)
		v1.POST("/settings/reminders/refresh", settingsHandler.HandleRefreshReminders)
	}

	// Converge the schedule once at startup so a restart never leaves
	// stale notifications pending until the first cron tick.
	go func() {
		if err := reminderService.RefreshAll(ctx); err != nil {
			slog.Warn("startup reminder refresh failed", slog.String("error", err.Error()))
		}
		if _, err := reconcileService.Reconcile(ctx); err != nil {
			slog.Warn("startup reconcile failed", slog.String("error", err.Error()))
		}
	}()

	scheduleRunner := cron.New()
	if _, err := scheduleRunner.AddFunc(cfg.Schedule.ReconcileCron, func() {
		if _, err := reconcileService.Reconcile(ctx); err != nil {
			slog.Warn("periodic reconcile failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		slog.Error("invalid reconcile cron expression",
			slog.String("cron", cfg.Schedule.ReconcileCron),
			slog.String("error", err.Error()),
		)
		return 1
	}
	scheduleRunner.Start()
	defer scheduleRunner.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("horizon_days", cfg.Schedule.HorizonDays),
			slog.String("reconcile_cron", cfg.Schedule.ReconcileCron),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
