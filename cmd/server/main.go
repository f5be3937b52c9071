package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/fieldstock/backend/internal/application/inventory"
	reportapp "github.com/fieldstock/backend/internal/application/report"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/fieldstock/backend/internal/infrastructure/cache"
	"github.com/fieldstock/backend/internal/infrastructure/config"
	"github.com/fieldstock/backend/internal/infrastructure/event"
	"github.com/fieldstock/backend/internal/infrastructure/logger"
	"github.com/fieldstock/backend/internal/infrastructure/persistence"
	"github.com/fieldstock/backend/internal/infrastructure/scheduler"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stock control engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	countRepo := persistence.NewGormCountRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	reportRepo := persistence.NewGormInventoryReportRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	itemService := inventoryapp.NewItemService(itemRepo, scope)
	stockService := inventoryapp.NewStockService(transactionRepo, scope)
	allocationService := inventoryapp.NewAllocationService(allocationRepo, scope)
	countService := inventoryapp.NewCountService(countRepo, itemRepo, scope)
	alertService := inventoryapp.NewAlertService(alertRepo, itemRepo, log)
	reportService := reportapp.NewReportService(reportRepo, log)

	// Redis-backed caches: dashboard summaries and event idempotency.
	// Redis being unreachable is not fatal, reports then always hit the DB
	// and event dedup stays in-process.
	var idemStore shared.IdempotencyStore = cache.NewInMemoryIdempotencyStore()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, falling back to in-process caches", zap.Error(err))
	} else {
		if cfg.Report.CacheEnabled {
			reportService.SetCache(cache.NewRedisDashboardCache(redisClient))
			reportService.SetSummaryTTL(cfg.Report.SummaryCacheTTL)
		}
		_ = idemStore.Close()
		idemStore = cache.NewRedisIdempotencyStore(redisClient, "")
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}
	cancelPing()

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	itemService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	allocationService.SetEventPublisher(eventBus)
	countService.SetEventPublisher(eventBus)
	alertService.SetEventPublisher(eventBus)

	lowStockHandler := inventoryapp.NewLowStockHandler(log, itemRepo, alertService)
	eventBus.Subscribe(event.NewIdempotentHandler(lowStockHandler, idemStore, log))
	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Periodic reorder-level sweep across all organizations
	sweepScheduler := scheduler.NewAlertSweepScheduler(alertService, itemRepo, log, scheduler.AlertSweepSchedulerConfig{
		Enabled:      cfg.Alert.SweepEnabled,
		Interval:     cfg.Alert.SweepInterval,
		SweepTimeout: cfg.Scheduler.JobTimeout,
	})
	if err := sweepScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start alert sweep scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sweepScheduler.Stop(stopCtx); err != nil {
			log.Error("Error stopping alert sweep scheduler", zap.Error(err))
		}
	}()

	log.Info("Stock control engine started",
		zap.Bool("alert_sweep_enabled", cfg.Alert.SweepEnabled),
		zap.Duration("alert_sweep_interval", cfg.Alert.SweepInterval),
	)

	// Block until shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
}
