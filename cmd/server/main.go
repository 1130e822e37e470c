package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"finance_collector/internal/app/di"
	"finance_collector/internal/app/router"
	"finance_collector/internal/app/scheduler"
	companieshandler "finance_collector/internal/feature/companies/transport/handler"
	"finance_collector/internal/platform/config"
	infradb "finance_collector/internal/platform/db"
	platformhandler "finance_collector/internal/platform/http/handler"
	infraredis "finance_collector/internal/platform/redis"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.FMP.APIKey == "" {
		log.Println("[WARN] FMP_API_KEY is not set. Upstream requests will be rejected.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer closeDB(db)

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Println("[WARN] Redis unavailable. Run status is kept in memory.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// Usecase
	status := di.NewRunStatusStore(rdb, cfg.Redis.Prefix)
	orchestrator := di.NewOrchestrator(cfg, di.NewFMPClient(cfg.FMP, cfg.Collect.EnrichConcurrency), db, status)
	query := di.NewCompanyQuery(db)

	// Handler
	collectH := companieshandler.NewCollectHandler(orchestrator, query)
	health := platformhandler.Health(healthChecks(db, rdb))

	if cfg.Auth.CollectJWTSecret == "" {
		log.Println("[WARN] COLLECT_JWT_SECRET is not set. /collect is open to anyone.")
	}
	r := router.NewRouter(collectH, health, cfg.Auth.CollectJWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	sched := scheduler.New(orchestrator, cfg.Collect.RunOnStartup, nil)

	go func() {
		slog.Info("finance data collector service started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] http server: %v", err)
			stop()
		}
	}()

	if startScheduler(ctx, sched, stop) {
		slog.Info("scheduled daily data collection", "schedule", scheduler.DailySpec, "next", sched.Next())
	}

	<-ctx.Done()
	slog.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] http server shutdown:", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Println("[WARN] running collection was cancelled:", err)
	}
	slog.Info("shutdown complete")
}

type starter interface {
	Start(ctx context.Context) error
}

// startScheduler はスケジューラを開始します。失敗した場合は stop を呼び、通常の終了処理に任せます。
func startScheduler(ctx context.Context, s starter, stop func()) bool {
	if err := s.Start(ctx); err != nil {
		log.Printf("[ERROR] failed to start scheduler: %v", err)
		stop()
		return false
	}
	return true
}

func healthChecks(db *gorm.DB, rdb *redisv9.Client) map[string]platformhandler.Check {
	checks := map[string]platformhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

func closeDB(db *gorm.DB) {
	if err := infradb.Close(db); err != nil {
		log.Println("[ERROR] Failed to close database:", err)
	}
}
