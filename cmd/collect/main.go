// Command collect runs one collection of all market groups and exits.
// HTTP サーバーを起動せずに収集だけを行いたい場合（cron ジョブ、手動実行）に使います。
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance_collector/internal/app/di"
	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/platform/config"
	infradb "finance_collector/internal/platform/db"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Hour)

	o := di.NewOrchestrator(cfg, di.NewFMPClient(cfg.FMP, cfg.Collect.EnrichConcurrency), db, nil)
	summary, err := o.CollectAll(ctx, entity.TriggerManual)

	cancel()
	stop()
	if cerr := infradb.Close(db); cerr != nil {
		log.Println("[ERROR] Failed to close database:", cerr)
	}

	for _, g := range summary.Groups {
		log.Printf("%-10s collected=%d staged=%d skipped=%d %s", g.Group, g.Collected, g.Staged, g.Skipped, g.Error)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Println("collect ok")
}
