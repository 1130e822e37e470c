// Command migrate creates the tables and seeds the country rows.
package main

import (
	"context"
	"log"
	"time"

	"finance_collector/internal/feature/companies/adapters"
	"finance_collector/internal/platform/config"
	infradb "finance_collector/internal/platform/db"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		if err := infradb.Close(db); err != nil {
			log.Println("[ERROR] Failed to close database:", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := adapters.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	if err := adapters.SeedCountries(ctx, db, adapters.DefaultCountries); err != nil {
		log.Fatalf("failed to seed countries: %v", err)
	}
	log.Printf("migrate ok (%d countries)", len(adapters.DefaultCountries))
}
