package main

import (
	"context"
	"log"
	"os"
	"time"

	"turtlemint-b2b/internal/config"
	"turtlemint-b2b/internal/db"
	customerrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
	"turtlemint-b2b/internal/seed"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.DBConnString == "" {
		logger.Fatalf("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBOptions())
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	customers := customerrepo.NewPostgres(pool, logger)
	policies := policyrepo.NewPostgres(pool, logger)
	if err := seed.Apply(ctx, customers, policies, time.Now()); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
