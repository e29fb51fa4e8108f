package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"turtlemint-b2b/internal/config"
	"turtlemint-b2b/internal/db"
	"turtlemint-b2b/internal/importer"
	customerrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

func main() {
	var (
		customersPath string
		policiesPath  string
	)
	flag.StringVar(&customersPath, "customers", "", "Path to a customer CSV (name,phone,email,address)")
	flag.StringVar(&policiesPath, "policies", "", "Path to a policy CSV keyed by customer_email")
	flag.Parse()

	if customersPath == "" && policiesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBOptions())
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	customers := customerrepo.NewPostgres(pool, nil)
	policies := policyrepo.NewPostgres(pool, nil)

	// Customers go first so the policy file can reference them by email.
	if customersPath != "" {
		importFile(customersPath, "customers", func(f *os.File) (int, error) {
			return importer.NewCustomerImporter(f, customers).Run(ctx)
		})
	}
	if policiesPath != "" {
		importFile(policiesPath, "policies", func(f *os.File) (int, error) {
			return importer.NewPolicyImporter(f, policies, customers).Run(ctx)
		})
	}
}

func importFile(path, what string, run func(*os.File) (int, error)) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	start := time.Now()
	count, err := run(f)
	if err != nil {
		log.Fatalf("import %s failed: %v", what, err)
	}
	fmt.Printf("Imported %d %s from %s in %s\n", count, what, path, time.Since(start).Truncate(time.Millisecond))
}
