// Command seed provisions the demo tenant and super-admin against the
// configured database. Without DATABASE_URL there is nothing to persist into.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"saasbase/internal/app"
	"saasbase/internal/platform/config"
	"saasbase/internal/platform/database"
	"saasbase/internal/platform/logger"
	"saasbase/internal/seeder"
	"saasbase/migrations"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	if pool == nil {
		log.Error("DATABASE_URL is required to seed")
		os.Exit(1)
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.Up(ctx, pool.DB()); err != nil {
			log.Error("run migrations", "error", err)
			os.Exit(1)
		}
	}

	a := app.New(cfg, app.PostgresStores(pool.DB()), app.Options{Logger: log})
	s := seeder.New(a.Provisioning, a.Tenants, a.Users, a.Projects, a.Tasks, a.Stores.Users, a.Hasher, log)
	if err := s.SeedAll(ctx); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("demo tenant:  %s (admin %s / %s)\n", seeder.DemoSubdomain, seeder.DemoAdminEmail, seeder.DemoAdminPassword)
	fmt.Printf("super admin:  %s / %s\n", seeder.SuperAdminEmail, seeder.SuperAdminPassword)
}
