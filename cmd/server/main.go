package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"saasbase/internal/app"
	"saasbase/internal/auth/lockout"
	"saasbase/internal/platform/config"
	"saasbase/internal/platform/database"
	"saasbase/internal/platform/kafka/producer"
	"saasbase/internal/platform/logger"
	"saasbase/internal/platform/metrics"
	"saasbase/internal/platform/redis"
	"saasbase/internal/ratelimit"
	"saasbase/internal/seeder"
	"saasbase/migrations"
	"saasbase/pkg/platform/audit/publisher"
	"saasbase/pkg/platform/tracer"
)

const (
	shutdownTimeout    = 10 * time.Second
	statsInterval      = 15 * time.Second
	readHeaderTimeout  = 5 * time.Second
	producerCloseGrace = 5 * time.Second
)

// main loads configuration, connects the optional backends, and runs the HTTP
// server until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	infra := metrics.New()
	appMetrics := app.NewMetrics()

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	stores := app.MemoryStores()
	if pool != nil {
		defer pool.Close() //nolint:errcheck // process exit
		if err := migrations.Up(ctx, pool.DB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		stores = app.PostgresStores(pool.DB())
	}

	opts := app.Options{
		Logger:        log,
		Metrics:       appMetrics,
		Tracer:        tracer.NewOTel(),
		OnMirrorError: infra.IncrementAuditMirrorErrors,
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts.LoginStore = lockout.NewRedis(redisClient.Client)
		opts.RateLimitStore = ratelimit.NewRedis(redisClient.Client)
	}

	var kafka *producer.Producer
	if cfg.Kafka.Brokers != "" {
		kafka, err = producer.New(cfg.Kafka, log, producer.WithDeliveryErrorHook(func(topic string, err error) {
			infra.IncrementAuditMirrorErrors()
		}))
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer func() {
			if err := kafka.Close(producerCloseGrace); err != nil {
				log.Warn("kafka producer close failed", "error", err)
			}
		}()
		opts.Mirror = publisher.New(kafka, cfg.Kafka.AuditTopic)
	}

	a := app.New(cfg, stores, opts)
	if pool != nil {
		a.Health.RegisterCheck("database", pool.Health)
	}
	if redisClient != nil {
		a.Health.RegisterCheck("redis", redisClient.Health)
	}
	if kafka != nil {
		a.Health.RegisterCheck("kafka", kafka.Ping)
	}

	if cfg.SeedDemo {
		s := seeder.New(a.Provisioning, a.Tenants, a.Users, a.Projects, a.Tasks, a.Stores.Users, a.Hasher, log)
		if err := s.SeedAll(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Info("starting saasbase",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"storage", stores.Backend,
		"redis", redisClient != nil,
		"kafka", kafka != nil,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if pool != nil {
					pool.RecordStats(infra)
				}
				if redisClient != nil {
					redisClient.RecordPoolStats(infra)
				}
			}
		}
	})
	return g.Wait()
}
