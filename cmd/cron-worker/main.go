package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigappletaxi/fleetops-backend/internal/cron"
	"github.com/bigappletaxi/fleetops-backend/internal/curb"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/db"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
	"github.com/bigappletaxi/fleetops-backend/pkg/metrics"
	"github.com/bigappletaxi/fleetops-backend/pkg/migrate"
	"github.com/bigappletaxi/fleetops-backend/pkg/redis"
)

const lockKeyFormat = "fleetops:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tollSvc, err := ezpass.NewService(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create toll service", err)
		os.Exit(1)
	}
	violationSvc, err := pvb.NewService(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create violation service", err)
		os.Exit(1)
	}
	tripSvc, err := curb.NewService(logg, ledger.NewService())
	if err != nil {
		logg.Error(context.Background(), "failed to create trip service", err)
		os.Exit(1)
	}

	actor := cfg.Seeder.ActorUserID
	tollJob, err := cron.NewTollAssociationJob(cron.TollAssociationJobParams{
		Logger:      logg,
		DB:          dbClient,
		Tolls:       tollSvc,
		ActorUserID: actor,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create toll job", err)
		os.Exit(1)
	}
	violationJob, err := cron.NewViolationAssociationJob(cron.ViolationAssociationJobParams{
		Logger:      logg,
		DB:          dbClient,
		Violations:  violationSvc,
		ActorUserID: actor,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create violation job", err)
		os.Exit(1)
	}
	tripJob, err := cron.NewTripReconciliationJob(cron.TripReconciliationJobParams{
		Logger:      logg,
		DB:          dbClient,
		Trips:       tripSvc,
		ActorUserID: actor,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create trip job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(tollJob, violationJob, tripJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
