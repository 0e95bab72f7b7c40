package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigappletaxi/fleetops-backend/api/routes"
	"github.com/bigappletaxi/fleetops-backend/internal/curb"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder/bat"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder/bpm"
	"github.com/bigappletaxi/fleetops-backend/internal/seedruns"
	"github.com/bigappletaxi/fleetops-backend/internal/users"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/db"
	"github.com/bigappletaxi/fleetops-backend/pkg/instance"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
	"github.com/bigappletaxi/fleetops-backend/pkg/metrics"
	"github.com/bigappletaxi/fleetops-backend/pkg/migrate"
	"github.com/bigappletaxi/fleetops-backend/pkg/redis"
	"github.com/bigappletaxi/fleetops-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer gcsClient.Close()

	usersSvc := users.NewService(cfg.Password)
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
	ledgerSvc := ledger.NewService()
	tripSvc, err := curb.NewService(logg, ledgerSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create trip service", err)
		os.Exit(1)
	}

	source, err := seeder.NewGCSSource(gcsClient, cfg.Seeder)
	if err != nil {
		logg.Error(context.Background(), "failed to create workbook source", err)
		os.Exit(1)
	}
	runner, err := seeder.NewRunner(dbClient, logg, metrics.NewSeederMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logg.Error(context.Background(), "failed to create seeder runner", err)
		os.Exit(1)
	}
	seedSvc, err := seedruns.NewService(seedruns.Params{
		Log:    logg,
		Source: source,
		Runner: runner,
		BAT: &bat.Dependencies{
			Log:         logg,
			Addresses:   refdata.NewAddressService(),
			Banks:       refdata.NewBankService(),
			Ledger:      ledgerSvc,
			EZPass:      tollSvc,
			PVB:         violationSvc,
			CURB:        tripSvc,
			ActorUserID: cfg.Seeder.ActorUserID,
		},
		BPM: &bpm.Dependencies{
			Log:         logg,
			Users:       usersSvc,
			ActorUserID: cfg.Seeder.ActorUserID,
		},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create seed run service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient.DB(),
			DBPing:   dbClient,
			Redis:    redisClient,
			GCS:      gcsClient,
			Users:    usersSvc,
			SeedRuns: seedSvc,
			Tolls:    tollSvc,
			PVB:      violationSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
