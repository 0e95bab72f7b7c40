package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

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
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
	"github.com/bigappletaxi/fleetops-backend/pkg/migrate"
	"github.com/bigappletaxi/fleetops-backend/pkg/storage/gcs"
)

// One-shot workbook import. Reads from a local directory when -dir is set,
// otherwise downloads the object from the configured bucket.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seeder"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	kind := flag.String("kind", seedruns.KindBAT, "workbook kind: bat|bpm")
	object := flag.String("object", "", "workbook object or file name")
	dir := flag.String("dir", "", "local directory to read the workbook from instead of the bucket")
	flag.Parse()

	if *object == "" {
		fmt.Fprintln(os.Stderr, "missing -object")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seeder",
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

	var source seeder.Source
	if *dir != "" {
		source = seeder.FileSource{Dir: *dir}
	} else {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap object storage", err)
			os.Exit(1)
		}
		defer gcsClient.Close()
		source, err = seeder.NewGCSSource(gcsClient, cfg.Seeder)
		if err != nil {
			logg.Error(context.Background(), "failed to create workbook source", err)
			os.Exit(1)
		}
	}

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

	runner, err := seeder.NewRunner(dbClient, logg, nil)
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

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"kind":   *kind,
		"object": *object,
	})

	report, err := seedSvc.Run(ctx, *kind, *object)
	if report != nil {
		if encoded, jsonErr := json.MarshalIndent(report, "", "  "); jsonErr == nil {
			fmt.Println(string(encoded))
		}
	}
	if err != nil {
		logg.Error(ctx, "seed run failed", err)
		os.Exit(1)
	}
}
