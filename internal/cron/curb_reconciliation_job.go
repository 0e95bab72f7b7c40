package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/curb"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// TripReconciliationJobParams configure the scheduled trip settlement work.
type TripReconciliationJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Trips       curb.Service
	ActorUserID int64
}

// NewTripReconciliationJob constructs the job that settles unreconciled CURB
// trips against driver leases.
func NewTripReconciliationJob(params TripReconciliationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Trips == nil {
		return nil, fmt.Errorf("trip service required")
	}
	return &tripReconciliationJob{
		logg:  params.Logger,
		db:    params.DB,
		trips: params.Trips,
		actor: params.ActorUserID,
	}, nil
}

type tripReconciliationJob struct {
	logg  *logger.Logger
	db    txRunner
	trips curb.Service
	actor int64
}

func (j *tripReconciliationJob) Name() string { return "curb-reconciliation" }

func (j *tripReconciliationJob) Run(ctx context.Context) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		result, err := j.trips.Reconcile(ctx, tx, j.actor)
		if err != nil {
			return fmt.Errorf("reconcile trips: %w", err)
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"processed":  result.TotalProcessed,
			"reconciled": result.Reconciled,
			"skipped":    result.Skipped,
		})
		j.logg.Info(logCtx, "trip reconciliation complete")
		return nil
	})
}
