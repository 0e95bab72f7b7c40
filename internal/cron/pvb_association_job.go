package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// ViolationAssociationJobParams configure the scheduled violation matching
// work.
type ViolationAssociationJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Violations  pvb.Service
	ActorUserID int64
}

// NewViolationAssociationJob constructs the job that links imported parking
// violations to vehicles, medallions and drivers.
func NewViolationAssociationJob(params ViolationAssociationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Violations == nil {
		return nil, fmt.Errorf("violation service required")
	}
	return &violationAssociationJob{
		logg:       params.Logger,
		db:         params.DB,
		violations: params.Violations,
		actor:      params.ActorUserID,
	}, nil
}

type violationAssociationJob struct {
	logg       *logger.Logger
	db         txRunner
	violations pvb.Service
	actor      int64
}

func (j *violationAssociationJob) Name() string { return "pvb-association" }

func (j *violationAssociationJob) Run(ctx context.Context) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		result, err := j.violations.Associate(ctx, tx, j.actor)
		if err != nil {
			return fmt.Errorf("associate violations: %w", err)
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"processed":  result.TotalProcessed,
			"associated": result.Associated,
			"failed":     result.Failed,
		})
		j.logg.Info(logCtx, "violation association complete")
		return nil
	})
}
