package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// txRunner executes a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TollAssociationJobParams configure the scheduled toll matching work.
type TollAssociationJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Tolls       ezpass.Service
	ActorUserID int64
}

// NewTollAssociationJob constructs the job that links imported toll
// transactions to vehicles, medallions and drivers.
func NewTollAssociationJob(params TollAssociationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Tolls == nil {
		return nil, fmt.Errorf("toll service required")
	}
	return &tollAssociationJob{
		logg:  params.Logger,
		db:    params.DB,
		tolls: params.Tolls,
		actor: params.ActorUserID,
	}, nil
}

type tollAssociationJob struct {
	logg  *logger.Logger
	db    txRunner
	tolls ezpass.Service
	actor int64
}

func (j *tollAssociationJob) Name() string { return "ezpass-association" }

func (j *tollAssociationJob) Run(ctx context.Context) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		result, err := j.tolls.Associate(ctx, tx, j.actor)
		if err != nil {
			return fmt.Errorf("associate tolls: %w", err)
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"processed":  result.TotalProcessed,
			"associated": result.Associated,
			"failed":     result.Failed,
		})
		j.logg.Info(logCtx, "toll association complete")
		return nil
	})
}
