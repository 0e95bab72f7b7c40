package curb

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	TotalProcessed int `json:"total_processed"`
	Reconciled     int `json:"reconciled"`
	Skipped        int `json:"skipped"`
}

// Service reconciles CURB trip settlements against drivers and leases.
type Service interface {
	Reconcile(ctx context.Context, tx *gorm.DB, actorUserID int64) (*ReconcileResult, error)
	FindTripByTagOrPlate(ctx context.Context, tx *gorm.DB, tagOrPlate string) (*models.CURBTrip, error)
}

type service struct {
	log    *logger.Logger
	ledger ledger.Service
}

// NewService wires the CURB reconciliation service.
func NewService(log *logger.Logger, ledgerSvc ledger.Service) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	return &service{log: log, ledger: ledgerSvc}, nil
}

// Reconcile walks unreconciled trips, resolves each trip's driver and active
// lease, posts a debit ledger entry for the settlement, and marks the trip
// reconciled. Trips whose driver or lease cannot be resolved stay unreconciled
// for the next pass.
func (s *service) Reconcile(ctx context.Context, tx *gorm.DB, actorUserID int64) (*ReconcileResult, error) {
	var trips []models.CURBTrip
	if err := tx.WithContext(ctx).
		Where("is_reconciled = ?", false).
		Order("id ASC").
		Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("loading unreconciled trips: %w", err)
	}

	result := &ReconcileResult{TotalProcessed: len(trips)}
	for i := range trips {
		trip := &trips[i]

		externalID := ""
		if trip.DriverExternalID != nil {
			externalID = strings.TrimSpace(*trip.DriverExternalID)
		}
		if externalID == "" {
			result.Skipped++
			continue
		}

		var driver models.Driver
		err := tx.WithContext(ctx).Where("driver_id = ?", externalID).First(&driver).Error
		if err == gorm.ErrRecordNotFound {
			s.log.Warn(s.log.WithField(ctx, "record_id", trip.RecordID), "trip driver not found, leaving unreconciled")
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}

		lease, err := activeLeaseForDriver(ctx, tx, driver.ID)
		if err != nil {
			return nil, err
		}
		if lease == nil {
			s.log.Warn(s.log.WithField(ctx, "record_id", trip.RecordID), "trip lease not found, leaving unreconciled")
			result.Skipped++
			continue
		}

		if _, err := s.ledger.RecordEntry(ctx, tx, ledger.RecordEntryInput{
			Amount:      trip.TotalAmount,
			Debit:       true,
			Source:      enums.LedgerSourceCURB,
			SourceID:    &trip.ID,
			DriverID:    &driver.ID,
			LeaseID:     &lease.ID,
			MedallionID: &lease.MedallionID,
			EntryDate:   trip.TripDate,
			Description: fmt.Sprintf("CURB trip %s", trip.RecordID),
			ActorUserID: actorUserID,
		}); err != nil {
			return nil, err
		}

		if err := tx.WithContext(ctx).Model(trip).Updates(map[string]any{
			"is_reconciled": true,
			"modified_by":   actorUserID,
		}).Error; err != nil {
			return nil, err
		}
		result.Reconciled++
	}
	return result, nil
}

// FindTripByTagOrPlate returns the most recent trip whose tag or plate matches.
func (s *service) FindTripByTagOrPlate(ctx context.Context, tx *gorm.DB, tagOrPlate string) (*models.CURBTrip, error) {
	tagOrPlate = strings.TrimSpace(tagOrPlate)
	if tagOrPlate == "" {
		return nil, nil
	}

	var trip models.CURBTrip
	err := tx.WithContext(ctx).
		Where("tag_number = ? OR plate_number = ?", tagOrPlate, tagOrPlate).
		Order("id DESC").
		First(&trip).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func activeLeaseForDriver(ctx context.Context, tx *gorm.DB, driverID int64) (*models.Lease, error) {
	var leaseDriver models.LeaseDriver
	err := tx.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("id DESC").
		First(&leaseDriver).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lease models.Lease
	err = tx.WithContext(ctx).First(&lease, leaseDriver.LeaseID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lease, nil
}
