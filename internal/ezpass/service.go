package ezpass

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
	"github.com/bigappletaxi/fleetops-backend/pkg/pagination"
)

// TransactionInput is one toll row prepared for import.
type TransactionInput struct {
	TransactionID   string
	TransactionDate time.Time
	TransactionTime string
	PostingDate     *time.Time
	TagOrPlate      string
	PlateNumber     string
	Agency          string
	EntryPlaza      string
	ExitPlaza       string
	VehicleClass    string
	Amount          decimal.Decimal
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	LogID             int64           `json:"log_id"`
	RecordsImpacted   int             `json:"records_impacted"`
	SuccessCount      int             `json:"success_count"`
	UnidentifiedCount int             `json:"unidentified_count"`
	DuplicateCount    int             `json:"duplicate_count"`
	Status            enums.LogStatus `json:"status"`
}

// AssociationResult summarizes one association pass.
type AssociationResult struct {
	LogID          int64 `json:"log_id"`
	TotalProcessed int   `json:"total_processed"`
	Associated     int   `json:"associated"`
	Failed         int   `json:"failed"`
}

// Service imports E-ZPass toll batches and associates them with the fleet.
type Service interface {
	Import(ctx context.Context, tx *gorm.DB, rows []TransactionInput, actorUserID int64) (*ImportResult, error)
	Associate(ctx context.Context, tx *gorm.DB, actorUserID int64) (*AssociationResult, error)
	ListLogs(ctx context.Context, tx *gorm.DB, params pagination.Params) ([]models.EZPassLog, string, error)
}

type service struct {
	log *logger.Logger
}

// NewService wires the E-ZPass service.
func NewService(log *logger.Logger) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{log: log}, nil
}

// Import writes a batch log and inserts the rows that carry the minimum
// identifying fields. Tolls are deduped by (tag/plate, transaction date,
// amount): a row that already exists inserts nothing and counts as a
// duplicate, so re-importing a statement is a no-op.
func (s *service) Import(ctx context.Context, tx *gorm.DB, rows []TransactionInput, actorUserID int64) (*ImportResult, error) {
	impacted := len(rows)
	log := models.EZPassLog{
		LogDate:         time.Now().UTC(),
		LogType:         enums.LogTypeImport,
		RecordsImpacted: &impacted,
		Status:          enums.LogStatusProcessing,
		Audit:           models.Audit{CreatedBy: actorUserID},
	}
	if err := tx.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, fmt.Errorf("creating import log: %w", err)
	}

	success := 0
	unidentified := 0
	duplicate := 0
	for _, row := range rows {
		tagOrPlate := strings.TrimSpace(row.TagOrPlate)
		if tagOrPlate == "" || row.TransactionDate.IsZero() {
			s.log.Warn(ctx, "toll row missing tag/plate or date, marked unidentified")
			unidentified++
			continue
		}

		var count int64
		if err := tx.WithContext(ctx).Model(&models.EZPassTransaction{}).
			Where("tag_or_plate = ? AND transaction_date = ? AND amount = ?",
				tagOrPlate, row.TransactionDate, row.Amount).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			duplicate++
			continue
		}

		txn := models.EZPassTransaction{
			TransactionDate: row.TransactionDate,
			TagOrPlate:      tagOrPlate,
			PostingDate:     row.PostingDate,
			Amount:          row.Amount,
			Status:          enums.ImportStatusImported,
			LogID:           &log.ID,
			Audit:           models.Audit{CreatedBy: actorUserID},
		}
		txn.TransactionID = optional(row.TransactionID)
		txn.TransactionTime = optional(row.TransactionTime)
		txn.PlateNumber = optional(row.PlateNumber)
		if txn.PlateNumber == nil {
			txn.PlateNumber = &tagOrPlate
		}
		txn.Agency = optional(row.Agency)
		txn.EntryPlaza = optional(row.EntryPlaza)
		txn.ExitPlaza = optional(row.ExitPlaza)
		txn.VehicleClass = optional(row.VehicleClass)

		if err := tx.WithContext(ctx).Create(&txn).Error; err != nil {
			return nil, fmt.Errorf("inserting toll transaction: %w", err)
		}
		success++
	}

	status := enums.LogStatusSuccess
	if unidentified > 0 {
		status = enums.LogStatusPartial
	}
	if err := tx.WithContext(ctx).Model(&log).Updates(map[string]any{
		"success_count":      success,
		"unidentified_count": unidentified,
		"status":             status,
	}).Error; err != nil {
		return nil, fmt.Errorf("finalizing import log: %w", err)
	}

	return &ImportResult{
		LogID:             log.ID,
		RecordsImpacted:   impacted,
		SuccessCount:      success,
		UnidentifiedCount: unidentified,
		DuplicateCount:    duplicate,
		Status:            status,
	}, nil
}

// Associate matches Imported transactions to a vehicle by plate, then to the
// active lease and its driver. Unmatched rows are marked Failed with a reason.
func (s *service) Associate(ctx context.Context, tx *gorm.DB, actorUserID int64) (*AssociationResult, error) {
	var transactions []models.EZPassTransaction
	if err := tx.WithContext(ctx).
		Where("status = ?", enums.ImportStatusImported).
		Order("id ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("loading unassociated transactions: %w", err)
	}

	result := &AssociationResult{TotalProcessed: len(transactions)}
	if len(transactions) == 0 {
		return result, nil
	}

	for i := range transactions {
		txn := &transactions[i]
		plate := ""
		if txn.PlateNumber != nil {
			plate = *txn.PlateNumber
		}

		match, err := matchActiveLeaseByPlate(ctx, tx, plate)
		if err != nil {
			return nil, err
		}
		if match == nil {
			reason := fmt.Sprintf("no active lease found for plate %q", plate)
			if err := tx.WithContext(ctx).Model(txn).Updates(map[string]any{
				"status":                  enums.ImportStatusFailed,
				"associate_failed_reason": reason,
				"modified_by":             actorUserID,
			}).Error; err != nil {
				return nil, err
			}
			result.Failed++
			continue
		}

		updates := map[string]any{
			"status":                  enums.ImportStatusAssociated,
			"vehicle_id":              match.VehicleID,
			"associate_failed_reason": nil,
			"modified_by":             actorUserID,
		}
		if match.DriverID != nil {
			updates["driver_id"] = *match.DriverID
		}
		if match.MedallionNumber != "" {
			updates["medallion_number"] = match.MedallionNumber
		}
		if err := tx.WithContext(ctx).Model(txn).Updates(updates).Error; err != nil {
			return nil, err
		}
		result.Associated++
	}

	status := enums.LogStatusSuccess
	if result.Failed > 0 {
		status = enums.LogStatusPartial
	}
	impacted := result.TotalProcessed
	log := models.EZPassLog{
		LogDate:           time.Now().UTC(),
		LogType:           enums.LogTypeAssociate,
		RecordsImpacted:   &impacted,
		SuccessCount:      &result.Associated,
		UnidentifiedCount: &result.Failed,
		Status:            status,
		Audit:             models.Audit{CreatedBy: actorUserID},
	}
	if err := tx.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, fmt.Errorf("creating association log: %w", err)
	}
	result.LogID = log.ID
	return result, nil
}

// ListLogs returns batch logs newest first, keyed by a (created_on, id)
// cursor.
func (s *service) ListLogs(ctx context.Context, tx *gorm.DB, params pagination.Params) ([]models.EZPassLog, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := tx.WithContext(ctx).Model(&models.EZPassLog{}).
		Order("created_on DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where("created_on < ? OR (created_on = ? AND id < ?)", cursor.CreatedOn, cursor.CreatedOn, cursor.ID)
	}

	var logs []models.EZPassLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, "", fmt.Errorf("listing toll logs: %w", err)
	}

	next := ""
	if len(logs) > limit {
		logs = logs[:limit]
		last := logs[len(logs)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedOn: last.CreatedOn, ID: last.ID})
	}
	return logs, next, nil
}

// leaseMatch carries the fleet links resolved for one plate.
type leaseMatch struct {
	VehicleID       int64
	LeaseID         int64
	DriverID        *int64
	MedallionID     *int64
	MedallionNumber string
}

func matchActiveLeaseByPlate(ctx context.Context, tx *gorm.DB, plate string) (*leaseMatch, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, nil
	}

	var vehicle models.Vehicle
	err := tx.WithContext(ctx).Where("plate_number = ?", plate).First(&vehicle).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lease models.Lease
	err = tx.WithContext(ctx).
		Where("vehicle_id = ? AND is_active = ?", vehicle.ID, true).
		First(&lease).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	match := &leaseMatch{VehicleID: vehicle.ID, LeaseID: lease.ID, MedallionID: &lease.MedallionID}

	var leaseDriver models.LeaseDriver
	err = tx.WithContext(ctx).
		Where("lease_id = ?", lease.ID).
		Order("id ASC").
		First(&leaseDriver).Error
	if err == nil {
		match.DriverID = &leaseDriver.DriverRef
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var medallion models.Medallion
	if err := tx.WithContext(ctx).First(&medallion, lease.MedallionID).Error; err == nil {
		match.MedallionNumber = medallion.MedallionNumber
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return match, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
