package pvb

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

// DefaultPlate stands in when a violation row arrives without a plate.
const DefaultPlate = "TN0001"

// ViolationInput is one parking violation row prepared for import.
type ViolationInput struct {
	PlateNumber   string
	State         string
	VehicleType   string
	SummonsNumber string
	IssueDate     time.Time
	IssueTime     string
	AmountDue     decimal.Decimal
	AmountPaid    decimal.Decimal
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

// Service imports parking violation batches and associates them with the fleet.
type Service interface {
	Import(ctx context.Context, tx *gorm.DB, rows []ViolationInput, actorUserID int64) (*ImportResult, error)
	Associate(ctx context.Context, tx *gorm.DB, actorUserID int64) (*AssociationResult, error)
	ListLogs(ctx context.Context, tx *gorm.DB, params pagination.Params) ([]models.PVBLog, string, error)
}

type service struct {
	log *logger.Logger
}

// NewService wires the violation service.
func NewService(log *logger.Logger) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{log: log}, nil
}

// Import writes a batch log and inserts the rows. Violations are deduped by
// summons number: a row whose summons already exists inserts nothing and
// counts as a duplicate, so re-importing a statement is a no-op.
func (s *service) Import(ctx context.Context, tx *gorm.DB, rows []ViolationInput, actorUserID int64) (*ImportResult, error) {
	impacted := len(rows)
	log := models.PVBLog{
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
		plate := strings.TrimSpace(row.PlateNumber)
		if plate == "" {
			plate = DefaultPlate
		}
		if row.IssueDate.IsZero() {
			s.log.Warn(ctx, "violation row missing issue date, marked unidentified")
			unidentified++
			continue
		}

		summons := strings.TrimSpace(row.SummonsNumber)
		if summons != "" {
			var count int64
			if err := tx.WithContext(ctx).Model(&models.PVBViolation{}).
				Where("summons_number = ?", summons).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				duplicate++
				continue
			}
		}

		violation := models.PVBViolation{
			PlateNumber: plate,
			State:       strings.TrimSpace(row.State),
			IssueDate:   row.IssueDate,
			AmountDue:   row.AmountDue,
			AmountPaid:  row.AmountPaid,
			Status:      enums.ImportStatusImported,
			LogID:       &log.ID,
			Audit:       models.Audit{CreatedBy: actorUserID},
		}
		violation.VehicleType = optional(row.VehicleType)
		violation.IssueTime = optional(row.IssueTime)
		if summons != "" {
			violation.SummonsNumber = &summons
		}
		if err := tx.WithContext(ctx).Create(&violation).Error; err != nil {
			return nil, fmt.Errorf("inserting violation: %w", err)
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

// Associate matches Imported violations to a vehicle by plate, then to its
// medallion and the active lease driver.
func (s *service) Associate(ctx context.Context, tx *gorm.DB, actorUserID int64) (*AssociationResult, error) {
	var violations []models.PVBViolation
	if err := tx.WithContext(ctx).
		Where("status = ?", enums.ImportStatusImported).
		Order("id ASC").
		Find(&violations).Error; err != nil {
		return nil, fmt.Errorf("loading unassociated violations: %w", err)
	}

	result := &AssociationResult{TotalProcessed: len(violations)}
	if len(violations) == 0 {
		return result, nil
	}

	for i := range violations {
		violation := &violations[i]

		var vehicle models.Vehicle
		err := tx.WithContext(ctx).Where("plate_number = ?", violation.PlateNumber).First(&vehicle).Error
		if err == gorm.ErrRecordNotFound {
			reason := fmt.Sprintf("no vehicle found for plate %q", violation.PlateNumber)
			if err := tx.WithContext(ctx).Model(violation).Updates(map[string]any{
				"status":                  enums.ImportStatusFailed,
				"associate_failed_reason": reason,
				"modified_by":             actorUserID,
			}).Error; err != nil {
				return nil, err
			}
			result.Failed++
			continue
		}
		if err != nil {
			return nil, err
		}

		updates := map[string]any{
			"status":                  enums.ImportStatusAssociated,
			"vehicle_id":              vehicle.ID,
			"associate_failed_reason": nil,
			"modified_by":             actorUserID,
		}
		if vehicle.MedallionID != nil {
			updates["medallion_id"] = *vehicle.MedallionID
		}

		var lease models.Lease
		err = tx.WithContext(ctx).
			Where("vehicle_id = ? AND is_active = ?", vehicle.ID, true).
			First(&lease).Error
		if err == nil {
			var leaseDriver models.LeaseDriver
			derr := tx.WithContext(ctx).
				Where("lease_id = ?", lease.ID).
				Order("id ASC").
				First(&leaseDriver).Error
			if derr == nil {
				updates["driver_id"] = leaseDriver.DriverRef
			} else if derr != gorm.ErrRecordNotFound {
				return nil, derr
			}
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		if err := tx.WithContext(ctx).Model(violation).Updates(updates).Error; err != nil {
			return nil, err
		}
		result.Associated++
	}

	status := enums.LogStatusSuccess
	if result.Failed > 0 {
		status = enums.LogStatusPartial
	}
	impacted := result.TotalProcessed
	log := models.PVBLog{
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
func (s *service) ListLogs(ctx context.Context, tx *gorm.DB, params pagination.Params) ([]models.PVBLog, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := tx.WithContext(ctx).Model(&models.PVBLog{}).
		Order("created_on DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where("created_on < ? OR (created_on = ? AND id < ?)", cursor.CreatedOn, cursor.CreatedOn, cursor.ID)
	}

	var logs []models.PVBLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, "", fmt.Errorf("listing violation logs: %w", err)
	}

	next := ""
	if len(logs) > limit {
		logs = logs[:limit]
		last := logs[len(logs)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedOn: last.CreatedOn, ID: last.ID})
	}
	return logs, next, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
