package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
	"github.com/bigappletaxi/fleetops-backend/pkg/sequence"
)

// ReceiptNumberWidth is the zero-padded width of generated receipt numbers.
const ReceiptNumberWidth = 12

// Service records ledger entries and daily receipts.
type Service interface {
	RecordEntry(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.LedgerEntry, error)
	CreateReceipt(ctx context.Context, tx *gorm.DB, input CreateReceiptInput) (*models.DailyReceipt, error)
}

type service struct{}

// NewService returns the ledger service.
func NewService() Service {
	return service{}
}

// RecordEntryInput captures the immutable data a ledger entry requires.
type RecordEntryInput struct {
	Amount      decimal.Decimal
	Debit       bool
	Source      enums.LedgerSource
	SourceID    *int64
	DriverID    *int64
	LeaseID     *int64
	MedallionID *int64
	EntryDate   *time.Time
	Description string
	ActorUserID int64
}

// CreateReceiptInput captures one settlement receipt row with its earnings
// and dues breakdown.
type CreateReceiptInput struct {
	DriverID        *int64
	VehicleID       *int64
	LeaseID         *int64
	MedallionNumber string
	PeriodStart     *time.Time
	PeriodEnd       *time.Time
	CCEarnings      decimal.Decimal
	CashEarnings    decimal.Decimal
	Tips            decimal.Decimal
	LeaseDue        decimal.Decimal
	EZPassDue       decimal.Decimal
	PVBDue          decimal.Decimal
	CURBDue         decimal.Decimal
	ManualFee       decimal.Decimal
	Incentives      decimal.Decimal
	CashPaid        decimal.Decimal
	Balance         decimal.Decimal
	Status          string
	ActorUserID     int64
}

func (service) RecordEntry(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.LedgerEntry, error) {
	if !input.Source.IsValid() {
		return nil, fmt.Errorf("invalid ledger source %q", input.Source)
	}
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("ledger amount cannot be negative")
	}

	entry := models.LedgerEntry{
		Amount:      input.Amount,
		Debit:       input.Debit,
		SourceType:  input.Source,
		SourceID:    input.SourceID,
		DriverRef:   input.DriverID,
		LeaseID:     input.LeaseID,
		MedallionID: input.MedallionID,
		EntryDate:   input.EntryDate,
		Audit:       models.Audit{CreatedBy: input.ActorUserID},
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		entry.Description = &desc
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateReceipt allocates the next receipt number, inserts the receipt, then
// inserts the matching debit ledger entry and back-links it. Callers must run
// this inside a transaction so the pair commits atomically.
func (s service) CreateReceipt(ctx context.Context, tx *gorm.DB, input CreateReceiptInput) (*models.DailyReceipt, error) {
	number, err := sequence.Next(ctx, tx, sequence.ReceiptSeries)
	if err != nil {
		return nil, fmt.Errorf("allocating receipt number: %w", err)
	}

	receipt := models.DailyReceipt{
		ReceiptNumber: sequence.Format(number, ReceiptNumberWidth),
		DriverRef:     input.DriverID,
		VehicleRef:    input.VehicleID,
		LeaseID:       input.LeaseID,
		PeriodStart:   input.PeriodStart,
		PeriodEnd:     input.PeriodEnd,
		CCEarnings:    input.CCEarnings,
		CashEarnings:  input.CashEarnings,
		Tips:          input.Tips,
		LeaseDue:      input.LeaseDue,
		EZPassDue:     input.EZPassDue,
		PVBDue:        input.PVBDue,
		CURBDue:       input.CURBDue,
		ManualFee:     input.ManualFee,
		Incentives:    input.Incentives,
		CashPaid:      input.CashPaid,
		Balance:       input.Balance,
		Audit:         models.Audit{CreatedBy: input.ActorUserID},
	}
	if medallion := strings.TrimSpace(input.MedallionNumber); medallion != "" {
		receipt.MedallionNumber = &medallion
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		receipt.Status = &status
	}
	if err := tx.WithContext(ctx).Create(&receipt).Error; err != nil {
		return nil, err
	}

	entry, err := s.RecordEntry(ctx, tx, RecordEntryInput{
		Amount:      input.CashPaid.Add(input.Balance),
		Debit:       true,
		Source:      enums.LedgerSourceDTR,
		SourceID:    &receipt.ID,
		DriverID:    input.DriverID,
		LeaseID:     input.LeaseID,
		EntryDate:   input.PeriodEnd,
		Description: fmt.Sprintf("Daily receipt %s", receipt.ReceiptNumber),
		ActorUserID: input.ActorUserID,
	})
	if err != nil {
		return nil, err
	}

	receipt.LedgerSnapshotID = &entry.ID
	if err := tx.WithContext(ctx).Model(&models.DailyReceipt{}).
		Where("id = ?", receipt.ID).
		Update("ledger_snapshot_id", entry.ID).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}
