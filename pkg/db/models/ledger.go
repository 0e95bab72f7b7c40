package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// LedgerEntry records a single debit or credit against a driver/lease.
type LedgerEntry struct {
	ID          int64              `gorm:"primaryKey"`
	Amount      decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	Debit       bool               `gorm:"column:debit;not null;default:true"`
	SourceType  enums.LedgerSource `gorm:"column:source_type;not null;index:ix_ledger_entries_source"`
	SourceID    *int64             `gorm:"column:source_id;index:ix_ledger_entries_source"`
	DriverRef   *int64             `gorm:"column:driver_id"`
	LeaseID     *int64             `gorm:"column:lease_id"`
	MedallionID *int64             `gorm:"column:medallion_id"`
	EntryDate   *time.Time         `gorm:"column:entry_date"`
	Description *string            `gorm:"column:description"`
	Audit
}

// DailyReceipt is a driver settlement receipt for one lease period, with the
// earnings and dues breakdown the statement carries. LedgerSnapshotID always
// points at the ledger entry written in the same transaction; a receipt is
// never committed without it.
type DailyReceipt struct {
	ID               int64           `gorm:"primaryKey"`
	ReceiptNumber    string          `gorm:"column:receipt_number;not null;uniqueIndex:ux_daily_receipts_number"`
	DriverRef        *int64          `gorm:"column:driver_id"`
	VehicleRef       *int64          `gorm:"column:vehicle_id"`
	LeaseID          *int64          `gorm:"column:lease_id"`
	MedallionNumber  *string         `gorm:"column:medallion_number"`
	PeriodStart      *time.Time      `gorm:"column:period_start"`
	PeriodEnd        *time.Time      `gorm:"column:period_end"`
	CCEarnings       decimal.Decimal `gorm:"column:cc_earnings;type:numeric(12,2);not null;default:0"`
	CashEarnings     decimal.Decimal `gorm:"column:cash_earnings;type:numeric(12,2);not null;default:0"`
	Tips             decimal.Decimal `gorm:"column:tips;type:numeric(12,2);not null;default:0"`
	LeaseDue         decimal.Decimal `gorm:"column:lease_due;type:numeric(12,2);not null;default:0"`
	EZPassDue        decimal.Decimal `gorm:"column:ezpass_due;type:numeric(12,2);not null;default:0"`
	PVBDue           decimal.Decimal `gorm:"column:pvb_due;type:numeric(12,2);not null;default:0"`
	CURBDue          decimal.Decimal `gorm:"column:curb_due;type:numeric(12,2);not null;default:0"`
	ManualFee        decimal.Decimal `gorm:"column:manual_fee;type:numeric(12,2);not null;default:0"`
	Incentives       decimal.Decimal `gorm:"column:incentives;type:numeric(12,2);not null;default:0"`
	CashPaid         decimal.Decimal `gorm:"column:cash_paid;type:numeric(12,2);not null"`
	Balance          decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null"`
	Status           *string         `gorm:"column:status"`
	LedgerSnapshotID *int64          `gorm:"column:ledger_snapshot_id"`
	Audit

	LedgerSnapshot *LedgerEntry `gorm:"foreignKey:LedgerSnapshotID"`
}

// Sequence is a named monotonic counter backing receipt numbering.
type Sequence struct {
	Name         string     `gorm:"column:name;primaryKey"`
	CurrentValue int64      `gorm:"column:current_value;not null;default:0"`
	UpdatedOn    *time.Time `gorm:"column:updated_on;autoUpdateTime"`
}
