package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// PVBViolation is one parking violation record, deduped by summons number.
type PVBViolation struct {
	ID                    int64              `gorm:"primaryKey"`
	PlateNumber           string             `gorm:"column:plate_number;not null;index:ix_pvb_violations_plate"`
	State                 string             `gorm:"column:state;not null"`
	VehicleType           *string            `gorm:"column:vehicle_type"`
	SummonsNumber         *string            `gorm:"column:summons_number;uniqueIndex:ux_pvb_violations_summons"`
	IssueDate             time.Time          `gorm:"column:issue_date;not null"`
	IssueTime             *string            `gorm:"column:issue_time"`
	AmountDue             decimal.Decimal    `gorm:"column:amount_due;type:numeric(10,2);not null"`
	AmountPaid            decimal.Decimal    `gorm:"column:amount_paid;type:numeric(10,2);not null"`
	DriverRef             *int64             `gorm:"column:driver_id"`
	MedallionID           *int64             `gorm:"column:medallion_id"`
	VehicleID             *int64             `gorm:"column:vehicle_id"`
	LogID                 *int64             `gorm:"column:log_id"`
	Status                enums.ImportStatus `gorm:"column:status;not null;default:'Imported'"`
	AssociateFailedReason *string            `gorm:"column:associate_failed_reason"`
	PostFailedReason      *string            `gorm:"column:post_failed_reason"`
	Audit
}

// TableName keeps the legacy table name.
func (PVBViolation) TableName() string { return "pvb_violations" }

// PVBLog tracks one violation import/association batch.
type PVBLog struct {
	ID                int64           `gorm:"primaryKey"`
	LogDate           time.Time       `gorm:"column:log_date;not null"`
	LogType           enums.LogType   `gorm:"column:log_type;not null"`
	RecordsImpacted   *int            `gorm:"column:records_impacted"`
	SuccessCount      *int            `gorm:"column:success_count"`
	UnidentifiedCount *int            `gorm:"column:unidentified_count"`
	Status            enums.LogStatus `gorm:"column:status;not null;default:'Pending'"`
	Audit
}

// TableName keeps the legacy table name.
func (PVBLog) TableName() string { return "pvb_logs" }
