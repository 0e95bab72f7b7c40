package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// EZPassTransaction is one toll record from an E-ZPass statement.
type EZPassTransaction struct {
	ID                    int64              `gorm:"primaryKey"`
	TransactionID         *string            `gorm:"column:transaction_id"`
	TransactionDate       time.Time          `gorm:"column:transaction_date;not null"`
	TransactionTime       *string            `gorm:"column:transaction_time"`
	PostingDate           *time.Time         `gorm:"column:posting_date"`
	TagOrPlate            string             `gorm:"column:tag_or_plate;not null"`
	PlateNumber           *string            `gorm:"column:plate_number;index:ix_ezpass_transactions_plate"`
	MedallionNumber       *string            `gorm:"column:medallion_number"`
	DriverRef             *int64             `gorm:"column:driver_id"`
	VehicleID             *int64             `gorm:"column:vehicle_id"`
	Agency                *string            `gorm:"column:agency"`
	EntryPlaza            *string            `gorm:"column:entry_plaza"`
	ExitPlaza             *string            `gorm:"column:exit_plaza"`
	VehicleClass          *string            `gorm:"column:vehicle_class"`
	Amount                decimal.Decimal    `gorm:"column:amount;type:numeric(10,2);not null"`
	Status                enums.ImportStatus `gorm:"column:status;not null;default:'Imported';index:ix_ezpass_transactions_status"`
	AssociateFailedReason *string            `gorm:"column:associate_failed_reason"`
	PostFailedReason      *string            `gorm:"column:post_failed_reason"`
	LogID                 *int64             `gorm:"column:log_id"`
	Audit
}

// TableName keeps the legacy table name.
func (EZPassTransaction) TableName() string { return "ezpass_transactions" }

// EZPassLog tracks one E-ZPass import/association batch.
type EZPassLog struct {
	ID                int64           `gorm:"primaryKey"`
	LogDate           time.Time       `gorm:"column:log_date;not null"`
	LogType           enums.LogType   `gorm:"column:log_type;not null"`
	RecordsImpacted   *int            `gorm:"column:records_impacted"`
	SuccessCount      *int            `gorm:"column:success_count"`
	UnidentifiedCount *int            `gorm:"column:unidentified_count"`
	Status            enums.LogStatus `gorm:"column:status;not null;default:'Processing'"`
	Audit
}

// TableName keeps the legacy table name.
func (EZPassLog) TableName() string { return "ezpass_logs" }
