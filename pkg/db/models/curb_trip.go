package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CURBTrip is one trip settlement record from the CURB feed, keyed by the
// feed's record id.
type CURBTrip struct {
	ID               int64           `gorm:"primaryKey"`
	RecordID         string          `gorm:"column:record_id;not null;uniqueIndex:ux_curb_trips_record"`
	TripDate         *time.Time      `gorm:"column:trip_date"`
	TagNumber        *string         `gorm:"column:tag_number"`
	PlateNumber      *string         `gorm:"column:plate_number"`
	MedallionNumber  *string         `gorm:"column:medallion_number"`
	DriverExternalID *string         `gorm:"column:driver_external_id"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	IsReconciled     bool            `gorm:"column:is_reconciled;not null;default:false"`
	Audit
}

// TableName keeps the legacy table name.
func (CURBTrip) TableName() string { return "curb_trips" }
