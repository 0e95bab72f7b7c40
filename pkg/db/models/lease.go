package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease binds a vehicle to a medallion, keyed by (vehicle_id, medallion_id).
// ExternalLeaseID carries the identifier the source sheets use to reference it.
type Lease struct {
	ID              int64            `gorm:"primaryKey"`
	ExternalLeaseID *string          `gorm:"column:external_lease_id;index:ix_leases_external_id"`
	VehicleID       int64            `gorm:"column:vehicle_id;not null;uniqueIndex:ux_leases_vehicle_medallion"`
	MedallionID     int64            `gorm:"column:medallion_id;not null;uniqueIndex:ux_leases_vehicle_medallion"`
	LeaseType       *string          `gorm:"column:lease_type"`
	LeaseStatus     *string          `gorm:"column:lease_status"`
	WeeklyRate      *decimal.Decimal `gorm:"column:weekly_rate;type:numeric(12,2)"`
	StartDate       *time.Time       `gorm:"column:start_date"`
	EndDate         *time.Time       `gorm:"column:end_date"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	Audit

	Vehicle   *Vehicle   `gorm:"foreignKey:VehicleID"`
	Medallion *Medallion `gorm:"foreignKey:MedallionID"`
}

// LeaseDriver attaches a driver to a lease, keyed by (driver_id, lease_id).
type LeaseDriver struct {
	ID              int64      `gorm:"primaryKey"`
	DriverRef       int64      `gorm:"column:driver_id;not null;uniqueIndex:ux_lease_drivers_driver_lease"`
	LeaseID         int64      `gorm:"column:lease_id;not null;uniqueIndex:ux_lease_drivers_driver_lease"`
	DriverRole      *string    `gorm:"column:driver_role"`
	IsDayNightShift bool       `gorm:"column:is_day_night_shift;not null;default:false"`
	CoLeaseSeq      *int       `gorm:"column:co_lease_seq"`
	DateAdded       *time.Time `gorm:"column:date_added"`
	Audit

	Driver *Driver `gorm:"foreignKey:DriverRef"`
	Lease  *Lease  `gorm:"foreignKey:LeaseID"`
}
