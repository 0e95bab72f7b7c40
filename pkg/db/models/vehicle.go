package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// Vehicle keyed by VIN.
type Vehicle struct {
	ID                  int64               `gorm:"primaryKey"`
	VIN                 string              `gorm:"column:vin;not null;uniqueIndex:ux_vehicles_vin"`
	PlateNumber         *string             `gorm:"column:plate_number;index:ix_vehicles_plate_number"`
	VehicleStatus       enums.VehicleStatus `gorm:"column:vehicle_status"`
	Make                *string             `gorm:"column:make"`
	Model               *string             `gorm:"column:model"`
	Year                *int                `gorm:"column:year"`
	Color               *string             `gorm:"column:color"`
	FuelType            *string             `gorm:"column:fuel_type"`
	Cylinders           *int                `gorm:"column:cylinders"`
	BasePrice           *decimal.Decimal    `gorm:"column:base_price;type:numeric(12,2)"`
	EntityID            *int64              `gorm:"column:entity_id"`
	DealerID            *int64              `gorm:"column:dealer_id"`
	MedallionID         *int64              `gorm:"column:medallion_id"`
	IsMedallionAssigned bool                `gorm:"column:is_medallion_assigned;not null;default:false"`
	Audit

	Entity    *VehicleEntity `gorm:"foreignKey:EntityID"`
	Dealer    *Dealer        `gorm:"foreignKey:DealerID"`
	Medallion *Medallion     `gorm:"foreignKey:MedallionID"`
}

// VehicleHackup records the fit-out that puts a vehicle into service.
// Inserting one flips the vehicle to Hacked Up and its medallion to Active.
type VehicleHackup struct {
	ID                 int64      `gorm:"primaryKey"`
	VehicleID          int64      `gorm:"column:vehicle_id;not null;uniqueIndex:ux_vehicle_hackups_vehicle"`
	MedallionID        *int64     `gorm:"column:medallion_id"`
	HackupDate         *time.Time `gorm:"column:hackup_date"`
	MeterInstalled     bool       `gorm:"column:meter_installed;not null;default:false"`
	PartitionInstalled bool       `gorm:"column:partition_installed;not null;default:false"`
	CameraInstalled    bool       `gorm:"column:camera_installed;not null;default:false"`
	Audit
}

// TableName keeps the legacy table name.
func (VehicleHackup) TableName() string { return "vehicle_hackups" }

// VehicleRegistration holds the current DMV registration, one per vehicle.
type VehicleRegistration struct {
	ID                 int64      `gorm:"primaryKey"`
	VehicleID          int64      `gorm:"column:vehicle_id;not null;uniqueIndex:ux_vehicle_registrations_vehicle"`
	RegistrationNumber *string    `gorm:"column:registration_number"`
	RegistrationDate   *time.Time `gorm:"column:registration_date"`
	ExpirationDate     *time.Time `gorm:"column:expiration_date"`
	RegistrantName     *string    `gorm:"column:registrant_name"`
	Audit
}

// VehicleInspection keyed by (vehicle_id, inspection_date).
type VehicleInspection struct {
	ID               int64     `gorm:"primaryKey"`
	VehicleID        int64     `gorm:"column:vehicle_id;not null;uniqueIndex:ux_vehicle_inspections_vehicle_date"`
	InspectionDate   time.Time `gorm:"column:inspection_date;not null;uniqueIndex:ux_vehicle_inspections_vehicle_date"`
	InspectionTime   *string   `gorm:"column:inspection_time"`
	InspectionType   *string   `gorm:"column:inspection_type"`
	InspectionResult *string   `gorm:"column:inspection_result"`
	Audit
}
