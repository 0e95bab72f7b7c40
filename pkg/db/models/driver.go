package models

import (
	"time"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// Driver keyed by the external TLC driver id from the source sheets.
type Driver struct {
	ID            int64              `gorm:"primaryKey"`
	DriverID      string             `gorm:"column:driver_id;not null;uniqueIndex:ux_drivers_driver_id"`
	FullName      *string            `gorm:"column:full_name"`
	FirstName     *string            `gorm:"column:first_name"`
	MiddleName    *string            `gorm:"column:middle_name"`
	LastName      *string            `gorm:"column:last_name"`
	Email         *string            `gorm:"column:email"`
	PhoneNumber   *string            `gorm:"column:phone_number"`
	SSN           *string            `gorm:"column:ssn"`
	DateOfBirth   *time.Time         `gorm:"column:date_of_birth"`
	DriverStatus  enums.DriverStatus `gorm:"column:driver_status"`
	PayToMode     *string            `gorm:"column:pay_to_mode"`
	AddressID     *int64             `gorm:"column:address_id"`
	BankAccountID *int64             `gorm:"column:bank_account_id"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	Audit

	DMVLicense *DMVLicense `gorm:"foreignKey:DriverRef"`
	TLCLicense *TLCLicense `gorm:"foreignKey:DriverRef"`
}

// DMVLicense is the driver's state license, one per driver.
type DMVLicense struct {
	ID             int64      `gorm:"primaryKey"`
	DriverRef      int64      `gorm:"column:driver_id;not null;uniqueIndex:ux_dmv_licenses_driver"`
	LicenseNumber  *string    `gorm:"column:license_number"`
	LicenseState   *string    `gorm:"column:license_state"`
	IssueDate      *time.Time `gorm:"column:issue_date"`
	ExpirationDate *time.Time `gorm:"column:expiration_date"`
	Audit
}

// TableName keeps the legacy table name.
func (DMVLicense) TableName() string { return "dmv_licenses" }

// TLCLicense is the driver's hack license, one per driver.
type TLCLicense struct {
	ID             int64      `gorm:"primaryKey"`
	DriverRef      int64      `gorm:"column:driver_id;not null;uniqueIndex:ux_tlc_licenses_driver"`
	LicenseNumber  *string    `gorm:"column:license_number"`
	IssueDate      *time.Time `gorm:"column:issue_date"`
	ExpirationDate *time.Time `gorm:"column:expiration_date"`
	Audit
}

// TableName keeps the legacy table name.
func (TLCLicense) TableName() string { return "tlc_licenses" }
