package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// Medallion keyed by medallion_number.
type Medallion struct {
	ID              int64                 `gorm:"primaryKey"`
	MedallionNumber string                `gorm:"column:medallion_number;not null;uniqueIndex:ux_medallions_number"`
	MedallionType   *string               `gorm:"column:medallion_type"`
	MedallionStatus enums.MedallionStatus `gorm:"column:medallion_status"`
	OwnerID         *int64                `gorm:"column:owner_id"`
	MOLeaseID       *int64                `gorm:"column:mo_lease_id"`
	AgentNumber     int                   `gorm:"column:agent_number;not null;default:358"`
	AgentName       string                `gorm:"column:agent_name;not null;default:'Big Apple Taxi Management'"`
	DefaultAmount   *decimal.Decimal      `gorm:"column:default_amount;type:numeric(12,2)"`
	RenewalDate     *time.Time            `gorm:"column:renewal_date"`
	FS6Status       *string               `gorm:"column:fs6_status"`
	FS6Date         *time.Time            `gorm:"column:fs6_date"`
	IsActive        bool                  `gorm:"column:is_active;not null;default:true"`
	Audit
}

// MedallionOwner ties a medallion to an individual or corporation owner.
type MedallionOwner struct {
	ID             int64           `gorm:"primaryKey"`
	OwnerType      enums.OwnerType `gorm:"column:owner_type;not null"`
	IndividualID   *int64          `gorm:"column:individual_id"`
	CorporationID  *int64          `gorm:"column:corporation_id"`
	MedallionID    *int64          `gorm:"column:medallion_id"`
	AddressID      *int64          `gorm:"column:address_id"`
	PrimaryContact *string         `gorm:"column:primary_contact"`
	PhoneNumber    *string         `gorm:"column:phone_number"`
	Email          *string         `gorm:"column:email"`
	Audit
}

// MOLease is a medallion-owner lease. Every import appends a new term and
// back-links the medallion to its latest one.
type MOLease struct {
	ID               int64            `gorm:"primaryKey"`
	MedallionID      int64            `gorm:"column:medallion_id;not null"`
	LeaseAmount      *decimal.Decimal `gorm:"column:lease_amount;type:numeric(12,2)"`
	LeaseStartDate   *time.Time       `gorm:"column:lease_start_date"`
	LeaseEndDate     *time.Time       `gorm:"column:lease_end_date"`
	PaymentFrequency *string          `gorm:"column:payment_frequency"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	Audit
}

// TableName keeps the legacy table name.
func (MOLease) TableName() string { return "mo_leases" }
