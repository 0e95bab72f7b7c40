package models

import (
	"github.com/shopspring/decimal"

	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// Corporation keyed by name.
type Corporation struct {
	ID              int64   `gorm:"primaryKey"`
	Name            string  `gorm:"column:name;not null;uniqueIndex:ux_corporations_name"`
	EIN             *string `gorm:"column:ein"`
	Email           *string `gorm:"column:email"`
	PhoneNumber     *string `gorm:"column:phone_number"`
	IsLLC           bool    `gorm:"column:is_llc;not null;default:false"`
	IsHoldingEntity bool    `gorm:"column:is_holding_entity;not null;default:false"`
	AddressID       *int64  `gorm:"column:address_id"`
	BankAccountID   *int64  `gorm:"column:bank_account_id"`
	IsActive        bool    `gorm:"column:is_active;not null;default:true"`
	Audit

	Address     *Address     `gorm:"foreignKey:AddressID"`
	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID"`
}

// CorporationPayee routes a corporation's payouts to a bank account. Created
// exactly once per (corporation, bank account) with full ACH allocation.
type CorporationPayee struct {
	ID                   int64           `gorm:"primaryKey"`
	CorporationID        int64           `gorm:"column:corporation_id;not null;uniqueIndex:ux_corporation_payees_corp_bank"`
	BankAccountID        int64           `gorm:"column:bank_account_id;not null;uniqueIndex:ux_corporation_payees_corp_bank"`
	PayToMode            enums.PayToMode `gorm:"column:pay_to_mode;not null;default:'ACH'"`
	PayeeType            string          `gorm:"column:payee_type;not null;default:'Corporation'"`
	Sequence             int             `gorm:"column:sequence;not null;default:0"`
	AllocationPercentage decimal.Decimal `gorm:"column:allocation_percentage;type:numeric(5,2);not null"`
	Audit
}
