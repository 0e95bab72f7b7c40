package models

import "time"

// Individual is a natural person referenced by medallion ownership and
// entity contacts. full_name is the dedupe key.
type Individual struct {
	ID               int64      `gorm:"primaryKey"`
	FullName         string     `gorm:"column:full_name;not null;uniqueIndex:ux_individuals_full_name"`
	FirstName        *string    `gorm:"column:first_name"`
	MiddleName       *string    `gorm:"column:middle_name"`
	LastName         *string    `gorm:"column:last_name"`
	Email            *string    `gorm:"column:email"`
	PhoneNumber      *string    `gorm:"column:phone_number"`
	SSN              *string    `gorm:"column:ssn"`
	DateOfBirth      *time.Time `gorm:"column:date_of_birth"`
	PrimaryAddressID *int64     `gorm:"column:primary_address_id"`
	BankAccountID    *int64     `gorm:"column:bank_account_id"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true"`
	Audit

	PrimaryAddress *Address     `gorm:"foreignKey:PrimaryAddressID"`
	BankAccount    *BankAccount `gorm:"foreignKey:BankAccountID"`
}
