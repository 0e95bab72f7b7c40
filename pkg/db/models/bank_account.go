package models

// BankAccount keyed by (bank_name, bank_account_number).
type BankAccount struct {
	ID                int64   `gorm:"primaryKey"`
	BankName          string  `gorm:"column:bank_name;not null;uniqueIndex:ux_bank_accounts_name_number"`
	BankAccountNumber string  `gorm:"column:bank_account_number;not null;uniqueIndex:ux_bank_accounts_name_number"`
	BankRoutingNumber *string `gorm:"column:bank_routing_number"`
	AccountType       *string `gorm:"column:account_type"`
	AccountStatus     *string `gorm:"column:account_status"`
	AddressID         *int64  `gorm:"column:address_id"`
	Audit

	Address *Address `gorm:"foreignKey:AddressID"`
}
