package models

// Entity is a generic owning/operating entity keyed by entity_name.
type Entity struct {
	ID              int64   `gorm:"primaryKey"`
	EntityName      string  `gorm:"column:entity_name;not null;uniqueIndex:ux_entities_name"`
	EntityType      *string `gorm:"column:entity_type"`
	IsCorporation   bool    `gorm:"column:is_corporation;not null;default:false"`
	ContactPersonID *int64  `gorm:"column:contact_person_id"`
	BankAccountID   *int64  `gorm:"column:bank_account_id"`
	AddressID       *int64  `gorm:"column:address_id"`
	IsActive        bool    `gorm:"column:is_active;not null;default:true"`
	Audit

	ContactPerson *Individual  `gorm:"foreignKey:ContactPersonID"`
	BankAccount   *BankAccount `gorm:"foreignKey:BankAccountID"`
	Address       *Address     `gorm:"foreignKey:AddressID"`
}

// VehicleEntity is the entity a vehicle is titled under, keyed by entity_name.
type VehicleEntity struct {
	ID           int64   `gorm:"primaryKey"`
	EntityName   string  `gorm:"column:entity_name;not null;uniqueIndex:ux_vehicle_entities_name"`
	EntityStatus string  `gorm:"column:entity_status;not null;default:'Active'"`
	EIN          *string `gorm:"column:ein"`
	AddressID    *int64  `gorm:"column:address_id"`
	Audit
}

// Dealer keyed by dealer_name.
type Dealer struct {
	ID            int64   `gorm:"primaryKey"`
	DealerName    string  `gorm:"column:dealer_name;not null;uniqueIndex:ux_dealers_name"`
	DealerAddress *string `gorm:"column:dealer_address"`
	PhoneNumber   *string `gorm:"column:phone_number"`
	ContactName   *string `gorm:"column:contact_name"`
	Audit
}
