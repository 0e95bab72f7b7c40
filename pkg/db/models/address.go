package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address is a shared mailing address. address_line_1 is the dedupe key: the
// first row imported for a given line wins and later imports reuse it.
type Address struct {
	ID           int64            `gorm:"primaryKey"`
	AddressLine1 string           `gorm:"column:address_line_1;not null;uniqueIndex:ux_addresses_line_1"`
	AddressLine2 *string          `gorm:"column:address_line_2"`
	City         *string          `gorm:"column:city"`
	State        *string          `gorm:"column:state"`
	Zip          *string          `gorm:"column:zip"`
	Latitude     *decimal.Decimal `gorm:"column:latitude;type:numeric(10,7)"`
	Longitude    *decimal.Decimal `gorm:"column:longitude;type:numeric(10,7)"`
	FromDate     *time.Time       `gorm:"column:from_date"`
	ToDate       *time.Time       `gorm:"column:to_date"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	Audit
}
