package refdata

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
)

// AddressInput carries the raw address fields from a workbook row.
type AddressInput struct {
	Line1       string
	Line2       string
	City        string
	State       string
	Zip         string
	FromDate    *time.Time
	ActorUserID int64
}

// AddressService deduplicates shared mailing addresses by line 1.
type AddressService interface {
	LookupOrCreate(ctx context.Context, tx *gorm.DB, input AddressInput) (*models.Address, error)
	LookupByLine1(ctx context.Context, tx *gorm.DB, line1 string) (*models.Address, error)
}

type addressService struct{}

// NewAddressService returns the shared address dedupe service.
func NewAddressService() AddressService {
	return addressService{}
}

// LookupOrCreate returns the existing row for the trimmed line 1 or creates a
// new one. The first imported row for a line wins; later imports never mutate
// it. A blank line 1 resolves to nil without error.
func (addressService) LookupOrCreate(ctx context.Context, tx *gorm.DB, input AddressInput) (*models.Address, error) {
	line1 := strings.TrimSpace(input.Line1)
	if line1 == "" {
		return nil, nil
	}

	var existing models.Address
	err := tx.WithContext(ctx).Where("address_line_1 = ?", line1).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	address := models.Address{
		AddressLine1: line1,
		AddressLine2: optional(input.Line2),
		City:         optional(input.City),
		State:        optional(input.State),
		Zip:          optional(input.Zip),
		FromDate:     input.FromDate,
		IsActive:     true,
		Audit:        models.Audit{CreatedBy: input.ActorUserID},
	}
	if err := tx.WithContext(ctx).Create(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (addressService) LookupByLine1(ctx context.Context, tx *gorm.DB, line1 string) (*models.Address, error) {
	line1 = strings.TrimSpace(line1)
	if line1 == "" {
		return nil, nil
	}

	var existing models.Address
	err := tx.WithContext(ctx).Where("address_line_1 = ?", line1).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
