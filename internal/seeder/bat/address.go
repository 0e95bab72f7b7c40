package bat

import (
	"context"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
)

// addressParser is insert-only: the first row imported for a given
// address_line_1 wins and later rows for the same line are skipped.
type addressParser struct {
	deps *Dependencies
}

func (p *addressParser) Name() string { return "address" }

func (p *addressParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		line1, ok := row.TrimString("address_line_1")
		if !ok {
			stats.Skipped++
			continue
		}

		existing, err := p.deps.Addresses.LookupByLine1(ctx, tx, line1)
		if err != nil {
			return stats, err
		}
		if existing != nil {
			stats.Skipped++
			continue
		}

		address := models.Address{
			AddressLine1: line1,
			IsActive:     true,
			Audit:        models.Audit{CreatedBy: p.deps.ActorUserID},
		}
		if value, ok := row.TrimString("address_line_2"); ok {
			address.AddressLine2 = &value
		}
		if value, ok := row.TrimString("city"); ok {
			address.City = &value
		}
		if value, ok := row.TrimString("state"); ok {
			address.State = &value
		}
		if value, ok := row.TrimString("zip"); ok {
			address.Zip = &value
		}
		if value, ok := row.Decimal("latitude"); ok {
			address.Latitude = &value
		}
		if value, ok := row.Decimal("longitude"); ok {
			address.Longitude = &value
		}
		if value, ok := row.Date("from_date"); ok {
			address.FromDate = &value
		}
		if value, ok := row.Date("to_date"); ok {
			address.ToDate = &value
		}

		if err := tx.WithContext(ctx).Create(&address).Error; err != nil {
			return stats, err
		}
		stats.Created++
	}
	return stats, nil
}

// bankAccountParser upserts bank accounts by (bank_name, account number) and
// resolves the bank's own mailing address through the shared dedupe.
type bankAccountParser struct {
	deps *Dependencies
}

func (p *bankAccountParser) Name() string { return "bank_accounts" }

func (p *bankAccountParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		bankName, nameOK := row.TrimString("bank_name")
		accountNumber, accountOK := row.TrimString("bank_account_number")
		if !nameOK || !accountOK {
			stats.Skipped++
			continue
		}

		input := refdata.BankAccountInput{
			BankName:      bankName,
			AccountNumber: accountNumber,
			ActorUserID:   p.deps.ActorUserID,
		}
		if value, ok := row.TrimString("bank_routing_number"); ok {
			input.RoutingNumber = value
		}
		if value, ok := row.TrimString("bank_account_type"); ok {
			input.AccountType = value
		}
		if value, ok := row.TrimString("bank_account_status"); ok {
			input.AccountStatus = value
		}
		if line1, ok := row.TrimString("bank_address"); ok {
			address, err := p.deps.Addresses.LookupOrCreate(ctx, tx, refdata.AddressInput{
				Line1:       line1,
				ActorUserID: p.deps.ActorUserID,
			})
			if err != nil {
				return stats, err
			}
			if address != nil {
				input.AddressID = &address.ID
			}
		}

		_, created, err := p.deps.Banks.Upsert(ctx, tx, input)
		if err != nil {
			return stats, err
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	return stats, nil
}
