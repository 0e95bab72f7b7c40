package bat

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// driverParser upserts drivers by their external TLC driver id, along with
// their one-per-driver DMV and TLC licenses. A bank account attaches only
// when the driver is paid by ACH.
type driverParser struct {
	deps *Dependencies
}

func (p *driverParser) Name() string { return "drivers" }

func (p *driverParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		externalID, ok := row.TrimString("driver_id")
		if !ok {
			stats.Skipped++
			continue
		}

		first, _ := row.TrimString("first_name")
		middle, _ := row.TrimString("middle_name")
		last, _ := row.TrimString("last_name")
		fullName := joinName(first, middle, last)

		status := enums.DriverStatusPending
		if raw, ok := row.TrimString("driver_status"); ok {
			if parsed, err := enums.ParseDriverStatus(raw); err == nil {
				status = parsed
			}
		}

		var addressID *int64
		if line1, ok := row.TrimString("primary_address_line_1"); ok {
			address, err := p.deps.Addresses.LookupOrCreate(ctx, tx, refdata.AddressInput{
				Line1:       line1,
				ActorUserID: p.deps.ActorUserID,
			})
			if err != nil {
				return stats, err
			}
			if address != nil {
				addressID = &address.ID
			}
		}

		payToMode, _ := row.TrimString("pay_to_mode")
		var bankAccountID *int64
		if strings.EqualFold(payToMode, "ACH") {
			bankName, _ := row.TrimString("bank_name")
			accountNumber, accountOK := row.TrimString("bank_account_number")
			if accountOK {
				bank, err := p.deps.Banks.LookupOrCreate(ctx, tx, refdata.BankAccountInput{
					BankName:      bankName,
					AccountNumber: accountNumber,
					ActorUserID:   p.deps.ActorUserID,
				})
				if err != nil {
					return stats, err
				}
				if bank != nil {
					bankAccountID = &bank.ID
				}
			}
		}

		var driver models.Driver
		err := tx.WithContext(ctx).Where("driver_id = ?", externalID).First(&driver).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			driver = models.Driver{
				DriverID:      externalID,
				DriverStatus:  status,
				AddressID:     addressID,
				BankAccountID: bankAccountID,
				IsActive:      true,
				Audit:         models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if fullName != "" {
				driver.FullName = &fullName
			}
			driver.FirstName = optional(first)
			driver.MiddleName = optional(middle)
			driver.LastName = optional(last)
			if value, ok := row.TrimString("email_address"); ok {
				driver.Email = &value
			}
			if value, ok := row.TrimString("phone_number_1"); ok {
				driver.PhoneNumber = &value
			} else if value, ok := row.TrimString("phone_number_2"); ok {
				driver.PhoneNumber = &value
			}
			if value, ok := row.TrimString("ssn"); ok {
				driver.SSN = &value
			}
			if value, ok := row.Date("dob"); ok {
				driver.DateOfBirth = &value
			}
			if payToMode != "" {
				driver.PayToMode = &payToMode
			}
			if err := tx.WithContext(ctx).Create(&driver).Error; err != nil {
				return stats, err
			}
			stats.Created++
		case err != nil:
			return stats, err
		default:
			updates := map[string]any{
				"driver_status": status,
				"modified_by":   p.deps.ActorUserID,
			}
			if fullName != "" {
				updates["full_name"] = fullName
			}
			addFieldUpdates(updates, map[string]*string{
				"first_name":  optional(first),
				"middle_name": optional(middle),
				"last_name":   optional(last),
			})
			if value, ok := row.TrimString("email_address"); ok {
				updates["email"] = value
			}
			if value, ok := row.TrimString("phone_number_1"); ok {
				updates["phone_number"] = value
			}
			if value, ok := row.TrimString("ssn"); ok {
				updates["ssn"] = value
			}
			if value, ok := row.Date("dob"); ok {
				updates["date_of_birth"] = value
			}
			if payToMode != "" {
				updates["pay_to_mode"] = payToMode
			}
			if addressID != nil {
				updates["address_id"] = *addressID
			}
			if bankAccountID != nil {
				updates["bank_account_id"] = *bankAccountID
			}
			if err := tx.WithContext(ctx).Model(&driver).Updates(updates).Error; err != nil {
				return stats, err
			}
			stats.Updated++
		}

		if err := p.upsertDMVLicense(ctx, tx, driver.ID, row); err != nil {
			return stats, err
		}
		if err := p.upsertTLCLicense(ctx, tx, driver.ID, row); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (p *driverParser) upsertDMVLicense(ctx context.Context, tx *gorm.DB, driverID int64, row seeder.Row) error {
	number, numberOK := row.TrimString("dmv_license_number")
	state, stateOK := row.TrimString("dmv_license_issued_state")
	expiry, expiryOK := row.Date("dmv_license_expiry_date")
	if !numberOK && !stateOK && !expiryOK {
		return nil
	}

	var license models.DMVLicense
	err := tx.WithContext(ctx).Where("driver_id = ?", driverID).First(&license).Error
	if err == gorm.ErrRecordNotFound {
		license = models.DMVLicense{
			DriverRef: driverID,
			Audit:     models.Audit{CreatedBy: p.deps.ActorUserID},
		}
		if numberOK {
			license.LicenseNumber = &number
		}
		if stateOK {
			license.LicenseState = &state
		}
		if expiryOK {
			license.ExpirationDate = &expiry
		}
		return tx.WithContext(ctx).Create(&license).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]any{"modified_by": p.deps.ActorUserID}
	if numberOK {
		updates["license_number"] = number
	}
	if stateOK {
		updates["license_state"] = state
	}
	if expiryOK {
		updates["expiration_date"] = expiry
	}
	return tx.WithContext(ctx).Model(&license).Updates(updates).Error
}

func (p *driverParser) upsertTLCLicense(ctx context.Context, tx *gorm.DB, driverID int64, row seeder.Row) error {
	number, numberOK := row.TrimString("tlc_license_number")
	expiry, expiryOK := row.Date("tlc_license_expiry_date")
	if !numberOK && !expiryOK {
		return nil
	}

	var license models.TLCLicense
	err := tx.WithContext(ctx).Where("driver_id = ?", driverID).First(&license).Error
	if err == gorm.ErrRecordNotFound {
		license = models.TLCLicense{
			DriverRef: driverID,
			Audit:     models.Audit{CreatedBy: p.deps.ActorUserID},
		}
		if numberOK {
			license.LicenseNumber = &number
		}
		if expiryOK {
			license.ExpirationDate = &expiry
		}
		return tx.WithContext(ctx).Create(&license).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]any{"modified_by": p.deps.ActorUserID}
	if numberOK {
		updates["license_number"] = number
	}
	if expiryOK {
		updates["expiration_date"] = expiry
	}
	return tx.WithContext(ctx).Model(&license).Updates(updates).Error
}
