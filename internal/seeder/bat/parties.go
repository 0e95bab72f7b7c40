package bat

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// individualParser upserts natural persons by full name. The primary address
// is mandatory; rows without one are skipped with a warning.
type individualParser struct {
	deps *Dependencies
}

func (p *individualParser) Name() string { return "individual" }

func (p *individualParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		fullName, ok := row.TrimString("full_name")
		if !ok {
			first, _ := row.TrimString("first_name")
			middle, _ := row.TrimString("middle_name")
			last, _ := row.TrimString("last_name")
			fullName = joinName(first, middle, last)
		}
		if fullName == "" {
			stats.Skipped++
			continue
		}

		line1, _ := row.TrimString("primary_address")
		address, err := p.deps.Addresses.LookupOrCreate(ctx, tx, refdata.AddressInput{
			Line1:       line1,
			ActorUserID: p.deps.ActorUserID,
		})
		if err != nil {
			return stats, err
		}
		if address == nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "full_name", fullName), "individual row missing primary address, skipped")
			stats.Skipped++
			continue
		}

		var bankAccountID *int64
		if accountNumber, ok := row.TrimString("bank_account_number"); ok {
			bank, err := p.deps.Banks.LookupByAccountNumber(ctx, tx, accountNumber)
			if err != nil {
				return stats, err
			}
			if bank != nil {
				bankAccountID = &bank.ID
			}
		}

		var existing models.Individual
		err = tx.WithContext(ctx).Where("full_name = ?", fullName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			individual := models.Individual{
				FullName:         fullName,
				PrimaryAddressID: &address.ID,
				BankAccountID:    bankAccountID,
				IsActive:         true,
				Audit:            models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			p.applyFields(&individual, row)
			if err := tx.WithContext(ctx).Create(&individual).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{
			"primary_address_id": address.ID,
			"modified_by":        p.deps.ActorUserID,
		}
		if bankAccountID != nil {
			updates["bank_account_id"] = *bankAccountID
		}
		patch := models.Individual{}
		p.applyFields(&patch, row)
		addFieldUpdates(updates, map[string]*string{
			"first_name":   patch.FirstName,
			"middle_name":  patch.MiddleName,
			"last_name":    patch.LastName,
			"email":        patch.Email,
			"phone_number": patch.PhoneNumber,
			"ssn":          patch.SSN,
		})
		if patch.DateOfBirth != nil {
			updates["date_of_birth"] = *patch.DateOfBirth
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

func (p *individualParser) applyFields(individual *models.Individual, row seeder.Row) {
	if value, ok := row.TrimString("first_name"); ok {
		individual.FirstName = &value
	}
	if value, ok := row.TrimString("middle_name"); ok {
		individual.MiddleName = &value
	}
	if value, ok := row.TrimString("last_name"); ok {
		individual.LastName = &value
	}
	if value, ok := row.TrimString("primary_email_address"); ok {
		individual.Email = &value
	}
	if value, ok := row.TrimString("primary_contact_number"); ok {
		individual.PhoneNumber = &value
	}
	if value, ok := row.TrimString("masked_ssn"); ok {
		individual.SSN = &value
	}
	if value, ok := row.Date("dob"); ok {
		individual.DateOfBirth = &value
	}
}

// entityParser upserts owning entities by entity_name. The contact person and
// bank links are resolved by lookup and left NULL when unresolvable.
type entityParser struct {
	deps *Dependencies
}

func (p *entityParser) Name() string { return "entity" }

func (p *entityParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		entityName, ok := row.TrimString("entity_name")
		if !ok {
			stats.Skipped++
			continue
		}

		line1, _ := row.TrimString("entity_address_line_1")
		address, err := p.deps.Addresses.LookupOrCreate(ctx, tx, refdata.AddressInput{
			Line1:       line1,
			ActorUserID: p.deps.ActorUserID,
		})
		if err != nil {
			return stats, err
		}
		if address == nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "entity_name", entityName), "entity row missing address, skipped")
			stats.Skipped++
			continue
		}

		var existing models.Entity
		err = tx.WithContext(ctx).Where("entity_name = ?", entityName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			entity := models.Entity{
				EntityName: entityName,
				AddressID:  &address.ID,
				IsActive:   true,
				Audit:      models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("entity_type"); ok {
				entity.EntityType = &value
			}
			if err := tx.WithContext(ctx).Create(&entity).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{
			"address_id":  address.ID,
			"modified_by": p.deps.ActorUserID,
		}
		if value, ok := row.TrimString("entity_type"); ok {
			updates["entity_type"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// vehicleEntityParser upserts title-holding entities by entity_name.
type vehicleEntityParser struct {
	deps *Dependencies
}

func (p *vehicleEntityParser) Name() string { return "vehicle_entity" }

func (p *vehicleEntityParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		entityName, ok := row.TrimString("entity_name")
		if !ok {
			stats.Skipped++
			continue
		}

		var addressID *int64
		if line1, ok := row.TrimString("entity_address_line_1"); ok {
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

		var existing models.VehicleEntity
		err := tx.WithContext(ctx).Where("entity_name = ?", entityName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			entity := models.VehicleEntity{
				EntityName:   entityName,
				EntityStatus: "Active",
				AddressID:    addressID,
				Audit:        models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("ein"); ok {
				entity.EIN = &value
			}
			if err := tx.WithContext(ctx).Create(&entity).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{"modified_by": p.deps.ActorUserID}
		if value, ok := row.TrimString("ein"); ok {
			updates["ein"] = value
		}
		if addressID != nil {
			updates["address_id"] = *addressID
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// corporationParser upserts corporations by name. A resolvable bank account
// additionally establishes the corporation's payee routing, once per
// (corporation, bank account) with full ACH allocation.
type corporationParser struct {
	deps *Dependencies
}

func (p *corporationParser) Name() string { return "corporation" }

var fullAllocation = decimal.NewFromInt(100)

func (p *corporationParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		name, ok := row.TrimString("corporation_name")
		if !ok {
			stats.Skipped++
			continue
		}

		line1, _ := row.TrimString("primary_address")
		address, err := p.deps.Addresses.LookupOrCreate(ctx, tx, refdata.AddressInput{
			Line1:       line1,
			ActorUserID: p.deps.ActorUserID,
		})
		if err != nil {
			return stats, err
		}
		if address == nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "corporation", name), "corporation row missing address, skipped")
			stats.Skipped++
			continue
		}

		var bank *models.BankAccount
		if accountNumber, ok := row.TrimString("bank_account_number"); ok {
			bank, err = p.deps.Banks.LookupByAccountNumber(ctx, tx, accountNumber)
			if err != nil {
				return stats, err
			}
		}

		isLLC, _ := row.Bool("is_llc")
		isActive, activeOK := row.Bool("is_active")
		if !activeOK {
			isActive = true
		}

		var corporation models.Corporation
		err = tx.WithContext(ctx).Where("name = ?", name).First(&corporation).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			corporation = models.Corporation{
				Name:      name,
				IsLLC:     isLLC,
				AddressID: &address.ID,
				IsActive:  isActive,
				Audit:     models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("ein"); ok {
				corporation.EIN = &value
			}
			if value, ok := row.TrimString("primary_email_address"); ok {
				corporation.Email = &value
			}
			if value, ok := row.TrimString("primary_contact_number"); ok {
				corporation.PhoneNumber = &value
			}
			if bank != nil {
				corporation.BankAccountID = &bank.ID
			}
			if err := tx.WithContext(ctx).Create(&corporation).Error; err != nil {
				return stats, err
			}
			stats.Created++
		case err != nil:
			return stats, err
		default:
			updates := map[string]any{
				"address_id":  address.ID,
				"is_llc":      isLLC,
				"is_active":   isActive,
				"modified_by": p.deps.ActorUserID,
			}
			if value, ok := row.TrimString("ein"); ok {
				updates["ein"] = value
			}
			if value, ok := row.TrimString("primary_email_address"); ok {
				updates["email"] = value
			}
			if value, ok := row.TrimString("primary_contact_number"); ok {
				updates["phone_number"] = value
			}
			if bank != nil {
				updates["bank_account_id"] = bank.ID
			}
			if err := tx.WithContext(ctx).Model(&corporation).Updates(updates).Error; err != nil {
				return stats, err
			}
			stats.Updated++
		}

		if bank != nil {
			if err := p.ensurePayee(ctx, tx, corporation.ID, bank.ID); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

func (p *corporationParser) ensurePayee(ctx context.Context, tx *gorm.DB, corporationID, bankAccountID int64) error {
	var count int64
	err := tx.WithContext(ctx).Model(&models.CorporationPayee{}).
		Where("corporation_id = ? AND bank_account_id = ?", corporationID, bankAccountID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	payee := models.CorporationPayee{
		CorporationID:        corporationID,
		BankAccountID:        bankAccountID,
		PayToMode:            enums.PayToModeACH,
		PayeeType:            "Corporation",
		Sequence:             0,
		AllocationPercentage: fullAllocation,
		Audit:                models.Audit{CreatedBy: p.deps.ActorUserID},
	}
	return tx.WithContext(ctx).Create(&payee).Error
}

// medallionOwnerParser records medallion ownership, discriminated I/C between
// individuals and corporations. Insert-only: an owner row matching the same
// party is not duplicated.
type medallionOwnerParser struct {
	deps *Dependencies
}

func (p *medallionOwnerParser) Name() string { return "medallion_owner" }

func (p *medallionOwnerParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		rawType, ok := row.TrimString("medallion_owner_type")
		if !ok {
			stats.Skipped++
			continue
		}
		ownerType, err := enums.ParseOwnerType(rawType)
		if err != nil {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "owner_type", rawType), "unknown medallion owner type, skipped")
			stats.Skipped++
			continue
		}

		owner := models.MedallionOwner{
			OwnerType: ownerType,
			Audit:     models.Audit{CreatedBy: p.deps.ActorUserID},
		}

		switch ownerType {
		case enums.OwnerTypeIndividual:
			contact, ok := row.TrimString("primary_contact")
			if !ok {
				stats.Skipped++
				continue
			}
			var individual models.Individual
			err := tx.WithContext(ctx).Where("first_name = ? OR full_name = ?", contact, contact).First(&individual).Error
			if err == gorm.ErrRecordNotFound {
				p.deps.Log.Warn(p.deps.Log.WithField(ctx, "contact", contact), "owner individual not found, skipped")
				stats.Skipped++
				continue
			}
			if err != nil {
				return stats, err
			}
			owner.IndividualID = &individual.ID
		case enums.OwnerTypeCorporation:
			name, ok := row.TrimString("corporation_name")
			if !ok {
				stats.Skipped++
				continue
			}
			var corporation models.Corporation
			err := tx.WithContext(ctx).Where("name = ?", name).First(&corporation).Error
			if err == gorm.ErrRecordNotFound {
				p.deps.Log.Warn(p.deps.Log.WithField(ctx, "corporation", name), "owner corporation not found, skipped")
				stats.Skipped++
				continue
			}
			if err != nil {
				return stats, err
			}
			owner.CorporationID = &corporation.ID
		}

		if line1, ok := row.TrimString("primary_address_line1"); ok {
			address, err := p.deps.Addresses.LookupOrCreate(ctx, tx, refdata.AddressInput{
				Line1:       line1,
				ActorUserID: p.deps.ActorUserID,
			})
			if err != nil {
				return stats, err
			}
			if address != nil {
				owner.AddressID = &address.ID
			}
		}
		if value, ok := row.TrimString("primary_contact"); ok {
			owner.PrimaryContact = &value
		}
		if value, ok := row.TrimString("primary_phone"); ok {
			owner.PhoneNumber = &value
		}
		if value, ok := row.TrimString("primary_email_address"); ok {
			owner.Email = &value
		}

		query := tx.WithContext(ctx).Model(&models.MedallionOwner{}).Where("owner_type = ?", owner.OwnerType)
		if owner.IndividualID != nil {
			query = query.Where("individual_id = ?", *owner.IndividualID)
		}
		if owner.CorporationID != nil {
			query = query.Where("corporation_id = ?", *owner.CorporationID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return stats, err
		}
		if count > 0 {
			stats.Skipped++
			continue
		}

		if err := tx.WithContext(ctx).Create(&owner).Error; err != nil {
			return stats, err
		}
		stats.Created++
	}
	return stats, nil
}

// dealerParser upserts vehicle dealers by dealer_name.
type dealerParser struct {
	deps *Dependencies
}

func (p *dealerParser) Name() string { return "dealers" }

func (p *dealerParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		name, ok := row.TrimString("dealer_name")
		if !ok {
			stats.Skipped++
			continue
		}

		var existing models.Dealer
		err := tx.WithContext(ctx).Where("dealer_name = ?", name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			dealer := models.Dealer{
				DealerName: name,
				Audit:      models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("dealer_address"); ok {
				dealer.DealerAddress = &value
			}
			if value, ok := row.TrimString("phone_number"); ok {
				dealer.PhoneNumber = &value
			}
			if value, ok := row.TrimString("contact_name"); ok {
				dealer.ContactName = &value
			}
			if err := tx.WithContext(ctx).Create(&dealer).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{"modified_by": p.deps.ActorUserID}
		if value, ok := row.TrimString("dealer_address"); ok {
			updates["dealer_address"] = value
		}
		if value, ok := row.TrimString("phone_number"); ok {
			updates["phone_number"] = value
		}
		if value, ok := row.TrimString("contact_name"); ok {
			updates["contact_name"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

func addFieldUpdates(updates map[string]any, fields map[string]*string) {
	for column, value := range fields {
		if value != nil {
			updates[column] = *value
		}
	}
}
