package bat

import (
	"context"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

const (
	defaultAgentNumber = 358
	defaultAgentName   = "Big Apple Taxi Management"
)

// medallionParser upserts medallions by medallion_number with the house agent
// defaults. Owner links stay NULL until ownership resolves.
type medallionParser struct {
	deps *Dependencies
}

func (p *medallionParser) Name() string { return "medallion" }

func (p *medallionParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		number, ok := row.TrimString("medallion_number")
		if !ok {
			stats.Skipped++
			continue
		}

		status := enums.MedallionStatusPending
		if raw, ok := row.TrimString("medallion_status"); ok {
			if parsed, err := enums.ParseMedallionStatus(raw); err == nil {
				status = parsed
			}
		}

		var existing models.Medallion
		err := tx.WithContext(ctx).Where("medallion_number = ?", number).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			medallion := models.Medallion{
				MedallionNumber: number,
				MedallionStatus: status,
				AgentNumber:     defaultAgentNumber,
				AgentName:       defaultAgentName,
				IsActive:        true,
				Audit:           models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("medallion_type"); ok {
				medallion.MedallionType = &value
			}
			if value, ok := row.Date("medallion_renewal_date"); ok {
				medallion.RenewalDate = &value
			}
			if value, ok := row.TrimString("fs6_status"); ok {
				medallion.FS6Status = &value
			}
			if value, ok := row.Date("fs6_date"); ok {
				medallion.FS6Date = &value
			}
			if err := tx.WithContext(ctx).Create(&medallion).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{
			"medallion_status": status,
			"modified_by":      p.deps.ActorUserID,
		}
		if value, ok := row.TrimString("medallion_type"); ok {
			updates["medallion_type"] = value
		}
		if value, ok := row.Date("medallion_renewal_date"); ok {
			updates["renewal_date"] = value
		}
		if value, ok := row.TrimString("fs6_status"); ok {
			updates["fs6_status"] = value
		}
		if value, ok := row.Date("fs6_date"); ok {
			updates["fs6_date"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// moLeaseParser appends a medallion-owner lease term per row and back-links
// the medallion to the latest term.
type moLeaseParser struct {
	deps *Dependencies
}

func (p *moLeaseParser) Name() string { return "mo_lease" }

func (p *moLeaseParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		number, ok := row.TrimString("medallion_number")
		if !ok {
			stats.Skipped++
			continue
		}

		var medallion models.Medallion
		err := tx.WithContext(ctx).Where("medallion_number = ?", number).First(&medallion).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "medallion", number), "owner lease medallion not found, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		lease := models.MOLease{
			MedallionID: medallion.ID,
			IsActive:    true,
			Audit:       models.Audit{CreatedBy: p.deps.ActorUserID},
		}
		if value, ok := row.Decimal("lease_amount"); ok {
			lease.LeaseAmount = &value
		}
		if value, ok := row.Date("contract_start_date"); ok {
			lease.LeaseStartDate = &value
		}
		if value, ok := row.Date("contract_end_date"); ok {
			lease.LeaseEndDate = &value
		}
		if value, ok := row.TrimString("payment_frequency"); ok {
			lease.PaymentFrequency = &value
		}
		if err := tx.WithContext(ctx).Create(&lease).Error; err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&medallion).Updates(map[string]any{
			"mo_lease_id": lease.ID,
			"modified_by": p.deps.ActorUserID,
		}).Error; err != nil {
			return stats, err
		}
		stats.Created++
	}
	return stats, nil
}
