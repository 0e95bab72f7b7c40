package bat

import (
	"context"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// leaseParser upserts leases by (vehicle, medallion). Importing a lease puts
// the vehicle on the road: its status moves to Active.
type leaseParser struct {
	deps *Dependencies
}

func (p *leaseParser) Name() string { return "leases" }

func (p *leaseParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		medallionNumber, medallionOK := row.TrimString("medallion_number")
		vin, vinOK := row.TrimString("vin")
		if !medallionOK || !vinOK {
			stats.Skipped++
			continue
		}

		var medallion models.Medallion
		err := tx.WithContext(ctx).Where("medallion_number = ?", medallionNumber).First(&medallion).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "medallion", medallionNumber), "lease medallion not found, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		var vehicle models.Vehicle
		err = tx.WithContext(ctx).Where("vin = ?", vin).First(&vehicle).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "vin", vin), "lease vehicle not found, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&vehicle).Updates(map[string]any{
			"vehicle_status": enums.VehicleStatusActive,
			"modified_by":    p.deps.ActorUserID,
		}).Error; err != nil {
			return stats, err
		}

		var existing models.Lease
		err = tx.WithContext(ctx).
			Where("vehicle_id = ? AND medallion_id = ?", vehicle.ID, medallion.ID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			lease := models.Lease{
				VehicleID:   vehicle.ID,
				MedallionID: medallion.ID,
				IsActive:    true,
				Audit:       models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("lease_id"); ok {
				lease.ExternalLeaseID = &value
			}
			if value, ok := row.TrimString("lease_type"); ok {
				lease.LeaseType = &value
			}
			if value, ok := row.TrimString("lease_status"); ok {
				lease.LeaseStatus = &value
			}
			if value, ok := row.Decimal("weekly_rate"); ok {
				lease.WeeklyRate = &value
			}
			if value, ok := row.Date("lease_start_date"); ok {
				lease.StartDate = &value
			}
			if value, ok := row.Date("lease_end_date"); ok {
				lease.EndDate = &value
			}
			if err := tx.WithContext(ctx).Create(&lease).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{"modified_by": p.deps.ActorUserID}
		if value, ok := row.TrimString("lease_type"); ok {
			updates["lease_type"] = value
		}
		if value, ok := row.TrimString("lease_status"); ok {
			updates["lease_status"] = value
		}
		if value, ok := row.Decimal("weekly_rate"); ok {
			updates["weekly_rate"] = value
		}
		if value, ok := row.Date("lease_start_date"); ok {
			updates["start_date"] = value
		}
		if value, ok := row.Date("lease_end_date"); ok {
			updates["end_date"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// leaseDriverParser attaches drivers to leases by the external lease id.
// Appearing on a lease activates the driver.
type leaseDriverParser struct {
	deps *Dependencies
}

func (p *leaseDriverParser) Name() string { return "lease_driver" }

func (p *leaseDriverParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		externalDriverID, driverOK := row.TrimString("driver_id")
		externalLeaseID, leaseOK := row.TrimString("lease_id")
		if !driverOK || !leaseOK {
			stats.Skipped++
			continue
		}

		var driver models.Driver
		err := tx.WithContext(ctx).Where("driver_id = ?", externalDriverID).First(&driver).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "driver_id", externalDriverID), "lease driver not found, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		if err := tx.WithContext(ctx).Model(&driver).Updates(map[string]any{
			"driver_status": enums.DriverStatusActive,
			"modified_by":   p.deps.ActorUserID,
		}).Error; err != nil {
			return stats, err
		}

		var lease models.Lease
		err = tx.WithContext(ctx).Where("external_lease_id = ?", externalLeaseID).First(&lease).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "lease_id", externalLeaseID), "lease not found for driver, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		var existing models.LeaseDriver
		err = tx.WithContext(ctx).
			Where("driver_id = ? AND lease_id = ?", driver.ID, lease.ID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			dayNight, _ := row.Bool("is_day_night_shift")
			leaseDriver := models.LeaseDriver{
				DriverRef:       driver.ID,
				LeaseID:         lease.ID,
				IsDayNightShift: dayNight,
				Audit:           models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("driver_role"); ok {
				leaseDriver.DriverRole = &value
			}
			if value, ok := row.Int("co_lease_seq"); ok {
				leaseDriver.CoLeaseSeq = &value
			}
			if value, ok := row.Date("date_added"); ok {
				leaseDriver.DateAdded = &value
			}
			if err := tx.WithContext(ctx).Create(&leaseDriver).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{"modified_by": p.deps.ActorUserID}
		if value, ok := row.TrimString("driver_role"); ok {
			updates["driver_role"] = value
		}
		if value, ok := row.Bool("is_day_night_shift"); ok {
			updates["is_day_night_shift"] = value
		}
		if value, ok := row.Int("co_lease_seq"); ok {
			updates["co_lease_seq"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}
