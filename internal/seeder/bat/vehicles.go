package bat

import (
	"context"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// vehicleParser upserts vehicles by VIN. The title entity is mandatory; the
// medallion link is optional and mirrored into is_medallion_assigned.
type vehicleParser struct {
	deps *Dependencies
}

func (p *vehicleParser) Name() string { return "vehicles" }

func (p *vehicleParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		vin, ok := row.TrimString("vin")
		if !ok {
			stats.Skipped++
			continue
		}

		entityName, ok := row.TrimString("entity_name")
		if !ok {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "vin", vin), "vehicle row missing entity, skipped")
			stats.Skipped++
			continue
		}
		var entity models.VehicleEntity
		err := tx.WithContext(ctx).Where("entity_name = ?", entityName).First(&entity).Error
		if err == gorm.ErrRecordNotFound {
			p.deps.Log.Warn(p.deps.Log.WithField(ctx, "entity_name", entityName), "vehicle entity not found, skipped")
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		var medallionID *int64
		if number, ok := row.TrimString("medallion_number"); ok {
			var medallion models.Medallion
			err := tx.WithContext(ctx).Where("medallion_number = ?", number).First(&medallion).Error
			if err == nil {
				medallionID = &medallion.ID
			} else if err != gorm.ErrRecordNotFound {
				return stats, err
			}
		}

		status := enums.VehicleStatusNew
		if raw, ok := row.TrimString("vehicle_status"); ok {
			if parsed, err := enums.ParseVehicleStatus(raw); err == nil {
				status = parsed
			}
		}

		var existing models.Vehicle
		err = tx.WithContext(ctx).Where("vin = ?", vin).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			vehicle := models.Vehicle{
				VIN:                 vin,
				VehicleStatus:       status,
				EntityID:            &entity.ID,
				MedallionID:         medallionID,
				IsMedallionAssigned: medallionID != nil,
				Audit:               models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			p.applyFields(&vehicle, row)
			if err := tx.WithContext(ctx).Create(&vehicle).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{
			"vehicle_status": status,
			"entity_id":      entity.ID,
			"modified_by":    p.deps.ActorUserID,
		}
		if medallionID != nil {
			updates["medallion_id"] = *medallionID
			updates["is_medallion_assigned"] = true
		}
		patch := models.Vehicle{}
		p.applyFields(&patch, row)
		addFieldUpdates(updates, map[string]*string{
			"make":  patch.Make,
			"model": patch.Model,
			"color": patch.Color,
		})
		if patch.Year != nil {
			updates["year"] = *patch.Year
		}
		if patch.Cylinders != nil {
			updates["cylinders"] = *patch.Cylinders
		}
		if patch.BasePrice != nil {
			updates["base_price"] = *patch.BasePrice
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

func (p *vehicleParser) applyFields(vehicle *models.Vehicle, row seeder.Row) {
	if value, ok := row.TrimString("make"); ok {
		vehicle.Make = &value
	}
	if value, ok := row.TrimString("model"); ok {
		vehicle.Model = &value
	}
	if value, ok := row.TrimString("color"); ok {
		vehicle.Color = &value
	}
	if value, ok := row.Int("year"); ok {
		vehicle.Year = &value
	}
	if value, ok := row.Int("cylinders"); ok {
		vehicle.Cylinders = &value
	}
	if value, ok := row.Decimal("base_price"); ok {
		vehicle.BasePrice = &value
	}
}

// vehicleHackupParser upserts fit-out records one per vehicle. A fresh insert
// puts the vehicle in service: vehicle status flips to Hacked Up and its
// medallion to Active.
type vehicleHackupParser struct {
	deps *Dependencies
}

func (p *vehicleHackupParser) Name() string { return "vehicle_hackups" }

func (p *vehicleHackupParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		vehicle, skip, err := p.requireVehicle(ctx, tx, row)
		if err != nil {
			return stats, err
		}
		if skip {
			stats.Skipped++
			continue
		}

		meter, _ := row.Bool("is_meter_installed")
		partition, _ := row.Bool("is_partition_installed")
		camera, _ := row.Bool("is_camera_installed")

		var existing models.VehicleHackup
		err = tx.WithContext(ctx).Where("vehicle_id = ?", vehicle.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			hackup := models.VehicleHackup{
				VehicleID:          vehicle.ID,
				MedallionID:        vehicle.MedallionID,
				MeterInstalled:     meter,
				PartitionInstalled: partition,
				CameraInstalled:    camera,
				Audit:              models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.Date("meter_installed_date"); ok {
				hackup.HackupDate = &value
			}
			if err := tx.WithContext(ctx).Create(&hackup).Error; err != nil {
				return stats, err
			}

			if err := tx.WithContext(ctx).Model(vehicle).Updates(map[string]any{
				"vehicle_status": enums.VehicleStatusHackedUp,
				"modified_by":    p.deps.ActorUserID,
			}).Error; err != nil {
				return stats, err
			}
			if vehicle.MedallionID != nil {
				if err := tx.WithContext(ctx).Model(&models.Medallion{}).
					Where("id = ?", *vehicle.MedallionID).
					Updates(map[string]any{
						"medallion_status": enums.MedallionStatusActive,
						"modified_by":      p.deps.ActorUserID,
					}).Error; err != nil {
					return stats, err
				}
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{
			"meter_installed":     meter,
			"partition_installed": partition,
			"camera_installed":    camera,
			"modified_by":         p.deps.ActorUserID,
		}
		if value, ok := row.Date("meter_installed_date"); ok {
			updates["hackup_date"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

func (p *vehicleHackupParser) requireVehicle(ctx context.Context, tx *gorm.DB, row seeder.Row) (*models.Vehicle, bool, error) {
	return requireVehicleByVIN(ctx, tx, p.deps, row, "hack-up")
}

// vehicleRegistrationParser upserts the current registration, one per vehicle.
type vehicleRegistrationParser struct {
	deps *Dependencies
}

func (p *vehicleRegistrationParser) Name() string { return "vehicle_registration" }

func (p *vehicleRegistrationParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		vehicle, skip, err := requireVehicleByVIN(ctx, tx, p.deps, row, "registration")
		if err != nil {
			return stats, err
		}
		if skip {
			stats.Skipped++
			continue
		}

		if plate, ok := row.TrimString("plate_number"); ok {
			if err := tx.WithContext(ctx).Model(vehicle).Updates(map[string]any{
				"plate_number": plate,
				"modified_by":  p.deps.ActorUserID,
			}).Error; err != nil {
				return stats, err
			}
		}

		var existing models.VehicleRegistration
		err = tx.WithContext(ctx).Where("vehicle_id = ?", vehicle.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			registration := models.VehicleRegistration{
				VehicleID: vehicle.ID,
				Audit:     models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("registration_number"); ok {
				registration.RegistrationNumber = &value
			}
			if value, ok := row.Date("registration_date"); ok {
				registration.RegistrationDate = &value
			}
			if value, ok := row.Date("registration_expiry_date"); ok {
				registration.ExpirationDate = &value
			}
			if value, ok := row.TrimString("registrant_name"); ok {
				registration.RegistrantName = &value
			}
			if err := tx.WithContext(ctx).Create(&registration).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{"modified_by": p.deps.ActorUserID}
		if value, ok := row.TrimString("registration_number"); ok {
			updates["registration_number"] = value
		}
		if value, ok := row.Date("registration_date"); ok {
			updates["registration_date"] = value
		}
		if value, ok := row.Date("registration_expiry_date"); ok {
			updates["expiration_date"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// vehicleInspectionParser upserts inspections keyed by (vehicle, date).
type vehicleInspectionParser struct {
	deps *Dependencies
}

func (p *vehicleInspectionParser) Name() string { return "vehicle_inspections" }

func (p *vehicleInspectionParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		vehicle, skip, err := requireVehicleByVIN(ctx, tx, p.deps, row, "inspection")
		if err != nil {
			return stats, err
		}
		if skip {
			stats.Skipped++
			continue
		}

		inspectionDate, ok := row.Date("inspection_date")
		if !ok {
			stats.Skipped++
			continue
		}

		var existing models.VehicleInspection
		err = tx.WithContext(ctx).
			Where("vehicle_id = ? AND inspection_date = ?", vehicle.ID, inspectionDate).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			inspection := models.VehicleInspection{
				VehicleID:      vehicle.ID,
				InspectionDate: inspectionDate,
				Audit:          models.Audit{CreatedBy: p.deps.ActorUserID},
			}
			if value, ok := row.TrimString("inspection_time"); ok {
				inspection.InspectionTime = &value
			}
			if value, ok := row.TrimString("inspection_type"); ok {
				inspection.InspectionType = &value
			}
			if value, ok := row.TrimString("result"); ok {
				inspection.InspectionResult = &value
			}
			if err := tx.WithContext(ctx).Create(&inspection).Error; err != nil {
				return stats, err
			}
			stats.Created++
			continue
		}
		if err != nil {
			return stats, err
		}

		updates := map[string]any{"modified_by": p.deps.ActorUserID}
		if value, ok := row.TrimString("inspection_time"); ok {
			updates["inspection_time"] = value
		}
		if value, ok := row.TrimString("result"); ok {
			updates["inspection_result"] = value
		}
		if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

func requireVehicleByVIN(ctx context.Context, tx *gorm.DB, deps *Dependencies, row seeder.Row, what string) (*models.Vehicle, bool, error) {
	vin, ok := row.TrimString("vin")
	if !ok {
		return nil, true, nil
	}
	var vehicle models.Vehicle
	err := tx.WithContext(ctx).Where("vin = ?", vin).First(&vehicle).Error
	if err == gorm.ErrRecordNotFound {
		deps.Log.Warn(deps.Log.WithField(ctx, "vin", vin), what+" vehicle not found, skipped")
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &vehicle, false, nil
}
