package bat

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
)

// curbTripParser upserts settled trips by record id. Trips arriving through
// the workbook are already settled, so they import reconciled; when the
// driver and an active lease resolve, the settlement is posted as a debit
// ledger entry in the same pass.
type curbTripParser struct {
	deps *Dependencies
}

func (p *curbTripParser) Name() string { return "curb_trip" }

func (p *curbTripParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		recordID, ok := row.TrimString("record_id")
		if !ok {
			stats.Skipped++
			continue
		}

		amount, _ := row.Decimal("total_amount")

		var existing models.CURBTrip
		err := tx.WithContext(ctx).Where("record_id = ?", recordID).First(&existing).Error
		if err == nil {
			updates := map[string]any{
				"total_amount": amount,
				"modified_by":  p.deps.ActorUserID,
			}
			if err := tx.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
				return stats, err
			}
			stats.Updated++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return stats, err
		}

		trip := models.CURBTrip{
			RecordID:     recordID,
			TotalAmount:  amount,
			IsReconciled: true,
			Audit:        models.Audit{CreatedBy: p.deps.ActorUserID},
		}
		if value, ok := row.Date("trip_date"); ok {
			trip.TripDate = &value
		}
		if value, ok := row.TrimString("tag_number"); ok {
			trip.TagNumber = &value
		}
		if value, ok := row.TrimString("plate_number"); ok {
			trip.PlateNumber = &value
		}
		if value, ok := row.TrimString("cab_number"); ok {
			trip.MedallionNumber = &value
		}
		if value, ok := row.TrimString("driver_id"); ok {
			trip.DriverExternalID = &value
		}
		if err := tx.WithContext(ctx).Create(&trip).Error; err != nil {
			return stats, err
		}
		stats.Created++

		if err := p.postSettlement(ctx, tx, &trip); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// postSettlement debits the trip against the driver's active lease when both
// resolve; otherwise the trip stays imported without a ledger entry.
func (p *curbTripParser) postSettlement(ctx context.Context, tx *gorm.DB, trip *models.CURBTrip) error {
	if trip.DriverExternalID == nil {
		return nil
	}
	var driver models.Driver
	err := tx.WithContext(ctx).Where("driver_id = ?", *trip.DriverExternalID).First(&driver).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	var leaseDriver models.LeaseDriver
	err = tx.WithContext(ctx).Where("driver_id = ?", driver.ID).Order("id DESC").First(&leaseDriver).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var lease models.Lease
	if err := tx.WithContext(ctx).First(&lease, leaseDriver.LeaseID).Error; err != nil {
		return err
	}

	_, err = p.deps.Ledger.RecordEntry(ctx, tx, ledger.RecordEntryInput{
		Amount:      trip.TotalAmount,
		Debit:       true,
		Source:      enums.LedgerSourceCURB,
		SourceID:    &trip.ID,
		DriverID:    &driver.ID,
		LeaseID:     &lease.ID,
		MedallionID: &lease.MedallionID,
		EntryDate:   trip.TripDate,
		Description: "CURB trip " + trip.RecordID,
		ActorUserID: p.deps.ActorUserID,
	})
	return err
}

// ezpassParser converts the toll sheet into transaction inputs and hands the
// batch to the toll import service. Missing dates fall back to the matching
// settled trip's date, then to today.
type ezpassParser struct {
	deps *Dependencies
}

func (p *ezpassParser) Name() string { return "ezpass" }

func (p *ezpassParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	inputs := make([]ezpass.TransactionInput, 0, len(sheet.Rows()))
	for _, row := range sheet.Rows() {
		tagOrPlate, _ := row.TrimString("tag/plate number")

		transactionDate, dateOK := row.Date("transaction date")
		postingDate, postingOK := row.Date("posting date")
		if !dateOK || !postingOK {
			fallback, err := p.fallbackDate(ctx, tx, tagOrPlate)
			if err != nil {
				return stats, err
			}
			if !dateOK {
				transactionDate = fallback
			}
			if !postingOK {
				postingDate = fallback
			}
		}

		amount, _ := row.Decimal("amount")
		input := ezpass.TransactionInput{
			TransactionDate: transactionDate,
			PostingDate:     &postingDate,
			TagOrPlate:      tagOrPlate,
			Amount:          amount,
		}
		if value, ok := row.TrimString("transaction time"); ok {
			input.TransactionTime = value
		}
		if value, ok := row.TrimString("agency"); ok {
			input.Agency = value
		}
		if value, ok := row.TrimString("entry plaza"); ok {
			input.EntryPlaza = value
		}
		if value, ok := row.TrimString("exit plaza"); ok {
			input.ExitPlaza = value
		}
		if value, ok := row.TrimString("vehicle type code"); ok {
			input.VehicleClass = value
		}
		inputs = append(inputs, input)
	}

	result, err := p.deps.EZPass.Import(ctx, tx, inputs, p.deps.ActorUserID)
	if err != nil {
		return stats, err
	}
	stats.Created = result.SuccessCount
	stats.Skipped = result.UnidentifiedCount + result.DuplicateCount
	return stats, nil
}

func (p *ezpassParser) fallbackDate(ctx context.Context, tx *gorm.DB, tagOrPlate string) (time.Time, error) {
	trip, err := p.deps.CURB.FindTripByTagOrPlate(ctx, tx, tagOrPlate)
	if err != nil {
		return time.Time{}, err
	}
	if trip != nil && trip.TripDate != nil {
		return *trip.TripDate, nil
	}
	return time.Now().UTC().Truncate(24 * time.Hour), nil
}

// pvbParser converts the violations sheet into inputs for the violation
// import service. A blank plate falls back to the fleet default; a missing
// issue date falls back to the matching trip's date, then to today.
type pvbParser struct {
	deps *Dependencies
}

func (p *pvbParser) Name() string { return "pvb" }

func (p *pvbParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	inputs := make([]pvb.ViolationInput, 0, len(sheet.Rows()))
	for _, row := range sheet.Rows() {
		plate, _ := row.TrimString("plate")

		issueDate, ok := row.Date("issue date")
		if !ok {
			trip, err := p.deps.CURB.FindTripByTagOrPlate(ctx, tx, plate)
			if err != nil {
				return stats, err
			}
			if trip != nil && trip.TripDate != nil {
				issueDate = *trip.TripDate
			} else {
				issueDate = time.Now().UTC().Truncate(24 * time.Hour)
			}
		}

		amountDue, _ := row.Decimal("amount due")
		amountPaid, _ := row.Decimal("payment")
		input := pvb.ViolationInput{
			PlateNumber: plate,
			IssueDate:   issueDate,
			AmountDue:   amountDue,
			AmountPaid:  amountPaid,
		}
		if value, ok := row.TrimString("state"); ok {
			input.State = value
		}
		if value, ok := row.TrimString("type"); ok {
			input.VehicleType = value
		}
		if value, ok := row.TrimString("summons"); ok {
			input.SummonsNumber = value
		}
		if value, ok := row.TrimString("issue time"); ok {
			input.IssueTime = value
		}
		inputs = append(inputs, input)
	}

	result, err := p.deps.PVB.Import(ctx, tx, inputs, p.deps.ActorUserID)
	if err != nil {
		return stats, err
	}
	stats.Created = result.SuccessCount
	stats.Skipped = result.UnidentifiedCount + result.DuplicateCount
	return stats, nil
}

// dailyReceiptParser inserts one receipt per row through the ledger service,
// which allocates the receipt number, posts the matching debit entry and
// back-links the two inside the sheet transaction.
type dailyReceiptParser struct {
	deps *Dependencies
}

func (p *dailyReceiptParser) Name() string { return "daily_receipts" }

func (p *dailyReceiptParser) Parse(ctx context.Context, tx *gorm.DB, sheet *seeder.Sheet) (seeder.Stats, error) {
	var stats seeder.Stats
	for _, row := range sheet.Rows() {
		cashPaid, cashOK := row.Decimal("cash_paid")
		balance, balanceOK := row.Decimal("balance")
		if !cashOK && !balanceOK {
			stats.Skipped++
			continue
		}

		input := ledger.CreateReceiptInput{
			CashPaid:    cashPaid,
			Balance:     balance,
			ActorUserID: p.deps.ActorUserID,
		}
		if value, ok := row.Date("period_start"); ok {
			input.PeriodStart = &value
		}
		if value, ok := row.Date("period_end"); ok {
			input.PeriodEnd = &value
		}
		input.CCEarnings, _ = row.Decimal("cc_earnings")
		input.CashEarnings, _ = row.Decimal("cash_earnings")
		input.Tips, _ = row.Decimal("tips")
		input.LeaseDue, _ = row.Decimal("lease_due")
		input.EZPassDue, _ = row.Decimal("ezpass_due")
		input.PVBDue, _ = row.Decimal("pvb_due")
		input.ManualFee, _ = row.Decimal("manual_fee")
		input.Incentives, _ = row.Decimal("incentives")
		if value, ok := row.TrimString("status"); ok {
			input.Status = value
		}

		if vin, ok := row.TrimString("vehicle_id"); ok {
			var vehicle models.Vehicle
			err := tx.WithContext(ctx).Where("vin = ?", vin).First(&vehicle).Error
			if err == nil {
				input.VehicleID = &vehicle.ID
			} else if err != gorm.ErrRecordNotFound {
				return stats, err
			}
		}
		if externalID, ok := row.TrimString("driver_id"); ok {
			var driver models.Driver
			err := tx.WithContext(ctx).Where("driver_id = ?", externalID).First(&driver).Error
			if err == nil {
				input.DriverID = &driver.ID
			} else if err != gorm.ErrRecordNotFound {
				return stats, err
			}
		}
		if externalLeaseID, ok := row.TrimString("lease_id"); ok {
			var lease models.Lease
			err := tx.WithContext(ctx).Where("external_lease_id = ?", externalLeaseID).First(&lease).Error
			if err == nil {
				input.LeaseID = &lease.ID
				var medallion models.Medallion
				if merr := tx.WithContext(ctx).First(&medallion, lease.MedallionID).Error; merr == nil {
					input.MedallionNumber = medallion.MedallionNumber
				} else if merr != gorm.ErrRecordNotFound {
					return stats, merr
				}
			} else if err != gorm.ErrRecordNotFound {
				return stats, err
			}
		}

		if _, err := p.deps.Ledger.CreateReceipt(ctx, tx, input); err != nil {
			return stats, err
		}
		stats.Created++
	}
	return stats, nil
}
