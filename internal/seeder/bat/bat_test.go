package bat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/curb"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/enums"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Address{},
		&models.BankAccount{},
		&models.Individual{},
		&models.Entity{},
		&models.VehicleEntity{},
		&models.Corporation{},
		&models.CorporationPayee{},
		&models.MedallionOwner{},
		&models.Dealer{},
		&models.Medallion{},
		&models.MOLease{},
		&models.Driver{},
		&models.DMVLicense{},
		&models.TLCLicense{},
		&models.Vehicle{},
		&models.VehicleHackup{},
		&models.VehicleRegistration{},
		&models.VehicleInspection{},
		&models.Lease{},
		&models.LeaseDriver{},
		&models.CURBTrip{},
		&models.EZPassTransaction{},
		&models.EZPassLog{},
		&models.PVBViolation{},
		&models.PVBLog{},
		&models.LedgerEntry{},
		&models.DailyReceipt{},
		&models.Sequence{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test"})
	ledgerSvc := ledger.NewService()
	ezpassSvc, err := ezpass.NewService(log)
	if err != nil {
		t.Fatalf("ezpass service: %v", err)
	}
	pvbSvc, err := pvb.NewService(log)
	if err != nil {
		t.Fatalf("pvb service: %v", err)
	}
	curbSvc, err := curb.NewService(log, ledgerSvc)
	if err != nil {
		t.Fatalf("curb service: %v", err)
	}
	return &Dependencies{
		Log:         log,
		Addresses:   refdata.NewAddressService(),
		Banks:       refdata.NewBankService(),
		Ledger:      ledgerSvc,
		EZPass:      ezpassSvc,
		PVB:         pvbSvc,
		CURB:        curbSvc,
		ActorUserID: 1,
	}
}

func sheetFromRows(t *testing.T, name string, rows [][]string) *seeder.Sheet {
	t.Helper()
	wb := seeder.NewWorkbookFromRows(map[string][][]string{name: rows})
	sheet, ok := wb.Sheet(name)
	if !ok {
		t.Fatalf("sheet %q not built", name)
	}
	return sheet
}

func TestParsersOrderAndValidation(t *testing.T) {
	deps := newTestDeps(t)
	parsers, err := Parsers(deps)
	if err != nil {
		t.Fatalf("parsers: %v", err)
	}
	want := []string{
		"address", "bank_accounts", "individual", "entity", "vehicle_entity",
		"corporation", "medallion_owner", "dealers", "medallion", "drivers",
		"vehicles", "vehicle_hackups", "vehicle_registration",
		"vehicle_inspections", "leases", "lease_driver", "mo_lease",
		"curb_trip", "ezpass", "pvb", "daily_receipts",
	}
	if len(parsers) != len(want) {
		t.Fatalf("expected %d parsers, got %d", len(want), len(parsers))
	}
	for i, parser := range parsers {
		if parser.Name() != want[i] {
			t.Fatalf("parser %d: want %q, got %q", i, want[i], parser.Name())
		}
	}

	if _, err := Parsers(nil); err == nil {
		t.Fatalf("nil dependencies should fail")
	}
	if _, err := Parsers(&Dependencies{}); err == nil {
		t.Fatalf("empty dependencies should fail")
	}
}

func TestAddressSheetIsInsertOnly(t *testing.T) {
	db := newTestDB(t)
	deps := newTestDeps(t)
	parser := &addressParser{deps: deps}
	sheet := sheetFromRows(t, "address", [][]string{
		{"address_line_1", "city", "state", "zip"},
		{"100 Main St", "Queens", "NY", "11101"},
		{"100 Main St", "Brooklyn", "NY", "11201"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var address models.Address
	if err := db.Where("address_line_1 = ?", "100 Main St").First(&address).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if address.City == nil || *address.City != "Queens" {
		t.Fatalf("first row should win, got %+v", address)
	}

	// rerun: everything already present
	stats, err = parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if stats.Created != 0 || stats.Skipped != 2 {
		t.Fatalf("rerun stats %+v", stats)
	}
}

func TestBankAccountsResolveBankAddress(t *testing.T) {
	db := newTestDB(t)
	parser := &bankAccountParser{deps: newTestDeps(t)}
	sheet := sheetFromRows(t, "bank_accounts", [][]string{
		{"bank_name", "bank_account_number", "bank_routing_number", "bank_account_type", "bank_account_status", "bank_address"},
		{"Chase", "111222333", "021000021", "Checking", "Active", "270 Park Ave"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var bank models.BankAccount
	if err := db.First(&bank).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if bank.AddressID == nil {
		t.Fatalf("bank address not linked")
	}

	stats, err = parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if stats.Updated != 1 || stats.Created != 0 {
		t.Fatalf("rerun should update, got %+v", stats)
	}
}

func TestIndividualRequiresPrimaryAddress(t *testing.T) {
	db := newTestDB(t)
	parser := &individualParser{deps: newTestDeps(t)}
	sheet := sheetFromRows(t, "individual", [][]string{
		{"full_name", "primary_address", "dob"},
		{"Jane Smith", "200 Broadway", "1980-06-15"},
		{"No Address", "", ""},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var individual models.Individual
	if err := db.Where("full_name = ?", "Jane Smith").First(&individual).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if individual.PrimaryAddressID == nil || individual.DateOfBirth == nil {
		t.Fatalf("links missing: %+v", individual)
	}
}

func TestCorporationPayeeCreatedOnce(t *testing.T) {
	db := newTestDB(t)
	deps := newTestDeps(t)

	bank := models.BankAccount{BankName: "Chase", BankAccountNumber: "444555666"}
	if err := db.Create(&bank).Error; err != nil {
		t.Fatalf("seed bank: %v", err)
	}

	parser := &corporationParser{deps: deps}
	sheet := sheetFromRows(t, "corporation", [][]string{
		{"corporation_name", "primary_address", "bank_account_number", "ein", "is_llc", "is_active"},
		{"Acme Cab Corp", "300 5th Ave", "444555666", "12-3456789", "Y", "True"},
	})

	for i := 0; i < 2; i++ {
		if _, err := parser.Parse(context.Background(), db, sheet); err != nil {
			t.Fatalf("parse run %d: %v", i, err)
		}
	}

	var payees []models.CorporationPayee
	if err := db.Find(&payees).Error; err != nil {
		t.Fatalf("load payees: %v", err)
	}
	if len(payees) != 1 {
		t.Fatalf("expected exactly one payee, got %d", len(payees))
	}
	payee := payees[0]
	if payee.PayToMode != enums.PayToModeACH || payee.PayeeType != "Corporation" {
		t.Fatalf("wrong payee defaults: %+v", payee)
	}
	if !payee.AllocationPercentage.Equal(fullAllocation) {
		t.Fatalf("wrong allocation: %s", payee.AllocationPercentage)
	}
}

func TestDriversUpsertWithLicenses(t *testing.T) {
	db := newTestDB(t)
	parser := &driverParser{deps: newTestDeps(t)}
	sheet := sheetFromRows(t, "drivers", [][]string{
		{"driver_id", "first_name", "last_name", "driver_status", "pay_to_mode", "bank_name", "bank_account_number", "dmv_license_number", "dmv_license_issued_state", "tlc_license_number", "primary_address_line_1"},
		{"5001111", "John", "Driver", "Active", "ACH", "Chase", "777888999", "D123456", "NY", "T654321", "400 Jay St"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var driver models.Driver
	if err := db.Where("driver_id = ?", "5001111").First(&driver).Error; err != nil {
		t.Fatalf("load driver: %v", err)
	}
	if driver.FullName == nil || *driver.FullName != "John Driver" {
		t.Fatalf("full name not joined: %+v", driver)
	}
	if driver.BankAccountID == nil {
		t.Fatalf("ACH driver should have a bank account")
	}
	if driver.AddressID == nil {
		t.Fatalf("address not resolved")
	}

	var dmv models.DMVLicense
	if err := db.Where("driver_id = ?", driver.ID).First(&dmv).Error; err != nil {
		t.Fatalf("dmv license missing: %v", err)
	}
	var tlc models.TLCLicense
	if err := db.Where("driver_id = ?", driver.ID).First(&tlc).Error; err != nil {
		t.Fatalf("tlc license missing: %v", err)
	}

	stats, err = parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if stats.Updated != 1 || stats.Created != 0 {
		t.Fatalf("rerun stats %+v", stats)
	}
	var licenses int64
	if err := db.Model(&models.DMVLicense{}).Count(&licenses).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if licenses != 1 {
		t.Fatalf("license duplicated on rerun")
	}
}

func TestDriverWithoutACHSkipsBankAccount(t *testing.T) {
	db := newTestDB(t)
	parser := &driverParser{deps: newTestDeps(t)}
	sheet := sheetFromRows(t, "drivers", [][]string{
		{"driver_id", "first_name", "last_name", "pay_to_mode", "bank_name", "bank_account_number"},
		{"5002222", "Check", "Payee", "Check", "Chase", "123123123"},
	})

	if _, err := parser.Parse(context.Background(), db, sheet); err != nil {
		t.Fatalf("parse: %v", err)
	}

	var driver models.Driver
	if err := db.Where("driver_id = ?", "5002222").First(&driver).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if driver.BankAccountID != nil {
		t.Fatalf("non-ACH driver must not link a bank account")
	}
}

func TestVehicleRequiresEntity(t *testing.T) {
	db := newTestDB(t)
	deps := newTestDeps(t)

	entity := models.VehicleEntity{EntityName: "Fleet Holdings LLC", EntityStatus: "Active"}
	if err := db.Create(&entity).Error; err != nil {
		t.Fatalf("seed entity: %v", err)
	}

	parser := &vehicleParser{deps: deps}
	sheet := sheetFromRows(t, "vehicles", [][]string{
		{"vin", "entity_name", "make", "model", "year", "vehicle_status"},
		{"1FTYR10D88PA11111", "Fleet Holdings LLC", "Toyota", "Camry", "2022", "New"},
		{"1FTYR10D88PA22222", "Unknown Entity", "Ford", "Escape", "2021", "New"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestHackupFlipsVehicleAndMedallionStatus(t *testing.T) {
	db := newTestDB(t)
	deps := newTestDeps(t)

	medallion := models.Medallion{MedallionNumber: "4D89", MedallionStatus: enums.MedallionStatusPending}
	if err := db.Create(&medallion).Error; err != nil {
		t.Fatalf("seed medallion: %v", err)
	}
	vehicle := models.Vehicle{VIN: "1FTYR10D88PA33333", VehicleStatus: enums.VehicleStatusNew, MedallionID: &medallion.ID}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	parser := &vehicleHackupParser{deps: deps}
	sheet := sheetFromRows(t, "vehicle_hackups", [][]string{
		{"vin", "is_meter_installed", "is_partition_installed", "meter_installed_date"},
		{"1FTYR10D88PA33333", "Y", "N", "2024-01-10"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var reloadedVehicle models.Vehicle
	if err := db.First(&reloadedVehicle, vehicle.ID).Error; err != nil {
		t.Fatalf("reload vehicle: %v", err)
	}
	if reloadedVehicle.VehicleStatus != enums.VehicleStatusHackedUp {
		t.Fatalf("vehicle status not flipped: %s", reloadedVehicle.VehicleStatus)
	}
	var reloadedMedallion models.Medallion
	if err := db.First(&reloadedMedallion, medallion.ID).Error; err != nil {
		t.Fatalf("reload medallion: %v", err)
	}
	if reloadedMedallion.MedallionStatus != enums.MedallionStatusActive {
		t.Fatalf("medallion status not flipped: %s", reloadedMedallion.MedallionStatus)
	}

	// rerun updates in place without flipping statuses again
	if err := db.Model(&reloadedVehicle).Update("vehicle_status", enums.VehicleStatusActive).Error; err != nil {
		t.Fatalf("reset status: %v", err)
	}
	stats, err = parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("rerun stats %+v", stats)
	}
	if err := db.First(&reloadedVehicle, vehicle.ID).Error; err != nil {
		t.Fatalf("reload vehicle: %v", err)
	}
	if reloadedVehicle.VehicleStatus != enums.VehicleStatusActive {
		t.Fatalf("rerun must not flip status again")
	}
}

func TestLeaseDriverActivatesDriver(t *testing.T) {
	db := newTestDB(t)
	deps := newTestDeps(t)

	driver := models.Driver{DriverID: "5003333", DriverStatus: enums.DriverStatusPending}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	medallion := models.Medallion{MedallionNumber: "5E12"}
	if err := db.Create(&medallion).Error; err != nil {
		t.Fatalf("seed medallion: %v", err)
	}
	vehicle := models.Vehicle{VIN: "1FTYR10D88PA44444"}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	external := "L-1001"
	lease := models.Lease{ExternalLeaseID: &external, VehicleID: vehicle.ID, MedallionID: medallion.ID, IsActive: true}
	if err := db.Create(&lease).Error; err != nil {
		t.Fatalf("seed lease: %v", err)
	}

	parser := &leaseDriverParser{deps: deps}
	sheet := sheetFromRows(t, "lease_driver", [][]string{
		{"driver_id", "lease_id", "driver_role", "is_day_night_shift"},
		{"5003333", "L-1001", "Primary", "Y"},
		{"9999999", "L-1001", "Primary", "N"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var reloaded models.Driver
	if err := db.First(&reloaded, driver.ID).Error; err != nil {
		t.Fatalf("reload driver: %v", err)
	}
	if reloaded.DriverStatus != enums.DriverStatusActive {
		t.Fatalf("driver not activated: %s", reloaded.DriverStatus)
	}
}

func TestMOLeaseBacklinksMedallion(t *testing.T) {
	db := newTestDB(t)
	parser := &moLeaseParser{deps: newTestDeps(t)}

	medallion := models.Medallion{MedallionNumber: "6F34"}
	if err := db.Create(&medallion).Error; err != nil {
		t.Fatalf("seed medallion: %v", err)
	}

	sheet := sheetFromRows(t, "mo_lease", [][]string{
		{"medallion_number", "lease_amount", "contract_start_date"},
		{"6F34", "$1,250.00", "2024-01-01"},
	})

	for i := 0; i < 2; i++ {
		if _, err := parser.Parse(context.Background(), db, sheet); err != nil {
			t.Fatalf("parse run %d: %v", i, err)
		}
	}

	var leases []models.MOLease
	if err := db.Order("id ASC").Find(&leases).Error; err != nil {
		t.Fatalf("load leases: %v", err)
	}
	if len(leases) != 2 {
		t.Fatalf("each import should append a term, got %d", len(leases))
	}

	var reloaded models.Medallion
	if err := db.First(&reloaded, medallion.ID).Error; err != nil {
		t.Fatalf("reload medallion: %v", err)
	}
	if reloaded.MOLeaseID == nil || *reloaded.MOLeaseID != leases[1].ID {
		t.Fatalf("medallion should point at latest term: %+v", reloaded.MOLeaseID)
	}
}

func TestDailyReceiptsLinkLedgerEntries(t *testing.T) {
	db := newTestDB(t)
	parser := &dailyReceiptParser{deps: newTestDeps(t)}

	sheet := sheetFromRows(t, "daily_receipts", [][]string{
		{"driver_id", "lease_id", "period_start", "period_end", "cc_earnings", "cash_earnings", "tips", "lease_due", "ezpass_due", "pvb_due", "manual_fee", "incentives", "cash_paid", "balance", "status"},
		{"5004444", "L-2001", "2025-04-07", "2025-04-13", "800.00", "250.00", "90.00", "400.00", "45.50", "65.00", "10.00", "25.00", "120.50", "30.25", "Settled"},
		{"", "", "", "", "", "", "", "", "", "", "", "", "75.00", "0", ""},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var receipts []models.DailyReceipt
	if err := db.Order("id ASC").Find(&receipts).Error; err != nil {
		t.Fatalf("load receipts: %v", err)
	}
	if len(receipts) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(receipts))
	}
	if receipts[0].ReceiptNumber != "000000000001" || receipts[1].ReceiptNumber != "000000000002" {
		t.Fatalf("receipt numbers wrong: %q %q", receipts[0].ReceiptNumber, receipts[1].ReceiptNumber)
	}
	if receipts[0].PeriodStart == nil || receipts[0].PeriodEnd == nil {
		t.Fatalf("settlement period not read from sheet: %+v", receipts[0])
	}
	if !receipts[0].CCEarnings.Equal(decimal.RequireFromString("800.00")) ||
		!receipts[0].LeaseDue.Equal(decimal.RequireFromString("400.00")) ||
		!receipts[0].EZPassDue.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("earnings/dues breakdown not read from sheet: %+v", receipts[0])
	}
	if receipts[0].Status == nil || *receipts[0].Status != "Settled" {
		t.Fatalf("status not read from sheet: %+v", receipts[0].Status)
	}
	for _, receipt := range receipts {
		if receipt.LedgerSnapshotID == nil {
			t.Fatalf("receipt %s missing ledger link", receipt.ReceiptNumber)
		}
		var entry models.LedgerEntry
		if err := db.First(&entry, *receipt.LedgerSnapshotID).Error; err != nil {
			t.Fatalf("ledger entry missing: %v", err)
		}
		if !entry.Amount.Equal(receipt.CashPaid.Add(receipt.Balance)) {
			t.Fatalf("entry amount %s != cash+balance", entry.Amount)
		}
		if entry.SourceType != enums.LedgerSourceDTR || !entry.Debit {
			t.Fatalf("wrong entry shape: %+v", entry)
		}
	}
}

func TestCurbTripUpsertPostsSettlement(t *testing.T) {
	db := newTestDB(t)
	parser := &curbTripParser{deps: newTestDeps(t)}

	driver := models.Driver{DriverID: "5005555", DriverStatus: enums.DriverStatusActive}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	medallion := models.Medallion{MedallionNumber: "7G56"}
	if err := db.Create(&medallion).Error; err != nil {
		t.Fatalf("seed medallion: %v", err)
	}
	vehicle := models.Vehicle{VIN: "1FTYR10D88PA55555"}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	lease := models.Lease{VehicleID: vehicle.ID, MedallionID: medallion.ID, IsActive: true}
	if err := db.Create(&lease).Error; err != nil {
		t.Fatalf("seed lease: %v", err)
	}
	if err := db.Create(&models.LeaseDriver{DriverRef: driver.ID, LeaseID: lease.ID}).Error; err != nil {
		t.Fatalf("seed lease driver: %v", err)
	}

	sheet := sheetFromRows(t, "curb_trip", [][]string{
		{"record_id", "trip_date", "driver_id", "cab_number", "total_amount"},
		{"CRB-9001", "2024-05-01", "5005555", "7G56", "42.50"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var trip models.CURBTrip
	if err := db.Where("record_id = ?", "CRB-9001").First(&trip).Error; err != nil {
		t.Fatalf("load trip: %v", err)
	}
	if !trip.IsReconciled {
		t.Fatalf("workbook trips import reconciled")
	}
	var entry models.LedgerEntry
	if err := db.Where("source_type = ?", enums.LedgerSourceCURB).First(&entry).Error; err != nil {
		t.Fatalf("settlement entry missing: %v", err)
	}
	if entry.SourceID == nil || *entry.SourceID != trip.ID {
		t.Fatalf("entry not linked to trip")
	}

	// rerun updates the trip, no duplicate settlement
	stats, err = parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if stats.Updated != 1 {
		t.Fatalf("rerun stats %+v", stats)
	}
	var entries int64
	if err := db.Model(&models.LedgerEntry{}).Count(&entries).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entries != 1 {
		t.Fatalf("settlement duplicated on rerun: %d", entries)
	}
}

func TestEzpassSheetFallsBackToTripDate(t *testing.T) {
	db := newTestDB(t)
	parser := &ezpassParser{deps: newTestDeps(t)}

	tripDate := mustDate(t, "2024-05-03")
	tag := "00498765432"
	trip := models.CURBTrip{RecordID: "CRB-9002", TripDate: &tripDate, TagNumber: &tag}
	if err := db.Create(&trip).Error; err != nil {
		t.Fatalf("seed trip: %v", err)
	}

	sheet := sheetFromRows(t, "ezpass", [][]string{
		{"TAG/PLATE NUMBER", "AGENCY", "ENTRY PLAZA", "EXIT PLAZA", "AMOUNT", "VEHICLE TYPE CODE"},
		{"00498765432", "MTA", "Queens Midtown", "Manhattan", "6.55", "2A"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var txn models.EZPassTransaction
	if err := db.First(&txn).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if !txn.TransactionDate.Equal(tripDate) {
		t.Fatalf("transaction date should fall back to trip date, got %s", txn.TransactionDate)
	}
	if txn.Agency == nil || *txn.Agency != "MTA" {
		t.Fatalf("agency not carried: %+v", txn)
	}
}

func TestPvbSheetDefaultsPlate(t *testing.T) {
	db := newTestDB(t)
	parser := &pvbParser{deps: newTestDeps(t)}

	sheet := sheetFromRows(t, "pvb", [][]string{
		{"PLATE", "STATE", "TYPE", "SUMMONS", "ISSUE TIME", "AMOUNT DUE", "PAYMENT"},
		{"", "NY", "PAS", "900300400", "08:15", "115.00", "0"},
	})

	stats, err := parser.Parse(context.Background(), db, sheet)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	var violation models.PVBViolation
	if err := db.First(&violation).Error; err != nil {
		t.Fatalf("load violation: %v", err)
	}
	if violation.PlateNumber != pvb.DefaultPlate {
		t.Fatalf("expected default plate, got %q", violation.PlateNumber)
	}
	if violation.IssueDate.IsZero() {
		t.Fatalf("issue date fallback missing")
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return parsed
}
