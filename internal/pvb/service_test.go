package pvb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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
		&models.PVBViolation{},
		&models.PVBLog{},
		&models.Vehicle{},
		&models.Medallion{},
		&models.Lease{},
		&models.LeaseDriver{},
		&models.Driver{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestImportDefaultsBlankPlate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t)
	ctx := context.Background()

	rows := []ViolationInput{{
		PlateNumber:   "  ",
		State:         "NY",
		SummonsNumber: "900100200",
		IssueDate:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		AmountDue:     decimal.RequireFromString("115.00"),
	}}

	result, err := svc.Import(ctx, db, rows, 1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.SuccessCount != 1 || result.Status != enums.LogStatusSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}

	var violation models.PVBViolation
	if err := db.First(&violation).Error; err != nil {
		t.Fatalf("load violation: %v", err)
	}
	if violation.PlateNumber != DefaultPlate {
		t.Fatalf("expected default plate, got %q", violation.PlateNumber)
	}
}

func TestImportIsIdempotentBySummons(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t)
	ctx := context.Background()

	rows := []ViolationInput{{
		PlateNumber:   "4HX123",
		State:         "NY",
		SummonsNumber: "900100201",
		IssueDate:     time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		AmountDue:     decimal.RequireFromString("65.00"),
	}}

	if _, err := svc.Import(ctx, db, rows, 1); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := svc.Import(ctx, db, rows, 1)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.SuccessCount != 0 || second.DuplicateCount != 1 {
		t.Fatalf("re-import should count existing summons as duplicate: %+v", second)
	}
	if second.RecordsImpacted != 1 {
		t.Fatalf("duplicate row should still count toward records impacted: %+v", second)
	}

	var count int64
	if err := db.Model(&models.PVBViolation{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 violation after re-import, got %d", count)
	}
}

func TestImportMarksMissingIssueDateUnidentified(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t)
	ctx := context.Background()

	rows := []ViolationInput{{
		PlateNumber:   "4HX123",
		SummonsNumber: "900100202",
		AmountDue:     decimal.RequireFromString("50.00"),
	}}

	result, err := svc.Import(ctx, db, rows, 1)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.UnidentifiedCount != 1 || result.Status != enums.LogStatusPartial {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAssociateLinksVehicleMedallionAndDriver(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t)
	ctx := context.Background()

	driver := models.Driver{DriverID: "5009876", DriverStatus: enums.DriverStatusActive}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	medallion := models.Medallion{MedallionNumber: "2B45", MedallionStatus: enums.MedallionStatusActive}
	if err := db.Create(&medallion).Error; err != nil {
		t.Fatalf("seed medallion: %v", err)
	}
	vehicle := models.Vehicle{VIN: "3FTYR10D88PA54321", PlateNumber: strPtr("7JK456"), MedallionID: &medallion.ID}
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

	rows := []ViolationInput{{
		PlateNumber:   "7JK456",
		State:         "NY",
		SummonsNumber: "900100203",
		IssueDate:     time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC),
		AmountDue:     decimal.RequireFromString("115.00"),
	}}
	if _, err := svc.Import(ctx, db, rows, 1); err != nil {
		t.Fatalf("import: %v", err)
	}

	result, err := svc.Associate(ctx, db, 1)
	if err != nil {
		t.Fatalf("associate: %v", err)
	}
	if result.Associated != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var violation models.PVBViolation
	if err := db.First(&violation).Error; err != nil {
		t.Fatalf("load violation: %v", err)
	}
	if violation.Status != enums.ImportStatusAssociated {
		t.Fatalf("expected Associated, got %s", violation.Status)
	}
	if violation.VehicleID == nil || *violation.VehicleID != vehicle.ID {
		t.Fatalf("vehicle not linked: %+v", violation)
	}
	if violation.MedallionID == nil || *violation.MedallionID != medallion.ID {
		t.Fatalf("medallion not linked: %+v", violation)
	}
	if violation.DriverRef == nil || *violation.DriverRef != driver.ID {
		t.Fatalf("driver not linked: %+v", violation)
	}
}

func TestAssociateFailsUnknownPlate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t)
	ctx := context.Background()

	rows := []ViolationInput{{
		PlateNumber:   "0AA000",
		State:         "NY",
		SummonsNumber: "900100204",
		IssueDate:     time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
		AmountDue:     decimal.RequireFromString("45.00"),
	}}
	if _, err := svc.Import(ctx, db, rows, 1); err != nil {
		t.Fatalf("import: %v", err)
	}

	result, err := svc.Associate(ctx, db, 1)
	if err != nil {
		t.Fatalf("associate: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var violation models.PVBViolation
	if err := db.First(&violation).Error; err != nil {
		t.Fatalf("load violation: %v", err)
	}
	if violation.Status != enums.ImportStatusFailed || violation.AssociateFailedReason == nil {
		t.Fatalf("failure not recorded: %+v", violation)
	}
}
