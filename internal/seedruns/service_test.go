package seedruns

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/internal/curb"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder/bat"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder/bpm"
	"github.com/bigappletaxi/fleetops-backend/internal/users"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

type testTxBeginner struct {
	conn *gorm.DB
}

func (b testTxBeginner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.conn.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Role{}))
	return conn
}

func newTestService(t *testing.T, dir string) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	ledgerSvc := ledger.NewService()
	tollSvc, err := ezpass.NewService(logg)
	require.NoError(t, err)
	violationSvc, err := pvb.NewService(logg)
	require.NoError(t, err)
	tripSvc, err := curb.NewService(logg, ledgerSvc)
	require.NoError(t, err)
	runner, err := seeder.NewRunner(testTxBeginner{conn: newTestDB(t)}, logg, nil)
	require.NoError(t, err)

	svc, err := NewService(Params{
		Log:    logg,
		Source: seeder.FileSource{Dir: dir},
		Runner: runner,
		BAT: &bat.Dependencies{
			Log:         logg,
			Addresses:   refdata.NewAddressService(),
			Banks:       refdata.NewBankService(),
			Ledger:      ledgerSvc,
			EZPass:      tollSvc,
			PVB:         violationSvc,
			CURB:        tripSvc,
			ActorUserID: 1,
		},
		BPM: &bpm.Dependencies{
			Log: logg,
			Users: users.NewService(config.PasswordConfig{
				ArgonMemoryKB:    8,
				ArgonTime:        1,
				ArgonParallelism: 1,
				ArgonSaltLen:     16,
				ArgonKeyLen:      32,
			}),
			ActorUserID: 1,
		},
	})
	require.NoError(t, err)
	return svc
}

func writeWorkbook(t *testing.T, dir, name string) {
	t.Helper()
	f := excelize.NewFile()
	_, err := f.NewSheet("roles")
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SetSheetRow("roles", "A1", &[]any{"name", "description"}))
	require.NoError(t, f.SetSheetRow("roles", "A2", &[]any{"dispatcher", "Dispatch desk"}))
	require.NoError(t, f.SetSheetRow("roles", "A3", &[]any{"accounting", "Back office"}))
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
	require.NoError(t, f.Close())
}

func TestRunImportsWorkflowWorkbook(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "workflow.xlsx")
	svc := newTestService(t, dir)

	report, err := svc.Run(context.Background(), "bpm", "workflow.xlsx")
	require.NoError(t, err)
	require.NotNil(t, report)

	stats, ok := report.Sheets["roles"]
	require.True(t, ok, "roles sheet should be reported")
	require.Equal(t, 2, stats.Created)
	require.Contains(t, report.Missing, "users")
	require.Contains(t, report.Missing, "CaseTypes")
}

func TestRunRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "workflow.xlsx")
	svc := newTestService(t, dir)

	_, err := svc.Run(context.Background(), "payroll", "workflow.xlsx")
	require.ErrorContains(t, err, "unknown workbook kind")
}

func TestRunReportsMissingObject(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	_, err := svc.Run(context.Background(), "bat", "nope.xlsx")
	require.ErrorContains(t, err, "nope.xlsx")
}

func TestNewServiceValidatesParams(t *testing.T) {
	_, err := NewService(Params{})
	require.ErrorContains(t, err, "logger is required")
}
