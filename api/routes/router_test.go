package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

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
	"github.com/bigappletaxi/fleetops-backend/internal/seedruns"
	"github.com/bigappletaxi/fleetops-backend/internal/users"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

type testTxBeginner struct {
	db *gorm.DB
}

func (r testTxBeginner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newRouterEnv(t *testing.T) (http.Handler, *gorm.DB, users.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Role{}, &models.EZPassLog{}, &models.PVBLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "api-test"})
	usersSvc := users.NewService(testPasswordConfig())
	tollSvc, err := ezpass.NewService(logg)
	if err != nil {
		t.Fatalf("ezpass service: %v", err)
	}
	violationSvc, err := pvb.NewService(logg)
	if err != nil {
		t.Fatalf("pvb service: %v", err)
	}
	tripSvc, err := curb.NewService(logg, ledger.NewService())
	if err != nil {
		t.Fatalf("curb service: %v", err)
	}
	runner, err := seeder.NewRunner(testTxBeginner{db: conn}, logg, nil)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	seedSvc, err := seedruns.NewService(seedruns.Params{
		Log:    logg,
		Source: seeder.FileSource{Dir: t.TempDir()},
		Runner: runner,
		BAT: &bat.Dependencies{
			Log:         logg,
			Addresses:   refdata.NewAddressService(),
			Banks:       refdata.NewBankService(),
			Ledger:      ledger.NewService(),
			EZPass:      tollSvc,
			PVB:         violationSvc,
			CURB:        tripSvc,
			ActorUserID: 1,
		},
		BPM: &bpm.Dependencies{
			Log:         logg,
			Users:       usersSvc,
			ActorUserID: 1,
		},
	})
	if err != nil {
		t.Fatalf("seedruns service: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "fleetops", ExpirationMinutes: 60}

	handler := NewRouter(Params{
		Config:   cfg,
		Logger:   logg,
		DB:       conn,
		Users:    usersSvc,
		SeedRuns: seedSvc,
		Tolls:    tollSvc,
		PVB:      violationSvc,
	})
	return handler, conn, usersSvc
}

func seedUser(t *testing.T, conn *gorm.DB, svc users.Service, username, password string) {
	t.Helper()
	_, _, err := svc.UpsertUser(context.Background(), conn, users.UserInput{
		Username:    username,
		Password:    password,
		ActorUserID: 1,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if payload.Data.AccessToken == "" {
		t.Fatalf("empty access token")
	}
	return payload.Data.AccessToken
}

func TestHealthLive(t *testing.T) {
	handler, _, _ := newRouterEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get("X-FleetOps-Env") != "test" {
		t.Fatalf("env header missing")
	}
}

func TestSeedRunsRequireBearerToken(t *testing.T) {
	handler, _, _ := newRouterEnv(t)
	body := bytes.NewReader([]byte(`{"kind":"bat","object":"wb.xlsx"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seed-runs", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginAndListImportLogs(t *testing.T) {
	handler, conn, usersSvc := newRouterEnv(t)
	seedUser(t, conn, usersSvc, "ops", "secret123")
	token := login(t, handler, "ops", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/import-logs/ezpass", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	handler, conn, usersSvc := newRouterEnv(t)
	seedUser(t, conn, usersSvc, "ops", "secret123")

	body, _ := json.Marshal(map[string]string{"username": "ops", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSeedRunValidatesKind(t *testing.T) {
	handler, conn, usersSvc := newRouterEnv(t)
	seedUser(t, conn, usersSvc, "ops", "secret123")
	token := login(t, handler, "ops", "secret123")

	body := bytes.NewReader([]byte(`{"kind":"unknown","object":"wb.xlsx"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seed-runs", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
