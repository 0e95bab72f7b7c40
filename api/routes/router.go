package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/api/controllers"
	"github.com/bigappletaxi/fleetops-backend/api/middleware"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/internal/seedruns"
	"github.com/bigappletaxi/fleetops-backend/internal/users"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// Params carry everything the back-office router serves.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *gorm.DB
	DBPing   controllers.Pinger
	Redis    controllers.Pinger
	GCS      controllers.Pinger
	Users    users.Service
	SeedRuns seedruns.Service
	Tolls    ezpass.Service
	PVB      pvb.Service
}

func NewRouter(params Params) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPing, params.Redis, params.GCS))
	})

	r.Post("/api/v1/auth/login", controllers.AuthLogin(params.Users, params.DB, cfg.JWT, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/seed-runs", controllers.SeedRunCreate(params.SeedRuns, logg))
		r.Route("/import-logs", func(r chi.Router) {
			r.Get("/ezpass", controllers.EZPassImportLogs(params.Tolls, params.DB, logg))
			r.Get("/pvb", controllers.PVBImportLogs(params.PVB, params.DB, logg))
		})
	})

	return r
}
