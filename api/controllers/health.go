package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bigappletaxi/fleetops-backend/api/responses"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is the health check surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FleetOps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database, Redis and object storage. A nil pinger is
// treated as not wired and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, gcsP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FleetOps-Env", cfg.App.Env)

		checks := map[string]string{}
		ready := true
		for name, pinger := range map[string]Pinger{"db": dbP, "redis": redisP, "gcs": gcsP} {
			if pinger == nil {
				checks[name] = "skipped"
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := pinger.Ping(ctx)
			cancel()
			if err != nil {
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "readiness check failed", err)
				}
				checks[name] = "down"
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
