package controllers

import (
	"net/http"

	"github.com/bigappletaxi/fleetops-backend/api/responses"
	"github.com/bigappletaxi/fleetops-backend/api/validators"
	"github.com/bigappletaxi/fleetops-backend/internal/seedruns"
	pkgerrors "github.com/bigappletaxi/fleetops-backend/pkg/errors"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

type seedRunRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=bat bpm"`
	Object string `json:"object" validate:"required"`
}

// SeedRunCreate triggers a synchronous workbook import and returns the run
// report. Partial progress stays committed when a sheet fails.
func SeedRunCreate(svc seedruns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req seedRunRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Run(r.Context(), req.Kind, req.Object)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed run failed"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, report)
	}
}
