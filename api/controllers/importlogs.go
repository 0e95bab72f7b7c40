package controllers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/api/responses"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	pkgerrors "github.com/bigappletaxi/fleetops-backend/pkg/errors"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
	"github.com/bigappletaxi/fleetops-backend/pkg/pagination"
)

type logPage struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func paginationParams(r *http.Request) pagination.Params {
	params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}
	return params
}

// EZPassImportLogs lists toll batch logs newest first.
func EZPassImportLogs(svc ezpass.Service, conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, next, err := svc.ListLogs(r.Context(), conn, paginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list toll logs"))
			return
		}
		responses.WriteSuccess(w, logPage{Items: logs, NextCursor: next})
	}
}

// PVBImportLogs lists violation batch logs newest first.
func PVBImportLogs(svc pvb.Service, conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, next, err := svc.ListLogs(r.Context(), conn, paginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list violation logs"))
			return
		}
		responses.WriteSuccess(w, logPage{Items: logs, NextCursor: next})
	}
}
