package controllers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/api/responses"
	"github.com/bigappletaxi/fleetops-backend/api/validators"
	"github.com/bigappletaxi/fleetops-backend/internal/users"
	pkgAuth "github.com/bigappletaxi/fleetops-backend/pkg/auth"
	"github.com/bigappletaxi/fleetops-backend/pkg/config"
	pkgerrors "github.com/bigappletaxi/fleetops-backend/pkg/errors"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthLogin verifies back-office credentials and issues a bearer token.
func AuthLogin(svc users.Service, conn *gorm.DB, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.FindByUsername(r.Context(), conn, req.Username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}
		if user == nil || !user.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		ok, err := svc.VerifyPassword(user, req.Password)
		if err != nil || !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
			return
		}

		roles := make([]string, 0, len(user.Roles))
		for _, role := range user.Roles {
			roles = append(roles, role.Name)
		}
		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			UserID:   user.ID,
			Username: user.Username,
			Roles:    roles,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(jwtCfg.Expiration().Seconds()),
		})
	}
}
