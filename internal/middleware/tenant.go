package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
)

// TenantResolver attaches the caller's profile and tenant to the request
// context. Resolution never fails the request: an anonymous caller, an
// unprovisioned account or a store error all degrade to no profile and no
// tenant, and downstream role gates fail closed. Unprovisioned accounts are
// logged at warning level so the misconfiguration stays visible.
func TenantResolver(tenantSvc portssvc.TenantService, profilSvc portssvc.ProfilService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		if userID, ok := GetUserIDFromContext(c); ok {
			profil, err := profilSvc.GetProfil(c.Request.Context(), userID)
			switch {
			case err == nil:
				withValue(c, profilKey, profil)
			case errors.Is(err, apperrors.ErrProfilUnprovisioned):
				logger.Warn("Authenticated user has no profile", slog.String("user_id", userID))
			default:
				logger.Error("Profile lookup failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			}
		}

		tenant, err := tenantSvc.ResolveTenantFromHost(c.Request.Context(), c.Request.Host)
		if err != nil {
			logger.Error("Tenant resolution from host failed", slog.String("host", c.Request.Host), slog.String("error", err.Error()))
		}
		if tenant == nil {
			if profil, ok := GetProfilFromContext(c); ok {
				tenant, err = tenantSvc.ResolveTenantForProfil(c.Request.Context(), profil)
				if err != nil {
					logger.Error("Tenant resolution from profile failed", slog.String("error", err.Error()))
				}
			}
		}
		if tenant != nil {
			withValue(c, tenantKey, tenant)
		}

		c.Next()
	}
}
