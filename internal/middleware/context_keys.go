package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	profilKey    = contextKey("profil")
	tenantKey    = contextKey("tenant")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// GetProfilFromContext retrieves the resolved profile attached by the tenant
// resolver middleware. A missing profile means the caller is anonymous or
// unprovisioned; callers must treat that as no role at all.
func GetProfilFromContext(c *gin.Context) (*domain.ProfilUtilisateur, bool) {
	if v := c.Request.Context().Value(profilKey); v != nil {
		if profil, ok := v.(*domain.ProfilUtilisateur); ok {
			return profil, true
		}
	}
	return nil, false
}

// GetTenantFromContext retrieves the tenant resolved for this request, if any.
func GetTenantFromContext(c *gin.Context) (*domain.Tenant, bool) {
	if v := c.Request.Context().Value(tenantKey); v != nil {
		if tenant, ok := v.(*domain.Tenant); ok {
			return tenant, true
		}
	}
	return nil, false
}

func withValue(c *gin.Context, key contextKey, value any) {
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), key, value))
}
