package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// RequireRoles guards a route group: the caller's profile role must be one
// of the given roles. super_admin always passes. Any resolution failure
// upstream left no profile in the context, so the gate fails closed.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := GetUserIDFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		profil, ok := GetProfilFromContext(c)
		if !ok || !profil.Actif {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		if profil.Role == domain.RoleSuperAdmin {
			c.Next()
			return
		}
		if _, ok := allowed[profil.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}
