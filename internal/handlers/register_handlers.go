package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/oxalis-saas/habilitations_backend/cmd/docs"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services)
	registerPublicRoutes(r, services)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group. Every route
// passes through the JWT check and the tenant resolver; role gates are
// applied per entity group.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.TenantResolver(services.Tenant, services.Profil),
	)

	registerProfilRoutes(v1, services.Profil, services.Auth)
	registerEntrepriseRoutes(v1, services.Entreprise)
	registerStagiaireRoutes(v1, services.Stagiaire, services.Import)
	registerCatalogueRoutes(v1, services.Catalogue)
	registerSessionRoutes(v1, services.Session)
	registerDemandeRoutes(v1, services.Demande)
	registerFormationRoutes(v1, services.Formation)
	registerTitreRoutes(v1, services.Titre)
	registerInvitationRoutes(v1, services.Invitation)
	registerDashboardRoutes(v1, services.Dashboard, services.Journal)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
