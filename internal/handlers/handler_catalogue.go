package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type catalogueHandler struct {
	catalogueService portssvc.CatalogueService
}

// toggleTenantFormationRequest flips a catalog package on or off.
type toggleTenantFormationRequest struct {
	Actif *bool `json:"actif" binding:"required"`
}

func registerCatalogueRoutes(rg *gin.RouterGroup, catalogueService portssvc.CatalogueService) {
	h := &catalogueHandler{catalogueService: catalogueService}

	manage := middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat)

	rg.GET("/types-formation", h.listTypesFormation)
	rg.GET("/types-formation/:id/specialisations", h.listSpecialisations)

	catalogue := rg.Group("/catalogue")
	{
		catalogue.GET("", h.listCatalogue)
		catalogue.POST("", manage, h.addTenantFormation)
		catalogue.PATCH("/:id", manage, h.toggleTenantFormation)
		catalogue.DELETE("/:id", manage, h.deleteTenantFormation)
	}

	rg.PUT("/formateurs/:profilId/competences",
		middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat, domain.RoleFormateur),
		h.syncCompetences)
}

// listTypesFormation godoc
// @Summary List training families
// @Description Lists the global training families plus the caller tenant's custom ones.
// @Tags catalogue
// @Produce json
// @Success 200 {array} domain.TypeFormation
// @Security BearerAuth
// @Router /types-formation [get]
func (h *catalogueHandler) listTypesFormation(c *gin.Context) {
	var tenantID *string
	if tenant, ok := middleware.GetTenantFromContext(c); ok {
		tenantID = &tenant.TenantID
	}
	types, err := h.catalogueService.ListTypesFormation(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to list training families")
		return
	}
	c.JSON(http.StatusOK, types)
}

// listSpecialisations godoc
// @Summary List specialisations of a training family
// @Tags catalogue
// @Produce json
// @Param id path string true "Training family ID"
// @Success 200 {array} domain.Specialisation
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /types-formation/{id}/specialisations [get]
func (h *catalogueHandler) listSpecialisations(c *gin.Context) {
	specs, err := h.catalogueService.ListSpecialisations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list specialisations")
		return
	}
	c.JSON(http.StatusOK, specs)
}

// listCatalogue godoc
// @Summary List the tenant catalog
// @Tags catalogue
// @Produce json
// @Param include_inactive query bool false "Include disabled packages" default(false)
// @Success 200 {array} domain.TenantFormation
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogue [get]
func (h *catalogueHandler) listCatalogue(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))
	catalogue, err := h.catalogueService.ListCatalogue(c.Request.Context(), profil, includeInactive)
	if err != nil {
		respondError(c, err, "Failed to list catalog")
		return
	}
	c.JSON(http.StatusOK, catalogue)
}

// addTenantFormation godoc
// @Summary Add a catalog package
// @Description Adds a package to the tenant catalog, creating a custom training family when typeAutre is given.
// @Tags catalogue
// @Accept json
// @Produce json
// @Param request body dto.AddTenantFormationRequest true "Package details"
// @Success 201 {object} domain.TenantFormation
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogue [post]
func (h *catalogueHandler) addTenantFormation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.AddTenantFormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	entry, err := h.catalogueService.AddTenantFormation(c.Request.Context(), profil, req)
	if err != nil {
		respondError(c, err, "Failed to add catalog package")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// toggleTenantFormation godoc
// @Summary Enable or disable a catalog package
// @Tags catalogue
// @Accept json
// @Produce json
// @Param id path string true "Catalog entry ID"
// @Param request body toggleTenantFormationRequest true "Target state"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogue/{id} [patch]
func (h *catalogueHandler) toggleTenantFormation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req toggleTenantFormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if err := h.catalogueService.ToggleTenantFormation(c.Request.Context(), profil, c.Param("id"), *req.Actif); err != nil {
		respondError(c, err, "Failed to toggle catalog package")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteTenantFormation godoc
// @Summary Remove a catalog package
// @Tags catalogue
// @Produce json
// @Param id path string true "Catalog entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogue/{id} [delete]
func (h *catalogueHandler) deleteTenantFormation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	if err := h.catalogueService.DeleteTenantFormation(c.Request.Context(), profil, c.Param("id")); err != nil {
		respondError(c, err, "Failed to remove catalog package")
		return
	}
	c.Status(http.StatusNoContent)
}

// syncCompetences godoc
// @Summary Replace a trainer's competence set
// @Description Reconciles the trainer's active competences with the given set: missing ones are created, deselected ones deactivated, nothing is deleted.
// @Tags catalogue
// @Accept json
// @Produce json
// @Param profilId path string true "Trainer profile ID"
// @Param request body dto.SyncCompetencesRequest true "Target specialisation IDs"
// @Success 200 {object} domain.SyncCompetencesResult
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /formateurs/{profilId}/competences [put]
func (h *catalogueHandler) syncCompetences(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.SyncCompetencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	result, err := h.catalogueService.SyncFormateurCompetences(c.Request.Context(), profil, c.Param("profilId"), req.SpecialisationIDs)
	if err != nil {
		respondError(c, err, "Failed to sync competences")
		return
	}
	c.JSON(http.StatusOK, result)
}
