package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type formationHandler struct {
	formationService portssvc.FormationService
}

func registerFormationRoutes(rg *gin.RouterGroup, formationService portssvc.FormationService) {
	h := &formationHandler{formationService: formationService}

	validate := middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat, domain.RoleFormateur)

	formations := rg.Group("/formations")
	{
		formations.GET("", h.listFormations)
		formations.GET("/:id", h.getFormation)
		formations.POST("/:id/terminer", validate, h.terminerFormation)
		formations.POST("/:id/abandonner", validate, h.abandonnerFormation)
		formations.GET("/:id/validations", h.listValidations)
		formations.PUT("/:id/validations", validate, h.setValidation)
		formations.PUT("/:id/avis", validate, h.upsertAvis)
	}

	rg.GET("/sessions/:id/formations", h.listFormationsBySession)
}

// listFormations godoc
// @Summary List courses
// @Description Lists the courses visible to the caller's scope.
// @Tags formations
// @Produce json
// @Success 200 {array} domain.Formation
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations [get]
func (h *formationHandler) listFormations(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	formations, err := h.formationService.ListFormations(c.Request.Context(), profil)
	if err != nil {
		respondError(c, err, "Failed to list courses")
		return
	}
	c.JSON(http.StatusOK, formations)
}

// getFormation godoc
// @Summary Get a course
// @Tags formations
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} domain.Formation
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations/{id} [get]
func (h *formationHandler) getFormation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	formation, err := h.formationService.GetFormation(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load course")
		return
	}
	c.JSON(http.StatusOK, formation)
}

// listFormationsBySession godoc
// @Summary List the courses of a session
// @Tags formations
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} domain.Formation
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/formations [get]
func (h *formationHandler) listFormationsBySession(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	formations, err := h.formationService.ListFormationsBySession(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list session courses")
		return
	}
	c.JSON(http.StatusOK, formations)
}

// terminerFormation godoc
// @Summary Complete a course
// @Description Marks the course completed. Requires every competency validated and a trainer opinion.
// @Tags formations
// @Produce json
// @Param id path string true "Course ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations/{id}/terminer [post]
func (h *formationHandler) terminerFormation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	if err := h.formationService.TerminerFormation(c.Request.Context(), profil, c.Param("id")); err != nil {
		respondError(c, err, "Failed to complete course")
		return
	}
	c.Status(http.StatusNoContent)
}

// abandonnerFormation godoc
// @Summary Abandon a course
// @Tags formations
// @Produce json
// @Param id path string true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations/{id}/abandonner [post]
func (h *formationHandler) abandonnerFormation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	if err := h.formationService.AbandonnerFormation(c.Request.Context(), profil, c.Param("id")); err != nil {
		respondError(c, err, "Failed to abandon course")
		return
	}
	c.Status(http.StatusNoContent)
}

// listValidations godoc
// @Summary List competency validations of a course
// @Tags formations
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} domain.ValidationCompetence
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations/{id}/validations [get]
func (h *formationHandler) listValidations(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	validations, err := h.formationService.ListValidations(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list validations")
		return
	}
	c.JSON(http.StatusOK, validations)
}

// setValidation godoc
// @Summary Validate or invalidate a competency
// @Tags formations
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.SetValidationRequest true "Validation"
// @Success 200 {object} domain.ValidationCompetence
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations/{id}/validations [put]
func (h *formationHandler) setValidation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.SetValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	validation, err := h.formationService.SetValidation(c.Request.Context(), profil, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to record validation")
		return
	}
	c.JSON(http.StatusOK, validation)
}

// upsertAvis godoc
// @Summary Record the trainer opinion on a course
// @Description Creates or replaces the opinion. One opinion per course.
// @Tags formations
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.AvisFormationRequest true "Opinion"
// @Success 200 {object} domain.AvisFormation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /formations/{id}/avis [put]
func (h *formationHandler) upsertAvis(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.AvisFormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	avis, err := h.formationService.UpsertAvis(c.Request.Context(), profil, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to record opinion")
		return
	}
	c.JSON(http.StatusOK, avis)
}
