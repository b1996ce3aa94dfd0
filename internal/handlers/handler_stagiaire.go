package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type stagiaireHandler struct {
	stagiaireService portssvc.StagiaireService
	importService    portssvc.ImportService
}

func registerStagiaireRoutes(rg *gin.RouterGroup, stagiaireService portssvc.StagiaireService, importService portssvc.ImportService) {
	h := &stagiaireHandler{stagiaireService: stagiaireService, importService: importService}

	manage := middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat, domain.RoleResponsablePME)

	stagiaires := rg.Group("/stagiaires")
	{
		stagiaires.GET("", h.listStagiaires)
		stagiaires.GET("/:id", h.getStagiaire)
		stagiaires.POST("", manage, h.createStagiaire)
		stagiaires.PUT("/:id", manage, h.updateStagiaire)
		stagiaires.POST("/import", middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat), h.importCSV)
	}
}

// listStagiaires godoc
// @Summary List trainees
// @Description Lists the trainees visible to the caller's scope.
// @Tags stagiaires
// @Produce json
// @Success 200 {array} domain.Stagiaire
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /stagiaires [get]
func (h *stagiaireHandler) listStagiaires(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	stagiaires, err := h.stagiaireService.ListStagiaires(c.Request.Context(), profil)
	if err != nil {
		respondError(c, err, "Failed to list trainees")
		return
	}
	c.JSON(http.StatusOK, stagiaires)
}

// getStagiaire godoc
// @Summary Get a trainee
// @Tags stagiaires
// @Produce json
// @Param id path string true "Trainee ID"
// @Success 200 {object} domain.Stagiaire
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stagiaires/{id} [get]
func (h *stagiaireHandler) getStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	stagiaire, err := h.stagiaireService.GetStagiaire(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load trainee")
		return
	}
	c.JSON(http.StatusOK, stagiaire)
}

// createStagiaire godoc
// @Summary Register a trainee
// @Tags stagiaires
// @Accept json
// @Produce json
// @Param request body dto.CreateStagiaireRequest true "Trainee details"
// @Success 201 {object} domain.Stagiaire
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /stagiaires [post]
func (h *stagiaireHandler) createStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.CreateStagiaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	stagiaire, err := h.stagiaireService.CreateStagiaire(c.Request.Context(), profil, req)
	if err != nil {
		respondError(c, err, "Failed to create trainee")
		return
	}
	c.JSON(http.StatusCreated, stagiaire)
}

// updateStagiaire godoc
// @Summary Update a trainee
// @Tags stagiaires
// @Accept json
// @Produce json
// @Param id path string true "Trainee ID"
// @Param request body dto.UpdateStagiaireRequest true "Fields to change"
// @Success 200 {object} domain.Stagiaire
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stagiaires/{id} [put]
func (h *stagiaireHandler) updateStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.UpdateStagiaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	stagiaire, err := h.stagiaireService.UpdateStagiaire(c.Request.Context(), profil, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update trainee")
		return
	}
	c.JSON(http.StatusOK, stagiaire)
}

// importCSV godoc
// @Summary Import trainees from CSV
// @Description Runs the bulk trainee import. dry_run defaults to true: nothing is written unless dry_run=false is passed explicitly.
// @Tags stagiaires
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Param dry_run query bool false "Validate only" default(true)
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /stagiaires/import [post]
func (h *stagiaireHandler) importCSV(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dryRun := true
	if raw, present := c.GetQuery("dry_run"); present {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "dry_run must be a boolean"})
			return
		}
		dryRun = parsed
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "CSV file required under the 'file' field"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	logger.Info("Starting trainee CSV import",
		slog.String("filename", fileHeader.Filename),
		slog.Bool("dry_run", dryRun),
	)

	result, err := h.importService.ImportStagiairesCSV(c.Request.Context(), profil, file, dryRun)
	if err != nil {
		respondError(c, err, "Failed to import trainees")
		return
	}
	c.JSON(http.StatusOK, result)
}
