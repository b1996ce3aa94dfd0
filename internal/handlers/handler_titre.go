package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type titreHandler struct {
	titreService portssvc.TitreService
}

func registerTitreRoutes(rg *gin.RouterGroup, titreService portssvc.TitreService) {
	h := &titreHandler{titreService: titreService}

	issue := middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat)

	titres := rg.Group("/titres")
	{
		titres.POST("", issue, h.delivrerTitre)
		titres.GET("", h.listTitres)
		titres.GET("/:id", h.getTitre)
		titres.GET("/:id/pdf", h.downloadPDF)
	}

	renouvellements := rg.Group("/renouvellements", issue)
	{
		renouvellements.POST("", h.planifierRenouvellement)
		renouvellements.POST("/:id/effectuer", h.effectuerRenouvellement)
	}
}

// delivrerTitre godoc
// @Summary Issue a certificate
// @Description Issues the titre for a completed course with a favorable opinion. One titre per course.
// @Tags titres
// @Accept json
// @Produce json
// @Param request body dto.DelivrerTitreRequest true "Course to certify"
// @Success 201 {object} domain.Titre
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /titres [post]
func (h *titreHandler) delivrerTitre(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.DelivrerTitreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	titre, err := h.titreService.DelivrerTitre(c.Request.Context(), profil, req.FormationID)
	if err != nil {
		respondError(c, err, "Failed to issue titre")
		return
	}
	c.JSON(http.StatusCreated, titre)
}

// listTitres godoc
// @Summary List certificates
// @Description Lists the titres visible to the caller, each with its computed validity.
// @Tags titres
// @Produce json
// @Success 200 {array} dto.TitreResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /titres [get]
func (h *titreHandler) listTitres(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	titres, err := h.titreService.ListTitres(c.Request.Context(), profil)
	if err != nil {
		respondError(c, err, "Failed to list titres")
		return
	}
	c.JSON(http.StatusOK, titres)
}

// getTitre godoc
// @Summary Get a certificate
// @Tags titres
// @Produce json
// @Param id path string true "Titre ID"
// @Success 200 {object} dto.TitreResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /titres/{id} [get]
func (h *titreHandler) getTitre(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	titre, err := h.titreService.GetTitre(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load titre")
		return
	}
	c.JSON(http.StatusOK, titre)
}

// downloadPDF godoc
// @Summary Download the certificate PDF
// @Description Renders the titre as a PDF. When the renderer fails a plain text fallback is returned instead of an error.
// @Tags titres
// @Produce application/pdf
// @Param id path string true "Titre ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /titres/{id}/pdf [get]
func (h *titreHandler) downloadPDF(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	contentType, err := h.titreService.RenderTitrePDF(c.Request.Context(), profil, c.Param("id"), &buf)
	if err != nil {
		respondError(c, err, "Failed to render titre")
		return
	}
	if contentType == "application/pdf" {
		c.Header("Content-Disposition", `attachment; filename="titre-`+c.Param("id")+`.pdf"`)
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// planifierRenouvellement godoc
// @Summary Schedule a renewal
// @Tags titres
// @Accept json
// @Produce json
// @Param request body dto.PlanifierRenouvellementRequest true "Renewal details"
// @Success 201 {object} domain.RenouvellementHabilitation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /renouvellements [post]
func (h *titreHandler) planifierRenouvellement(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.PlanifierRenouvellementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	renouvellement, err := h.titreService.PlanifierRenouvellement(c.Request.Context(), profil, req)
	if err != nil {
		respondError(c, err, "Failed to schedule renewal")
		return
	}
	c.JSON(http.StatusCreated, renouvellement)
}

// effectuerRenouvellement godoc
// @Summary Complete a renewal
// @Description Issues the new titre and expires the old one.
// @Tags titres
// @Produce json
// @Param id path string true "Renewal ID"
// @Success 200 {object} domain.RenouvellementHabilitation
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /renouvellements/{id}/effectuer [post]
func (h *titreHandler) effectuerRenouvellement(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	renouvellement, err := h.titreService.EffectuerRenouvellement(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to complete renewal")
		return
	}
	c.JSON(http.StatusOK, renouvellement)
}
