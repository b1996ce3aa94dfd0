package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type demandeHandler struct {
	demandeService portssvc.DemandeService
}

func registerDemandeRoutes(rg *gin.RouterGroup, demandeService portssvc.DemandeService) {
	h := &demandeHandler{demandeService: demandeService}

	ofStaff := middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat)

	demandes := rg.Group("/demandes")
	{
		demandes.POST("", middleware.RequireRoles(domain.RoleResponsablePME), h.createDemande)
		demandes.GET("", h.listDemandes)
		demandes.GET("/:id", h.getDemande)
		demandes.POST("/:id/traiter", ofStaff, h.traiterDemande)
		demandes.POST("/:id/session", ofStaff, h.createSessionFromDemande)
	}

	demandesStagiaire := rg.Group("/demandes-stagiaires")
	{
		demandesStagiaire.POST("", middleware.RequireRoles(domain.RoleStagiaire), h.createDemandeStagiaire)
		demandesStagiaire.GET("", ofStaff, h.listDemandesStagiaire)
		demandesStagiaire.POST("/:id/traiter", ofStaff, h.traiterDemandeStagiaire)
	}
}

// createDemande godoc
// @Summary Create a company training request
// @Description Records the request with its consent trail. Consent is mandatory.
// @Tags demandes
// @Accept json
// @Produce json
// @Param request body dto.CreateDemandeRequest true "Request details"
// @Success 201 {object} domain.DemandeFormation
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes [post]
func (h *demandeHandler) createDemande(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.CreateDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	demande, err := h.demandeService.CreateDemande(c.Request.Context(), profil, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err, "Failed to create training request")
		return
	}
	c.JSON(http.StatusCreated, demande)
}

// listDemandes godoc
// @Summary List training requests
// @Tags demandes
// @Produce json
// @Param statut query string false "Status filter" Enums(en_attente, approuvee, refusee, annulee)
// @Success 200 {array} domain.DemandeFormation
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes [get]
func (h *demandeHandler) listDemandes(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var statut *domain.StatutDemande
	if raw := c.Query("statut"); raw != "" {
		s := domain.StatutDemande(raw)
		statut = &s
	}
	demandes, err := h.demandeService.ListDemandes(c.Request.Context(), profil, statut)
	if err != nil {
		respondError(c, err, "Failed to list training requests")
		return
	}
	c.JSON(http.StatusOK, demandes)
}

// getDemande godoc
// @Summary Get a training request
// @Tags demandes
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} domain.DemandeFormation
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes/{id} [get]
func (h *demandeHandler) getDemande(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	demande, err := h.demandeService.GetDemande(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load training request")
		return
	}
	c.JSON(http.StatusOK, demande)
}

// traiterDemande godoc
// @Summary Decide on a training request
// @Description Approves, refuses or cancels a pending request. Decided requests are immutable.
// @Tags demandes
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.TraiterDemandeRequest true "Decision"
// @Success 200 {object} domain.DemandeFormation
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes/{id}/traiter [post]
func (h *demandeHandler) traiterDemande(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.TraiterDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	demande, err := h.demandeService.TraiterDemande(c.Request.Context(), profil, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to process training request")
		return
	}
	c.JSON(http.StatusOK, demande)
}

// createSessionFromDemande godoc
// @Summary Create a session from an approved request
// @Description Creates the session, enrolls every requested trainee and freezes the request. One-shot per request.
// @Tags demandes
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.CreateSessionFromDemandeRequest true "Session details"
// @Success 201 {object} domain.SessionFormation
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes/{id}/session [post]
func (h *demandeHandler) createSessionFromDemande(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.CreateSessionFromDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	session, err := h.demandeService.CreateSessionFromDemande(c.Request.Context(), profil, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to create session from request")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// createDemandeStagiaire godoc
// @Summary Create an independent trainee request
// @Tags demandes
// @Accept json
// @Produce json
// @Param request body dto.CreateDemandeStagiaireRequest true "Request details"
// @Success 201 {object} domain.DemandeStagiaire
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes-stagiaires [post]
func (h *demandeHandler) createDemandeStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.CreateDemandeStagiaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	demande, err := h.demandeService.CreateDemandeStagiaire(c.Request.Context(), profil, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err, "Failed to create trainee request")
		return
	}
	c.JSON(http.StatusCreated, demande)
}

// listDemandesStagiaire godoc
// @Summary List independent trainee requests
// @Tags demandes
// @Produce json
// @Param statut query string false "Status filter" Enums(en_attente, validee, integree, refusee)
// @Success 200 {array} domain.DemandeStagiaire
// @Security BearerAuth
// @Router /demandes-stagiaires [get]
func (h *demandeHandler) listDemandesStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var statut *domain.StatutDemandeStagiaire
	if raw := c.Query("statut"); raw != "" {
		s := domain.StatutDemandeStagiaire(raw)
		statut = &s
	}
	demandes, err := h.demandeService.ListDemandesStagiaire(c.Request.Context(), profil, statut)
	if err != nil {
		respondError(c, err, "Failed to list trainee requests")
		return
	}
	c.JSON(http.StatusOK, demandes)
}

// traiterDemandeStagiaire godoc
// @Summary Decide on an independent trainee request
// @Description Validates, refuses or integrates the request. Integration assigns the session and creates the trainee record.
// @Tags demandes
// @Accept json
// @Produce json
// @Param id path string true "Trainee request ID"
// @Param request body dto.TraiterDemandeStagiaireRequest true "Decision"
// @Success 200 {object} domain.DemandeStagiaire
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /demandes-stagiaires/{id}/traiter [post]
func (h *demandeHandler) traiterDemandeStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.TraiterDemandeStagiaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	demande, err := h.demandeService.TraiterDemandeStagiaire(c.Request.Context(), profil, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to process trainee request")
		return
	}
	c.JSON(http.StatusOK, demande)
}
