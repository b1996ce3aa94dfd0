package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type entrepriseHandler struct {
	entrepriseService portssvc.EntrepriseService
}

// createClientRequest creates a client company record without an invitation.
type createClientRequest struct {
	Nom   string `json:"nom" binding:"required,min=2,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
}

func registerEntrepriseRoutes(rg *gin.RouterGroup, entrepriseService portssvc.EntrepriseService) {
	h := &entrepriseHandler{entrepriseService: entrepriseService}

	entreprises := rg.Group("/entreprises")
	{
		entreprises.GET("", h.listClients)
		entreprises.GET("/:id", h.getEntreprise)
		entreprises.POST("", middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat), h.createClient)
	}
}

// listClients godoc
// @Summary List client companies
// @Description Lists the companies visible to the caller's scope.
// @Tags entreprises
// @Produce json
// @Success 200 {array} domain.Entreprise
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /entreprises [get]
func (h *entrepriseHandler) listClients(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	clients, err := h.entrepriseService.ListClients(c.Request.Context(), profil)
	if err != nil {
		respondError(c, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// getEntreprise godoc
// @Summary Get a company
// @Tags entreprises
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} domain.Entreprise
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /entreprises/{id} [get]
func (h *entrepriseHandler) getEntreprise(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	entreprise, err := h.entrepriseService.GetEntreprise(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load company")
		return
	}
	c.JSON(http.StatusOK, entreprise)
}

// createClient godoc
// @Summary Create a client company
// @Description Registers a client company under the caller's tenant. Idempotent on the company name.
// @Tags entreprises
// @Accept json
// @Produce json
// @Param request body createClientRequest true "Company details"
// @Success 201 {object} domain.Entreprise
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /entreprises [post]
func (h *entrepriseHandler) createClient(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	client, err := h.entrepriseService.CreateClient(c.Request.Context(), profil, req.Nom, req.Email)
	if err != nil {
		respondError(c, err, "Failed to create company")
		return
	}
	c.JSON(http.StatusCreated, client)
}
