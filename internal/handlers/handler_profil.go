package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

// profilHandler serves the caller's own account and profile.
type profilHandler struct {
	profilService portssvc.ProfilService
	authService   portssvc.AuthService
}

func registerProfilRoutes(rg *gin.RouterGroup, profilService portssvc.ProfilService, authService portssvc.AuthService) {
	h := &profilHandler{profilService: profilService, authService: authService}

	me := rg.Group("/me")
	{
		me.GET("", h.getMe)
		me.POST("/provision-of", h.provisionOF)
	}
}

// getMe godoc
// @Summary Current account and profile
// @Description Returns the caller's account with its profile, creating the default stagiaire profile when none exists.
// @Tags me
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *profilHandler) getMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}
	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	profil, err := h.profilService.EnsureProfil(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to resolve profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user, profil))
}

// provisionOF godoc
// @Summary Create the caller's training organization
// @Description Creates the organization, its tenant and the caller's admin_of profile in one step. Rejected when the caller already runs an organization.
// @Tags me
// @Accept json
// @Produce json
// @Param request body dto.ProvisionOFRequest true "Organization details"
// @Success 201 {object} domain.Tenant
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/provision-of [post]
func (h *profilHandler) provisionOF(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}
	var req dto.ProvisionOFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	tenant, err := h.profilService.ProvisionOFAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to provision organization")
		return
	}
	c.JSON(http.StatusCreated, tenant)
}
