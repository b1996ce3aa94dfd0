package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type invitationHandler struct {
	invitationService portssvc.InvitationService
}

// invitationPreviewResponse is the public view of a pending invitation.
// The token itself is never echoed back.
type invitationPreviewResponse struct {
	EmailContact string `json:"emailContact"`
	ExpiresAt    string `json:"expiresAt"`
}

func registerInvitationRoutes(rg *gin.RouterGroup, invitationService portssvc.InvitationService) {
	h := &invitationHandler{invitationService: invitationService}

	invitations := rg.Group("/invitations", middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat))
	{
		invitations.POST("", h.createInvitation)
		invitations.GET("", h.listInvitations)
		invitations.DELETE("/:id", h.revokeInvitation)
	}
}

// registerPublicRoutes sets up the unauthenticated invitation endpoints used
// by invitees who have no account yet.
func registerPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := &invitationHandler{invitationService: services.Invitation}

	public := r.Group("/api/v1/public")
	{
		public.GET("/invitations/:token", h.previewInvitation)
		public.POST("/invitations/accept", h.acceptInvitation)
	}
}

// createInvitation godoc
// @Summary Invite a client company
// @Description Creates an invitation for the first responsable of a client company. The raw token is returned exactly once.
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body dto.CreateInvitationRequest true "Invitation details"
// @Success 201 {object} dto.InvitationCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invitations [post]
func (h *invitationHandler) createInvitation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	invitation, token, err := h.invitationService.CreateInvitation(c.Request.Context(), profil, req)
	if err != nil {
		respondError(c, err, "Failed to create invitation")
		return
	}
	c.JSON(http.StatusCreated, dto.InvitationCreatedResponse{
		InvitationID: invitation.InvitationID,
		Token:        token,
		ExpiresAt:    invitation.ExpiresAt.Format(time.RFC3339),
	})
}

// listInvitations godoc
// @Summary List invitations
// @Tags invitations
// @Produce json
// @Success 200 {array} domain.InvitationEntreprise
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /invitations [get]
func (h *invitationHandler) listInvitations(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	invitations, err := h.invitationService.ListInvitations(c.Request.Context(), profil)
	if err != nil {
		respondError(c, err, "Failed to list invitations")
		return
	}
	c.JSON(http.StatusOK, invitations)
}

// revokeInvitation godoc
// @Summary Revoke a pending invitation
// @Tags invitations
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /invitations/{id} [delete]
func (h *invitationHandler) revokeInvitation(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	if err := h.invitationService.RevokeInvitation(c.Request.Context(), profil, c.Param("id")); err != nil {
		respondError(c, err, "Failed to revoke invitation")
		return
	}
	c.Status(http.StatusNoContent)
}

// previewInvitation godoc
// @Summary Preview an invitation token
// @Description Public lookup shown to the invitee before account creation. Expired and used tokens return 404.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} invitationPreviewResponse
// @Failure 404 {object} ErrorResponse
// @Router /public/invitations/{token} [get]
func (h *invitationHandler) previewInvitation(c *gin.Context) {
	invitation, err := h.invitationService.PreviewInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err, "Failed to preview invitation")
		return
	}
	c.JSON(http.StatusOK, invitationPreviewResponse{
		EmailContact: invitation.EmailContact,
		ExpiresAt:    invitation.ExpiresAt.Format(time.RFC3339),
	})
}

// acceptInvitation godoc
// @Summary Accept an invitation
// @Description Redeems the token into a responsable_pme account. Single use.
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body dto.AcceptInvitationRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /public/invitations/accept [post]
func (h *invitationHandler) acceptInvitation(c *gin.Context) {
	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	user, err := h.invitationService.AcceptInvitation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to accept invitation")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user, nil))
}
