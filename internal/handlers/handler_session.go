package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

type sessionHandler struct {
	sessionService portssvc.SessionService
}

func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionService) {
	h := &sessionHandler{sessionService: sessionService}

	manage := middleware.RequireRoles(domain.RoleAdminOF, domain.RoleSecretariat)

	sessions := rg.Group("/sessions")
	{
		sessions.GET("", h.listSessions)
		sessions.GET("/:id", h.getSession)
		sessions.POST("", manage, h.createSession)
		sessions.PATCH("/:id/statut", manage, h.changeStatut)
		sessions.POST("/:id/inscriptions", manage, h.enrollStagiaire)
	}
}

// listSessions godoc
// @Summary List sessions
// @Description Lists the sessions visible to the caller, optionally filtered by status.
// @Tags sessions
// @Produce json
// @Param statut query string false "Status filter" Enums(planifiee, en_cours, terminee, annulee)
// @Success 200 {array} domain.SessionFormation
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions [get]
func (h *sessionHandler) listSessions(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var statut *domain.StatutSession
	if raw := c.Query("statut"); raw != "" {
		s := domain.StatutSession(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown session status"})
			return
		}
		statut = &s
	}
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), profil, statut)
	if err != nil {
		respondError(c, err, "Failed to list sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// getSession godoc
// @Summary Get a session
// @Description Returns the session with its enrollment count and remaining capacity.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	session, err := h.sessionService.GetSession(c.Request.Context(), profil, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// createSession godoc
// @Summary Plan a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session details"
// @Success 201 {object} domain.SessionFormation
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions [post]
func (h *sessionHandler) createSession(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	session, err := h.sessionService.CreateSession(c.Request.Context(), profil, req)
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// changeStatut godoc
// @Summary Move a session through its lifecycle
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ChangeSessionStatutRequest true "Target status"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/statut [patch]
func (h *sessionHandler) changeStatut(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.ChangeSessionStatutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if err := h.sessionService.ChangeStatut(c.Request.Context(), profil, c.Param("id"), req.Statut); err != nil {
		respondError(c, err, "Failed to change session status")
		return
	}
	c.Status(http.StatusNoContent)
}

// enrollStagiaire godoc
// @Summary Enroll a trainee
// @Description Enrolls the trainee into the session, creating one course per session specialisation. Full sessions are rejected with 409.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.EnrollStagiaireRequest true "Trainee to enroll"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/inscriptions [post]
func (h *sessionHandler) enrollStagiaire(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	var req dto.EnrollStagiaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if err := h.sessionService.EnrollStagiaire(c.Request.Context(), profil, c.Param("id"), req.StagiaireID); err != nil {
		respondError(c, err, "Failed to enroll trainee")
		return
	}
	c.Status(http.StatusNoContent)
}
