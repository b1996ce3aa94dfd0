package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/utils/pagination"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardService
	journalService   portssvc.JournalService
}

const (
	journalDefaultLimit = 50
	journalMaxLimit     = 200
)

// journalPageResponse is one page of the action log. NextCursor is empty on
// the last page.
type journalPageResponse struct {
	Entries    []domain.Journal `json:"entries"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardService, journalService portssvc.JournalService) {
	h := &dashboardHandler{dashboardService: dashboardService, journalService: journalService}

	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/journal", h.listJournal)
}

// getDashboard godoc
// @Summary Role-specific dashboard counters
// @Description Returns the landing counters matching the caller's role: platform, organization, trainer, company or the trainee's own record.
// @Tags dashboard
// @Produce json
// @Success 200 {object} any
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}
	dashboard, err := h.dashboardService.DashboardFor(c.Request.Context(), profil)
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// listJournal godoc
// @Summary Read the action log
// @Description Pages backwards in time. Pass the returned nextCursor to fetch the next page.
// @Tags journal
// @Produce json
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} journalPageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal [get]
func (h *dashboardHandler) listJournal(c *gin.Context) {
	profil, ok := mustProfil(c)
	if !ok {
		return
	}

	var before time.Time
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := pagination.DecodeCursor(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cursor is not a valid pagination cursor"})
			return
		}
		before = parsed
	}

	limit := journalDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > journalMaxLimit {
		limit = journalMaxLimit
	}

	entries, err := h.journalService.ListJournal(c.Request.Context(), profil, before, limit)
	if err != nil {
		respondError(c, err, "Failed to read journal")
		return
	}

	page := journalPageResponse{Entries: entries}
	if len(entries) == limit {
		page.NextCursor = pagination.EncodeCursor(entries[len(entries)-1].CreatedAt)
	}
	c.JSON(http.StatusOK, page)
}
