package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

// ErrorResponse is the generic error body returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps a service error to its HTTP status. Internal errors are
// logged and reported with the generic message so causes never leak.
func respondError(c *gin.Context, err error, internalMsg string) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: internalMsg})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// mustProfil pulls the resolved profile from the context or ends the request.
func mustProfil(c *gin.Context) (*domain.ProfilUtilisateur, bool) {
	profil, ok := middleware.GetProfilFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "no active profile"})
		return nil, false
	}
	return profil, true
}
