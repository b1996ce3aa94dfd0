package dto

import (
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// CreateSessionRequest plans a new training session.
type CreateSessionRequest struct {
	TypeFormationID    string    `json:"typeFormationId" binding:"required"`
	SpecialisationIDs  []string  `json:"specialisationIds" binding:"required,min=1"`
	FormateurProfilIDs []string  `json:"formateurProfilIds"`
	DateDebut          time.Time `json:"dateDebut" binding:"required"`
	DateFin            time.Time `json:"dateFin" binding:"required"`
	Lieu               string    `json:"lieu"`
	NombrePlaces       int       `json:"nombrePlaces" binding:"required,gt=0"`
}

// ChangeSessionStatutRequest moves a session through its lifecycle.
type ChangeSessionStatutRequest struct {
	Statut domain.StatutSession `json:"statut" binding:"required,oneof=planifiee en_cours terminee annulee"`
}

// EnrollStagiaireRequest enrolls one trainee into a session.
type EnrollStagiaireRequest struct {
	StagiaireID string `json:"stagiaireId" binding:"required"`
}

// SessionResponse is a session with its computed remaining capacity.
type SessionResponse struct {
	domain.SessionFormation
	Inscrits          int  `json:"inscrits"`
	PlacesDisponibles int  `json:"placesDisponibles"`
	CompetencesOK     bool `json:"competencesOk"`
}
