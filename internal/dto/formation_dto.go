package dto

import (
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// SetValidationRequest toggles one competency validation of a formation.
type SetValidationRequest struct {
	SpecialisationID string `json:"specialisationId" binding:"required"`
	Valide           bool   `json:"valide"`
	Commentaires     string `json:"commentaires"`
}

// AvisFormationRequest records the trainer's opinion on a formation.
type AvisFormationRequest struct {
	Avis               domain.TypeAvis `json:"avis" binding:"required,oneof=favorable favorable_condition defavorable"`
	Observations       string          `json:"observations"`
	PointsForts        string          `json:"pointsForts"`
	PointsAmelioration string          `json:"pointsAmelioration"`
	FormateurNom       string          `json:"formateurNom"`
}

// DelivrerTitreRequest issues a certificate for a completed formation.
type DelivrerTitreRequest struct {
	FormationID string `json:"formationId" binding:"required"`
}

// PlanifierRenouvellementRequest schedules the renewal of a certificate.
type PlanifierRenouvellementRequest struct {
	TitreID                  string    `json:"titreId" binding:"required"`
	DateRenouvellementPrevue time.Time `json:"dateRenouvellementPrevue" binding:"required"`
}

// TitreResponse is a certificate with its computed validity.
type TitreResponse struct {
	domain.Titre
	EstValide bool `json:"estValide"`
}

// ToTitreResponse computes the validity flag as of today.
func ToTitreResponse(t *domain.Titre, today time.Time) TitreResponse {
	return TitreResponse{Titre: *t, EstValide: t.EstValide(today)}
}
