package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// CreateDemandeRequest is a training request from a client company.
type CreateDemandeRequest struct {
	TypeFormationID   string             `json:"typeFormationId" binding:"required"`
	SpecialisationIDs []string           `json:"specialisationIds" binding:"required,min=1"`
	StagiaireIDs      []string           `json:"stagiaireIds" binding:"required,min=1"`
	Type              domain.TypeDemande `json:"type" binding:"required,oneof=intra inter"`
	Lieu              domain.LieuDemande `json:"lieu" binding:"required,oneof=sur_site chez_of"`
	DateSouhaitee     *time.Time         `json:"dateSouhaitee,omitempty"`
	TarifPropose      decimal.Decimal    `json:"tarifPropose"`
	Commentaire       string             `json:"commentaire"`
	Consentement      bool               `json:"consentement" binding:"required"`
}

// TraiterDemandeRequest applies an OF decision to a pending request.
type TraiterDemandeRequest struct {
	Action      string `json:"action" binding:"required,oneof=approuver refuser annuler"`
	Commentaire string `json:"commentaire"`
}

// CreateSessionFromDemandeRequest turns an approved request into a session.
type CreateSessionFromDemandeRequest struct {
	DateDebut          time.Time `json:"dateDebut" binding:"required"`
	DateFin            time.Time `json:"dateFin" binding:"required"`
	Lieu               string    `json:"lieu"`
	NombrePlaces       int       `json:"nombrePlaces" binding:"required,gt=0"`
	FormateurProfilIDs []string  `json:"formateurProfilIds"`
}

// CreateDemandeStagiaireRequest is a training request from an independent
// trainee. Either StagiaireExistantID or the identity fields must be set.
type CreateDemandeStagiaireRequest struct {
	StagiaireExistantID *string  `json:"stagiaireExistantId,omitempty"`
	Nom                 string   `json:"nom"`
	Prenom              string   `json:"prenom"`
	Email               string   `json:"email"`
	Telephone           string   `json:"telephone"`
	TypeFormationID     string   `json:"typeFormationId" binding:"required"`
	SpecialisationIDs   []string `json:"specialisationIds" binding:"required,min=1"`
	EstRenouvellement   bool     `json:"estRenouvellement"`
	TitreRenouvelleID   *string  `json:"titreRenouvelleId,omitempty"`
	Consentement        bool     `json:"consentement" binding:"required"`
}

// TraiterDemandeStagiaireRequest moves an independent request forward.
// integrer requires SessionID.
type TraiterDemandeStagiaireRequest struct {
	Action    string  `json:"action" binding:"required,oneof=valider refuser integrer"`
	SessionID *string `json:"sessionId,omitempty"`
}
