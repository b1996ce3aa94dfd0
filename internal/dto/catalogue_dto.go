package dto

import "github.com/shopspring/decimal"

// CustomTypeFormationRequest describes the "autre" flow: the OF defines its
// own training family. The stored code is prefixed with the tenant so custom
// families never collide with the global catalog.
type CustomTypeFormationRequest struct {
	Code              string `json:"code" binding:"required,min=2,max=50"`
	Nom               string `json:"nom" binding:"required"`
	TitreOfficiel     string `json:"titreOfficiel"`
	DureeValiditeMois int    `json:"dureeValiditeMois" binding:"required,gt=0"`
}

// AddTenantFormationRequest adds a catalog package. Exactly one of
// TypeFormationID and TypeAutre must be set.
type AddTenantFormationRequest struct {
	TypeFormationID   *string                     `json:"typeFormationId,omitempty"`
	TypeAutre         *CustomTypeFormationRequest `json:"typeAutre,omitempty"`
	NomPackage        string                      `json:"nomPackage" binding:"required"`
	Tarif             decimal.Decimal             `json:"tarif"`
	SpecialisationIDs []string                    `json:"specialisationIds" binding:"required,min=1"`
}

// SyncCompetencesRequest replaces a trainer's active competence set.
type SyncCompetencesRequest struct {
	SpecialisationIDs []string `json:"specialisationIds"`
}
