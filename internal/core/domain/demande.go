package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatutDemande is the lifecycle of a company training request.
type StatutDemande string

const (
	DemandeEnAttente StatutDemande = "en_attente"
	DemandeApprouvee StatutDemande = "approuvee"
	DemandeRefusee   StatutDemande = "refusee"
	DemandeAnnulee   StatutDemande = "annulee"
)

// PeutTransitionner reports whether a request may move from s to vers.
// Only pending requests move; refusal and cancellation are terminal.
func (s StatutDemande) PeutTransitionner(vers StatutDemande) bool {
	return s == DemandeEnAttente &&
		(vers == DemandeApprouvee || vers == DemandeRefusee || vers == DemandeAnnulee)
}

// TypeDemande distinguishes dedicated company sessions from shared ones.
type TypeDemande string

const (
	DemandeIntra TypeDemande = "intra"
	DemandeInter TypeDemande = "inter"
)

// LieuDemande is where the requested training should happen.
type LieuDemande string

const (
	LieuSurSite LieuDemande = "sur_site"
	LieuChezOF  LieuDemande = "chez_of"
)

// ConsentementInfo captures the consent trail recorded with a request.
type ConsentementInfo struct {
	ConsentementAt        *time.Time `json:"consentementAt,omitempty" db:"consentement_at"`
	ConsentementIP        string     `json:"-" db:"consentement_ip"`
	ConsentementUserAgent string     `json:"-" db:"consentement_user_agent"`
}

// DemandeFormation is a training request from a client company to its OF.
// Once a session has been created from it, the request is frozen.
type DemandeFormation struct {
	DemandeID             string          `json:"demandeId" db:"demande_id"`
	EntrepriseDemandeuseID string         `json:"entrepriseDemandeuseId" db:"entreprise_demandeuse_id"`
	OrganismeFormationID  string          `json:"organismeFormationId" db:"organisme_formation_id"`
	TenantID              *string         `json:"tenantId,omitempty" db:"tenant_id"`
	TypeFormationID       string          `json:"typeFormationId" db:"type_formation_id"`
	Statut                StatutDemande   `json:"statut" db:"statut"`
	Type                  TypeDemande     `json:"type" db:"type"`
	Lieu                  LieuDemande     `json:"lieu" db:"lieu"`
	DateSouhaitee         *time.Time      `json:"dateSouhaitee,omitempty" db:"date_souhaitee"`
	TarifPropose          decimal.Decimal `json:"tarifPropose" db:"tarif_propose"`
	CommentaireDemande    string          `json:"commentaireDemande" db:"commentaire_demande"`
	CommentaireReponse    string          `json:"commentaireReponse" db:"commentaire_reponse"`
	DemandeurProfilID     string          `json:"demandeurProfilId" db:"demandeur_profil_id"`
	TraiteParProfilID     *string         `json:"traiteParProfilId,omitempty" db:"traite_par_profil_id"`
	DateTraitement        *time.Time      `json:"dateTraitement,omitempty" db:"date_traitement"`
	SessionCreeeID        *string         `json:"sessionCreeeId,omitempty" db:"session_creee_id"`
	SpecialisationIDs     []string        `json:"specialisationIds" db:"-"`
	StagiaireIDs          []string        `json:"stagiaireIds" db:"-"`
	ConsentementInfo
	AuditFields
}

// StatutDemandeStagiaire is the lifecycle of an independent trainee request.
type StatutDemandeStagiaire string

const (
	DemandeStagiaireEnAttente StatutDemandeStagiaire = "en_attente"
	DemandeStagiaireValidee   StatutDemandeStagiaire = "validee"
	DemandeStagiaireIntegree  StatutDemandeStagiaire = "integree"
	DemandeStagiaireRefusee   StatutDemandeStagiaire = "refusee"
)

// PeutTransitionner reports whether an independent request may move to vers.
func (s StatutDemandeStagiaire) PeutTransitionner(vers StatutDemandeStagiaire) bool {
	switch s {
	case DemandeStagiaireEnAttente:
		return vers == DemandeStagiaireValidee || vers == DemandeStagiaireRefusee
	case DemandeStagiaireValidee:
		return vers == DemandeStagiaireIntegree || vers == DemandeStagiaireRefusee
	}
	return false
}

// DemandeStagiaire is a training request from an independent trainee, either
// identified by an existing record or by manual identity fields.
type DemandeStagiaire struct {
	DemandeStagiaireID   string                 `json:"demandeStagiaireId" db:"demande_stagiaire_id"`
	OrganismeFormationID string                 `json:"organismeFormationId" db:"organisme_formation_id"`
	TenantID             *string                `json:"tenantId,omitempty" db:"tenant_id"`
	StagiaireExistantID  *string                `json:"stagiaireExistantId,omitempty" db:"stagiaire_existant_id"`
	Nom                  string                 `json:"nom" db:"nom"`
	Prenom               string                 `json:"prenom" db:"prenom"`
	Email                string                 `json:"email" db:"email"`
	Telephone            string                 `json:"telephone" db:"telephone"`
	TypeFormationID      string                 `json:"typeFormationId" db:"type_formation_id"`
	EstRenouvellement    bool                   `json:"estRenouvellement" db:"est_renouvellement"`
	TitreRenouvelleID    *string                `json:"titreRenouvelleId,omitempty" db:"titre_renouvelle_id"`
	Statut               StatutDemandeStagiaire `json:"statut" db:"statut"`
	SessionAssigneeID    *string                `json:"sessionAssigneeId,omitempty" db:"session_assignee_id"`
	StagiaireCreeID      *string                `json:"stagiaireCreeId,omitempty" db:"stagiaire_cree_id"`
	SpecialisationIDs    []string               `json:"specialisationIds" db:"-"`
	ConsentementInfo
	AuditFields
}
