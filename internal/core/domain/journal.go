package domain

import "time"

// ActionJournal enumerates the auditable actions.
type ActionJournal string

const (
	ActionCreation     ActionJournal = "creation"
	ActionModification ActionJournal = "modification"
	ActionSuppression  ActionJournal = "suppression"
	ActionValidation   ActionJournal = "validation"
	ActionDelivrance   ActionJournal = "delivrance"
	ActionConnexion    ActionJournal = "connexion"
	ActionImport       ActionJournal = "import"
)

// Journal is an append-only action log entry. Never updated or deleted.
type Journal struct {
	JournalID     string        `json:"journalId" db:"journal_id"`
	UserID        *string       `json:"userId,omitempty" db:"user_id"`
	EntrepriseID  *string       `json:"entrepriseId,omitempty" db:"entreprise_id"`
	Action        ActionJournal `json:"action" db:"action"`
	Description   string        `json:"description" db:"description"`
	ObjetConcerne string        `json:"objetConcerne" db:"objet_concerne"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
}

// Consentement is an append-only consent record attached to a request.
type Consentement struct {
	ConsentementID string    `json:"consentementId" db:"consentement_id"`
	UserID         *string   `json:"userId,omitempty" db:"user_id"`
	DemandeID      *string   `json:"demandeId,omitempty" db:"demande_id"`
	StagiaireID    *string   `json:"stagiaireId,omitempty" db:"stagiaire_id"`
	TenantID       *string   `json:"tenantId,omitempty" db:"tenant_id"`
	Scope          string    `json:"scope" db:"scope"`
	IP             string    `json:"-" db:"ip"`
	UserAgent      string    `json:"-" db:"user_agent"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
