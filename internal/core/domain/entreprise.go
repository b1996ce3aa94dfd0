package domain

import "time"

// TypeEntreprise distinguishes training organizations from their clients.
type TypeEntreprise string

const (
	EntrepriseOF     TypeEntreprise = "of"
	EntrepriseClient TypeEntreprise = "client"
)

// Entreprise is either a training organization (of) or a client company.
// Client companies reference the tenant of the OF that serves them.
type Entreprise struct {
	EntrepriseID string         `json:"entrepriseId" db:"entreprise_id"`
	Nom          string         `json:"nom" db:"nom"`
	Type         TypeEntreprise `json:"type" db:"type"`
	Email        string         `json:"email" db:"email"`
	Telephone    string         `json:"telephone" db:"telephone"`
	Adresse      string         `json:"adresse" db:"adresse"`
	CodePostal   string         `json:"codePostal" db:"code_postal"`
	Ville        string         `json:"ville" db:"ville"`
	TenantID     *string        `json:"tenantId,omitempty" db:"tenant_id"`
	AuditFields
}

// Tenant is the isolation unit: one per training organization.
type Tenant struct {
	TenantID        string  `json:"tenantId" db:"tenant_id"`
	EntrepriseOFID  string  `json:"entrepriseOfId" db:"entreprise_of_id"`
	NomPublic       string  `json:"nomPublic" db:"nom_public"`
	Slug            string  `json:"slug" db:"slug"`
	Domaine         *string `json:"domaine,omitempty" db:"domaine"`
	CouleurPrimaire string  `json:"couleurPrimaire" db:"couleur_primaire"`
	CouleurAccent   string  `json:"couleurAccent" db:"couleur_accent"`
	Actif           bool    `json:"actif" db:"actif"`
	AuditFields
}

// StatutInvitation is the lifecycle of a company onboarding invitation.
type StatutInvitation string

const (
	InvitationPending  StatutInvitation = "pending"
	InvitationAccepted StatutInvitation = "accepted"
	InvitationRevoked  StatutInvitation = "revoked"
	InvitationExpired  StatutInvitation = "expired"
)

// InvitationEntreprise lets an OF onboard the first responsable of a client
// company. The token is single use.
type InvitationEntreprise struct {
	InvitationID         string           `json:"invitationId" db:"invitation_id"`
	OrganismeFormationID string           `json:"organismeFormationId" db:"organisme_formation_id"`
	EntrepriseClientID   string           `json:"entrepriseClientId" db:"entreprise_client_id"`
	EmailContact         string           `json:"emailContact" db:"email_contact"`
	Token                string           `json:"-" db:"token"`
	Statut               StatutInvitation `json:"statut" db:"statut"`
	ExpiresAt            time.Time        `json:"expiresAt" db:"expires_at"`
	AcceptedBy           *string          `json:"acceptedBy,omitempty" db:"accepted_by"`
	DateAccepted         *time.Time       `json:"dateAccepted,omitempty" db:"date_accepted"`
	AuditFields
}

// EstUtilisable reports whether the invitation can still be accepted at now.
func (i *InvitationEntreprise) EstUtilisable(now time.Time) bool {
	return i.Statut == InvitationPending && now.Before(i.ExpiresAt)
}
