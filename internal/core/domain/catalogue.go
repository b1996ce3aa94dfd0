package domain

import "github.com/shopspring/decimal"

// TypeFormation is a habilitation training family (e.g. electrical BT/HT).
// Global entries have a nil CreatedByTenantID; tenant-custom entries carry
// the tenant that created them and stay invisible to other tenants.
type TypeFormation struct {
	TypeFormationID    string  `json:"typeFormationId" db:"type_formation_id"`
	Code               string  `json:"code" db:"code"`
	Nom                string  `json:"nom" db:"nom"`
	TitreOfficiel      string  `json:"titreOfficiel" db:"titre_officiel"`
	Description        string  `json:"description" db:"description"`
	DureeValiditeMois  int     `json:"dureeValiditeMois" db:"duree_validite_mois"`
	CreatedByTenantID  *string `json:"createdByTenantId,omitempty" db:"created_by_tenant_id"`
	AuditFields
}

// Specialisation is one habilitation symbol inside a training family
// (B1, B2, BR, ...). Code is unique per type.
type Specialisation struct {
	SpecialisationID  string `json:"specialisationId" db:"specialisation_id"`
	TypeFormationID   string `json:"typeFormationId" db:"type_formation_id"`
	Code              string `json:"code" db:"code"`
	Nom               string `json:"nom" db:"nom"`
	DureeValiditeMois int    `json:"dureeValiditeMois" db:"duree_validite_mois"`
	Savoirs           string `json:"savoirs" db:"savoirs"`
	SavoirsFaire      string `json:"savoirsFaire" db:"savoirs_faire"`
	Actif             bool   `json:"actif" db:"actif"`
	AuditFields
}

// DureeValiditeEffective is the validity window of a titre delivered for this
// specialisation, falling back to the training family default.
func (s *Specialisation) DureeValiditeEffective(typeDefault int) int {
	if s.DureeValiditeMois > 0 {
		return s.DureeValiditeMois
	}
	return typeDefault
}

// TenantFormation is an OF catalog package: a training family, a chosen set
// of specialisations and a per-trainee price.
type TenantFormation struct {
	TenantFormationID string          `json:"tenantFormationId" db:"tenant_formation_id"`
	TenantID          string          `json:"tenantId" db:"tenant_id"`
	TypeFormationID   string          `json:"typeFormationId" db:"type_formation_id"`
	NomPackage        string          `json:"nomPackage" db:"nom_package"`
	Tarif             decimal.Decimal `json:"tarif" db:"tarif"`
	Actif             bool            `json:"actif" db:"actif"`
	SpecialisationIDs []string        `json:"specialisationIds" db:"-"`
	AuditFields
}

// FormateurCompetence records that a trainer may teach a specialisation.
// Competences are deactivated, never deleted, so history survives.
type FormateurCompetence struct {
	CompetenceID      string `json:"competenceId" db:"competence_id"`
	FormateurProfilID string `json:"formateurProfilId" db:"formateur_profil_id"`
	SpecialisationID  string `json:"specialisationId" db:"specialisation_id"`
	Actif             bool   `json:"actif" db:"actif"`
	Notes             string `json:"notes" db:"notes"`
	AuditFields
}

// FormateurAffectation records which training organization a trainer works for.
type FormateurAffectation struct {
	AffectationID     string `json:"affectationId" db:"affectation_id"`
	FormateurProfilID string `json:"formateurProfilId" db:"formateur_profil_id"`
	EntrepriseOFID    string `json:"entrepriseOfId" db:"entreprise_of_id"`
	Actif             bool   `json:"actif" db:"actif"`
	AuditFields
}

// SyncCompetencesResult summarizes a trainer competence synchronization.
type SyncCompetencesResult struct {
	Added       int `json:"added"`
	Reactivated int `json:"reactivated"`
	Deactivated int `json:"deactivated"`
	Unchanged   int `json:"unchanged"`
}
