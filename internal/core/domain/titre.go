package domain

import "time"

// StatutTitre is the lifecycle of a habilitation certificate.
type StatutTitre string

const (
	TitreAttente   StatutTitre = "attente"
	TitreDelivre   StatutTitre = "delivre"
	TitreExpire    StatutTitre = "expire"
	TitreRenouvele StatutTitre = "renouvele"
)

// Titre is the certificate delivered after a completed formation.
type Titre struct {
	TitreID          string      `json:"titreId" db:"titre_id"`
	FormationID      string      `json:"formationId" db:"formation_id"`
	StagiaireID      string      `json:"stagiaireId" db:"stagiaire_id"`
	SpecialisationID string      `json:"specialisationId" db:"specialisation_id"`
	NumeroTitre      string      `json:"numeroTitre" db:"numero_titre"`
	DateDelivrance   time.Time   `json:"dateDelivrance" db:"date_delivrance"`
	DateExpiration   time.Time   `json:"dateExpiration" db:"date_expiration"`
	Statut           StatutTitre `json:"statut" db:"statut"`
	DelivreParID     *string     `json:"delivreParId,omitempty" db:"delivre_par_id"`
	AuditFields
}

// EstValide reports whether the titre grants a valid habilitation on the
// given day. The expiration day itself is still valid.
func (t *Titre) EstValide(today time.Time) bool {
	if t.Statut != TitreDelivre {
		return false
	}
	return !dateOnly(today).After(dateOnly(t.DateExpiration))
}

// StatutRenouvellement is the lifecycle of a planned certificate renewal.
type StatutRenouvellement string

const (
	RenouvellementPlanifie StatutRenouvellement = "planifie"
	RenouvellementEnCours  StatutRenouvellement = "en_cours"
	RenouvellementFait     StatutRenouvellement = "renouvele"
	RenouvellementExpire   StatutRenouvellement = "expire"
)

// RenouvellementHabilitation tracks the renewal of one titre.
type RenouvellementHabilitation struct {
	RenouvellementID          string               `json:"renouvellementId" db:"renouvellement_id"`
	TitrePrecedentID          string               `json:"titrePrecedentId" db:"titre_precedent_id"`
	DateRenouvellementPrevue  time.Time            `json:"dateRenouvellementPrevue" db:"date_renouvellement_prevue"`
	DateRenouvellementReelle  *time.Time           `json:"dateRenouvellementReelle,omitempty" db:"date_renouvellement_reelle"`
	Statut                    StatutRenouvellement `json:"statut" db:"statut"`
	NouveauTitreID            *string              `json:"nouveauTitreId,omitempty" db:"nouveau_titre_id"`
	AuditFields
}

// EstEnRetard reports whether the planned renewal date has passed without the
// renewal being done.
func (r *RenouvellementHabilitation) EstEnRetard(today time.Time) bool {
	if r.Statut == RenouvellementFait || r.Statut == RenouvellementExpire {
		return false
	}
	return dateOnly(today).After(dateOnly(r.DateRenouvellementPrevue))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
