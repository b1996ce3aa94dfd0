package domain

import "time"

// StatutFormation is the lifecycle of one trainee/specialisation course.
type StatutFormation string

const (
	FormationEnCours    StatutFormation = "en_cours"
	FormationCompletee  StatutFormation = "completee"
	FormationAbandonnee StatutFormation = "abandonnee"
)

// PeutTransitionner reports whether a formation may move from s to vers.
func (s StatutFormation) PeutTransitionner(vers StatutFormation) bool {
	return s == FormationEnCours && (vers == FormationCompletee || vers == FormationAbandonnee)
}

// Formation is the course of one trainee on one specialisation. At most one
// exists per (stagiaire, specialisation) pair.
type Formation struct {
	FormationID      string          `json:"formationId" db:"formation_id"`
	StagiaireID      string          `json:"stagiaireId" db:"stagiaire_id"`
	SpecialisationID string          `json:"specialisationId" db:"specialisation_id"`
	SessionID        *string         `json:"sessionId,omitempty" db:"session_id"`
	Statut           StatutFormation `json:"statut" db:"statut"`
	DateDebut        time.Time       `json:"dateDebut" db:"date_debut"`
	DateFinPrevue    time.Time       `json:"dateFinPrevue" db:"date_fin_prevue"`
	DateFinReelle    *time.Time      `json:"dateFinReelle,omitempty" db:"date_fin_reelle"`
	AuditFields
}

// ValidationCompetence records whether one competency of a formation has been
// validated by a trainer.
type ValidationCompetence struct {
	ValidationID       string     `json:"validationId" db:"validation_id"`
	FormationID        string     `json:"formationId" db:"formation_id"`
	SpecialisationID   string     `json:"specialisationId" db:"specialisation_id"`
	Valide             bool       `json:"valide" db:"valide"`
	ValidateurProfilID *string    `json:"validateurProfilId,omitempty" db:"validateur_profil_id"`
	DateValidation     *time.Time `json:"dateValidation,omitempty" db:"date_validation"`
	Commentaires       string     `json:"commentaires" db:"commentaires"`
	AuditFields
}

// TypeAvis is the trainer's overall opinion on a completed formation.
type TypeAvis string

const (
	AvisFavorable          TypeAvis = "favorable"
	AvisFavorableCondition TypeAvis = "favorable_condition"
	AvisDefavorable        TypeAvis = "defavorable"
)

// AvisFormation is the single trainer opinion attached to a formation.
type AvisFormation struct {
	AvisID             string   `json:"avisId" db:"avis_id"`
	FormationID        string   `json:"formationId" db:"formation_id"`
	Avis               TypeAvis `json:"avis" db:"avis"`
	Observations       string   `json:"observations" db:"observations"`
	PointsForts        string   `json:"pointsForts" db:"points_forts"`
	PointsAmelioration string   `json:"pointsAmelioration" db:"points_amelioration"`
	FormateurNom       string   `json:"formateurNom" db:"formateur_nom"`
	AuditFields
}
