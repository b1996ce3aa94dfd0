package domain

import "time"

// StatutSession is the lifecycle of a training session.
type StatutSession string

const (
	SessionPlanifiee StatutSession = "planifiee"
	SessionEnCours   StatutSession = "en_cours"
	SessionTerminee  StatutSession = "terminee"
	SessionAnnulee   StatutSession = "annulee"
)

// IsValid reports whether s is one of the declared statuses.
func (s StatutSession) IsValid() bool {
	switch s {
	case SessionPlanifiee, SessionEnCours, SessionTerminee, SessionAnnulee:
		return true
	}
	return false
}

// PeutTransitionner reports whether a session may move from s to vers.
// Terminee and annulee are terminal.
func (s StatutSession) PeutTransitionner(vers StatutSession) bool {
	switch s {
	case SessionPlanifiee:
		return vers == SessionEnCours || vers == SessionAnnulee
	case SessionEnCours:
		return vers == SessionTerminee || vers == SessionAnnulee
	case SessionTerminee, SessionAnnulee:
		return false
	}
	return false
}

// SessionFormation groups trainees and trainers over a date range for one
// training family. NombrePlaces caps enrollment.
type SessionFormation struct {
	SessionID         string        `json:"sessionId" db:"session_id"`
	NumeroSession     string        `json:"numeroSession" db:"numero_session"`
	TenantID          string        `json:"tenantId" db:"tenant_id"`
	TypeFormationID   string        `json:"typeFormationId" db:"type_formation_id"`
	DateDebut         time.Time     `json:"dateDebut" db:"date_debut"`
	DateFin           time.Time     `json:"dateFin" db:"date_fin"`
	Lieu              string        `json:"lieu" db:"lieu"`
	Statut            StatutSession `json:"statut" db:"statut"`
	NombrePlaces      int           `json:"nombrePlaces" db:"nombre_places"`
	SpecialisationIDs []string      `json:"specialisationIds" db:"-"`
	FormateurProfilIDs []string     `json:"formateurProfilIds" db:"-"`
	AuditFields
}

// PlacesDisponibles returns the remaining capacity given the current
// enrollment count. Never negative.
func (s *SessionFormation) PlacesDisponibles(inscrits int) int {
	if rest := s.NombrePlaces - inscrits; rest > 0 {
		return rest
	}
	return 0
}
