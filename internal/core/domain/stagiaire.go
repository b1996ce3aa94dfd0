package domain

// Stagiaire is a trainee followed by a training organization. A nil
// EntrepriseID marks an independent trainee; a nil UserID means the trainee
// has no self-service account yet.
type Stagiaire struct {
	StagiaireID          string  `json:"stagiaireId" db:"stagiaire_id"`
	OrganismeFormationID string  `json:"organismeFormationId" db:"organisme_formation_id"`
	EntrepriseID         *string `json:"entrepriseId,omitempty" db:"entreprise_id"`
	TenantID             *string `json:"tenantId,omitempty" db:"tenant_id"`
	UserID               *string `json:"userId,omitempty" db:"user_id"`
	Nom                  string  `json:"nom" db:"nom"`
	Prenom               string  `json:"prenom" db:"prenom"`
	Email                string  `json:"email" db:"email"`
	Telephone            string  `json:"telephone" db:"telephone"`
	Poste                string  `json:"poste" db:"poste"`
	Actif                bool    `json:"actif" db:"actif"`
	AuditFields
}

// EstIndependant reports whether the trainee is attached to no client company.
func (s *Stagiaire) EstIndependant() bool {
	return s.EntrepriseID == nil
}
