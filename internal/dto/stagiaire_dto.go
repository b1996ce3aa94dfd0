package dto

// CreateStagiaireRequest is the payload to register a trainee.
// A nil EntrepriseID creates an independent trainee.
type CreateStagiaireRequest struct {
	Nom          string  `json:"nom" binding:"required"`
	Prenom       string  `json:"prenom" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Telephone    string  `json:"telephone"`
	Poste        string  `json:"poste"`
	EntrepriseID *string `json:"entrepriseId,omitempty"`
}

// UpdateStagiaireRequest carries the mutable trainee fields. Nil fields are
// left untouched.
type UpdateStagiaireRequest struct {
	Nom       *string `json:"nom,omitempty"`
	Prenom    *string `json:"prenom,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Poste     *string `json:"poste,omitempty"`
	Actif     *bool   `json:"actif,omitempty"`
}
