package dto

// CreateInvitationRequest invites a client company's first responsable.
// Either an existing client company ID or a new company name must be given.
type CreateInvitationRequest struct {
	EntrepriseClientID *string `json:"entrepriseClientId,omitempty"`
	NomEntreprise      *string `json:"nomEntreprise,omitempty"`
	EmailContact       string  `json:"emailContact" binding:"required,email"`
}

// AcceptInvitationRequest redeems an invitation token into an account.
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Nom      string `json:"nom" binding:"required"`
	Prenom   string `json:"prenom" binding:"required"`
}

// InvitationCreatedResponse returns the raw token once, at creation time.
type InvitationCreatedResponse struct {
	InvitationID string `json:"invitationId"`
	Token        string `json:"token"`
	ExpiresAt    string `json:"expiresAt"`
}
