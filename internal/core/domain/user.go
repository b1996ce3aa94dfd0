package domain

import "time"

// User is an authentication account. Authorization lives on the profile.
type User struct {
	UserID       string  `json:"userId" db:"user_id"`
	Username     string  `json:"username" db:"username"`
	Email        string  `json:"email" db:"email"`
	Nom          string  `json:"nom" db:"nom"`
	Prenom       string  `json:"prenom" db:"prenom"`
	PasswordHash string  `json:"-" db:"password_hash"`
	AuthProvider *string `json:"authProvider,omitempty" db:"auth_provider"`
	ProviderID   *string `json:"-" db:"provider_id"`

	RefreshTokenHash      *string    `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiresAt *time.Time `json:"-" db:"refresh_token_expires_at"`

	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	AuditFields
}

// ProfilUtilisateur binds a user account to a role inside one tenant.
// SuperAdmin profiles carry neither entreprise nor tenant.
type ProfilUtilisateur struct {
	ProfilID     string  `json:"profilId" db:"profil_id"`
	UserID       string  `json:"userId" db:"user_id"`
	Role         Role    `json:"role" db:"role"`
	EntrepriseID *string `json:"entrepriseId,omitempty" db:"entreprise_id"`
	TenantID     *string `json:"tenantId,omitempty" db:"tenant_id"`
	Telephone    string  `json:"telephone" db:"telephone"`
	Actif        bool    `json:"actif" db:"actif"`
	AuditFields
}
