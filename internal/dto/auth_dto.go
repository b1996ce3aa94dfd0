package dto

import (
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// RegisterRequest is the payload to create a new user account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nom      string `json:"nom" binding:"required"`
	Prenom   string `json:"prenom" binding:"required"`
}

// LoginRequest is the payload for password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token. The refresh token travels
// in an HTTP-only cookie, never in the body.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of an account and its profile.
type UserResponse struct {
	UserID   string       `json:"userId"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Nom      string       `json:"nom"`
	Prenom   string       `json:"prenom"`
	Role     *domain.Role `json:"role,omitempty"`
	TenantID *string      `json:"tenantId,omitempty"`
}

// ToUserResponse maps an account and optional profile to the public view.
func ToUserResponse(user *domain.User, profil *domain.ProfilUtilisateur) UserResponse {
	resp := UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Nom:      user.Nom,
		Prenom:   user.Prenom,
	}
	if profil != nil {
		role := profil.Role
		resp.Role = &role
		resp.TenantID = profil.TenantID
	}
	return resp
}

// ProvisionOFRequest creates the caller's training organization and tenant.
type ProvisionOFRequest struct {
	NomOrganisme string  `json:"nomOrganisme" binding:"required,min=2,max=200"`
	Domaine      *string `json:"domaine,omitempty"`
}
