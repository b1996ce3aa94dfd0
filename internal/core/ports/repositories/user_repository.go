package repositories

import (
	"context"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// UserReader defines read operations for user accounts.
type UserReader interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByProvider(ctx context.Context, provider string, providerID string) (*domain.User, error)
	GetUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)
}

// UserWriter defines write operations for user accounts.
type UserWriter interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error
}

// UserRepository combines user reads and writes.
type UserRepository interface {
	UserReader
	UserWriter
}

// ProfilRepository manages user profiles (role + tenant binding).
type ProfilRepository interface {
	GetProfilByID(ctx context.Context, profilID string) (*domain.ProfilUtilisateur, error)
	GetProfilByUserID(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error)
	CreateProfil(ctx context.Context, profil *domain.ProfilUtilisateur) error
	UpdateProfil(ctx context.Context, profil *domain.ProfilUtilisateur) error
	ListFormateursByOrganisme(ctx context.Context, entrepriseOFID string) ([]domain.ProfilUtilisateur, error)
}
