package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// StagiaireRepository manages trainees. Every list/read applies the caller's
// AccessScope; out-of-scope rows behave as missing.
type StagiaireRepository interface {
	CreateStagiaire(ctx context.Context, stagiaire *domain.Stagiaire) error
	GetStagiaireByID(ctx context.Context, scope domain.AccessScope, stagiaireID string) (*domain.Stagiaire, error)
	GetStagiaireByEmail(ctx context.Context, email string) (*domain.Stagiaire, error)
	GetStagiaireByUserID(ctx context.Context, userID string) (*domain.Stagiaire, error)
	UpdateStagiaire(ctx context.Context, stagiaire *domain.Stagiaire) error
	ListStagiaires(ctx context.Context, scope domain.AccessScope) ([]domain.Stagiaire, error)
	// GetOrCreateStagiaire finds a trainee by email or creates the given one.
	// The bool reports whether a row was created.
	GetOrCreateStagiaire(ctx context.Context, stagiaire *domain.Stagiaire) (*domain.Stagiaire, bool, error)
}
