package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// TitreRepository manages certificates and their renewals.
type TitreRepository interface {
	CreateTitre(ctx context.Context, titre *domain.Titre) error
	GetTitreByID(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error)
	GetTitreByFormation(ctx context.Context, formationID string) (*domain.Titre, error)
	ListTitres(ctx context.Context, scope domain.AccessScope) ([]domain.Titre, error)
	// RenouvelerTitre retires the old titre, issues its replacement and
	// closes the renewal row in one transaction.
	RenouvelerTitre(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, r *domain.RenouvellementHabilitation) error

	CreateRenouvellement(ctx context.Context, r *domain.RenouvellementHabilitation) error
	GetRenouvellementByID(ctx context.Context, renouvellementID string) (*domain.RenouvellementHabilitation, error)
	ListRenouvellementsByTitre(ctx context.Context, titreID string) ([]domain.RenouvellementHabilitation, error)
}
