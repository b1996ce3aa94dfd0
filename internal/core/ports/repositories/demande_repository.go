package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// DemandeRepository manages company training requests.
type DemandeRepository interface {
	// CreateDemande writes the request, its specialisation/trainee links and
	// the consent record in one transaction.
	CreateDemande(ctx context.Context, demande *domain.DemandeFormation, consent *domain.Consentement) error
	GetDemandeByID(ctx context.Context, scope domain.AccessScope, demandeID string) (*domain.DemandeFormation, error)
	ListDemandes(ctx context.Context, scope domain.AccessScope, statut *domain.StatutDemande) ([]domain.DemandeFormation, error)
	UpdateDemandeTraitement(ctx context.Context, demande *domain.DemandeFormation) error
	// CreateSessionFromDemande atomically creates the session, one formation
	// per requested trainee, and links the request to the new session.
	CreateSessionFromDemande(ctx context.Context, demande *domain.DemandeFormation, session *domain.SessionFormation, formations []domain.Formation) error
}

// DemandeStagiaireRepository manages independent trainee requests.
type DemandeStagiaireRepository interface {
	CreateDemandeStagiaire(ctx context.Context, demande *domain.DemandeStagiaire, consent *domain.Consentement) error
	GetDemandeStagiaireByID(ctx context.Context, demandeStagiaireID string) (*domain.DemandeStagiaire, error)
	ListDemandesStagiaire(ctx context.Context, scope domain.AccessScope, statut *domain.StatutDemandeStagiaire) ([]domain.DemandeStagiaire, error)
	UpdateDemandeStagiaire(ctx context.Context, demande *domain.DemandeStagiaire) error
	// IntegrerDemandeStagiaire atomically creates (or reuses) the trainee,
	// enrolls them in the assigned session and marks the request integrated.
	IntegrerDemandeStagiaire(ctx context.Context, demande *domain.DemandeStagiaire, stagiaire *domain.Stagiaire, formations []domain.Formation) error
}
