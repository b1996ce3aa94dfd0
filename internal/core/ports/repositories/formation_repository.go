package repositories

import (
	"context"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// FormationRepository manages per-trainee courses and their validations.
type FormationRepository interface {
	CreateFormation(ctx context.Context, formation *domain.Formation) error
	GetFormationByID(ctx context.Context, formationID string) (*domain.Formation, error)
	GetFormationByStagiaireSpec(ctx context.Context, stagiaireID string, specialisationID string) (*domain.Formation, error)
	ListFormations(ctx context.Context, scope domain.AccessScope) ([]domain.Formation, error)
	ListFormationsBySession(ctx context.Context, sessionID string) ([]domain.Formation, error)
	// UpdateFormationStatut sets the status and, for completions, the real end
	// date in the same statement.
	UpdateFormationStatut(ctx context.Context, formationID string, statut domain.StatutFormation, dateFinReelle *time.Time, updatedBy string) error

	ListValidationsByFormation(ctx context.Context, formationID string) ([]domain.ValidationCompetence, error)
	CreateValidation(ctx context.Context, validation *domain.ValidationCompetence) error
	UpdateValidation(ctx context.Context, validation *domain.ValidationCompetence) error

	GetAvisByFormation(ctx context.Context, formationID string) (*domain.AvisFormation, error)
	UpsertAvis(ctx context.Context, avis *domain.AvisFormation) error
}
