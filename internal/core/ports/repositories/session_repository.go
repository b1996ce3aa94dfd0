package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// SessionRepository manages training sessions.
type SessionRepository interface {
	// CreateSession writes the session and its specialisation/trainer links
	// in one transaction.
	CreateSession(ctx context.Context, session *domain.SessionFormation) error
	GetSessionByID(ctx context.Context, sessionID string) (*domain.SessionFormation, error)
	GetSessionByNumero(ctx context.Context, numeroSession string) (*domain.SessionFormation, error)
	ListSessions(ctx context.Context, scope domain.AccessScope, statut *domain.StatutSession) ([]domain.SessionFormation, error)
	UpdateSessionStatut(ctx context.Context, sessionID string, statut domain.StatutSession, updatedBy string) error
	CountInscrits(ctx context.Context, sessionID string) (int, error)
	// EnrollStagiaire inserts the formation after locking the session row and
	// re-checking capacity, all in one transaction. Returns a conflict error
	// when the session is full and a duplicate error when the trainee already
	// holds a formation for one of the specialisations.
	EnrollStagiaire(ctx context.Context, sessionID string, formations []domain.Formation) error
}
