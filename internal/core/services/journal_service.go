package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
)

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
}

var _ portssvc.JournalService = (*journalService)(nil)

// NewJournalService creates the action log service.
func NewJournalService(journalRepo portsrepo.JournalRepository) portssvc.JournalService {
	return &journalService{
		BaseService: newBaseService("journal"),
		journalRepo: journalRepo,
	}
}

// Log appends an entry. Journal writes are best effort: a failed append is
// logged but never fails the business operation that produced it.
func (s *journalService) Log(ctx context.Context, entry *domain.Journal) {
	if entry.JournalID == "" {
		entry.JournalID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.journalRepo.AppendJournal(ctx, entry); err != nil {
		s.LogError(ctx, "Failed to append journal entry", err, "action", string(entry.Action))
	}
}

func (s *journalService) ListJournal(ctx context.Context, profil *domain.ProfilUtilisateur, before time.Time, limit int) ([]domain.Journal, error) {
	scope := ScopeForEntreprises(profil)
	if scope.IsNone() {
		return []domain.Journal{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.journalRepo.ListJournal(ctx, scope, before, limit)
}
