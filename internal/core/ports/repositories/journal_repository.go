package repositories

import (
	"context"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// JournalRepository appends to and reads the immutable action log.
type JournalRepository interface {
	AppendJournal(ctx context.Context, entry *domain.Journal) error
	// ListJournal pages backwards in time from the cursor (zero time means
	// most recent first).
	ListJournal(ctx context.Context, scope domain.AccessScope, before time.Time, limit int) ([]domain.Journal, error)
	AppendConsentement(ctx context.Context, consent *domain.Consentement) error
}

// DashboardRepository runs the aggregate count queries behind dashboards.
type DashboardRepository interface {
	PlatformCounters(ctx context.Context) (*domain.PlatformCounters, error)
	OrganismeCounters(ctx context.Context, tenantID string, entrepriseOFID string, now time.Time) (*domain.OrganismeCounters, error)
	FormateurCounters(ctx context.Context, formateurProfilID string) (*domain.FormateurCounters, error)
	EntrepriseCounters(ctx context.Context, entrepriseID string, now time.Time) (*domain.EntrepriseCounters, error)
}
