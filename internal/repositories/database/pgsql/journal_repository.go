package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

var FULL_JOURNAL_SELECT_QUERY = `
SELECT
	j.journal_id, j.user_id, j.entreprise_id, j.action, j.description,
	j.objet_concerne, j.created_at
FROM journal j
`

func (r *PgxJournalRepository) AppendJournal(ctx context.Context, entry *domain.Journal) error {
	query := `
		INSERT INTO journal (
			journal_id, user_id, entreprise_id, action, description,
			objet_concerne, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.JournalID,
		entry.UserID,
		entry.EntrepriseID,
		entry.Action,
		entry.Description,
		entry.ObjetConcerne,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append journal entry", err)
	}
	return nil
}

func (r *PgxJournalRepository) ListJournal(ctx context.Context, scope domain.AccessScope, before time.Time, limit int) ([]domain.Journal, error) {
	var filter string
	var args []any
	switch scope.Kind {
	case domain.ScopeAll:
		filter = `WHERE TRUE`
	case domain.ScopeOrganisme, domain.ScopeEntreprise:
		filter = `WHERE j.entreprise_id = $1`
		args = append(args, scope.EntrepriseID)
	case domain.ScopeSelf:
		filter = `WHERE j.user_id = $1`
		args = append(args, scope.UserID)
	default:
		return []domain.Journal{}, nil
	}
	if !before.IsZero() {
		filter += fmt.Sprintf(` AND j.created_at < $%d`, len(args)+1)
		args = append(args, before)
	}
	filter += fmt.Sprintf(` ORDER BY j.created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, FULL_JOURNAL_SELECT_QUERY+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal", err)
	}
	defer rows.Close()
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Journal])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Journal{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect journal rows", err)
	}
	return entries, nil
}

func (r *PgxJournalRepository) AppendConsentement(ctx context.Context, consent *domain.Consentement) error {
	if _, err := r.Pool.Exec(ctx, insertConsentementQuery, consentementInsertArgs(consent)...); err != nil {
		return apperrors.NewAppError(500, "failed to record consent", err)
	}
	return nil
}
