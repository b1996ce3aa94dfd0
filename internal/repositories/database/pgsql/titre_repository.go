package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxTitreRepository struct {
	BaseRepository
}

func newPgxTitreRepository(pool *pgxpool.Pool) portsrepo.TitreRepository {
	return &PgxTitreRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TitreRepository = (*PgxTitreRepository)(nil)

var FULL_TITRE_SELECT_QUERY = `
SELECT
	t.titre_id, t.formation_id, t.stagiaire_id, t.specialisation_id, t.numero_titre,
	t.date_delivrance, t.date_expiration, t.statut, t.delivre_par_id,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM titres t
`

func (r *PgxTitreRepository) getTitres(ctx context.Context, filterQuery string, args ...any) ([]domain.Titre, error) {
	rows, err := r.Pool.Query(ctx, FULL_TITRE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query titres", err)
	}
	defer rows.Close()
	titres, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Titre])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Titre{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect titre rows", err)
	}
	return titres, nil
}

// titreScopeFilter resolves every axis through the owning trainee.
func titreScopeFilter(scope domain.AccessScope) (string, []any, bool) {
	switch scope.Kind {
	case domain.ScopeAll:
		return `TRUE`, nil, true
	case domain.ScopeTenant:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = t.stagiaire_id AND s.tenant_id = $1)`, []any{scope.TenantID}, true
	case domain.ScopeOrganisme:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = t.stagiaire_id AND s.organisme_formation_id = $1)`, []any{scope.EntrepriseID}, true
	case domain.ScopeEntreprise:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = t.stagiaire_id AND s.entreprise_id = $1)`, []any{scope.EntrepriseID}, true
	case domain.ScopeFormateur:
		filter := `EXISTS (
			SELECT 1 FROM formations f
			JOIN session_formateurs sf ON sf.session_id = f.session_id
			WHERE f.formation_id = t.formation_id AND sf.formateur_profil_id = $1
		)`
		return filter, []any{scope.ProfilID}, true
	case domain.ScopeSelf:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = t.stagiaire_id AND s.user_id = $1)`, []any{scope.UserID}, true
	}
	return ``, nil, false
}

func (r *PgxTitreRepository) CreateTitre(ctx context.Context, titre *domain.Titre) error {
	query := `
		INSERT INTO titres (
			titre_id, formation_id, stagiaire_id, specialisation_id, numero_titre,
			date_delivrance, date_expiration, statut, delivre_par_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		titre.TitreID,
		titre.FormationID,
		titre.StagiaireID,
		titre.SpecialisationID,
		titre.NumeroTitre,
		titre.DateDelivrance,
		titre.DateExpiration,
		titre.Statut,
		titre.DelivreParID,
		titre.CreatedAt,
		titre.CreatedBy,
		titre.LastUpdatedAt,
		titre.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a titre already exists for this formation"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create titre "+titre.TitreID, err)
	}
	return nil
}

func (r *PgxTitreRepository) GetTitreByID(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error) {
	filter, args, ok := titreScopeFilter(scope)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	args = append(args, titreID)
	titres, err := r.getTitres(ctx, `WHERE `+filter+` AND t.titre_id = $`+itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	if len(titres) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &titres[0], nil
}

func (r *PgxTitreRepository) GetTitreByFormation(ctx context.Context, formationID string) (*domain.Titre, error) {
	titres, err := r.getTitres(ctx, `WHERE t.formation_id = $1 ORDER BY t.date_delivrance DESC`, formationID)
	if err != nil {
		return nil, err
	}
	if len(titres) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &titres[0], nil
}

func (r *PgxTitreRepository) ListTitres(ctx context.Context, scope domain.AccessScope) ([]domain.Titre, error) {
	filter, args, ok := titreScopeFilter(scope)
	if !ok {
		return []domain.Titre{}, nil
	}
	return r.getTitres(ctx, `WHERE `+filter+` ORDER BY t.date_delivrance DESC`, args...)
}

// RenouvelerTitre closes a renewal in one transaction: the old titre flips
// to renouvele first, which frees the one-live-titre-per-formation index for
// the replacement insert. The conditional update loses the race when two
// renewals target the same titre.
func (r *PgxTitreRepository) RenouvelerTitre(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, renouvellement *domain.RenouvellementHabilitation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	cmdTag, err := tx.Exec(ctx, `
		UPDATE titres
		SET statut = 'renouvele', last_updated_at = now(), last_updated_by = $1
		WHERE titre_id = $2 AND statut <> 'renouvele';
	`, nouveau.LastUpdatedBy, ancienTitreID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to retire titre "+ancienTitreID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("titre has already been renewed")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO titres (
			titre_id, formation_id, stagiaire_id, specialisation_id, numero_titre,
			date_delivrance, date_expiration, statut, delivre_par_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`,
		nouveau.TitreID,
		nouveau.FormationID,
		nouveau.StagiaireID,
		nouveau.SpecialisationID,
		nouveau.NumeroTitre,
		nouveau.DateDelivrance,
		nouveau.DateExpiration,
		nouveau.Statut,
		nouveau.DelivreParID,
		nouveau.CreatedAt,
		nouveau.CreatedBy,
		nouveau.LastUpdatedAt,
		nouveau.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "a live titre already exists for this formation"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create replacement titre "+nouveau.TitreID, err)
	}

	cmdTag, err = tx.Exec(ctx, `
		UPDATE renouvellements_habilitations
		SET date_renouvellement_reelle = $1, statut = $2, nouveau_titre_id = $3,
			last_updated_at = $4, last_updated_by = $5
		WHERE renouvellement_id = $6;
	`,
		renouvellement.DateRenouvellementReelle,
		renouvellement.Statut,
		renouvellement.NouveauTitreID,
		renouvellement.LastUpdatedAt,
		renouvellement.LastUpdatedBy,
		renouvellement.RenouvellementID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close renewal "+renouvellement.RenouvellementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

var FULL_RENOUVELLEMENT_SELECT_QUERY = `
SELECT
	rn.renouvellement_id, rn.titre_precedent_id, rn.date_renouvellement_prevue,
	rn.date_renouvellement_reelle, rn.statut, rn.nouveau_titre_id,
	rn.created_at, rn.created_by, rn.last_updated_at, rn.last_updated_by
FROM renouvellements_habilitations rn
`

func (r *PgxTitreRepository) getRenouvellements(ctx context.Context, filterQuery string, args ...any) ([]domain.RenouvellementHabilitation, error) {
	rows, err := r.Pool.Query(ctx, FULL_RENOUVELLEMENT_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query renewals", err)
	}
	defer rows.Close()
	renouvellements, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.RenouvellementHabilitation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.RenouvellementHabilitation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect renewal rows", err)
	}
	return renouvellements, nil
}

func (r *PgxTitreRepository) CreateRenouvellement(ctx context.Context, renouvellement *domain.RenouvellementHabilitation) error {
	query := `
		INSERT INTO renouvellements_habilitations (
			renouvellement_id, titre_precedent_id, date_renouvellement_prevue,
			date_renouvellement_reelle, statut, nouveau_titre_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		renouvellement.RenouvellementID,
		renouvellement.TitrePrecedentID,
		renouvellement.DateRenouvellementPrevue,
		renouvellement.DateRenouvellementReelle,
		renouvellement.Statut,
		renouvellement.NouveauTitreID,
		renouvellement.CreatedAt,
		renouvellement.CreatedBy,
		renouvellement.LastUpdatedAt,
		renouvellement.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a renewal is already planned for this titre"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create renewal", err)
	}
	return nil
}

func (r *PgxTitreRepository) GetRenouvellementByID(ctx context.Context, renouvellementID string) (*domain.RenouvellementHabilitation, error) {
	renouvellements, err := r.getRenouvellements(ctx, `WHERE rn.renouvellement_id = $1`, renouvellementID)
	if err != nil {
		return nil, err
	}
	if len(renouvellements) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &renouvellements[0], nil
}

func (r *PgxTitreRepository) ListRenouvellementsByTitre(ctx context.Context, titreID string) ([]domain.RenouvellementHabilitation, error) {
	return r.getRenouvellements(ctx, `WHERE rn.titre_precedent_id = $1 ORDER BY rn.date_renouvellement_prevue`, titreID)
}
