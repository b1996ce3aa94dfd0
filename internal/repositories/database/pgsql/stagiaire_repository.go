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

type PgxStagiaireRepository struct {
	BaseRepository
}

func newPgxStagiaireRepository(pool *pgxpool.Pool) portsrepo.StagiaireRepository {
	return &PgxStagiaireRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StagiaireRepository = (*PgxStagiaireRepository)(nil)

var FULL_STAGIAIRE_SELECT_QUERY = `
SELECT
	s.stagiaire_id, s.organisme_formation_id, s.entreprise_id, s.tenant_id, s.user_id,
	s.nom, s.prenom, s.email, s.telephone, s.poste, s.actif,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM stagiaires s
`

func (r *PgxStagiaireRepository) getStagiaires(ctx context.Context, filterQuery string, args ...any) ([]domain.Stagiaire, error) {
	rows, err := r.Pool.Query(ctx, FULL_STAGIAIRE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stagiaires", err)
	}
	defer rows.Close()
	stagiaires, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Stagiaire])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Stagiaire{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect stagiaire rows", err)
	}
	return stagiaires, nil
}

// stagiaireScopeFilter renders the caller's scope as a WHERE fragment. The
// formateur axis goes through the trainees enrolled in the trainer's sessions.
func stagiaireScopeFilter(scope domain.AccessScope) (string, []any, bool) {
	switch scope.Kind {
	case domain.ScopeAll:
		return `TRUE`, nil, true
	case domain.ScopeTenant:
		return `s.tenant_id = $1`, []any{scope.TenantID}, true
	case domain.ScopeOrganisme:
		return `s.organisme_formation_id = $1`, []any{scope.EntrepriseID}, true
	case domain.ScopeEntreprise:
		return `s.entreprise_id = $1`, []any{scope.EntrepriseID}, true
	case domain.ScopeFormateur:
		filter := `EXISTS (
			SELECT 1 FROM formations f
			JOIN session_formateurs sf ON sf.session_id = f.session_id
			WHERE f.stagiaire_id = s.stagiaire_id AND sf.formateur_profil_id = $1
		)`
		return filter, []any{scope.ProfilID}, true
	case domain.ScopeSelf:
		return `s.user_id = $1`, []any{scope.UserID}, true
	}
	return ``, nil, false
}

func (r *PgxStagiaireRepository) CreateStagiaire(ctx context.Context, stagiaire *domain.Stagiaire) error {
	query := `
		INSERT INTO stagiaires (
			stagiaire_id, organisme_formation_id, entreprise_id, tenant_id, user_id,
			nom, prenom, email, telephone, poste, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		stagiaire.StagiaireID,
		stagiaire.OrganismeFormationID,
		stagiaire.EntrepriseID,
		stagiaire.TenantID,
		stagiaire.UserID,
		stagiaire.Nom,
		stagiaire.Prenom,
		stagiaire.Email,
		stagiaire.Telephone,
		stagiaire.Poste,
		stagiaire.Actif,
		stagiaire.CreatedAt,
		stagiaire.CreatedBy,
		stagiaire.LastUpdatedAt,
		stagiaire.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a trainee with this email already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create stagiaire "+stagiaire.StagiaireID, err)
	}
	return nil
}

func (r *PgxStagiaireRepository) GetStagiaireByID(ctx context.Context, scope domain.AccessScope, stagiaireID string) (*domain.Stagiaire, error) {
	filter, args, ok := stagiaireScopeFilter(scope)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	args = append(args, stagiaireID)
	stagiaires, err := r.getStagiaires(ctx, `WHERE `+filter+` AND s.stagiaire_id = $`+itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	if len(stagiaires) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &stagiaires[0], nil
}

func (r *PgxStagiaireRepository) GetStagiaireByEmail(ctx context.Context, email string) (*domain.Stagiaire, error) {
	stagiaires, err := r.getStagiaires(ctx, `WHERE lower(s.email) = lower($1)`, email)
	if err != nil {
		return nil, err
	}
	if len(stagiaires) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &stagiaires[0], nil
}

func (r *PgxStagiaireRepository) GetStagiaireByUserID(ctx context.Context, userID string) (*domain.Stagiaire, error) {
	stagiaires, err := r.getStagiaires(ctx, `WHERE s.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	if len(stagiaires) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &stagiaires[0], nil
}

func (r *PgxStagiaireRepository) UpdateStagiaire(ctx context.Context, stagiaire *domain.Stagiaire) error {
	query := `
		UPDATE stagiaires
		SET entreprise_id = $1, tenant_id = $2, user_id = $3, nom = $4, prenom = $5,
			email = $6, telephone = $7, poste = $8, actif = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE stagiaire_id = $12;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		stagiaire.EntrepriseID,
		stagiaire.TenantID,
		stagiaire.UserID,
		stagiaire.Nom,
		stagiaire.Prenom,
		stagiaire.Email,
		stagiaire.Telephone,
		stagiaire.Poste,
		stagiaire.Actif,
		stagiaire.LastUpdatedAt,
		stagiaire.LastUpdatedBy,
		stagiaire.StagiaireID,
	)
	if err != nil {
		if mapped := mapPgError(err, "a trainee with this email already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to update stagiaire "+stagiaire.StagiaireID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxStagiaireRepository) ListStagiaires(ctx context.Context, scope domain.AccessScope) ([]domain.Stagiaire, error) {
	filter, args, ok := stagiaireScopeFilter(scope)
	if !ok {
		return []domain.Stagiaire{}, nil
	}
	return r.getStagiaires(ctx, `WHERE `+filter+` ORDER BY s.nom, s.prenom`, args...)
}

func (r *PgxStagiaireRepository) GetOrCreateStagiaire(ctx context.Context, stagiaire *domain.Stagiaire) (*domain.Stagiaire, bool, error) {
	existing, err := r.getStagiaires(ctx, `WHERE lower(s.email) = lower($1) AND s.organisme_formation_id = $2`, stagiaire.Email, stagiaire.OrganismeFormationID)
	if err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}
	if err := r.CreateStagiaire(ctx, stagiaire); err != nil {
		// lost a concurrent race on the unique email; read the winner's row
		if errors.Is(err, apperrors.ErrDuplicate) {
			winner, rerr := r.GetStagiaireByEmail(ctx, stagiaire.Email)
			if rerr != nil {
				return nil, false, rerr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return stagiaire, true, nil
}
