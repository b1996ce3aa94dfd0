package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxFormationRepository struct {
	BaseRepository
}

func newPgxFormationRepository(pool *pgxpool.Pool) portsrepo.FormationRepository {
	return &PgxFormationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FormationRepository = (*PgxFormationRepository)(nil)

var FULL_FORMATION_SELECT_QUERY = `
SELECT
	f.formation_id, f.stagiaire_id, f.specialisation_id, f.session_id, f.statut,
	f.date_debut, f.date_fin_prevue, f.date_fin_reelle,
	f.created_at, f.created_by, f.last_updated_at, f.last_updated_by
FROM formations f
`

func (r *PgxFormationRepository) getFormations(ctx context.Context, filterQuery string, args ...any) ([]domain.Formation, error) {
	rows, err := r.Pool.Query(ctx, FULL_FORMATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query formations", err)
	}
	defer rows.Close()
	formations, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Formation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Formation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect formation rows", err)
	}
	return formations, nil
}

// formationScopeFilter joins through stagiaires for the tenant/company axes.
func formationScopeFilter(scope domain.AccessScope) (string, []any, bool) {
	switch scope.Kind {
	case domain.ScopeAll:
		return `TRUE`, nil, true
	case domain.ScopeTenant:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = f.stagiaire_id AND s.tenant_id = $1)`, []any{scope.TenantID}, true
	case domain.ScopeOrganisme:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = f.stagiaire_id AND s.organisme_formation_id = $1)`, []any{scope.EntrepriseID}, true
	case domain.ScopeEntreprise:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = f.stagiaire_id AND s.entreprise_id = $1)`, []any{scope.EntrepriseID}, true
	case domain.ScopeFormateur:
		return `EXISTS (SELECT 1 FROM session_formateurs sf WHERE sf.session_id = f.session_id AND sf.formateur_profil_id = $1)`, []any{scope.ProfilID}, true
	case domain.ScopeSelf:
		return `EXISTS (SELECT 1 FROM stagiaires s WHERE s.stagiaire_id = f.stagiaire_id AND s.user_id = $1)`, []any{scope.UserID}, true
	}
	return ``, nil, false
}

func (r *PgxFormationRepository) CreateFormation(ctx context.Context, formation *domain.Formation) error {
	query := `
		INSERT INTO formations (
			formation_id, stagiaire_id, specialisation_id, session_id, statut,
			date_debut, date_fin_prevue, date_fin_reelle,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		formation.FormationID,
		formation.StagiaireID,
		formation.SpecialisationID,
		formation.SessionID,
		formation.Statut,
		formation.DateDebut,
		formation.DateFinPrevue,
		formation.DateFinReelle,
		formation.CreatedAt,
		formation.CreatedBy,
		formation.LastUpdatedAt,
		formation.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "trainee already has a course for this specialisation"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create formation "+formation.FormationID, err)
	}
	return nil
}

func (r *PgxFormationRepository) GetFormationByID(ctx context.Context, formationID string) (*domain.Formation, error) {
	formations, err := r.getFormations(ctx, `WHERE f.formation_id = $1`, formationID)
	if err != nil {
		return nil, err
	}
	if len(formations) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &formations[0], nil
}

func (r *PgxFormationRepository) GetFormationByStagiaireSpec(ctx context.Context, stagiaireID string, specialisationID string) (*domain.Formation, error) {
	formations, err := r.getFormations(ctx, `WHERE f.stagiaire_id = $1 AND f.specialisation_id = $2`, stagiaireID, specialisationID)
	if err != nil {
		return nil, err
	}
	if len(formations) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &formations[0], nil
}

func (r *PgxFormationRepository) ListFormations(ctx context.Context, scope domain.AccessScope) ([]domain.Formation, error) {
	filter, args, ok := formationScopeFilter(scope)
	if !ok {
		return []domain.Formation{}, nil
	}
	return r.getFormations(ctx, `WHERE `+filter+` ORDER BY f.date_debut DESC`, args...)
}

func (r *PgxFormationRepository) ListFormationsBySession(ctx context.Context, sessionID string) ([]domain.Formation, error) {
	return r.getFormations(ctx, `WHERE f.session_id = $1 ORDER BY f.created_at`, sessionID)
}

func (r *PgxFormationRepository) UpdateFormationStatut(ctx context.Context, formationID string, statut domain.StatutFormation, dateFinReelle *time.Time, updatedBy string) error {
	query := `
		UPDATE formations
		SET statut = $1, date_fin_reelle = COALESCE($2, date_fin_reelle),
			last_updated_at = now(), last_updated_by = $3
		WHERE formation_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, statut, dateFinReelle, updatedBy, formationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update formation status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

var FULL_VALIDATION_SELECT_QUERY = `
SELECT
	v.validation_id, v.formation_id, v.specialisation_id, v.valide,
	v.validateur_profil_id, v.date_validation, v.commentaires,
	v.created_at, v.created_by, v.last_updated_at, v.last_updated_by
FROM validations_competences v
`

func (r *PgxFormationRepository) ListValidationsByFormation(ctx context.Context, formationID string) ([]domain.ValidationCompetence, error) {
	rows, err := r.Pool.Query(ctx, FULL_VALIDATION_SELECT_QUERY+`WHERE v.formation_id = $1 ORDER BY v.created_at`, formationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query validations", err)
	}
	defer rows.Close()
	validations, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ValidationCompetence])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ValidationCompetence{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect validation rows", err)
	}
	return validations, nil
}

func (r *PgxFormationRepository) CreateValidation(ctx context.Context, validation *domain.ValidationCompetence) error {
	query := `
		INSERT INTO validations_competences (
			validation_id, formation_id, specialisation_id, valide,
			validateur_profil_id, date_validation, commentaires,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		validation.ValidationID,
		validation.FormationID,
		validation.SpecialisationID,
		validation.Valide,
		validation.ValidateurProfilID,
		validation.DateValidation,
		validation.Commentaires,
		validation.CreatedAt,
		validation.CreatedBy,
		validation.LastUpdatedAt,
		validation.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a validation already exists for this competency"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create validation", err)
	}
	return nil
}

func (r *PgxFormationRepository) UpdateValidation(ctx context.Context, validation *domain.ValidationCompetence) error {
	query := `
		UPDATE validations_competences
		SET valide = $1, validateur_profil_id = $2, date_validation = $3, commentaires = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE validation_id = $7;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		validation.Valide,
		validation.ValidateurProfilID,
		validation.DateValidation,
		validation.Commentaires,
		validation.LastUpdatedAt,
		validation.LastUpdatedBy,
		validation.ValidationID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update validation "+validation.ValidationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFormationRepository) GetAvisByFormation(ctx context.Context, formationID string) (*domain.AvisFormation, error) {
	query := `
		SELECT
			a.avis_id, a.formation_id, a.avis, a.observations, a.points_forts,
			a.points_amelioration, a.formateur_nom,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM avis_formations a
		WHERE a.formation_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, formationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query avis", err)
	}
	defer rows.Close()
	avis, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.AvisFormation])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(500, "failed to collect avis rows", err)
	}
	if len(avis) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &avis[0], nil
}

func (r *PgxFormationRepository) UpsertAvis(ctx context.Context, avis *domain.AvisFormation) error {
	query := `
		INSERT INTO avis_formations (
			avis_id, formation_id, avis, observations, points_forts,
			points_amelioration, formateur_nom,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (formation_id) DO UPDATE SET
			avis = EXCLUDED.avis,
			observations = EXCLUDED.observations,
			points_forts = EXCLUDED.points_forts,
			points_amelioration = EXCLUDED.points_amelioration,
			formateur_nom = EXCLUDED.formateur_nom,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		avis.AvisID,
		avis.FormationID,
		avis.Avis,
		avis.Observations,
		avis.PointsForts,
		avis.PointsAmelioration,
		avis.FormateurNom,
		avis.CreatedAt,
		avis.CreatedBy,
		avis.LastUpdatedAt,
		avis.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert avis for formation "+avis.FormationID, err)
	}
	return nil
}
