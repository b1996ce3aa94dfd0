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

type PgxCompetenceRepository struct {
	BaseRepository
}

func newPgxCompetenceRepository(pool *pgxpool.Pool) portsrepo.CompetenceRepository {
	return &PgxCompetenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompetenceRepository = (*PgxCompetenceRepository)(nil)

var FULL_COMPETENCE_SELECT_QUERY = `
SELECT
	c.competence_id, c.formateur_profil_id, c.specialisation_id, c.actif, c.notes,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM formateur_competences c
`

func (r *PgxCompetenceRepository) ListCompetencesByFormateur(ctx context.Context, formateurProfilID string) ([]domain.FormateurCompetence, error) {
	rows, err := r.Pool.Query(ctx, FULL_COMPETENCE_SELECT_QUERY+`WHERE c.formateur_profil_id = $1 ORDER BY c.created_at`, formateurProfilID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trainer competences", err)
	}
	defer rows.Close()
	competences, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.FormateurCompetence])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.FormateurCompetence{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect competence rows", err)
	}
	return competences, nil
}

func (r *PgxCompetenceRepository) CreateCompetence(ctx context.Context, competence *domain.FormateurCompetence) error {
	query := `
		INSERT INTO formateur_competences (
			competence_id, formateur_profil_id, specialisation_id, actif, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		competence.CompetenceID,
		competence.FormateurProfilID,
		competence.SpecialisationID,
		competence.Actif,
		competence.Notes,
		competence.CreatedAt,
		competence.CreatedBy,
		competence.LastUpdatedAt,
		competence.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "trainer already holds this specialisation"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create competence", err)
	}
	return nil
}

func (r *PgxCompetenceRepository) SetCompetenceActif(ctx context.Context, competenceID string, actif bool, updatedBy string) error {
	query := `
		UPDATE formateur_competences
		SET actif = $1, last_updated_at = now(), last_updated_by = $2
		WHERE competence_id = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, actif, updatedBy, competenceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to toggle competence "+competenceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCompetenceRepository) ListActiveCompetenceSpecIDs(ctx context.Context, formateurProfilIDs []string) (map[string][]string, error) {
	query := `
		SELECT c.formateur_profil_id, c.specialisation_id
		FROM formateur_competences c
		WHERE c.formateur_profil_id = ANY($1) AND c.actif;
	`
	rows, err := r.Pool.Query(ctx, query, formateurProfilIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query active competences", err)
	}
	defer rows.Close()

	held := make(map[string][]string, len(formateurProfilIDs))
	for rows.Next() {
		var formateurID, specID string
		if err := rows.Scan(&formateurID, &specID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan competence row", err)
		}
		held[formateurID] = append(held[formateurID], specID)
	}
	if rows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating competence rows", rows.Err())
	}
	return held, nil
}

func (r *PgxCompetenceRepository) GetOrCreateAffectation(ctx context.Context, affectation *domain.FormateurAffectation) (*domain.FormateurAffectation, bool, error) {
	query := `
		SELECT
			a.affectation_id, a.formateur_profil_id, a.entreprise_of_id, a.actif,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM formateur_affectations a
		WHERE a.formateur_profil_id = $1 AND a.entreprise_of_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, affectation.FormateurProfilID, affectation.EntrepriseOFID)
	if err != nil {
		return nil, false, apperrors.NewAppError(500, "failed to query trainer assignment", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.FormateurAffectation])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.NewAppError(500, "failed to collect assignment rows", err)
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	insert := `
		INSERT INTO formateur_affectations (
			affectation_id, formateur_profil_id, entreprise_of_id, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := r.Pool.Exec(ctx, insert,
		affectation.AffectationID,
		affectation.FormateurProfilID,
		affectation.EntrepriseOFID,
		affectation.Actif,
		affectation.CreatedAt,
		affectation.CreatedBy,
		affectation.LastUpdatedAt,
		affectation.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "trainer is already assigned to this organization"); mapped != nil {
			return nil, false, mapped
		}
		return nil, false, apperrors.NewAppError(500, "failed to create trainer assignment", err)
	}
	return affectation, true, nil
}

func (r *PgxCompetenceRepository) ListAffectationsByFormateur(ctx context.Context, formateurProfilID string) ([]domain.FormateurAffectation, error) {
	query := `
		SELECT
			a.affectation_id, a.formateur_profil_id, a.entreprise_of_id, a.actif,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM formateur_affectations a
		WHERE a.formateur_profil_id = $1
		ORDER BY a.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, formateurProfilID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trainer assignments", err)
	}
	defer rows.Close()
	affectations, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.FormateurAffectation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.FormateurAffectation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect assignment rows", err)
	}
	return affectations, nil
}
