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

type PgxProfilRepository struct {
	BaseRepository
}

func newPgxProfilRepository(pool *pgxpool.Pool) portsrepo.ProfilRepository {
	return &PgxProfilRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProfilRepository = (*PgxProfilRepository)(nil)

var FULL_PROFIL_SELECT_QUERY = `
SELECT
	p.profil_id, p.user_id, p.role, p.entreprise_id, p.tenant_id, p.telephone, p.actif,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM profils_utilisateurs p
`

func (r *PgxProfilRepository) getProfils(ctx context.Context, filterQuery string, args ...any) ([]domain.ProfilUtilisateur, error) {
	rows, err := r.Pool.Query(ctx, FULL_PROFIL_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query profiles", err)
	}
	defer rows.Close()
	profils, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ProfilUtilisateur])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ProfilUtilisateur{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect profile rows", err)
	}
	return profils, nil
}

func (r *PgxProfilRepository) GetProfilByID(ctx context.Context, profilID string) (*domain.ProfilUtilisateur, error) {
	profils, err := r.getProfils(ctx, `WHERE p.profil_id = $1`, profilID)
	if err != nil {
		return nil, err
	}
	if len(profils) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &profils[0], nil
}

func (r *PgxProfilRepository) GetProfilByUserID(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
	profils, err := r.getProfils(ctx, `WHERE p.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	if len(profils) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &profils[0], nil
}

func (r *PgxProfilRepository) CreateProfil(ctx context.Context, profil *domain.ProfilUtilisateur) error {
	query := `
		INSERT INTO profils_utilisateurs (
			profil_id, user_id, role, entreprise_id, tenant_id, telephone, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		profil.ProfilID,
		profil.UserID,
		profil.Role,
		profil.EntrepriseID,
		profil.TenantID,
		profil.Telephone,
		profil.Actif,
		profil.CreatedAt,
		profil.CreatedBy,
		profil.LastUpdatedAt,
		profil.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a profile already exists for this user"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create profile "+profil.ProfilID, err)
	}
	return nil
}

func (r *PgxProfilRepository) UpdateProfil(ctx context.Context, profil *domain.ProfilUtilisateur) error {
	query := `
		UPDATE profils_utilisateurs
		SET role = $1, entreprise_id = $2, tenant_id = $3, telephone = $4, actif = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE profil_id = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		profil.Role,
		profil.EntrepriseID,
		profil.TenantID,
		profil.Telephone,
		profil.Actif,
		profil.LastUpdatedAt,
		profil.LastUpdatedBy,
		profil.ProfilID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update profile "+profil.ProfilID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProfilRepository) ListFormateursByOrganisme(ctx context.Context, entrepriseOFID string) ([]domain.ProfilUtilisateur, error) {
	filter := `
		JOIN formateur_affectations fa ON fa.formateur_profil_id = p.profil_id
		WHERE fa.entreprise_of_id = $1 AND fa.actif AND p.role = 'formateur' AND p.actif
		ORDER BY p.created_at
	`
	return r.getProfils(ctx, filter, entrepriseOFID)
}
