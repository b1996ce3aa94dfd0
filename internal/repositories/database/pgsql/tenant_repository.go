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

type PgxTenantRepository struct {
	BaseRepository
}

func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepository {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepository = (*PgxTenantRepository)(nil)

var FULL_TENANT_SELECT_QUERY = `
SELECT
	t.tenant_id, t.entreprise_of_id, t.nom_public, t.slug, t.domaine,
	t.couleur_primaire, t.couleur_accent, t.actif,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM tenants t
`

func (r *PgxTenantRepository) getTenants(ctx context.Context, filterQuery string, args ...any) ([]domain.Tenant, error) {
	rows, err := r.Pool.Query(ctx, FULL_TENANT_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tenants", err)
	}
	defer rows.Close()
	tenants, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Tenant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Tenant{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect tenant rows", err)
	}
	return tenants, nil
}

func (r *PgxTenantRepository) getOneTenant(ctx context.Context, filterQuery string, args ...any) (*domain.Tenant, error) {
	tenants, err := r.getTenants(ctx, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &tenants[0], nil
}

func (r *PgxTenantRepository) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return r.getOneTenant(ctx, `WHERE t.tenant_id = $1`, tenantID)
}

func (r *PgxTenantRepository) GetTenantByDomaine(ctx context.Context, domaine string) (*domain.Tenant, error) {
	return r.getOneTenant(ctx, `WHERE lower(t.domaine) = lower($1) AND t.actif`, domaine)
}

func (r *PgxTenantRepository) GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return r.getOneTenant(ctx, `WHERE t.slug = $1 AND t.actif`, slug)
}

func (r *PgxTenantRepository) GetTenantByEntrepriseOF(ctx context.Context, entrepriseOFID string) (*domain.Tenant, error) {
	return r.getOneTenant(ctx, `WHERE t.entreprise_of_id = $1`, entrepriseOFID)
}

func (r *PgxTenantRepository) UpdateTenant(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		UPDATE tenants
		SET nom_public = $1, slug = $2, domaine = $3, couleur_primaire = $4,
			couleur_accent = $5, actif = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		tenant.NomPublic,
		tenant.Slug,
		tenant.Domaine,
		tenant.CouleurPrimaire,
		tenant.CouleurAccent,
		tenant.Actif,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
		tenant.TenantID,
	)
	if err != nil {
		if mapped := mapPgError(err, "slug or domain already taken"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to update tenant "+tenant.TenantID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ProvisionOFAccount creates the OF company, its tenant and the admin profile
// in one transaction. The profile insert is an upsert: the caller may be
// converting a default trainee profile.
func (r *PgxTenantRepository) ProvisionOFAccount(ctx context.Context, entreprise *domain.Entreprise, tenant *domain.Tenant, profil *domain.ProfilUtilisateur) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, insertEntrepriseQuery, entrepriseInsertArgs(entreprise)...); err != nil {
		if mapped := mapPgError(err, "a company named "+entreprise.Nom+" already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create OF company", err)
	}

	tenantQuery := `
		INSERT INTO tenants (
			tenant_id, entreprise_of_id, nom_public, slug, domaine,
			couleur_primaire, couleur_accent, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	if _, err := tx.Exec(ctx, tenantQuery,
		tenant.TenantID,
		tenant.EntrepriseOFID,
		tenant.NomPublic,
		tenant.Slug,
		tenant.Domaine,
		tenant.CouleurPrimaire,
		tenant.CouleurAccent,
		tenant.Actif,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "slug "+tenant.Slug+" already taken"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create tenant", err)
	}

	profilQuery := `
		INSERT INTO profils_utilisateurs (
			profil_id, user_id, role, entreprise_id, tenant_id, telephone, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			role = EXCLUDED.role,
			entreprise_id = EXCLUDED.entreprise_id,
			tenant_id = EXCLUDED.tenant_id,
			actif = EXCLUDED.actif,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	if _, err := tx.Exec(ctx, profilQuery,
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
	); err != nil {
		return apperrors.NewAppError(500, "failed to bind admin profile", err)
	}

	// the OF company belongs to its own tenant
	if _, err := tx.Exec(ctx, `UPDATE entreprises SET tenant_id = $1 WHERE entreprise_id = $2`, tenant.TenantID, entreprise.EntrepriseID); err != nil {
		return apperrors.NewAppError(500, "failed to attach OF company to tenant", err)
	}
	entreprise.TenantID = &tenant.TenantID

	return r.Commit(ctx, tx)
}
