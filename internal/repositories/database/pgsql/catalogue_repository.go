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

type PgxCatalogueRepository struct {
	BaseRepository
}

func newPgxCatalogueRepository(pool *pgxpool.Pool) portsrepo.CatalogueRepository {
	return &PgxCatalogueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogueRepository = (*PgxCatalogueRepository)(nil)

var FULL_TYPE_FORMATION_SELECT_QUERY = `
SELECT
	tf.type_formation_id, tf.code, tf.nom, tf.titre_officiel, tf.description,
	tf.duree_validite_mois, tf.created_by_tenant_id,
	tf.created_at, tf.created_by, tf.last_updated_at, tf.last_updated_by
FROM types_formation tf
`

var FULL_SPECIALISATION_SELECT_QUERY = `
SELECT
	sp.specialisation_id, sp.type_formation_id, sp.code, sp.nom, sp.duree_validite_mois,
	sp.savoirs, sp.savoirs_faire, sp.actif,
	sp.created_at, sp.created_by, sp.last_updated_at, sp.last_updated_by
FROM specialisations sp
`

var FULL_TENANT_FORMATION_SELECT_QUERY = `
SELECT
	tef.tenant_formation_id, tef.tenant_id, tef.type_formation_id, tef.nom_package,
	tef.tarif, tef.actif,
	tef.created_at, tef.created_by, tef.last_updated_at, tef.last_updated_by
FROM tenant_formations tef
`

func (r *PgxCatalogueRepository) getTypesFormation(ctx context.Context, filterQuery string, args ...any) ([]domain.TypeFormation, error) {
	rows, err := r.Pool.Query(ctx, FULL_TYPE_FORMATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query training families", err)
	}
	defer rows.Close()
	types, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.TypeFormation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.TypeFormation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect training family rows", err)
	}
	return types, nil
}

func (r *PgxCatalogueRepository) getSpecialisations(ctx context.Context, filterQuery string, args ...any) ([]domain.Specialisation, error) {
	rows, err := r.Pool.Query(ctx, FULL_SPECIALISATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query specialisations", err)
	}
	defer rows.Close()
	specs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Specialisation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Specialisation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect specialisation rows", err)
	}
	return specs, nil
}

func (r *PgxCatalogueRepository) ListTypesFormation(ctx context.Context, tenantID *string) ([]domain.TypeFormation, error) {
	if tenantID == nil {
		return r.getTypesFormation(ctx, `WHERE tf.created_by_tenant_id IS NULL ORDER BY tf.code`)
	}
	return r.getTypesFormation(ctx, `WHERE tf.created_by_tenant_id IS NULL OR tf.created_by_tenant_id = $1 ORDER BY tf.code`, *tenantID)
}

func (r *PgxCatalogueRepository) GetTypeFormationByID(ctx context.Context, typeFormationID string) (*domain.TypeFormation, error) {
	types, err := r.getTypesFormation(ctx, `WHERE tf.type_formation_id = $1`, typeFormationID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &types[0], nil
}

func (r *PgxCatalogueRepository) GetTypeFormationByCode(ctx context.Context, code string) (*domain.TypeFormation, error) {
	types, err := r.getTypesFormation(ctx, `WHERE tf.code = $1`, code)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &types[0], nil
}

func (r *PgxCatalogueRepository) CreateTypeFormation(ctx context.Context, typeFormation *domain.TypeFormation) error {
	query := `
		INSERT INTO types_formation (
			type_formation_id, code, nom, titre_officiel, description,
			duree_validite_mois, created_by_tenant_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		typeFormation.TypeFormationID,
		typeFormation.Code,
		typeFormation.Nom,
		typeFormation.TitreOfficiel,
		typeFormation.Description,
		typeFormation.DureeValiditeMois,
		typeFormation.CreatedByTenantID,
		typeFormation.CreatedAt,
		typeFormation.CreatedBy,
		typeFormation.LastUpdatedAt,
		typeFormation.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a training family with code "+typeFormation.Code+" already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create training family", err)
	}
	return nil
}

func (r *PgxCatalogueRepository) ListSpecialisationsByType(ctx context.Context, typeFormationID string) ([]domain.Specialisation, error) {
	return r.getSpecialisations(ctx, `WHERE sp.type_formation_id = $1 ORDER BY sp.code`, typeFormationID)
}

func (r *PgxCatalogueRepository) GetSpecialisationByID(ctx context.Context, specialisationID string) (*domain.Specialisation, error) {
	specs, err := r.getSpecialisations(ctx, `WHERE sp.specialisation_id = $1`, specialisationID)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &specs[0], nil
}

func (r *PgxCatalogueRepository) GetSpecialisationByCode(ctx context.Context, typeFormationID string, code string) (*domain.Specialisation, error) {
	specs, err := r.getSpecialisations(ctx, `WHERE sp.type_formation_id = $1 AND upper(sp.code) = upper($2)`, typeFormationID, code)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &specs[0], nil
}

func (r *PgxCatalogueRepository) CreateSpecialisation(ctx context.Context, specialisation *domain.Specialisation) error {
	query := `
		INSERT INTO specialisations (
			specialisation_id, type_formation_id, code, nom, duree_validite_mois,
			savoirs, savoirs_faire, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		specialisation.SpecialisationID,
		specialisation.TypeFormationID,
		specialisation.Code,
		specialisation.Nom,
		specialisation.DureeValiditeMois,
		specialisation.Savoirs,
		specialisation.SavoirsFaire,
		specialisation.Actif,
		specialisation.CreatedAt,
		specialisation.CreatedBy,
		specialisation.LastUpdatedAt,
		specialisation.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "a specialisation with code "+specialisation.Code+" already exists in this family"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create specialisation", err)
	}
	return nil
}

func (r *PgxCatalogueRepository) getTenantFormations(ctx context.Context, filterQuery string, args ...any) ([]domain.TenantFormation, error) {
	rows, err := r.Pool.Query(ctx, FULL_TENANT_FORMATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query catalog entries", err)
	}
	defer rows.Close()
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.TenantFormation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.TenantFormation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect catalog rows", err)
	}
	if err := r.loadTenantFormationSpecs(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// loadTenantFormationSpecs fills SpecialisationIDs for each entry.
func (r *PgxCatalogueRepository) loadTenantFormationSpecs(ctx context.Context, entries []domain.TenantFormation) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].TenantFormationID
	}
	query := `
		SELECT tenant_formation_id, specialisation_id
		FROM tenant_formation_specialisations
		WHERE tenant_formation_id = ANY($1)
		ORDER BY specialisation_id;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query catalog specialisation links", err)
	}
	defer rows.Close()

	bySpec := make(map[string][]string, len(entries))
	for rows.Next() {
		var entryID, specID string
		if err := rows.Scan(&entryID, &specID); err != nil {
			return apperrors.NewAppError(500, "failed to scan catalog specialisation link", err)
		}
		bySpec[entryID] = append(bySpec[entryID], specID)
	}
	if rows.Err() != nil {
		return apperrors.NewAppError(500, "error iterating catalog specialisation links", rows.Err())
	}
	for i := range entries {
		entries[i].SpecialisationIDs = bySpec[entries[i].TenantFormationID]
	}
	return nil
}

func (r *PgxCatalogueRepository) ListTenantFormations(ctx context.Context, tenantID string, includeInactive bool) ([]domain.TenantFormation, error) {
	filter := `WHERE tef.tenant_id = $1`
	if !includeInactive {
		filter += ` AND tef.actif`
	}
	filter += ` ORDER BY tef.nom_package`
	return r.getTenantFormations(ctx, filter, tenantID)
}

func (r *PgxCatalogueRepository) GetTenantFormationByID(ctx context.Context, tenantFormationID string) (*domain.TenantFormation, error) {
	entries, err := r.getTenantFormations(ctx, `WHERE tef.tenant_formation_id = $1`, tenantFormationID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &entries[0], nil
}

func (r *PgxCatalogueRepository) CreateTenantFormation(ctx context.Context, tf *domain.TenantFormation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO tenant_formations (
			tenant_formation_id, tenant_id, type_formation_id, nom_package, tarif, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, query,
		tf.TenantFormationID,
		tf.TenantID,
		tf.TypeFormationID,
		tf.NomPackage,
		tf.Tarif,
		tf.Actif,
		tf.CreatedAt,
		tf.CreatedBy,
		tf.LastUpdatedAt,
		tf.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "catalog entry already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create catalog entry", err)
	}

	for _, specID := range tf.SpecialisationIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tenant_formation_specialisations (tenant_formation_id, specialisation_id) VALUES ($1, $2)`,
			tf.TenantFormationID, specID,
		); err != nil {
			if mapped := mapPgError(err, "specialisation already linked"); mapped != nil {
				return mapped
			}
			return apperrors.NewAppError(500, "failed to link specialisation "+specID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCatalogueRepository) SetTenantFormationActif(ctx context.Context, tenantFormationID string, actif bool, updatedBy string) error {
	query := `
		UPDATE tenant_formations
		SET actif = $1, last_updated_at = now(), last_updated_by = $2
		WHERE tenant_formation_id = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, actif, updatedBy, tenantFormationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to toggle catalog entry "+tenantFormationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCatalogueRepository) DeleteTenantFormation(ctx context.Context, tenantID string, tenantFormationID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM tenant_formation_specialisations WHERE tenant_formation_id = $1`,
		tenantFormationID,
	); err != nil {
		return apperrors.NewAppError(500, "failed to unlink catalog specialisations", err)
	}
	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM tenant_formations WHERE tenant_formation_id = $1 AND tenant_id = $2`,
		tenantFormationID, tenantID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete catalog entry "+tenantFormationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}
