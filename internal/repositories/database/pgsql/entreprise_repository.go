package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxEntrepriseRepository struct {
	BaseRepository
}

func newPgxEntrepriseRepository(pool *pgxpool.Pool) portsrepo.EntrepriseRepository {
	return &PgxEntrepriseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntrepriseRepository = (*PgxEntrepriseRepository)(nil)

var FULL_ENTREPRISE_SELECT_QUERY = `
SELECT
	e.entreprise_id, e.nom, e.type, e.email, e.telephone, e.adresse,
	e.code_postal, e.ville, e.tenant_id,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM entreprises e
`

func (r *PgxEntrepriseRepository) getEntreprises(ctx context.Context, filterQuery string, args ...any) ([]domain.Entreprise, error) {
	rows, err := r.Pool.Query(ctx, FULL_ENTREPRISE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entreprises", err)
	}
	defer rows.Close()
	entreprises, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Entreprise])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Entreprise{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect entreprise rows", err)
	}
	return entreprises, nil
}

const insertEntrepriseQuery = `
	INSERT INTO entreprises (
		entreprise_id, nom, type, email, telephone, adresse, code_postal, ville, tenant_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

func entrepriseInsertArgs(e *domain.Entreprise) []any {
	return []any{
		e.EntrepriseID, e.Nom, e.Type, e.Email, e.Telephone, e.Adresse,
		e.CodePostal, e.Ville, e.TenantID,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	}
}

func (r *PgxEntrepriseRepository) CreateEntreprise(ctx context.Context, entreprise *domain.Entreprise) error {
	_, err := r.Pool.Exec(ctx, insertEntrepriseQuery, entrepriseInsertArgs(entreprise)...)
	if err != nil {
		if mapped := mapPgError(err, "a company named "+entreprise.Nom+" already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create entreprise "+entreprise.EntrepriseID, err)
	}
	return nil
}

func (r *PgxEntrepriseRepository) GetEntrepriseByID(ctx context.Context, entrepriseID string) (*domain.Entreprise, error) {
	entreprises, err := r.getEntreprises(ctx, `WHERE e.entreprise_id = $1`, entrepriseID)
	if err != nil {
		return nil, err
	}
	if len(entreprises) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &entreprises[0], nil
}

func (r *PgxEntrepriseRepository) GetEntrepriseByNom(ctx context.Context, nom string) (*domain.Entreprise, error) {
	entreprises, err := r.getEntreprises(ctx, `WHERE lower(e.nom) = lower($1)`, nom)
	if err != nil {
		return nil, err
	}
	if len(entreprises) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &entreprises[0], nil
}

func (r *PgxEntrepriseRepository) UpdateEntreprise(ctx context.Context, entreprise *domain.Entreprise) error {
	query := `
		UPDATE entreprises
		SET nom = $1, email = $2, telephone = $3, adresse = $4, code_postal = $5,
			ville = $6, tenant_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE entreprise_id = $10;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		entreprise.Nom,
		entreprise.Email,
		entreprise.Telephone,
		entreprise.Adresse,
		entreprise.CodePostal,
		entreprise.Ville,
		entreprise.TenantID,
		entreprise.LastUpdatedAt,
		entreprise.LastUpdatedBy,
		entreprise.EntrepriseID,
	)
	if err != nil {
		if mapped := mapPgError(err, "a company named "+entreprise.Nom+" already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to update entreprise "+entreprise.EntrepriseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxEntrepriseRepository) ListEntreprises(ctx context.Context, scope domain.AccessScope, typ *domain.TypeEntreprise) ([]domain.Entreprise, error) {
	var filter string
	var args []any
	switch scope.Kind {
	case domain.ScopeAll:
		filter = `WHERE TRUE`
	case domain.ScopeTenant:
		filter = `WHERE e.tenant_id = $1`
		args = append(args, scope.TenantID)
	case domain.ScopeEntreprise:
		filter = `WHERE e.entreprise_id = $1`
		args = append(args, scope.EntrepriseID)
	default:
		return []domain.Entreprise{}, nil
	}
	if typ != nil {
		filter += fmt.Sprintf(` AND e.type = $%d`, len(args)+1)
		args = append(args, *typ)
	}
	filter += ` ORDER BY e.nom`
	return r.getEntreprises(ctx, filter, args...)
}

func (r *PgxEntrepriseRepository) GetOrCreateClient(ctx context.Context, nom string, tenantID string, createdBy string) (*domain.Entreprise, bool, error) {
	existing, err := r.getEntreprises(ctx, `WHERE lower(e.nom) = lower($1) AND e.tenant_id = $2 AND e.type = 'client'`, nom, tenantID)
	if err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	query := `
		INSERT INTO entreprises (
			entreprise_id, nom, type, tenant_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, 'client', $3, now(), $4, now(), $4)
		ON CONFLICT (tenant_id, lower(nom)) WHERE type = 'client' DO NOTHING
		RETURNING entreprise_id;
	`
	newID := uuid.NewString()
	var insertedID string
	err = r.Pool.QueryRow(ctx, query, newID, nom, tenantID, createdBy).Scan(&insertedID)
	if err != nil {
		// a concurrent insert won the race; read the winner's row
		if errors.Is(err, pgx.ErrNoRows) {
			winner, rerr := r.getEntreprises(ctx, `WHERE lower(e.nom) = lower($1) AND e.tenant_id = $2 AND e.type = 'client'`, nom, tenantID)
			if rerr != nil {
				return nil, false, rerr
			}
			if len(winner) == 0 {
				return nil, false, apperrors.ErrNotFound
			}
			return &winner[0], false, nil
		}
		return nil, false, apperrors.NewAppError(500, "failed to create client company "+nom, err)
	}

	created, err := r.GetEntrepriseByID(ctx, insertedID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
