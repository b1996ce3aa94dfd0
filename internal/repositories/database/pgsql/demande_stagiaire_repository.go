package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxDemandeStagiaireRepository struct {
	BaseRepository
}

func newPgxDemandeStagiaireRepository(pool *pgxpool.Pool) portsrepo.DemandeStagiaireRepository {
	return &PgxDemandeStagiaireRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DemandeStagiaireRepository = (*PgxDemandeStagiaireRepository)(nil)

var FULL_DEMANDE_STAGIAIRE_SELECT_QUERY = `
SELECT
	ds.demande_stagiaire_id, ds.organisme_formation_id, ds.tenant_id,
	ds.stagiaire_existant_id, ds.nom, ds.prenom, ds.email, ds.telephone,
	ds.type_formation_id, ds.est_renouvellement, ds.titre_renouvelle_id,
	ds.statut, ds.session_assignee_id, ds.stagiaire_cree_id,
	ds.consentement_at, ds.consentement_ip, ds.consentement_user_agent,
	ds.created_at, ds.created_by, ds.last_updated_at, ds.last_updated_by
FROM demandes_stagiaires ds
`

func (r *PgxDemandeStagiaireRepository) getDemandesStagiaire(ctx context.Context, filterQuery string, args ...any) ([]domain.DemandeStagiaire, error) {
	rows, err := r.Pool.Query(ctx, FULL_DEMANDE_STAGIAIRE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trainee requests", err)
	}
	defer rows.Close()
	demandes, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.DemandeStagiaire])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.DemandeStagiaire{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect trainee request rows", err)
	}
	if err := r.loadDemandeStagiaireSpecs(ctx, demandes); err != nil {
		return nil, err
	}
	return demandes, nil
}

func (r *PgxDemandeStagiaireRepository) loadDemandeStagiaireSpecs(ctx context.Context, demandes []domain.DemandeStagiaire) error {
	if len(demandes) == 0 {
		return nil
	}
	ids := make([]string, len(demandes))
	index := make(map[string]int, len(demandes))
	for i := range demandes {
		ids[i] = demandes[i].DemandeStagiaireID
		index[demandes[i].DemandeStagiaireID] = i
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT demande_stagiaire_id, specialisation_id FROM demande_stagiaire_specialisations WHERE demande_stagiaire_id = ANY($1) ORDER BY specialisation_id`, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query trainee request specialisations", err)
	}
	defer rows.Close()
	for rows.Next() {
		var demandeID, specID string
		if err := rows.Scan(&demandeID, &specID); err != nil {
			return apperrors.NewAppError(500, "failed to scan trainee request specialisation", err)
		}
		i := index[demandeID]
		demandes[i].SpecialisationIDs = append(demandes[i].SpecialisationIDs, specID)
	}
	if rows.Err() != nil {
		return apperrors.NewAppError(500, "error iterating trainee request specialisations", rows.Err())
	}
	return nil
}

func (r *PgxDemandeStagiaireRepository) CreateDemandeStagiaire(ctx context.Context, demande *domain.DemandeStagiaire, consent *domain.Consentement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO demandes_stagiaires (
			demande_stagiaire_id, organisme_formation_id, tenant_id,
			stagiaire_existant_id, nom, prenom, email, telephone,
			type_formation_id, est_renouvellement, titre_renouvelle_id,
			statut, session_assignee_id, stagiaire_cree_id,
			consentement_at, consentement_ip, consentement_user_agent,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	if _, err := tx.Exec(ctx, query,
		demande.DemandeStagiaireID,
		demande.OrganismeFormationID,
		demande.TenantID,
		demande.StagiaireExistantID,
		demande.Nom,
		demande.Prenom,
		demande.Email,
		demande.Telephone,
		demande.TypeFormationID,
		demande.EstRenouvellement,
		demande.TitreRenouvelleID,
		demande.Statut,
		demande.SessionAssigneeID,
		demande.StagiaireCreeID,
		demande.ConsentementAt,
		demande.ConsentementIP,
		demande.ConsentementUserAgent,
		demande.CreatedAt,
		demande.CreatedBy,
		demande.LastUpdatedAt,
		demande.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "trainee request already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create trainee request", err)
	}

	for _, specID := range demande.SpecialisationIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO demande_stagiaire_specialisations (demande_stagiaire_id, specialisation_id) VALUES ($1, $2)`,
			demande.DemandeStagiaireID, specID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to link trainee request specialisation "+specID, err)
		}
	}

	if consent != nil {
		if _, err := tx.Exec(ctx, insertConsentementQuery, consentementInsertArgs(consent)...); err != nil {
			return apperrors.NewAppError(500, "failed to record consent", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDemandeStagiaireRepository) GetDemandeStagiaireByID(ctx context.Context, demandeStagiaireID string) (*domain.DemandeStagiaire, error) {
	demandes, err := r.getDemandesStagiaire(ctx, `WHERE ds.demande_stagiaire_id = $1`, demandeStagiaireID)
	if err != nil {
		return nil, err
	}
	if len(demandes) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &demandes[0], nil
}

func (r *PgxDemandeStagiaireRepository) ListDemandesStagiaire(ctx context.Context, scope domain.AccessScope, statut *domain.StatutDemandeStagiaire) ([]domain.DemandeStagiaire, error) {
	var filter string
	var args []any
	switch scope.Kind {
	case domain.ScopeAll:
		filter = `WHERE TRUE`
	case domain.ScopeTenant:
		filter = `WHERE ds.tenant_id = $1`
		args = append(args, scope.TenantID)
	case domain.ScopeOrganisme:
		filter = `WHERE ds.organisme_formation_id = $1`
		args = append(args, scope.EntrepriseID)
	default:
		return []domain.DemandeStagiaire{}, nil
	}
	if statut != nil {
		filter += fmt.Sprintf(` AND ds.statut = $%d`, len(args)+1)
		args = append(args, *statut)
	}
	return r.getDemandesStagiaire(ctx, filter+` ORDER BY ds.created_at DESC`, args...)
}

func (r *PgxDemandeStagiaireRepository) UpdateDemandeStagiaire(ctx context.Context, demande *domain.DemandeStagiaire) error {
	query := `
		UPDATE demandes_stagiaires
		SET statut = $1, session_assignee_id = $2, stagiaire_cree_id = $3,
			last_updated_at = $4, last_updated_by = $5
		WHERE demande_stagiaire_id = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		demande.Statut,
		demande.SessionAssigneeID,
		demande.StagiaireCreeID,
		demande.LastUpdatedAt,
		demande.LastUpdatedBy,
		demande.DemandeStagiaireID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update trainee request "+demande.DemandeStagiaireID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IntegrerDemandeStagiaire creates or reuses the trainee record, enrolls them
// and marks the request integrated, in one transaction. The status update
// re-checks `validee` so the request cannot be integrated twice.
func (r *PgxDemandeStagiaireRepository) IntegrerDemandeStagiaire(ctx context.Context, demande *domain.DemandeStagiaire, stagiaire *domain.Stagiaire, formations []domain.Formation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if demande.StagiaireExistantID == nil {
		insert := `
			INSERT INTO stagiaires (
				stagiaire_id, organisme_formation_id, entreprise_id, tenant_id, user_id,
				nom, prenom, email, telephone, poste, actif,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
		`
		if _, err := tx.Exec(ctx, insert,
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
		); err != nil {
			if mapped := mapPgError(err, "a trainee with this email already exists"); mapped != nil {
				return mapped
			}
			return apperrors.NewAppError(500, "failed to create trainee", err)
		}
	}

	formationQuery := `
		INSERT INTO formations (
			formation_id, stagiaire_id, specialisation_id, session_id, statut,
			date_debut, date_fin_prevue, date_fin_reelle,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i := range formations {
		f := &formations[i]
		if _, err := tx.Exec(ctx, formationQuery,
			f.FormationID,
			f.StagiaireID,
			f.SpecialisationID,
			f.SessionID,
			f.Statut,
			f.DateDebut,
			f.DateFinPrevue,
			f.DateFinReelle,
			f.CreatedAt,
			f.CreatedBy,
			f.LastUpdatedAt,
			f.LastUpdatedBy,
		); err != nil {
			if mapped := mapPgError(err, "trainee already has a course for this specialisation"); mapped != nil {
				return mapped
			}
			return apperrors.NewAppError(500, "failed to create formation "+f.FormationID, err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE demandes_stagiaires
		SET statut = $1, session_assignee_id = $2, stagiaire_cree_id = $3,
			last_updated_at = $4, last_updated_by = $5
		WHERE demande_stagiaire_id = $6 AND statut = 'validee';
	`,
		domain.DemandeStagiaireIntegree,
		demande.SessionAssigneeID,
		stagiaire.StagiaireID,
		demande.LastUpdatedAt,
		demande.LastUpdatedBy,
		demande.DemandeStagiaireID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark trainee request integrated", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("trainee request is not in a validated state")
	}
	demande.Statut = domain.DemandeStagiaireIntegree
	demande.StagiaireCreeID = &stagiaire.StagiaireID

	return r.Commit(ctx, tx)
}
