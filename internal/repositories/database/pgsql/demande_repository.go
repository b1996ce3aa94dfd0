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

type PgxDemandeRepository struct {
	BaseRepository
}

func newPgxDemandeRepository(pool *pgxpool.Pool) portsrepo.DemandeRepository {
	return &PgxDemandeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DemandeRepository = (*PgxDemandeRepository)(nil)

var FULL_DEMANDE_SELECT_QUERY = `
SELECT
	d.demande_id, d.entreprise_demandeuse_id, d.organisme_formation_id, d.tenant_id,
	d.type_formation_id, d.statut, d.type, d.lieu, d.date_souhaitee, d.tarif_propose,
	d.commentaire_demande, d.commentaire_reponse, d.demandeur_profil_id,
	d.traite_par_profil_id, d.date_traitement, d.session_creee_id,
	d.consentement_at, d.consentement_ip, d.consentement_user_agent,
	d.created_at, d.created_by, d.last_updated_at, d.last_updated_by
FROM demandes_formation d
`

func (r *PgxDemandeRepository) getDemandes(ctx context.Context, filterQuery string, args ...any) ([]domain.DemandeFormation, error) {
	rows, err := r.Pool.Query(ctx, FULL_DEMANDE_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query training requests", err)
	}
	defer rows.Close()
	demandes, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.DemandeFormation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.DemandeFormation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect request rows", err)
	}
	if err := r.loadDemandeLinks(ctx, demandes); err != nil {
		return nil, err
	}
	return demandes, nil
}

// loadDemandeLinks fills SpecialisationIDs and StagiaireIDs.
func (r *PgxDemandeRepository) loadDemandeLinks(ctx context.Context, demandes []domain.DemandeFormation) error {
	if len(demandes) == 0 {
		return nil
	}
	ids := make([]string, len(demandes))
	index := make(map[string]int, len(demandes))
	for i := range demandes {
		ids[i] = demandes[i].DemandeID
		index[demandes[i].DemandeID] = i
	}

	specRows, err := r.Pool.Query(ctx,
		`SELECT demande_id, specialisation_id FROM demande_specialisations WHERE demande_id = ANY($1) ORDER BY specialisation_id`, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query request specialisations", err)
	}
	defer specRows.Close()
	for specRows.Next() {
		var demandeID, specID string
		if err := specRows.Scan(&demandeID, &specID); err != nil {
			return apperrors.NewAppError(500, "failed to scan request specialisation", err)
		}
		i := index[demandeID]
		demandes[i].SpecialisationIDs = append(demandes[i].SpecialisationIDs, specID)
	}
	if specRows.Err() != nil {
		return apperrors.NewAppError(500, "error iterating request specialisations", specRows.Err())
	}

	stagiaireRows, err := r.Pool.Query(ctx,
		`SELECT demande_id, stagiaire_id FROM demande_stagiaires_lien WHERE demande_id = ANY($1) ORDER BY stagiaire_id`, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query request trainees", err)
	}
	defer stagiaireRows.Close()
	for stagiaireRows.Next() {
		var demandeID, stagiaireID string
		if err := stagiaireRows.Scan(&demandeID, &stagiaireID); err != nil {
			return apperrors.NewAppError(500, "failed to scan request trainee", err)
		}
		i := index[demandeID]
		demandes[i].StagiaireIDs = append(demandes[i].StagiaireIDs, stagiaireID)
	}
	if stagiaireRows.Err() != nil {
		return apperrors.NewAppError(500, "error iterating request trainees", stagiaireRows.Err())
	}
	return nil
}

func demandeScopeFilter(scope domain.AccessScope) (string, []any, bool) {
	switch scope.Kind {
	case domain.ScopeAll:
		return `TRUE`, nil, true
	case domain.ScopeTenant:
		return `d.tenant_id = $1`, []any{scope.TenantID}, true
	case domain.ScopeOrganisme:
		return `d.organisme_formation_id = $1`, []any{scope.EntrepriseID}, true
	case domain.ScopeEntreprise:
		return `d.entreprise_demandeuse_id = $1`, []any{scope.EntrepriseID}, true
	}
	return ``, nil, false
}

const insertConsentementQuery = `
	INSERT INTO consentements (
		consentement_id, user_id, demande_id, stagiaire_id, tenant_id,
		scope, ip, user_agent, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func consentementInsertArgs(c *domain.Consentement) []any {
	return []any{
		c.ConsentementID, c.UserID, c.DemandeID, c.StagiaireID, c.TenantID,
		c.Scope, c.IP, c.UserAgent, c.CreatedAt,
	}
}

// CreateDemande writes the request, its links and the consent record in one
// transaction.
func (r *PgxDemandeRepository) CreateDemande(ctx context.Context, demande *domain.DemandeFormation, consent *domain.Consentement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO demandes_formation (
			demande_id, entreprise_demandeuse_id, organisme_formation_id, tenant_id,
			type_formation_id, statut, type, lieu, date_souhaitee, tarif_propose,
			commentaire_demande, commentaire_reponse, demandeur_profil_id,
			consentement_at, consentement_ip, consentement_user_agent,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	if _, err := tx.Exec(ctx, query,
		demande.DemandeID,
		demande.EntrepriseDemandeuseID,
		demande.OrganismeFormationID,
		demande.TenantID,
		demande.TypeFormationID,
		demande.Statut,
		demande.Type,
		demande.Lieu,
		demande.DateSouhaitee,
		demande.TarifPropose,
		demande.CommentaireDemande,
		demande.CommentaireReponse,
		demande.DemandeurProfilID,
		demande.ConsentementAt,
		demande.ConsentementIP,
		demande.ConsentementUserAgent,
		demande.CreatedAt,
		demande.CreatedBy,
		demande.LastUpdatedAt,
		demande.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "request already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create training request", err)
	}

	for _, specID := range demande.SpecialisationIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO demande_specialisations (demande_id, specialisation_id) VALUES ($1, $2)`,
			demande.DemandeID, specID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to link request specialisation "+specID, err)
		}
	}
	for _, stagiaireID := range demande.StagiaireIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO demande_stagiaires_lien (demande_id, stagiaire_id) VALUES ($1, $2)`,
			demande.DemandeID, stagiaireID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to link request trainee "+stagiaireID, err)
		}
	}

	if consent != nil {
		if _, err := tx.Exec(ctx, insertConsentementQuery, consentementInsertArgs(consent)...); err != nil {
			return apperrors.NewAppError(500, "failed to record consent", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDemandeRepository) GetDemandeByID(ctx context.Context, scope domain.AccessScope, demandeID string) (*domain.DemandeFormation, error) {
	filter, args, ok := demandeScopeFilter(scope)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	args = append(args, demandeID)
	demandes, err := r.getDemandes(ctx, `WHERE `+filter+` AND d.demande_id = $`+itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	if len(demandes) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &demandes[0], nil
}

func (r *PgxDemandeRepository) ListDemandes(ctx context.Context, scope domain.AccessScope, statut *domain.StatutDemande) ([]domain.DemandeFormation, error) {
	filter, args, ok := demandeScopeFilter(scope)
	if !ok {
		return []domain.DemandeFormation{}, nil
	}
	if statut != nil {
		filter += fmt.Sprintf(` AND d.statut = $%d`, len(args)+1)
		args = append(args, *statut)
	}
	return r.getDemandes(ctx, `WHERE `+filter+` ORDER BY d.created_at DESC`, args...)
}

func (r *PgxDemandeRepository) UpdateDemandeTraitement(ctx context.Context, demande *domain.DemandeFormation) error {
	query := `
		UPDATE demandes_formation
		SET statut = $1, commentaire_reponse = $2, traite_par_profil_id = $3,
			date_traitement = $4, session_creee_id = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE demande_id = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		demande.Statut,
		demande.CommentaireReponse,
		demande.TraiteParProfilID,
		demande.DateTraitement,
		demande.SessionCreeeID,
		demande.LastUpdatedAt,
		demande.LastUpdatedBy,
		demande.DemandeID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update training request "+demande.DemandeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CreateSessionFromDemande creates the session with its links, the formations
// for every requested trainee and freezes the request, in one transaction.
// The request row is re-checked under the update so two concurrent calls
// cannot both attach a session.
func (r *PgxDemandeRepository) CreateSessionFromDemande(ctx context.Context, demande *domain.DemandeFormation, session *domain.SessionFormation, formations []domain.Formation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	sessionQuery := `
		INSERT INTO sessions_formation (
			session_id, numero_session, tenant_id, type_formation_id,
			date_debut, date_fin, lieu, statut, nombre_places,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	if _, err := tx.Exec(ctx, sessionQuery,
		session.SessionID,
		session.NumeroSession,
		session.TenantID,
		session.TypeFormationID,
		session.DateDebut,
		session.DateFin,
		session.Lieu,
		session.Statut,
		session.NombrePlaces,
		session.CreatedAt,
		session.CreatedBy,
		session.LastUpdatedAt,
		session.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "session number "+session.NumeroSession+" already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create session", err)
	}

	for _, specID := range session.SpecialisationIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO session_specialisations (session_id, specialisation_id) VALUES ($1, $2)`,
			session.SessionID, specID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to link session specialisation "+specID, err)
		}
	}
	for _, formateurID := range session.FormateurProfilIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO session_formateurs (session_id, formateur_profil_id) VALUES ($1, $2)`,
			session.SessionID, formateurID,
		); err != nil {
			return apperrors.NewAppError(500, "failed to link session trainer "+formateurID, err)
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
		UPDATE demandes_formation
		SET session_creee_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE demande_id = $4 AND session_creee_id IS NULL AND statut = 'approuvee';
	`, session.SessionID, session.LastUpdatedAt, session.LastUpdatedBy, demande.DemandeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to freeze training request", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("request already has a session")
	}
	demande.SessionCreeeID = &session.SessionID

	return r.Commit(ctx, tx)
}
