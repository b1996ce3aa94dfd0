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

type PgxSessionRepository struct {
	BaseRepository
}

func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepository {
	return &PgxSessionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SessionRepository = (*PgxSessionRepository)(nil)

var FULL_SESSION_SELECT_QUERY = `
SELECT
	se.session_id, se.numero_session, se.tenant_id, se.type_formation_id,
	se.date_debut, se.date_fin, se.lieu, se.statut, se.nombre_places,
	se.created_at, se.created_by, se.last_updated_at, se.last_updated_by
FROM sessions_formation se
`

func (r *PgxSessionRepository) getSessions(ctx context.Context, filterQuery string, args ...any) ([]domain.SessionFormation, error) {
	rows, err := r.Pool.Query(ctx, FULL_SESSION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sessions", err)
	}
	defer rows.Close()
	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.SessionFormation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.SessionFormation{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect session rows", err)
	}
	if err := r.loadSessionLinks(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadSessionLinks fills SpecialisationIDs and FormateurProfilIDs.
func (r *PgxSessionRepository) loadSessionLinks(ctx context.Context, sessions []domain.SessionFormation) error {
	if len(sessions) == 0 {
		return nil
	}
	ids := make([]string, len(sessions))
	index := make(map[string]int, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].SessionID
		index[sessions[i].SessionID] = i
	}

	specRows, err := r.Pool.Query(ctx,
		`SELECT session_id, specialisation_id FROM session_specialisations WHERE session_id = ANY($1) ORDER BY specialisation_id`, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query session specialisations", err)
	}
	defer specRows.Close()
	for specRows.Next() {
		var sessionID, specID string
		if err := specRows.Scan(&sessionID, &specID); err != nil {
			return apperrors.NewAppError(500, "failed to scan session specialisation", err)
		}
		i := index[sessionID]
		sessions[i].SpecialisationIDs = append(sessions[i].SpecialisationIDs, specID)
	}
	if specRows.Err() != nil {
		return apperrors.NewAppError(500, "error iterating session specialisations", specRows.Err())
	}

	formateurRows, err := r.Pool.Query(ctx,
		`SELECT session_id, formateur_profil_id FROM session_formateurs WHERE session_id = ANY($1) ORDER BY formateur_profil_id`, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query session trainers", err)
	}
	defer formateurRows.Close()
	for formateurRows.Next() {
		var sessionID, formateurID string
		if err := formateurRows.Scan(&sessionID, &formateurID); err != nil {
			return apperrors.NewAppError(500, "failed to scan session trainer", err)
		}
		i := index[sessionID]
		sessions[i].FormateurProfilIDs = append(sessions[i].FormateurProfilIDs, formateurID)
	}
	if formateurRows.Err() != nil {
		return apperrors.NewAppError(500, "error iterating session trainers", formateurRows.Err())
	}
	return nil
}

func (r *PgxSessionRepository) CreateSession(ctx context.Context, session *domain.SessionFormation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO sessions_formation (
			session_id, numero_session, tenant_id, type_formation_id,
			date_debut, date_fin, lieu, statut, nombre_places,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	if _, err := tx.Exec(ctx, query,
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

	return r.Commit(ctx, tx)
}

func (r *PgxSessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*domain.SessionFormation, error) {
	sessions, err := r.getSessions(ctx, `WHERE se.session_id = $1`, sessionID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &sessions[0], nil
}

func (r *PgxSessionRepository) GetSessionByNumero(ctx context.Context, numeroSession string) (*domain.SessionFormation, error) {
	sessions, err := r.getSessions(ctx, `WHERE se.numero_session = $1`, numeroSession)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &sessions[0], nil
}

func (r *PgxSessionRepository) ListSessions(ctx context.Context, scope domain.AccessScope, statut *domain.StatutSession) ([]domain.SessionFormation, error) {
	var filter string
	var args []any
	switch scope.Kind {
	case domain.ScopeAll:
		filter = `WHERE TRUE`
	case domain.ScopeTenant:
		filter = `WHERE se.tenant_id = $1`
		args = append(args, scope.TenantID)
	case domain.ScopeFormateur:
		filter = `WHERE EXISTS (
			SELECT 1 FROM session_formateurs sf
			WHERE sf.session_id = se.session_id AND sf.formateur_profil_id = $1
		)`
		args = append(args, scope.ProfilID)
	default:
		return []domain.SessionFormation{}, nil
	}
	if statut != nil {
		filter += fmt.Sprintf(` AND se.statut = $%d`, len(args)+1)
		args = append(args, *statut)
	}
	filter += ` ORDER BY se.date_debut DESC`
	return r.getSessions(ctx, filter, args...)
}

func (r *PgxSessionRepository) UpdateSessionStatut(ctx context.Context, sessionID string, statut domain.StatutSession, updatedBy string) error {
	query := `
		UPDATE sessions_formation
		SET statut = $1, last_updated_at = now(), last_updated_by = $2
		WHERE session_id = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, statut, updatedBy, sessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update session status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const countInscritsQuery = `
	SELECT count(DISTINCT f.stagiaire_id)
	FROM formations f
	WHERE f.session_id = $1;
`

func (r *PgxSessionRepository) CountInscrits(ctx context.Context, sessionID string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, countInscritsQuery, sessionID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count enrollments", err)
	}
	return count, nil
}

// EnrollStagiaire locks the session row, re-checks capacity under the lock and
// inserts the formations. Concurrent enrollments serialize on the lock, so the
// trainee count can never exceed nombre_places.
func (r *PgxSessionRepository) EnrollStagiaire(ctx context.Context, sessionID string, formations []domain.Formation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var nombrePlaces int
	err = tx.QueryRow(ctx,
		`SELECT nombre_places FROM sessions_formation WHERE session_id = $1 FOR UPDATE`, sessionID,
	).Scan(&nombrePlaces)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock session "+sessionID, err)
	}

	var inscrits int
	if err := tx.QueryRow(ctx, countInscritsQuery, sessionID).Scan(&inscrits); err != nil {
		return apperrors.NewAppError(500, "failed to count enrollments", err)
	}
	if inscrits >= nombrePlaces {
		return apperrors.NewConflictError("session is full")
	}

	insert := `
		INSERT INTO formations (
			formation_id, stagiaire_id, specialisation_id, session_id, statut,
			date_debut, date_fin_prevue, date_fin_reelle,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i := range formations {
		f := &formations[i]
		if _, err := tx.Exec(ctx, insert,
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

	return r.Commit(ctx, tx)
}
