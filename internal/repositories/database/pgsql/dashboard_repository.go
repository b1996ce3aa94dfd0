package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxDashboardRepository struct {
	BaseRepository
}

func newPgxDashboardRepository(pool *pgxpool.Pool) portsrepo.DashboardRepository {
	return &PgxDashboardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DashboardRepository = (*PgxDashboardRepository)(nil)

func (r *PgxDashboardRepository) PlatformCounters(ctx context.Context) (*domain.PlatformCounters, error) {
	query := `
		SELECT
			(SELECT count(*) FROM tenants),
			(SELECT count(*) FROM entreprises),
			(SELECT count(*) FROM users WHERE deleted_at IS NULL),
			(SELECT count(*) FROM stagiaires),
			(SELECT count(*) FROM sessions_formation),
			(SELECT count(*) FROM titres);
	`
	counters := &domain.PlatformCounters{}
	err := r.Pool.QueryRow(ctx, query).Scan(
		&counters.Tenants,
		&counters.Entreprises,
		&counters.Users,
		&counters.Stagiaires,
		&counters.Sessions,
		&counters.Titres,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query platform counters", err)
	}
	return counters, nil
}

func (r *PgxDashboardRepository) OrganismeCounters(ctx context.Context, tenantID string, entrepriseOFID string, now time.Time) (*domain.OrganismeCounters, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	horizon := now.AddDate(0, 0, 90)
	query := `
		SELECT
			(SELECT count(*) FROM stagiaires s WHERE s.organisme_formation_id = $1),
			(SELECT count(*) FROM stagiaires s WHERE s.organisme_formation_id = $1 AND s.entreprise_id IS NULL),
			(SELECT count(*) FROM entreprises e WHERE e.tenant_id = $2 AND e.type = 'client'),
			(SELECT count(*) FROM sessions_formation se WHERE se.tenant_id = $2 AND se.statut = 'en_cours'),
			(SELECT count(*) FROM demandes_formation d WHERE d.organisme_formation_id = $1 AND d.statut = 'en_attente'),
			(SELECT count(*) FROM titres t
				JOIN stagiaires s ON s.stagiaire_id = t.stagiaire_id
				WHERE s.organisme_formation_id = $1 AND t.date_delivrance >= $3),
			(SELECT count(*) FROM titres t
				JOIN stagiaires s ON s.stagiaire_id = t.stagiaire_id
				WHERE s.organisme_formation_id = $1 AND t.statut = 'delivre'
					AND t.date_expiration > $4 AND t.date_expiration <= $5);
	`
	counters := &domain.OrganismeCounters{}
	err := r.Pool.QueryRow(ctx, query, entrepriseOFID, tenantID, monthStart, now, horizon).Scan(
		&counters.Stagiaires,
		&counters.StagiairesIndependants,
		&counters.EntreprisesClientes,
		&counters.SessionsEnCours,
		&counters.DemandesEnAttente,
		&counters.TitresCeMois,
		&counters.TitresExpirant90J,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organization counters", err)
	}
	return counters, nil
}

func (r *PgxDashboardRepository) FormateurCounters(ctx context.Context, formateurProfilID string) (*domain.FormateurCounters, error) {
	query := `
		SELECT
			(SELECT count(*) FROM session_formateurs sf WHERE sf.formateur_profil_id = $1),
			(SELECT count(*) FROM session_formateurs sf
				JOIN sessions_formation se ON se.session_id = sf.session_id
				WHERE sf.formateur_profil_id = $1 AND se.statut = 'en_cours'),
			(SELECT count(*) FROM formations f
				JOIN session_formateurs sf ON sf.session_id = f.session_id
				WHERE sf.formateur_profil_id = $1 AND f.statut = 'en_cours');
	`
	counters := &domain.FormateurCounters{}
	err := r.Pool.QueryRow(ctx, query, formateurProfilID).Scan(
		&counters.SessionsAssignees,
		&counters.SessionsEnCours,
		&counters.FormationsAValider,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trainer counters", err)
	}
	return counters, nil
}

func (r *PgxDashboardRepository) EntrepriseCounters(ctx context.Context, entrepriseID string, now time.Time) (*domain.EntrepriseCounters, error) {
	horizon := now.AddDate(0, 0, 90)
	query := `
		SELECT
			(SELECT count(*) FROM stagiaires s WHERE s.entreprise_id = $1),
			(SELECT count(*) FROM formations f
				JOIN stagiaires s ON s.stagiaire_id = f.stagiaire_id
				WHERE s.entreprise_id = $1 AND f.statut = 'en_cours'),
			(SELECT count(*) FROM titres t
				JOIN stagiaires s ON s.stagiaire_id = t.stagiaire_id
				WHERE s.entreprise_id = $1 AND t.statut = 'delivre' AND t.date_expiration > $2),
			(SELECT count(*) FROM titres t
				JOIN stagiaires s ON s.stagiaire_id = t.stagiaire_id
				WHERE s.entreprise_id = $1 AND t.statut = 'delivre'
					AND t.date_expiration > $2 AND t.date_expiration <= $3),
			(SELECT count(*) FROM demandes_formation d
				WHERE d.entreprise_demandeuse_id = $1 AND d.statut = 'en_attente');
	`
	counters := &domain.EntrepriseCounters{}
	err := r.Pool.QueryRow(ctx, query, entrepriseID, now, horizon).Scan(
		&counters.Stagiaires,
		&counters.FormationsEnCours,
		&counters.TitresValides,
		&counters.TitresExpirant90J,
		&counters.DemandesEnAttente,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query company counters", err)
	}
	return counters, nil
}
