package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		User:             newPgxUserRepository(dbPool),
		Profil:           newPgxProfilRepository(dbPool),
		Entreprise:       newPgxEntrepriseRepository(dbPool),
		Tenant:           newPgxTenantRepository(dbPool),
		Stagiaire:        newPgxStagiaireRepository(dbPool),
		Catalogue:        newPgxCatalogueRepository(dbPool),
		Competence:       newPgxCompetenceRepository(dbPool),
		Session:          newPgxSessionRepository(dbPool),
		Formation:        newPgxFormationRepository(dbPool),
		Titre:            newPgxTitreRepository(dbPool),
		Demande:          newPgxDemandeRepository(dbPool),
		DemandeStagiaire: newPgxDemandeStagiaireRepository(dbPool),
		Invitation:       newPgxInvitationRepository(dbPool),
		Journal:          newPgxJournalRepository(dbPool),
		Dashboard:        newPgxDashboardRepository(dbPool),
	}
}
