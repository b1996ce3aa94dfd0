package services

import (
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
)

// NewServiceContainer wires every service from the repository provider.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	journal := NewJournalService(repos.Journal)

	return &portssvc.ServiceContainer{
		Auth:        NewAuthService(repos.User, journal),
		Token:       NewTokenService(cfg, repos.User),
		GoogleOAuth: NewGoogleOAuthService(cfg),
		Profil:      NewProfilService(repos.Profil, repos.Entreprise, repos.Tenant, journal),
		Tenant:      NewTenantService(cfg, repos.Tenant, repos.Entreprise),
		Entreprise:  NewEntrepriseService(repos.Entreprise),
		Stagiaire:   NewStagiaireService(repos.Stagiaire, repos.Entreprise, repos.Tenant, journal),
		Catalogue:   NewCatalogueService(repos.Catalogue, repos.Competence, repos.Profil, journal),
		Session:     NewSessionService(cfg, repos.Session, repos.Catalogue, repos.Competence, repos.Stagiaire, repos.Profil, journal),
		Demande:     NewDemandeService(repos.Demande, repos.DemandeStagiaire, repos.Stagiaire, repos.Catalogue, repos.Entreprise, repos.Tenant, repos.Session, journal),
		Formation:   NewFormationService(repos.Formation, repos.Session, repos.Stagiaire, journal),
		Titre:       NewTitreService(repos.Titre, repos.Formation, repos.Catalogue, repos.Stagiaire, journal),
		Invitation:  NewInvitationService(repos.Invitation, repos.Entreprise, repos.Tenant, journal),
		Import:      NewImportService(repos.Stagiaire, repos.Entreprise, repos.Catalogue, repos.Demande, repos.Tenant, journal),
		Dashboard:   NewDashboardService(repos.Dashboard, repos.Stagiaire, repos.Formation, repos.Titre, repos.Tenant),
		Journal:     journal,
	}
}
