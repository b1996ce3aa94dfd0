package repositories

// RepositoryProvider aggregates every repository port so services can be
// wired from a single value.
type RepositoryProvider struct {
	User             UserRepository
	Profil           ProfilRepository
	Entreprise       EntrepriseRepository
	Tenant           TenantRepository
	Stagiaire        StagiaireRepository
	Catalogue        CatalogueRepository
	Competence       CompetenceRepository
	Session          SessionRepository
	Formation        FormationRepository
	Titre            TitreRepository
	Demande          DemandeRepository
	DemandeStagiaire DemandeStagiaireRepository
	Invitation       InvitationRepository
	Journal          JournalRepository
	Dashboard        DashboardRepository
}
