package services

import (
	"context"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// Mock repositories with overridable Fn fields. Every method falls back to a
// harmless default (not-found for reads, no-op for writes) so tests only
// wire the calls they care about.

type MockProfilRepository struct {
	GetProfilByIDFn     func(ctx context.Context, profilID string) (*domain.ProfilUtilisateur, error)
	GetProfilByUserIDFn func(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error)
	CreateProfilFn      func(ctx context.Context, profil *domain.ProfilUtilisateur) error
	UpdateProfilFn      func(ctx context.Context, profil *domain.ProfilUtilisateur) error
}

func (m *MockProfilRepository) GetProfilByID(ctx context.Context, profilID string) (*domain.ProfilUtilisateur, error) {
	if m.GetProfilByIDFn != nil {
		return m.GetProfilByIDFn(ctx, profilID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockProfilRepository) GetProfilByUserID(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
	if m.GetProfilByUserIDFn != nil {
		return m.GetProfilByUserIDFn(ctx, userID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockProfilRepository) CreateProfil(ctx context.Context, profil *domain.ProfilUtilisateur) error {
	if m.CreateProfilFn != nil {
		return m.CreateProfilFn(ctx, profil)
	}
	return nil
}
func (m *MockProfilRepository) UpdateProfil(ctx context.Context, profil *domain.ProfilUtilisateur) error {
	if m.UpdateProfilFn != nil {
		return m.UpdateProfilFn(ctx, profil)
	}
	return nil
}
func (m *MockProfilRepository) ListFormateursByOrganisme(ctx context.Context, entrepriseOFID string) ([]domain.ProfilUtilisateur, error) {
	return []domain.ProfilUtilisateur{}, nil
}

type MockEntrepriseRepository struct {
	GetEntrepriseByIDFn func(ctx context.Context, entrepriseID string) (*domain.Entreprise, error)
	GetOrCreateClientFn func(ctx context.Context, nom string, tenantID string, createdBy string) (*domain.Entreprise, bool, error)
}

func (m *MockEntrepriseRepository) CreateEntreprise(ctx context.Context, e *domain.Entreprise) error {
	return nil
}
func (m *MockEntrepriseRepository) GetEntrepriseByID(ctx context.Context, entrepriseID string) (*domain.Entreprise, error) {
	if m.GetEntrepriseByIDFn != nil {
		return m.GetEntrepriseByIDFn(ctx, entrepriseID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockEntrepriseRepository) GetEntrepriseByNom(ctx context.Context, nom string) (*domain.Entreprise, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockEntrepriseRepository) UpdateEntreprise(ctx context.Context, e *domain.Entreprise) error {
	return nil
}
func (m *MockEntrepriseRepository) ListEntreprises(ctx context.Context, scope domain.AccessScope, typ *domain.TypeEntreprise) ([]domain.Entreprise, error) {
	return []domain.Entreprise{}, nil
}
func (m *MockEntrepriseRepository) GetOrCreateClient(ctx context.Context, nom string, tenantID string, createdBy string) (*domain.Entreprise, bool, error) {
	if m.GetOrCreateClientFn != nil {
		return m.GetOrCreateClientFn(ctx, nom, tenantID, createdBy)
	}
	return nil, false, apperrors.ErrNotFound
}

type MockTenantRepository struct {
	GetTenantByIDFn           func(ctx context.Context, tenantID string) (*domain.Tenant, error)
	GetTenantByDomaineFn      func(ctx context.Context, domaine string) (*domain.Tenant, error)
	GetTenantBySlugFn         func(ctx context.Context, slug string) (*domain.Tenant, error)
	GetTenantByEntrepriseOFFn func(ctx context.Context, entrepriseOFID string) (*domain.Tenant, error)
	ProvisionOFAccountFn      func(ctx context.Context, e *domain.Entreprise, t *domain.Tenant, p *domain.ProfilUtilisateur) error
}

func (m *MockTenantRepository) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if m.GetTenantByIDFn != nil {
		return m.GetTenantByIDFn(ctx, tenantID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTenantRepository) GetTenantByDomaine(ctx context.Context, domaine string) (*domain.Tenant, error) {
	if m.GetTenantByDomaineFn != nil {
		return m.GetTenantByDomaineFn(ctx, domaine)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTenantRepository) GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if m.GetTenantBySlugFn != nil {
		return m.GetTenantBySlugFn(ctx, slug)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTenantRepository) GetTenantByEntrepriseOF(ctx context.Context, entrepriseOFID string) (*domain.Tenant, error) {
	if m.GetTenantByEntrepriseOFFn != nil {
		return m.GetTenantByEntrepriseOFFn(ctx, entrepriseOFID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTenantRepository) UpdateTenant(ctx context.Context, t *domain.Tenant) error { return nil }
func (m *MockTenantRepository) ProvisionOFAccount(ctx context.Context, e *domain.Entreprise, t *domain.Tenant, p *domain.ProfilUtilisateur) error {
	if m.ProvisionOFAccountFn != nil {
		return m.ProvisionOFAccountFn(ctx, e, t, p)
	}
	return nil
}

type MockStagiaireRepository struct {
	GetStagiaireByIDFn     func(ctx context.Context, scope domain.AccessScope, stagiaireID string) (*domain.Stagiaire, error)
	GetOrCreateStagiaireFn func(ctx context.Context, s *domain.Stagiaire) (*domain.Stagiaire, bool, error)
}

func (m *MockStagiaireRepository) CreateStagiaire(ctx context.Context, s *domain.Stagiaire) error {
	return nil
}
func (m *MockStagiaireRepository) GetStagiaireByID(ctx context.Context, scope domain.AccessScope, stagiaireID string) (*domain.Stagiaire, error) {
	if m.GetStagiaireByIDFn != nil {
		return m.GetStagiaireByIDFn(ctx, scope, stagiaireID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockStagiaireRepository) GetStagiaireByEmail(ctx context.Context, email string) (*domain.Stagiaire, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockStagiaireRepository) GetStagiaireByUserID(ctx context.Context, userID string) (*domain.Stagiaire, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockStagiaireRepository) UpdateStagiaire(ctx context.Context, s *domain.Stagiaire) error {
	return nil
}
func (m *MockStagiaireRepository) ListStagiaires(ctx context.Context, scope domain.AccessScope) ([]domain.Stagiaire, error) {
	return []domain.Stagiaire{}, nil
}
func (m *MockStagiaireRepository) GetOrCreateStagiaire(ctx context.Context, s *domain.Stagiaire) (*domain.Stagiaire, bool, error) {
	if m.GetOrCreateStagiaireFn != nil {
		return m.GetOrCreateStagiaireFn(ctx, s)
	}
	return s, true, nil
}

type MockCatalogueRepository struct {
	ListTypesFormationFn     func(ctx context.Context, tenantID *string) ([]domain.TypeFormation, error)
	GetTypeFormationByIDFn   func(ctx context.Context, id string) (*domain.TypeFormation, error)
	GetSpecialisationByIDFn  func(ctx context.Context, id string) (*domain.Specialisation, error)
	ListTenantFormationsFn   func(ctx context.Context, tenantID string, includeInactive bool) ([]domain.TenantFormation, error)
	CreateTenantFormationFn  func(ctx context.Context, tf *domain.TenantFormation) error
	CreateTypeFormationFn    func(ctx context.Context, tf *domain.TypeFormation) error
	GetSpecialisationByCodeFn func(ctx context.Context, typeID string, code string) (*domain.Specialisation, error)
}

func (m *MockCatalogueRepository) ListTypesFormation(ctx context.Context, tenantID *string) ([]domain.TypeFormation, error) {
	if m.ListTypesFormationFn != nil {
		return m.ListTypesFormationFn(ctx, tenantID)
	}
	return []domain.TypeFormation{}, nil
}
func (m *MockCatalogueRepository) GetTypeFormationByID(ctx context.Context, id string) (*domain.TypeFormation, error) {
	if m.GetTypeFormationByIDFn != nil {
		return m.GetTypeFormationByIDFn(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockCatalogueRepository) GetTypeFormationByCode(ctx context.Context, code string) (*domain.TypeFormation, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockCatalogueRepository) CreateTypeFormation(ctx context.Context, tf *domain.TypeFormation) error {
	if m.CreateTypeFormationFn != nil {
		return m.CreateTypeFormationFn(ctx, tf)
	}
	return nil
}
func (m *MockCatalogueRepository) ListSpecialisationsByType(ctx context.Context, typeID string) ([]domain.Specialisation, error) {
	return []domain.Specialisation{}, nil
}
func (m *MockCatalogueRepository) GetSpecialisationByID(ctx context.Context, id string) (*domain.Specialisation, error) {
	if m.GetSpecialisationByIDFn != nil {
		return m.GetSpecialisationByIDFn(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockCatalogueRepository) GetSpecialisationByCode(ctx context.Context, typeID string, code string) (*domain.Specialisation, error) {
	if m.GetSpecialisationByCodeFn != nil {
		return m.GetSpecialisationByCodeFn(ctx, typeID, code)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockCatalogueRepository) CreateSpecialisation(ctx context.Context, s *domain.Specialisation) error {
	return nil
}
func (m *MockCatalogueRepository) ListTenantFormations(ctx context.Context, tenantID string, includeInactive bool) ([]domain.TenantFormation, error) {
	if m.ListTenantFormationsFn != nil {
		return m.ListTenantFormationsFn(ctx, tenantID, includeInactive)
	}
	return []domain.TenantFormation{}, nil
}
func (m *MockCatalogueRepository) GetTenantFormationByID(ctx context.Context, id string) (*domain.TenantFormation, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockCatalogueRepository) CreateTenantFormation(ctx context.Context, tf *domain.TenantFormation) error {
	if m.CreateTenantFormationFn != nil {
		return m.CreateTenantFormationFn(ctx, tf)
	}
	return nil
}
func (m *MockCatalogueRepository) SetTenantFormationActif(ctx context.Context, id string, actif bool, updatedBy string) error {
	return nil
}
func (m *MockCatalogueRepository) DeleteTenantFormation(ctx context.Context, tenantID string, id string) error {
	return nil
}

type MockCompetenceRepository struct {
	ListCompetencesByFormateurFn   func(ctx context.Context, formateurProfilID string) ([]domain.FormateurCompetence, error)
	CreateCompetenceFn             func(ctx context.Context, c *domain.FormateurCompetence) error
	SetCompetenceActifFn           func(ctx context.Context, competenceID string, actif bool, updatedBy string) error
	ListActiveCompetenceSpecIDsFn  func(ctx context.Context, formateurProfilIDs []string) (map[string][]string, error)
}

func (m *MockCompetenceRepository) ListCompetencesByFormateur(ctx context.Context, formateurProfilID string) ([]domain.FormateurCompetence, error) {
	if m.ListCompetencesByFormateurFn != nil {
		return m.ListCompetencesByFormateurFn(ctx, formateurProfilID)
	}
	return []domain.FormateurCompetence{}, nil
}
func (m *MockCompetenceRepository) CreateCompetence(ctx context.Context, c *domain.FormateurCompetence) error {
	if m.CreateCompetenceFn != nil {
		return m.CreateCompetenceFn(ctx, c)
	}
	return nil
}
func (m *MockCompetenceRepository) SetCompetenceActif(ctx context.Context, competenceID string, actif bool, updatedBy string) error {
	if m.SetCompetenceActifFn != nil {
		return m.SetCompetenceActifFn(ctx, competenceID, actif, updatedBy)
	}
	return nil
}
func (m *MockCompetenceRepository) ListActiveCompetenceSpecIDs(ctx context.Context, formateurProfilIDs []string) (map[string][]string, error) {
	if m.ListActiveCompetenceSpecIDsFn != nil {
		return m.ListActiveCompetenceSpecIDsFn(ctx, formateurProfilIDs)
	}
	return map[string][]string{}, nil
}
func (m *MockCompetenceRepository) GetOrCreateAffectation(ctx context.Context, a *domain.FormateurAffectation) (*domain.FormateurAffectation, bool, error) {
	return a, true, nil
}
func (m *MockCompetenceRepository) ListAffectationsByFormateur(ctx context.Context, formateurProfilID string) ([]domain.FormateurAffectation, error) {
	return []domain.FormateurAffectation{}, nil
}

type MockSessionRepository struct {
	CreateSessionFn   func(ctx context.Context, s *domain.SessionFormation) error
	GetSessionByIDFn  func(ctx context.Context, sessionID string) (*domain.SessionFormation, error)
	CountInscritsFn   func(ctx context.Context, sessionID string) (int, error)
	EnrollStagiaireFn func(ctx context.Context, sessionID string, formations []domain.Formation) error
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, s *domain.SessionFormation) error {
	if m.CreateSessionFn != nil {
		return m.CreateSessionFn(ctx, s)
	}
	return nil
}
func (m *MockSessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*domain.SessionFormation, error) {
	if m.GetSessionByIDFn != nil {
		return m.GetSessionByIDFn(ctx, sessionID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockSessionRepository) GetSessionByNumero(ctx context.Context, numeroSession string) (*domain.SessionFormation, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockSessionRepository) ListSessions(ctx context.Context, scope domain.AccessScope, statut *domain.StatutSession) ([]domain.SessionFormation, error) {
	return []domain.SessionFormation{}, nil
}
func (m *MockSessionRepository) UpdateSessionStatut(ctx context.Context, sessionID string, statut domain.StatutSession, updatedBy string) error {
	return nil
}
func (m *MockSessionRepository) CountInscrits(ctx context.Context, sessionID string) (int, error) {
	if m.CountInscritsFn != nil {
		return m.CountInscritsFn(ctx, sessionID)
	}
	return 0, nil
}
func (m *MockSessionRepository) EnrollStagiaire(ctx context.Context, sessionID string, formations []domain.Formation) error {
	if m.EnrollStagiaireFn != nil {
		return m.EnrollStagiaireFn(ctx, sessionID, formations)
	}
	return nil
}

type MockDemandeRepository struct {
	CreateDemandeFn            func(ctx context.Context, d *domain.DemandeFormation, c *domain.Consentement) error
	GetDemandeByIDFn           func(ctx context.Context, scope domain.AccessScope, demandeID string) (*domain.DemandeFormation, error)
	UpdateDemandeTraitementFn  func(ctx context.Context, d *domain.DemandeFormation) error
	CreateSessionFromDemandeFn func(ctx context.Context, d *domain.DemandeFormation, s *domain.SessionFormation, f []domain.Formation) error
}

func (m *MockDemandeRepository) CreateDemande(ctx context.Context, d *domain.DemandeFormation, c *domain.Consentement) error {
	if m.CreateDemandeFn != nil {
		return m.CreateDemandeFn(ctx, d, c)
	}
	return nil
}
func (m *MockDemandeRepository) GetDemandeByID(ctx context.Context, scope domain.AccessScope, demandeID string) (*domain.DemandeFormation, error) {
	if m.GetDemandeByIDFn != nil {
		return m.GetDemandeByIDFn(ctx, scope, demandeID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockDemandeRepository) ListDemandes(ctx context.Context, scope domain.AccessScope, statut *domain.StatutDemande) ([]domain.DemandeFormation, error) {
	return []domain.DemandeFormation{}, nil
}
func (m *MockDemandeRepository) UpdateDemandeTraitement(ctx context.Context, d *domain.DemandeFormation) error {
	if m.UpdateDemandeTraitementFn != nil {
		return m.UpdateDemandeTraitementFn(ctx, d)
	}
	return nil
}
func (m *MockDemandeRepository) CreateSessionFromDemande(ctx context.Context, d *domain.DemandeFormation, s *domain.SessionFormation, f []domain.Formation) error {
	if m.CreateSessionFromDemandeFn != nil {
		return m.CreateSessionFromDemandeFn(ctx, d, s, f)
	}
	return nil
}

type MockDemandeStagiaireRepository struct {
	CreateDemandeStagiaireFn   func(ctx context.Context, d *domain.DemandeStagiaire, c *domain.Consentement) error
	GetDemandeStagiaireByIDFn  func(ctx context.Context, demandeStagiaireID string) (*domain.DemandeStagiaire, error)
	UpdateDemandeStagiaireFn   func(ctx context.Context, d *domain.DemandeStagiaire) error
	IntegrerDemandeStagiaireFn func(ctx context.Context, d *domain.DemandeStagiaire, s *domain.Stagiaire, f []domain.Formation) error
}

func (m *MockDemandeStagiaireRepository) CreateDemandeStagiaire(ctx context.Context, d *domain.DemandeStagiaire, c *domain.Consentement) error {
	if m.CreateDemandeStagiaireFn != nil {
		return m.CreateDemandeStagiaireFn(ctx, d, c)
	}
	return nil
}
func (m *MockDemandeStagiaireRepository) GetDemandeStagiaireByID(ctx context.Context, demandeStagiaireID string) (*domain.DemandeStagiaire, error) {
	if m.GetDemandeStagiaireByIDFn != nil {
		return m.GetDemandeStagiaireByIDFn(ctx, demandeStagiaireID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockDemandeStagiaireRepository) ListDemandesStagiaire(ctx context.Context, scope domain.AccessScope, statut *domain.StatutDemandeStagiaire) ([]domain.DemandeStagiaire, error) {
	return []domain.DemandeStagiaire{}, nil
}
func (m *MockDemandeStagiaireRepository) UpdateDemandeStagiaire(ctx context.Context, d *domain.DemandeStagiaire) error {
	if m.UpdateDemandeStagiaireFn != nil {
		return m.UpdateDemandeStagiaireFn(ctx, d)
	}
	return nil
}
func (m *MockDemandeStagiaireRepository) IntegrerDemandeStagiaire(ctx context.Context, d *domain.DemandeStagiaire, s *domain.Stagiaire, f []domain.Formation) error {
	if m.IntegrerDemandeStagiaireFn != nil {
		return m.IntegrerDemandeStagiaireFn(ctx, d, s, f)
	}
	return nil
}

type MockFormationRepository struct {
	GetFormationByIDFn      func(ctx context.Context, formationID string) (*domain.Formation, error)
	UpdateFormationStatutFn func(ctx context.Context, formationID string, statut domain.StatutFormation, dateFinReelle *time.Time, updatedBy string) error
}

func (m *MockFormationRepository) CreateFormation(ctx context.Context, formation *domain.Formation) error {
	return nil
}
func (m *MockFormationRepository) GetFormationByID(ctx context.Context, formationID string) (*domain.Formation, error) {
	if m.GetFormationByIDFn != nil {
		return m.GetFormationByIDFn(ctx, formationID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockFormationRepository) GetFormationByStagiaireSpec(ctx context.Context, stagiaireID string, specialisationID string) (*domain.Formation, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockFormationRepository) ListFormations(ctx context.Context, scope domain.AccessScope) ([]domain.Formation, error) {
	return []domain.Formation{}, nil
}
func (m *MockFormationRepository) ListFormationsBySession(ctx context.Context, sessionID string) ([]domain.Formation, error) {
	return []domain.Formation{}, nil
}
func (m *MockFormationRepository) UpdateFormationStatut(ctx context.Context, formationID string, statut domain.StatutFormation, dateFinReelle *time.Time, updatedBy string) error {
	if m.UpdateFormationStatutFn != nil {
		return m.UpdateFormationStatutFn(ctx, formationID, statut, dateFinReelle, updatedBy)
	}
	return nil
}
func (m *MockFormationRepository) ListValidationsByFormation(ctx context.Context, formationID string) ([]domain.ValidationCompetence, error) {
	return []domain.ValidationCompetence{}, nil
}
func (m *MockFormationRepository) CreateValidation(ctx context.Context, validation *domain.ValidationCompetence) error {
	return nil
}
func (m *MockFormationRepository) UpdateValidation(ctx context.Context, validation *domain.ValidationCompetence) error {
	return nil
}
func (m *MockFormationRepository) GetAvisByFormation(ctx context.Context, formationID string) (*domain.AvisFormation, error) {
	return nil, apperrors.ErrNotFound
}
func (m *MockFormationRepository) UpsertAvis(ctx context.Context, avis *domain.AvisFormation) error {
	return nil
}

type MockTitreRepository struct {
	CreateTitreFn           func(ctx context.Context, titre *domain.Titre) error
	GetTitreByIDFn          func(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error)
	GetTitreByFormationFn   func(ctx context.Context, formationID string) (*domain.Titre, error)
	RenouvelerTitreFn       func(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, r *domain.RenouvellementHabilitation) error
	GetRenouvellementByIDFn func(ctx context.Context, renouvellementID string) (*domain.RenouvellementHabilitation, error)
}

func (m *MockTitreRepository) CreateTitre(ctx context.Context, titre *domain.Titre) error {
	if m.CreateTitreFn != nil {
		return m.CreateTitreFn(ctx, titre)
	}
	return nil
}
func (m *MockTitreRepository) GetTitreByID(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error) {
	if m.GetTitreByIDFn != nil {
		return m.GetTitreByIDFn(ctx, scope, titreID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTitreRepository) GetTitreByFormation(ctx context.Context, formationID string) (*domain.Titre, error) {
	if m.GetTitreByFormationFn != nil {
		return m.GetTitreByFormationFn(ctx, formationID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTitreRepository) ListTitres(ctx context.Context, scope domain.AccessScope) ([]domain.Titre, error) {
	return []domain.Titre{}, nil
}
func (m *MockTitreRepository) RenouvelerTitre(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, r *domain.RenouvellementHabilitation) error {
	if m.RenouvelerTitreFn != nil {
		return m.RenouvelerTitreFn(ctx, ancienTitreID, nouveau, r)
	}
	return nil
}
func (m *MockTitreRepository) CreateRenouvellement(ctx context.Context, r *domain.RenouvellementHabilitation) error {
	return nil
}
func (m *MockTitreRepository) GetRenouvellementByID(ctx context.Context, renouvellementID string) (*domain.RenouvellementHabilitation, error) {
	if m.GetRenouvellementByIDFn != nil {
		return m.GetRenouvellementByIDFn(ctx, renouvellementID)
	}
	return nil, apperrors.ErrNotFound
}
func (m *MockTitreRepository) ListRenouvellementsByTitre(ctx context.Context, titreID string) ([]domain.RenouvellementHabilitation, error) {
	return []domain.RenouvellementHabilitation{}, nil
}

type MockJournalRepository struct {
	AppendJournalFn func(ctx context.Context, entry *domain.Journal) error
}

func (m *MockJournalRepository) AppendJournal(ctx context.Context, entry *domain.Journal) error {
	if m.AppendJournalFn != nil {
		return m.AppendJournalFn(ctx, entry)
	}
	return nil
}
func (m *MockJournalRepository) ListJournal(ctx context.Context, scope domain.AccessScope, before time.Time, limit int) ([]domain.Journal, error) {
	return []domain.Journal{}, nil
}
func (m *MockJournalRepository) AppendConsentement(ctx context.Context, c *domain.Consentement) error {
	return nil
}
