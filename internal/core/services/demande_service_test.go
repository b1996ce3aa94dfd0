package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

func testDemandeService(demandeRepo *MockDemandeRepository, stagiaireRepo *MockStagiaireRepository, catalogueRepo *MockCatalogueRepository, entrepriseRepo *MockEntrepriseRepository, tenantRepo *MockTenantRepository) *demandeService {
	if demandeRepo == nil {
		demandeRepo = &MockDemandeRepository{}
	}
	if stagiaireRepo == nil {
		stagiaireRepo = &MockStagiaireRepository{}
	}
	if catalogueRepo == nil {
		catalogueRepo = &MockCatalogueRepository{}
	}
	if entrepriseRepo == nil {
		entrepriseRepo = &MockEntrepriseRepository{}
	}
	if tenantRepo == nil {
		tenantRepo = &MockTenantRepository{}
	}
	svc := NewDemandeService(demandeRepo, &MockDemandeStagiaireRepository{}, stagiaireRepo, catalogueRepo, entrepriseRepo, tenantRepo, &MockSessionRepository{}, NewJournalService(newTestJournal()))
	return svc.(*demandeService)
}

func approvedDemande(tenantID string) *domain.DemandeFormation {
	return &domain.DemandeFormation{
		DemandeID:              "d-1",
		EntrepriseDemandeuseID: "e-pme",
		OrganismeFormationID:   "e-of",
		TenantID:               &tenantID,
		TypeFormationID:        "type-elec",
		Statut:                 domain.DemandeApprouvee,
		SpecialisationIDs:      []string{"spec-b1"},
		StagiaireIDs:           []string{"st-1", "st-2", "st-3"},
	}
}

func TestCreateSessionFromDemande_OneFormationPerTraineeAndSpecialisation(t *testing.T) {
	tenantID := "t-1"
	demande := approvedDemande(tenantID)
	var gotSession *domain.SessionFormation
	var gotFormations []domain.Formation
	demandeRepo := &MockDemandeRepository{
		GetDemandeByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.DemandeFormation, error) {
			return demande, nil
		},
		CreateSessionFromDemandeFn: func(ctx context.Context, d *domain.DemandeFormation, s *domain.SessionFormation, f []domain.Formation) error {
			gotSession, gotFormations = s, f
			return nil
		},
	}
	svc := testDemandeService(demandeRepo, nil, nil, nil, nil)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	session, err := svc.CreateSessionFromDemande(context.Background(), admin, "d-1", dto.CreateSessionFromDemandeRequest{
		DateDebut:    time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC),
		DateFin:      time.Date(2026, 10, 7, 17, 0, 0, 0, time.UTC),
		NombrePlaces: 5,
	})
	require.NoError(t, err)

	require.NotNil(t, gotSession)
	assert.Equal(t, session.SessionID, gotSession.SessionID)
	assert.Equal(t, tenantID, gotSession.TenantID)
	assert.Equal(t, domain.SessionPlanifiee, gotSession.Statut)
	assert.Equal(t, demande.SpecialisationIDs, gotSession.SpecialisationIDs)

	// 3 trainees, 1 specialisation: exactly 3 formations
	require.Len(t, gotFormations, 3)
	byStagiaire := map[string]int{}
	for _, f := range gotFormations {
		byStagiaire[f.StagiaireID]++
		assert.Equal(t, "spec-b1", f.SpecialisationID)
		assert.Equal(t, domain.FormationEnCours, f.Statut)
		require.NotNil(t, f.SessionID)
		assert.Equal(t, gotSession.SessionID, *f.SessionID)
	}
	assert.Equal(t, map[string]int{"st-1": 1, "st-2": 1, "st-3": 1}, byStagiaire)
}

func TestCreateSessionFromDemande_CapacityBelowTraineeCount(t *testing.T) {
	tenantID := "t-1"
	demandeRepo := &MockDemandeRepository{
		GetDemandeByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.DemandeFormation, error) {
			return approvedDemande(tenantID), nil
		},
	}
	svc := testDemandeService(demandeRepo, nil, nil, nil, nil)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	_, err := svc.CreateSessionFromDemande(context.Background(), admin, "d-1", dto.CreateSessionFromDemandeRequest{
		DateDebut:    time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC),
		DateFin:      time.Date(2026, 10, 7, 17, 0, 0, 0, time.UTC),
		NombrePlaces: 2,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateSessionFromDemande_RequiresApprovedState(t *testing.T) {
	tenantID := "t-1"
	demande := approvedDemande(tenantID)
	demande.Statut = domain.DemandeEnAttente
	demandeRepo := &MockDemandeRepository{
		GetDemandeByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.DemandeFormation, error) {
			return demande, nil
		},
	}
	svc := testDemandeService(demandeRepo, nil, nil, nil, nil)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	_, err := svc.CreateSessionFromDemande(context.Background(), admin, "d-1", dto.CreateSessionFromDemandeRequest{
		DateDebut:    time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC),
		DateFin:      time.Date(2026, 10, 7, 17, 0, 0, 0, time.UTC),
		NombrePlaces: 5,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestCreateSessionFromDemande_AlreadyLinkedSessionIsConflict(t *testing.T) {
	tenantID := "t-1"
	demande := approvedDemande(tenantID)
	existing := "s-old"
	demande.SessionCreeeID = &existing
	demandeRepo := &MockDemandeRepository{
		GetDemandeByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.DemandeFormation, error) {
			return demande, nil
		},
	}
	svc := testDemandeService(demandeRepo, nil, nil, nil, nil)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	_, err := svc.CreateSessionFromDemande(context.Background(), admin, "d-1", dto.CreateSessionFromDemandeRequest{
		DateDebut:    time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC),
		DateFin:      time.Date(2026, 10, 7, 17, 0, 0, 0, time.UTC),
		NombrePlaces: 5,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestCreateDemande_RequiresConsent(t *testing.T) {
	entrepriseID := "e-pme"
	svc := testDemandeService(nil, nil, nil, nil, nil)
	pme := &domain.ProfilUtilisateur{ProfilID: "p-pme", UserID: "u-pme", Role: domain.RoleResponsablePME, EntrepriseID: &entrepriseID, Actif: true}

	_, err := svc.CreateDemande(context.Background(), pme, dto.CreateDemandeRequest{
		TypeFormationID:   "type-elec",
		SpecialisationIDs: []string{"spec-b1"},
		StagiaireIDs:      []string{"st-1"},
		Type:              domain.DemandeIntra,
		Lieu:              domain.LieuSurSite,
		Consentement:      false,
	}, "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateDemande_RecordsConsentAndLinks(t *testing.T) {
	tenantID := "t-1"
	entrepriseID := "e-pme"
	entrepriseRepo := &MockEntrepriseRepository{
		GetEntrepriseByIDFn: func(ctx context.Context, id string) (*domain.Entreprise, error) {
			return &domain.Entreprise{EntrepriseID: id, Nom: "PME Martin", Type: domain.EntrepriseClient, TenantID: &tenantID}, nil
		},
	}
	tenantRepo := &MockTenantRepository{
		GetTenantByIDFn: func(ctx context.Context, id string) (*domain.Tenant, error) {
			return &domain.Tenant{TenantID: id, EntrepriseOFID: "e-of", Actif: true}, nil
		},
	}
	catalogueRepo := &MockCatalogueRepository{
		GetTypeFormationByIDFn: func(ctx context.Context, id string) (*domain.TypeFormation, error) {
			return &domain.TypeFormation{TypeFormationID: id, Code: "HABILITATION_ELECTRIQUE"}, nil
		},
		GetSpecialisationByIDFn: func(ctx context.Context, id string) (*domain.Specialisation, error) {
			return &domain.Specialisation{SpecialisationID: id, Code: "B1", TypeFormationID: "type-elec"}, nil
		},
	}
	stagiaireRepo := &MockStagiaireRepository{
		GetStagiaireByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.Stagiaire, error) {
			return &domain.Stagiaire{StagiaireID: id, OrganismeFormationID: "e-of", EntrepriseID: &entrepriseID, Actif: true}, nil
		},
	}
	var gotDemande *domain.DemandeFormation
	var gotConsent *domain.Consentement
	demandeRepo := &MockDemandeRepository{
		CreateDemandeFn: func(ctx context.Context, d *domain.DemandeFormation, c *domain.Consentement) error {
			gotDemande, gotConsent = d, c
			return nil
		},
	}
	svc := testDemandeService(demandeRepo, stagiaireRepo, catalogueRepo, entrepriseRepo, tenantRepo)
	pme := &domain.ProfilUtilisateur{ProfilID: "p-pme", UserID: "u-pme", Role: domain.RoleResponsablePME, EntrepriseID: &entrepriseID, Actif: true}

	demande, err := svc.CreateDemande(context.Background(), pme, dto.CreateDemandeRequest{
		TypeFormationID:   "type-elec",
		SpecialisationIDs: []string{"spec-b1"},
		StagiaireIDs:      []string{"st-1", "st-2"},
		Type:              domain.DemandeIntra,
		Lieu:              domain.LieuSurSite,
		Consentement:      true,
	}, "10.0.0.1", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, domain.DemandeEnAttente, demande.Statut)
	assert.Equal(t, entrepriseID, gotDemande.EntrepriseDemandeuseID)
	assert.Equal(t, "e-of", gotDemande.OrganismeFormationID)
	require.NotNil(t, gotDemande.ConsentementAt)
	assert.Equal(t, "10.0.0.1", gotDemande.ConsentementIP)

	require.NotNil(t, gotConsent)
	assert.Equal(t, "demande_formation", gotConsent.Scope)
	require.NotNil(t, gotConsent.DemandeID)
	assert.Equal(t, demande.DemandeID, *gotConsent.DemandeID)
}
