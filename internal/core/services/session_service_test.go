package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
)

func testSessionService(cfg *config.Config, sessionRepo *MockSessionRepository, competenceRepo *MockCompetenceRepository, stagiaireRepo *MockStagiaireRepository) *sessionService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if sessionRepo == nil {
		sessionRepo = &MockSessionRepository{}
	}
	if competenceRepo == nil {
		competenceRepo = &MockCompetenceRepository{}
	}
	if stagiaireRepo == nil {
		stagiaireRepo = &MockStagiaireRepository{}
	}
	svc := NewSessionService(cfg, sessionRepo, &MockCatalogueRepository{}, competenceRepo, stagiaireRepo, &MockProfilRepository{}, NewJournalService(newTestJournal()))
	return svc.(*sessionService)
}

func TestFormateurHasCompetences(t *testing.T) {
	session := &domain.SessionFormation{
		SessionID:          "s-1",
		SpecialisationIDs:  []string{"spec-b1", "spec-b2"},
		FormateurProfilIDs: []string{"f-1"},
	}

	t.Run("trainer missing one specialisation fails", func(t *testing.T) {
		competenceRepo := &MockCompetenceRepository{
			ListActiveCompetenceSpecIDsFn: func(ctx context.Context, ids []string) (map[string][]string, error) {
				return map[string][]string{"f-1": {"spec-b1"}}, nil
			},
		}
		svc := testSessionService(nil, nil, competenceRepo, nil)
		ok, err := svc.FormateurHasCompetences(context.Background(), session)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("trainer holding every specialisation passes", func(t *testing.T) {
		competenceRepo := &MockCompetenceRepository{
			ListActiveCompetenceSpecIDsFn: func(ctx context.Context, ids []string) (map[string][]string, error) {
				return map[string][]string{"f-1": {"spec-b1", "spec-b2"}}, nil
			},
		}
		svc := testSessionService(nil, nil, competenceRepo, nil)
		ok, err := svc.FormateurHasCompetences(context.Background(), session)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("every assigned trainer is checked", func(t *testing.T) {
		two := &domain.SessionFormation{
			SessionID:          "s-2",
			SpecialisationIDs:  []string{"spec-b1"},
			FormateurProfilIDs: []string{"f-1", "f-2"},
		}
		competenceRepo := &MockCompetenceRepository{
			ListActiveCompetenceSpecIDsFn: func(ctx context.Context, ids []string) (map[string][]string, error) {
				return map[string][]string{"f-1": {"spec-b1"}}, nil
			},
		}
		svc := testSessionService(nil, nil, competenceRepo, nil)
		ok, err := svc.FormateurHasCompetences(context.Background(), two)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no trainers is permissive by default", func(t *testing.T) {
		svc := testSessionService(&config.Config{SessionFormateursRequis: false}, nil, nil, nil)
		ok, err := svc.FormateurHasCompetences(context.Background(), &domain.SessionFormation{SessionID: "s-3", SpecialisationIDs: []string{"spec-b1"}})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no trainers fails when the check is strict", func(t *testing.T) {
		svc := testSessionService(&config.Config{SessionFormateursRequis: true}, nil, nil, nil)
		ok, err := svc.FormateurHasCompetences(context.Background(), &domain.SessionFormation{SessionID: "s-4", SpecialisationIDs: []string{"spec-b1"}})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEnrollStagiaire_CreatesOneFormationPerSpecialisation(t *testing.T) {
	tenantID := "t-1"
	session := &domain.SessionFormation{
		SessionID:         "s-1",
		NumeroSession:     "SES-20260101-ABC123",
		TenantID:          tenantID,
		Statut:            domain.SessionPlanifiee,
		NombrePlaces:      8,
		DateDebut:         time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		DateFin:           time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC),
		SpecialisationIDs: []string{"spec-b1", "spec-b2"},
	}
	var enrolled []domain.Formation
	sessionRepo := &MockSessionRepository{
		GetSessionByIDFn: func(ctx context.Context, id string) (*domain.SessionFormation, error) { return session, nil },
		EnrollStagiaireFn: func(ctx context.Context, sessionID string, formations []domain.Formation) error {
			enrolled = formations
			return nil
		},
	}
	stagiaireRepo := &MockStagiaireRepository{
		GetStagiaireByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.Stagiaire, error) {
			return &domain.Stagiaire{StagiaireID: id, OrganismeFormationID: "of-1", TenantID: &tenantID, Actif: true}, nil
		},
	}
	svc := testSessionService(nil, sessionRepo, nil, stagiaireRepo)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	err := svc.EnrollStagiaire(context.Background(), admin, "s-1", "st-1")
	require.NoError(t, err)

	require.Len(t, enrolled, 2)
	specs := []string{enrolled[0].SpecialisationID, enrolled[1].SpecialisationID}
	assert.ElementsMatch(t, []string{"spec-b1", "spec-b2"}, specs)
	for _, f := range enrolled {
		assert.Equal(t, "st-1", f.StagiaireID)
		assert.Equal(t, domain.FormationEnCours, f.Statut)
		require.NotNil(t, f.SessionID)
		assert.Equal(t, "s-1", *f.SessionID)
		assert.Equal(t, session.DateDebut, f.DateDebut)
	}
}

func TestEnrollStagiaire_FullSessionSurfacesConflict(t *testing.T) {
	tenantID := "t-1"
	session := &domain.SessionFormation{
		SessionID:         "s-1",
		TenantID:          tenantID,
		Statut:            domain.SessionPlanifiee,
		NombrePlaces:      1,
		SpecialisationIDs: []string{"spec-b1"},
	}
	sessionRepo := &MockSessionRepository{
		GetSessionByIDFn: func(ctx context.Context, id string) (*domain.SessionFormation, error) { return session, nil },
		EnrollStagiaireFn: func(ctx context.Context, sessionID string, formations []domain.Formation) error {
			// the locked capacity check found the session full
			return apperrors.NewConflictError("session is full")
		},
	}
	stagiaireRepo := &MockStagiaireRepository{
		GetStagiaireByIDFn: func(ctx context.Context, scope domain.AccessScope, id string) (*domain.Stagiaire, error) {
			return &domain.Stagiaire{StagiaireID: id, OrganismeFormationID: "of-1", TenantID: &tenantID, Actif: true}, nil
		},
	}
	svc := testSessionService(nil, sessionRepo, nil, stagiaireRepo)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	err := svc.EnrollStagiaire(context.Background(), admin, "s-1", "st-2")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestEnrollStagiaire_ClosedSessionRefusesEnrollment(t *testing.T) {
	tenantID := "t-1"
	for _, statut := range []domain.StatutSession{domain.SessionTerminee, domain.SessionAnnulee} {
		session := &domain.SessionFormation{SessionID: "s-1", TenantID: tenantID, Statut: statut, SpecialisationIDs: []string{"spec-b1"}}
		sessionRepo := &MockSessionRepository{
			GetSessionByIDFn: func(ctx context.Context, id string) (*domain.SessionFormation, error) { return session, nil },
		}
		svc := testSessionService(nil, sessionRepo, nil, nil)
		admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

		err := svc.EnrollStagiaire(context.Background(), admin, "s-1", "st-1")
		assert.ErrorIs(t, err, apperrors.ErrDuplicate, "statut %s", statut)
	}
}

func TestChangeStatut_RejectsIllegalTransition(t *testing.T) {
	tenantID := "t-1"
	session := &domain.SessionFormation{SessionID: "s-1", TenantID: tenantID, Statut: domain.SessionTerminee}
	sessionRepo := &MockSessionRepository{
		GetSessionByIDFn: func(ctx context.Context, id string) (*domain.SessionFormation, error) { return session, nil },
	}
	svc := testSessionService(nil, sessionRepo, nil, nil)
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}

	err := svc.ChangeStatut(context.Background(), admin, "s-1", domain.SessionEnCours)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
