package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

func syncFixture() (*MockProfilRepository, *MockCatalogueRepository) {
	profilRepo := &MockProfilRepository{
		GetProfilByIDFn: func(ctx context.Context, profilID string) (*domain.ProfilUtilisateur, error) {
			return &domain.ProfilUtilisateur{ProfilID: profilID, UserID: "u-form", Role: domain.RoleFormateur, Actif: true}, nil
		},
	}
	catalogueRepo := &MockCatalogueRepository{
		GetSpecialisationByIDFn: func(ctx context.Context, id string) (*domain.Specialisation, error) {
			return &domain.Specialisation{SpecialisationID: id, Code: id, TypeFormationID: "type-elec"}, nil
		},
	}
	return profilRepo, catalogueRepo
}

func TestSyncFormateurCompetences_ReconcilesWithoutDeleting(t *testing.T) {
	profilRepo, catalogueRepo := syncFixture()

	existing := []domain.FormateurCompetence{
		{CompetenceID: "c-b1", FormateurProfilID: "f-1", SpecialisationID: "spec-b1", Actif: true},
		{CompetenceID: "c-b2", FormateurProfilID: "f-1", SpecialisationID: "spec-b2", Actif: true},
	}
	var createdSpecs []string
	deactivated := map[string]bool{}
	competenceRepo := &MockCompetenceRepository{
		ListCompetencesByFormateurFn: func(ctx context.Context, formateurProfilID string) ([]domain.FormateurCompetence, error) {
			return existing, nil
		},
		CreateCompetenceFn: func(ctx context.Context, c *domain.FormateurCompetence) error {
			createdSpecs = append(createdSpecs, c.SpecialisationID)
			return nil
		},
		SetCompetenceActifFn: func(ctx context.Context, competenceID string, actif bool, updatedBy string) error {
			deactivated[competenceID] = !actif
			return nil
		},
	}
	svc := NewCatalogueService(catalogueRepo, competenceRepo, profilRepo, NewJournalService(newTestJournal()))
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, Actif: true}

	// trainer held {B1, B2}; target set is {B2, BR}
	result, err := svc.SyncFormateurCompetences(context.Background(), admin, "f-1", []string{"spec-b2", "spec-br"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Deactivated)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 0, result.Reactivated)
	assert.Equal(t, []string{"spec-br"}, createdSpecs)
	assert.True(t, deactivated["c-b1"])
	assert.False(t, deactivated["c-b2"])
}

func TestSyncFormateurCompetences_ReactivatesInsteadOfRecreating(t *testing.T) {
	profilRepo, catalogueRepo := syncFixture()

	reactivatedIDs := map[string]bool{}
	competenceRepo := &MockCompetenceRepository{
		ListCompetencesByFormateurFn: func(ctx context.Context, formateurProfilID string) ([]domain.FormateurCompetence, error) {
			return []domain.FormateurCompetence{
				{CompetenceID: "c-b1", FormateurProfilID: "f-1", SpecialisationID: "spec-b1", Actif: false},
			}, nil
		},
		CreateCompetenceFn: func(ctx context.Context, c *domain.FormateurCompetence) error {
			t.Fatalf("unexpected create for %s", c.SpecialisationID)
			return nil
		},
		SetCompetenceActifFn: func(ctx context.Context, competenceID string, actif bool, updatedBy string) error {
			if actif {
				reactivatedIDs[competenceID] = true
			}
			return nil
		},
	}
	svc := NewCatalogueService(catalogueRepo, competenceRepo, profilRepo, NewJournalService(newTestJournal()))
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, Actif: true}

	result, err := svc.SyncFormateurCompetences(context.Background(), admin, "f-1", []string{"spec-b1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reactivated)
	assert.True(t, reactivatedIDs["c-b1"])
}

func TestSyncFormateurCompetences_TrainerMayEditOwnSet(t *testing.T) {
	profilRepo, catalogueRepo := syncFixture()
	competenceRepo := &MockCompetenceRepository{}
	svc := NewCatalogueService(catalogueRepo, competenceRepo, profilRepo, NewJournalService(newTestJournal()))

	self := &domain.ProfilUtilisateur{ProfilID: "f-1", UserID: "u-form", Role: domain.RoleFormateur, Actif: true}
	_, err := svc.SyncFormateurCompetences(context.Background(), self, "f-1", []string{"spec-b1"})
	assert.NoError(t, err)

	other := &domain.ProfilUtilisateur{ProfilID: "f-2", UserID: "u-other", Role: domain.RoleFormateur, Actif: true}
	_, err = svc.SyncFormateurCompetences(context.Background(), other, "f-1", []string{"spec-b1"})
	assert.Error(t, err)
}

func TestSyncFormateurCompetences_RejectsNonTrainerTarget(t *testing.T) {
	_, catalogueRepo := syncFixture()
	profilRepo := &MockProfilRepository{
		GetProfilByIDFn: func(ctx context.Context, profilID string) (*domain.ProfilUtilisateur, error) {
			return &domain.ProfilUtilisateur{ProfilID: profilID, Role: domain.RoleSecretariat, Actif: true}, nil
		},
	}
	svc := NewCatalogueService(catalogueRepo, &MockCompetenceRepository{}, profilRepo, NewJournalService(newTestJournal()))
	admin := &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, Actif: true}

	_, err := svc.SyncFormateurCompetences(context.Background(), admin, "p-sec", []string{"spec-b1"})
	assert.Error(t, err)
}
