package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

func newTestJournal() *MockJournalRepository {
	return &MockJournalRepository{}
}

func TestEnsureProfil_CreatesDefaultTraineeProfile(t *testing.T) {
	created := map[string]*domain.ProfilUtilisateur{}
	profilRepo := &MockProfilRepository{
		GetProfilByUserIDFn: func(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
			if p, ok := created[userID]; ok {
				return p, nil
			}
			return nil, apperrors.ErrNotFound
		},
		CreateProfilFn: func(ctx context.Context, profil *domain.ProfilUtilisateur) error {
			if _, ok := created[profil.UserID]; ok {
				return apperrors.ErrDuplicate
			}
			created[profil.UserID] = profil
			return nil
		},
	}
	svc := NewProfilService(profilRepo, &MockEntrepriseRepository{}, &MockTenantRepository{}, NewJournalService(newTestJournal()))

	first, err := svc.EnsureProfil(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStagiaire, first.Role)
	assert.True(t, first.Actif)
	assert.Equal(t, "user-1", first.UserID)

	// a second call finds the existing row and creates nothing new
	second, err := svc.EnsureProfil(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ProfilID, second.ProfilID)
	assert.Len(t, created, 1)
}

func TestEnsureProfil_LoserOfCreateRaceReadsWinnerRow(t *testing.T) {
	winner := &domain.ProfilUtilisateur{ProfilID: "p-winner", UserID: "user-2", Role: domain.RoleStagiaire, Actif: true}
	calls := 0
	profilRepo := &MockProfilRepository{
		GetProfilByUserIDFn: func(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
			calls++
			if calls == 1 {
				return nil, apperrors.ErrNotFound
			}
			return winner, nil
		},
		CreateProfilFn: func(ctx context.Context, profil *domain.ProfilUtilisateur) error {
			return apperrors.ErrDuplicate
		},
	}
	svc := NewProfilService(profilRepo, &MockEntrepriseRepository{}, &MockTenantRepository{}, NewJournalService(newTestJournal()))

	got, err := svc.EnsureProfil(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, "p-winner", got.ProfilID)
}

func TestProvisionOFAccount_BindsTenantEntrepriseAndAdminProfile(t *testing.T) {
	var gotEntreprise *domain.Entreprise
	var gotTenant *domain.Tenant
	var gotProfil *domain.ProfilUtilisateur
	tenantRepo := &MockTenantRepository{
		ProvisionOFAccountFn: func(ctx context.Context, e *domain.Entreprise, tn *domain.Tenant, p *domain.ProfilUtilisateur) error {
			gotEntreprise, gotTenant, gotProfil = e, tn, p
			return nil
		},
	}
	svc := NewProfilService(&MockProfilRepository{}, &MockEntrepriseRepository{}, tenantRepo, NewJournalService(newTestJournal()))

	tenant, err := svc.ProvisionOFAccount(context.Background(), "user-3", dto.ProvisionOFRequest{NomOrganisme: "Électro Formation Sàrl"})
	require.NoError(t, err)

	require.NotNil(t, gotEntreprise)
	assert.Equal(t, domain.EntrepriseOF, gotEntreprise.Type)
	assert.Equal(t, gotEntreprise.EntrepriseID, gotTenant.EntrepriseOFID)
	assert.Equal(t, "electro-formation-sarl", gotTenant.Slug)
	assert.Equal(t, tenant.TenantID, gotTenant.TenantID)

	require.NotNil(t, gotProfil)
	assert.Equal(t, domain.RoleAdminOF, gotProfil.Role)
	require.NotNil(t, gotProfil.TenantID)
	assert.Equal(t, tenant.TenantID, *gotProfil.TenantID)
	require.NotNil(t, gotProfil.EntrepriseID)
	assert.Equal(t, gotEntreprise.EntrepriseID, *gotProfil.EntrepriseID)
}

func TestProvisionOFAccount_RejectsAccountAlreadyBound(t *testing.T) {
	tenantID := "t-1"
	profilRepo := &MockProfilRepository{
		GetProfilByUserIDFn: func(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
			return &domain.ProfilUtilisateur{ProfilID: "p-1", UserID: userID, Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}, nil
		},
	}
	svc := NewProfilService(profilRepo, &MockEntrepriseRepository{}, &MockTenantRepository{}, NewJournalService(newTestJournal()))

	_, err := svc.ProvisionOFAccount(context.Background(), "user-4", dto.ProvisionOFRequest{NomOrganisme: "Autre OF"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestProvisionOFAccount_DuplicateNameIsConflict(t *testing.T) {
	tenantRepo := &MockTenantRepository{
		ProvisionOFAccountFn: func(ctx context.Context, e *domain.Entreprise, tn *domain.Tenant, p *domain.ProfilUtilisateur) error {
			return apperrors.ErrDuplicate
		},
	}
	svc := NewProfilService(&MockProfilRepository{}, &MockEntrepriseRepository{}, tenantRepo, NewJournalService(newTestJournal()))

	_, err := svc.ProvisionOFAccount(context.Background(), "user-5", dto.ProvisionOFRequest{NomOrganisme: "Électro Formation"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
