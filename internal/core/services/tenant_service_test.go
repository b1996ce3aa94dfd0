package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
)

func testTenantService(tenantRepo *MockTenantRepository, entrepriseRepo *MockEntrepriseRepository) *tenantService {
	if tenantRepo == nil {
		tenantRepo = &MockTenantRepository{}
	}
	if entrepriseRepo == nil {
		entrepriseRepo = &MockEntrepriseRepository{}
	}
	cfg := &config.Config{SiteDomain: "habilitations.fr"}
	return NewTenantService(cfg, tenantRepo, entrepriseRepo).(*tenantService)
}

func TestResolveTenantFromHost(t *testing.T) {
	electro := &domain.Tenant{TenantID: "t-1", Slug: "electro-formation", Actif: true}
	custom := &domain.Tenant{TenantID: "t-2", Slug: "acme", Actif: true}
	customDomain := "formation.acme-elec.fr"
	custom.Domaine = &customDomain

	tenantRepo := &MockTenantRepository{
		GetTenantByDomaineFn: func(ctx context.Context, domaine string) (*domain.Tenant, error) {
			if domaine == customDomain {
				return custom, nil
			}
			return nil, apperrors.ErrNotFound
		},
		GetTenantBySlugFn: func(ctx context.Context, slug string) (*domain.Tenant, error) {
			if slug == "electro-formation" {
				return electro, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	svc := testTenantService(tenantRepo, nil)
	ctx := context.Background()

	t.Run("dedicated domain wins", func(t *testing.T) {
		tenant, err := svc.ResolveTenantFromHost(ctx, "formation.acme-elec.fr:443")
		require.NoError(t, err)
		require.NotNil(t, tenant)
		assert.Equal(t, "t-2", tenant.TenantID)
	})

	t.Run("slug subdomain of the site domain", func(t *testing.T) {
		tenant, err := svc.ResolveTenantFromHost(ctx, "Electro-Formation.habilitations.fr")
		require.NoError(t, err)
		require.NotNil(t, tenant)
		assert.Equal(t, "t-1", tenant.TenantID)
	})

	t.Run("bare site domain has no tenant", func(t *testing.T) {
		tenant, err := svc.ResolveTenantFromHost(ctx, "habilitations.fr")
		require.NoError(t, err)
		assert.Nil(t, tenant)
	})

	t.Run("loopback has no tenant", func(t *testing.T) {
		for _, host := range []string{"localhost:8080", "127.0.0.1"} {
			tenant, err := svc.ResolveTenantFromHost(ctx, host)
			require.NoError(t, err)
			assert.Nil(t, tenant)
		}
	})

	t.Run("unknown slug resolves to no tenant", func(t *testing.T) {
		tenant, err := svc.ResolveTenantFromHost(ctx, "inconnu.habilitations.fr")
		require.NoError(t, err)
		assert.Nil(t, tenant)
	})

	t.Run("nested subdomain is not a slug", func(t *testing.T) {
		tenant, err := svc.ResolveTenantFromHost(ctx, "a.b.habilitations.fr")
		require.NoError(t, err)
		assert.Nil(t, tenant)
	})
}

func TestResolveTenantForProfil(t *testing.T) {
	tenantID := "t-1"
	ofID := "e-of"
	clientID := "e-client"
	tenant := &domain.Tenant{TenantID: tenantID, EntrepriseOFID: ofID, Actif: true}

	tenantRepo := &MockTenantRepository{
		GetTenantByIDFn: func(ctx context.Context, id string) (*domain.Tenant, error) {
			if id == tenantID {
				return tenant, nil
			}
			return nil, apperrors.ErrNotFound
		},
		GetTenantByEntrepriseOFFn: func(ctx context.Context, id string) (*domain.Tenant, error) {
			if id == ofID {
				return tenant, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	entrepriseRepo := &MockEntrepriseRepository{
		GetEntrepriseByIDFn: func(ctx context.Context, id string) (*domain.Entreprise, error) {
			if id == clientID {
				return &domain.Entreprise{EntrepriseID: id, Type: domain.EntrepriseClient, TenantID: &tenantID}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	svc := testTenantService(tenantRepo, entrepriseRepo)
	ctx := context.Background()

	t.Run("profile bound to its tenant", func(t *testing.T) {
		profil := &domain.ProfilUtilisateur{ProfilID: "p-1", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}
		got, err := svc.ResolveTenantForProfil(ctx, profil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, tenantID, got.TenantID)
	})

	t.Run("OF staff falls back to the company tenant", func(t *testing.T) {
		profil := &domain.ProfilUtilisateur{ProfilID: "p-2", Role: domain.RoleFormateur, EntrepriseID: &ofID, Actif: true}
		got, err := svc.ResolveTenantForProfil(ctx, profil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, tenantID, got.TenantID)
	})

	t.Run("client company resolves through its attachment", func(t *testing.T) {
		profil := &domain.ProfilUtilisateur{ProfilID: "p-3", Role: domain.RoleResponsablePME, EntrepriseID: &clientID, Actif: true}
		got, err := svc.ResolveTenantForProfil(ctx, profil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, tenantID, got.TenantID)
	})

	t.Run("unbound profile has no tenant", func(t *testing.T) {
		profil := &domain.ProfilUtilisateur{ProfilID: "p-4", Role: domain.RoleStagiaire, Actif: true}
		got, err := svc.ResolveTenantForProfil(ctx, profil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
