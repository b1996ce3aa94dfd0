package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// EntrepriseRepository manages companies (training organizations and clients).
type EntrepriseRepository interface {
	CreateEntreprise(ctx context.Context, entreprise *domain.Entreprise) error
	GetEntrepriseByID(ctx context.Context, entrepriseID string) (*domain.Entreprise, error)
	GetEntrepriseByNom(ctx context.Context, nom string) (*domain.Entreprise, error)
	UpdateEntreprise(ctx context.Context, entreprise *domain.Entreprise) error
	ListEntreprises(ctx context.Context, scope domain.AccessScope, typ *domain.TypeEntreprise) ([]domain.Entreprise, error)
	// GetOrCreateClient finds a client company by name inside the tenant or
	// creates it. Tolerant of concurrent re-invocation.
	GetOrCreateClient(ctx context.Context, nom string, tenantID string, createdBy string) (*domain.Entreprise, bool, error)
}

// TenantRepository manages tenants and the OF provisioning transaction.
type TenantRepository interface {
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	GetTenantByDomaine(ctx context.Context, domaine string) (*domain.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	GetTenantByEntrepriseOF(ctx context.Context, entrepriseOFID string) (*domain.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *domain.Tenant) error
	// ProvisionOFAccount atomically creates (or reuses) the OF entreprise and
	// its tenant, and binds the admin profile, in a single transaction.
	ProvisionOFAccount(ctx context.Context, entreprise *domain.Entreprise, tenant *domain.Tenant, profil *domain.ProfilUtilisateur) error
}
