package services

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
)

type tenantService struct {
	BaseService
	cfg            *config.Config
	tenantRepo     portsrepo.TenantRepository
	entrepriseRepo portsrepo.EntrepriseRepository
}

var _ portssvc.TenantService = (*tenantService)(nil)

// NewTenantService creates the tenant resolution service.
func NewTenantService(cfg *config.Config, tenantRepo portsrepo.TenantRepository, entrepriseRepo portsrepo.EntrepriseRepository) portssvc.TenantService {
	return &tenantService{
		BaseService:    newBaseService("tenant"),
		cfg:            cfg,
		tenantRepo:     tenantRepo,
		entrepriseRepo: entrepriseRepo,
	}
}

// ResolveTenantFromHost resolves in fixed precedence: dedicated domain match
// first, then slug subdomain of the site domain. Loopback hosts and the bare
// site domain resolve to no tenant.
func (s *tenantService) ResolveTenantFromHost(ctx context.Context, host string) (*domain.Tenant, error) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || host == "localhost" || host == "127.0.0.1" || host == s.cfg.SiteDomain {
		return nil, nil
	}

	tenant, err := s.tenantRepo.GetTenantByDomaine(ctx, host)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if suffix := "." + s.cfg.SiteDomain; strings.HasSuffix(host, suffix) {
		slug := strings.TrimSuffix(host, suffix)
		if slug == "" || strings.Contains(slug, ".") {
			return nil, nil
		}
		tenant, err = s.tenantRepo.GetTenantBySlug(ctx, slug)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// ResolveTenantForProfil walks the fallback chain: the profile's own tenant,
// then the tenant owned by the profile's company (OF staff), then the tenant
// the company belongs to (client side).
func (s *tenantService) ResolveTenantForProfil(ctx context.Context, profil *domain.ProfilUtilisateur) (*domain.Tenant, error) {
	if profil == nil {
		return nil, nil
	}

	if profil.TenantID != nil {
		tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	if profil.EntrepriseID == nil {
		return nil, nil
	}

	tenant, err := s.tenantRepo.GetTenantByEntrepriseOF(ctx, *profil.EntrepriseID)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	entreprise, err := s.entrepriseRepo.GetEntrepriseByID(ctx, *profil.EntrepriseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if entreprise.TenantID == nil {
		return nil, nil
	}
	tenant, err = s.tenantRepo.GetTenantByID(ctx, *entreprise.TenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.tenantRepo.GetTenantByID(ctx, tenantID)
}
