package services

import (
	"context"
	"errors"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
)

type dashboardService struct {
	BaseService
	dashboardRepo portsrepo.DashboardRepository
	stagiaireRepo portsrepo.StagiaireRepository
	formationRepo portsrepo.FormationRepository
	titreRepo     portsrepo.TitreRepository
	tenantRepo    portsrepo.TenantRepository
}

var _ portssvc.DashboardService = (*dashboardService)(nil)

// NewDashboardService creates the per-role dashboard service.
func NewDashboardService(
	dashboardRepo portsrepo.DashboardRepository,
	stagiaireRepo portsrepo.StagiaireRepository,
	formationRepo portsrepo.FormationRepository,
	titreRepo portsrepo.TitreRepository,
	tenantRepo portsrepo.TenantRepository,
) portssvc.DashboardService {
	return &dashboardService{
		BaseService:   newBaseService("dashboard"),
		dashboardRepo: dashboardRepo,
		stagiaireRepo: stagiaireRepo,
		formationRepo: formationRepo,
		titreRepo:     titreRepo,
		tenantRepo:    tenantRepo,
	}
}

// DashboardFor dispatches on the role. The switch is exhaustive; an unknown
// role gets nothing.
func (s *dashboardService) DashboardFor(ctx context.Context, profil *domain.ProfilUtilisateur) (any, error) {
	if profil == nil || !profil.Actif {
		return nil, apperrors.ErrForbidden
	}
	now := time.Now()

	switch profil.Role {
	case domain.RoleSuperAdmin:
		return s.dashboardRepo.PlatformCounters(ctx)
	case domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID == nil {
			return nil, apperrors.ErrForbidden
		}
		tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
		if err != nil {
			return nil, err
		}
		return s.dashboardRepo.OrganismeCounters(ctx, tenant.TenantID, tenant.EntrepriseOFID, now)
	case domain.RoleFormateur:
		return s.dashboardRepo.FormateurCounters(ctx, profil.ProfilID)
	case domain.RoleResponsablePME:
		if profil.EntrepriseID == nil {
			return nil, apperrors.ErrForbidden
		}
		return s.dashboardRepo.EntrepriseCounters(ctx, *profil.EntrepriseID, now)
	case domain.RoleStagiaire:
		return s.dossierStagiaire(ctx, profil)
	}
	return nil, apperrors.ErrForbidden
}

// dossierStagiaire assembles the trainee's own record.
func (s *dashboardService) dossierStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur) (*domain.DossierStagiaire, error) {
	stagiaire, err := s.stagiaireRepo.GetStagiaireByUserID(ctx, profil.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// account exists but no trainee record is linked yet
			return &domain.DossierStagiaire{Formations: []domain.Formation{}, Titres: []domain.Titre{}}, nil
		}
		return nil, err
	}
	scope := domain.ScopeBySelf(profil.UserID)
	formations, err := s.formationRepo.ListFormations(ctx, scope)
	if err != nil {
		return nil, err
	}
	titres, err := s.titreRepo.ListTitres(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &domain.DossierStagiaire{Stagiaire: stagiaire, Formations: formations, Titres: titres}, nil
}
