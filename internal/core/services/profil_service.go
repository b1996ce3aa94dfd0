package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/utils"
)

type profilService struct {
	BaseService
	profilRepo     portsrepo.ProfilRepository
	entrepriseRepo portsrepo.EntrepriseRepository
	tenantRepo     portsrepo.TenantRepository
	journal        portssvc.JournalService
}

var _ portssvc.ProfilService = (*profilService)(nil)

// NewProfilService creates the profile resolution/provisioning service.
func NewProfilService(
	profilRepo portsrepo.ProfilRepository,
	entrepriseRepo portsrepo.EntrepriseRepository,
	tenantRepo portsrepo.TenantRepository,
	journal portssvc.JournalService,
) portssvc.ProfilService {
	return &profilService{
		BaseService:    newBaseService("profil"),
		profilRepo:     profilRepo,
		entrepriseRepo: entrepriseRepo,
		tenantRepo:     tenantRepo,
		journal:        journal,
	}
}

func (s *profilService) GetProfil(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
	profil, err := s.profilRepo.GetProfilByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrProfilUnprovisioned
		}
		return nil, err
	}
	return profil, nil
}

func (s *profilService) EnsureProfil(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error) {
	profil, err := s.GetProfil(ctx, userID)
	if err == nil {
		return profil, nil
	}
	if !errors.Is(err, apperrors.ErrProfilUnprovisioned) {
		return nil, err
	}

	now := time.Now()
	profil = &domain.ProfilUtilisateur{
		ProfilID: uuid.NewString(),
		UserID:   userID,
		Role:     domain.RoleStagiaire,
		Actif:    true,
	}
	profil.Stamp(userID, now)

	if err := s.profilRepo.CreateProfil(ctx, profil); err != nil {
		// concurrent EnsureProfil calls race on the unique user_id; the loser
		// reads the winner's row
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.GetProfil(ctx, userID)
		}
		return nil, err
	}
	s.LogInfo(ctx, "Default profile provisioned", "user_id", userID)
	return profil, nil
}

func (s *profilService) ProvisionOFAccount(ctx context.Context, userID string, req dto.ProvisionOFRequest) (*domain.Tenant, error) {
	existing, err := s.GetProfil(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrProfilUnprovisioned) {
		return nil, err
	}
	if existing != nil && existing.Role != domain.RoleStagiaire {
		return nil, apperrors.NewConflictError("account already bound to an organization")
	}

	slug := utils.Slugify(req.NomOrganisme)
	if slug == "" {
		return nil, apperrors.NewValidationFailedError("organization name yields an empty slug")
	}

	now := time.Now()
	entreprise := &domain.Entreprise{
		EntrepriseID: uuid.NewString(),
		Nom:          req.NomOrganisme,
		Type:         domain.EntrepriseOF,
	}
	entreprise.Stamp(userID, now)

	tenant := &domain.Tenant{
		TenantID:        uuid.NewString(),
		EntrepriseOFID:  entreprise.EntrepriseID,
		NomPublic:       req.NomOrganisme,
		Slug:            slug,
		Domaine:         req.Domaine,
		CouleurPrimaire: "#1d4ed8",
		CouleurAccent:   "#f59e0b",
		Actif:           true,
	}
	tenant.Stamp(userID, now)

	profil := &domain.ProfilUtilisateur{
		ProfilID:     uuid.NewString(),
		UserID:       userID,
		Role:         domain.RoleAdminOF,
		EntrepriseID: &entreprise.EntrepriseID,
		TenantID:     &tenant.TenantID,
		Actif:        true,
	}
	if existing != nil {
		profil.ProfilID = existing.ProfilID
	}
	profil.Stamp(userID, now)

	if err := s.tenantRepo.ProvisionOFAccount(ctx, entreprise, tenant, profil); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("an organization named %q already exists", req.NomOrganisme))
		}
		s.LogError(ctx, "OF provisioning failed", err, "user_id", userID)
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &userID,
		EntrepriseID:  &entreprise.EntrepriseID,
		Action:        domain.ActionCreation,
		Description:   "organisme de formation provisionné: " + req.NomOrganisme,
		ObjetConcerne: "tenant:" + tenant.TenantID,
	})
	s.LogInfo(ctx, "OF account provisioned", "tenant_id", tenant.TenantID, "slug", slug)
	return tenant, nil
}
