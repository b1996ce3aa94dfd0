package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

type stagiaireService struct {
	BaseService
	stagiaireRepo  portsrepo.StagiaireRepository
	entrepriseRepo portsrepo.EntrepriseRepository
	tenantRepo     portsrepo.TenantRepository
	journal        portssvc.JournalService
}

var _ portssvc.StagiaireService = (*stagiaireService)(nil)

// NewStagiaireService creates the trainee service.
func NewStagiaireService(
	stagiaireRepo portsrepo.StagiaireRepository,
	entrepriseRepo portsrepo.EntrepriseRepository,
	tenantRepo portsrepo.TenantRepository,
	journal portssvc.JournalService,
) portssvc.StagiaireService {
	return &stagiaireService{
		BaseService:    newBaseService("stagiaire"),
		stagiaireRepo:  stagiaireRepo,
		entrepriseRepo: entrepriseRepo,
		tenantRepo:     tenantRepo,
		journal:        journal,
	}
}

func (s *stagiaireService) CreateStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateStagiaireRequest) (*domain.Stagiaire, error) {
	organismeID, tenantID, err := s.resolveOrganisme(ctx, profil)
	if err != nil {
		return nil, err
	}

	entrepriseID := req.EntrepriseID
	if profil.Role == domain.RoleResponsablePME {
		// a responsable only ever registers its own employees
		entrepriseID = profil.EntrepriseID
	}

	now := time.Now()
	stagiaire := &domain.Stagiaire{
		StagiaireID:          uuid.NewString(),
		OrganismeFormationID: organismeID,
		EntrepriseID:         entrepriseID,
		TenantID:             tenantID,
		Nom:                  req.Nom,
		Prenom:               req.Prenom,
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		Telephone:            req.Telephone,
		Poste:                req.Poste,
		Actif:                true,
	}
	stagiaire.Stamp(profil.UserID, now)

	if err := s.stagiaireRepo.CreateStagiaire(ctx, stagiaire); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  entrepriseID,
		Action:        domain.ActionCreation,
		Description:   "stagiaire créé: " + stagiaire.Prenom + " " + stagiaire.Nom,
		ObjetConcerne: "stagiaire:" + stagiaire.StagiaireID,
	})
	return stagiaire, nil
}

// resolveOrganisme determines the training organization and tenant to attach
// created trainees to, from the caller's profile.
func (s *stagiaireService) resolveOrganisme(ctx context.Context, profil *domain.ProfilUtilisateur) (string, *string, error) {
	switch profil.Role {
	case domain.RoleSuperAdmin, domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID != nil {
			tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
			if err != nil {
				return "", nil, err
			}
			return tenant.EntrepriseOFID, profil.TenantID, nil
		}
		if profil.EntrepriseID != nil {
			return *profil.EntrepriseID, nil, nil
		}
		return "", nil, apperrors.NewValidationFailedError("profile is bound to no organization")
	case domain.RoleResponsablePME:
		if profil.EntrepriseID == nil {
			return "", nil, apperrors.ErrForbidden
		}
		entreprise, err := s.entrepriseRepo.GetEntrepriseByID(ctx, *profil.EntrepriseID)
		if err != nil {
			return "", nil, err
		}
		if entreprise.TenantID == nil {
			return "", nil, apperrors.NewValidationFailedError("company is attached to no training organization")
		}
		tenant, err := s.tenantRepo.GetTenantByID(ctx, *entreprise.TenantID)
		if err != nil {
			return "", nil, err
		}
		return tenant.EntrepriseOFID, entreprise.TenantID, nil
	}
	return "", nil, apperrors.ErrForbidden
}

func (s *stagiaireService) GetStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, stagiaireID string) (*domain.Stagiaire, error) {
	scope := ScopeForStagiaires(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	return s.stagiaireRepo.GetStagiaireByID(ctx, scope, stagiaireID)
}

func (s *stagiaireService) ListStagiaires(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.Stagiaire, error) {
	scope := ScopeForStagiaires(profil)
	if scope.IsNone() {
		return []domain.Stagiaire{}, nil
	}
	return s.stagiaireRepo.ListStagiaires(ctx, scope)
}

func (s *stagiaireService) UpdateStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, stagiaireID string, req dto.UpdateStagiaireRequest) (*domain.Stagiaire, error) {
	scope := ScopeForStagiaires(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	stagiaire, err := s.stagiaireRepo.GetStagiaireByID(ctx, scope, stagiaireID)
	if err != nil {
		return nil, err
	}

	if req.Nom != nil {
		stagiaire.Nom = *req.Nom
	}
	if req.Prenom != nil {
		stagiaire.Prenom = *req.Prenom
	}
	if req.Telephone != nil {
		stagiaire.Telephone = *req.Telephone
	}
	if req.Poste != nil {
		stagiaire.Poste = *req.Poste
	}
	if req.Actif != nil {
		stagiaire.Actif = *req.Actif
	}
	stagiaire.Touch(profil.UserID, time.Now())

	if err := s.stagiaireRepo.UpdateStagiaire(ctx, stagiaire); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  stagiaire.EntrepriseID,
		Action:        domain.ActionModification,
		Description:   "stagiaire modifié",
		ObjetConcerne: "stagiaire:" + stagiaire.StagiaireID,
	})
	return stagiaire, nil
}
