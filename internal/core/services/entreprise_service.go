package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
)

type entrepriseService struct {
	BaseService
	entrepriseRepo portsrepo.EntrepriseRepository
}

var _ portssvc.EntrepriseService = (*entrepriseService)(nil)

// NewEntrepriseService creates the company service.
func NewEntrepriseService(entrepriseRepo portsrepo.EntrepriseRepository) portssvc.EntrepriseService {
	return &entrepriseService{
		BaseService:    newBaseService("entreprise"),
		entrepriseRepo: entrepriseRepo,
	}
}

func (s *entrepriseService) ListClients(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.Entreprise, error) {
	scope := ScopeForEntreprises(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrForbidden
	}
	typ := domain.EntrepriseClient
	return s.entrepriseRepo.ListEntreprises(ctx, scope, &typ)
}

func (s *entrepriseService) GetEntreprise(ctx context.Context, profil *domain.ProfilUtilisateur, entrepriseID string) (*domain.Entreprise, error) {
	scope := ScopeForEntreprises(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	entreprise, err := s.entrepriseRepo.GetEntrepriseByID(ctx, entrepriseID)
	if err != nil {
		return nil, err
	}
	if !entrepriseInScope(entreprise, scope) {
		return nil, apperrors.ErrNotFound
	}
	return entreprise, nil
}

func entrepriseInScope(e *domain.Entreprise, scope domain.AccessScope) bool {
	switch scope.Kind {
	case domain.ScopeAll:
		return true
	case domain.ScopeTenant:
		return e.TenantID != nil && *e.TenantID == scope.TenantID
	case domain.ScopeEntreprise:
		return e.EntrepriseID == scope.EntrepriseID
	}
	return false
}

func (s *entrepriseService) CreateClient(ctx context.Context, profil *domain.ProfilUtilisateur, nom string, email string) (*domain.Entreprise, error) {
	if !profil.Role.CanManageTenant() || profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	if nom == "" {
		return nil, apperrors.NewValidationFailedError("company name is required")
	}

	now := time.Now()
	entreprise := &domain.Entreprise{
		EntrepriseID: uuid.NewString(),
		Nom:          nom,
		Type:         domain.EntrepriseClient,
		Email:        email,
		TenantID:     profil.TenantID,
	}
	entreprise.Stamp(profil.UserID, now)
	if err := s.entrepriseRepo.CreateEntreprise(ctx, entreprise); err != nil {
		return nil, err
	}
	return entreprise, nil
}
