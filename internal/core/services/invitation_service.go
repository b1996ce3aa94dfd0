package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/utils"
)

// invitationValidity is how long a freshly created invitation stays usable.
const invitationValidity = 14 * 24 * time.Hour

type invitationService struct {
	BaseService
	invitationRepo portsrepo.InvitationRepository
	entrepriseRepo portsrepo.EntrepriseRepository
	tenantRepo     portsrepo.TenantRepository
	journal        portssvc.JournalService
}

var _ portssvc.InvitationService = (*invitationService)(nil)

// NewInvitationService creates the onboarding invitation service.
func NewInvitationService(
	invitationRepo portsrepo.InvitationRepository,
	entrepriseRepo portsrepo.EntrepriseRepository,
	tenantRepo portsrepo.TenantRepository,
	journal portssvc.JournalService,
) portssvc.InvitationService {
	return &invitationService{
		BaseService:    newBaseService("invitation"),
		invitationRepo: invitationRepo,
		entrepriseRepo: entrepriseRepo,
		tenantRepo:     tenantRepo,
		journal:        journal,
	}
}

// newInvitationToken returns 32 random bytes, URL-safe encoded.
func newInvitationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *invitationService) CreateInvitation(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateInvitationRequest) (*domain.InvitationEntreprise, string, error) {
	if profil.Role != domain.RoleAdminOF && profil.Role != domain.RoleSuperAdmin {
		return nil, "", apperrors.ErrForbidden
	}
	if profil.TenantID == nil {
		return nil, "", apperrors.ErrForbidden
	}
	tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
	if err != nil {
		return nil, "", err
	}

	var client *domain.Entreprise
	switch {
	case req.EntrepriseClientID != nil:
		client, err = s.entrepriseRepo.GetEntrepriseByID(ctx, *req.EntrepriseClientID)
		if err != nil {
			return nil, "", err
		}
		if client.TenantID == nil || *client.TenantID != tenant.TenantID {
			return nil, "", apperrors.ErrNotFound
		}
	case req.NomEntreprise != nil && strings.TrimSpace(*req.NomEntreprise) != "":
		client, _, err = s.entrepriseRepo.GetOrCreateClient(ctx, strings.TrimSpace(*req.NomEntreprise), tenant.TenantID, profil.UserID)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", apperrors.NewValidationFailedError("either entrepriseClientId or nomEntreprise must be set")
	}

	token, err := newInvitationToken()
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	invitation := &domain.InvitationEntreprise{
		InvitationID:         uuid.NewString(),
		OrganismeFormationID: tenant.EntrepriseOFID,
		EntrepriseClientID:   client.EntrepriseID,
		EmailContact:         strings.ToLower(strings.TrimSpace(req.EmailContact)),
		Token:                token,
		Statut:               domain.InvitationPending,
		ExpiresAt:            now.Add(invitationValidity),
	}
	invitation.Stamp(profil.UserID, now)

	if err := s.invitationRepo.CreateInvitation(ctx, invitation); err != nil {
		return nil, "", err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  &client.EntrepriseID,
		Action:        domain.ActionCreation,
		Description:   "invitation envoyée à " + invitation.EmailContact,
		ObjetConcerne: "invitation:" + invitation.InvitationID,
	})
	// the raw token is returned once and never readable again
	return invitation, token, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.InvitationEntreprise, error) {
	if profil.Role != domain.RoleAdminOF && profil.Role != domain.RoleSuperAdmin {
		return nil, apperrors.ErrForbidden
	}
	if profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
	if err != nil {
		return nil, err
	}
	return s.invitationRepo.ListInvitationsByOrganisme(ctx, tenant.EntrepriseOFID)
}

func (s *invitationService) RevokeInvitation(ctx context.Context, profil *domain.ProfilUtilisateur, invitationID string) error {
	if profil.Role != domain.RoleAdminOF && profil.Role != domain.RoleSuperAdmin {
		return apperrors.ErrForbidden
	}
	invitation, err := s.invitationRepo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if profil.TenantID != nil {
		tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
		if err != nil {
			return err
		}
		if invitation.OrganismeFormationID != tenant.EntrepriseOFID && profil.Role != domain.RoleSuperAdmin {
			return apperrors.ErrNotFound
		}
	}
	if invitation.Statut != domain.InvitationPending {
		return apperrors.NewConflictError("only pending invitations can be revoked")
	}
	return s.invitationRepo.UpdateInvitationStatut(ctx, invitation.InvitationID, domain.InvitationRevoked, profil.UserID)
}

func (s *invitationService) PreviewInvitation(ctx context.Context, token string) (*domain.InvitationEntreprise, error) {
	invitation, err := s.invitationRepo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !invitation.EstUtilisable(time.Now()) {
		return nil, apperrors.NewNotFoundError("invitation is no longer usable")
	}
	return invitation, nil
}

// AcceptInvitation redeems the token: one transaction creates the account,
// the responsable_pme profile and flips the invitation to accepted.
func (s *invitationService) AcceptInvitation(ctx context.Context, req dto.AcceptInvitationRequest) (*domain.User, error) {
	invitation, err := s.invitationRepo.GetInvitationByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("invitation not found")
		}
		return nil, err
	}
	if !invitation.EstUtilisable(time.Now()) {
		return nil, apperrors.NewConflictError("invitation is expired, revoked or already used")
	}

	client, err := s.entrepriseRepo.GetEntrepriseByID(ctx, invitation.EntrepriseClientID)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		UserID:       uuid.NewString(),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        invitation.EmailContact,
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		PasswordHash: hash,
	}
	user.Stamp(user.UserID, now)

	profil := &domain.ProfilUtilisateur{
		ProfilID:     uuid.NewString(),
		UserID:       user.UserID,
		Role:         domain.RoleResponsablePME,
		EntrepriseID: &client.EntrepriseID,
		TenantID:     client.TenantID,
		Actif:        true,
	}
	profil.Stamp(user.UserID, now)

	if err := s.invitationRepo.AcceptInvitation(ctx, invitation, user, profil); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("username already taken or invitation already used")
		}
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &user.UserID,
		EntrepriseID:  &client.EntrepriseID,
		Action:        domain.ActionCreation,
		Description:   "invitation acceptée, responsable créé",
		ObjetConcerne: "invitation:" + invitation.InvitationID,
	})
	return user, nil
}
