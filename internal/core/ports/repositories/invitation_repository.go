package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// InvitationRepository manages company onboarding invitations.
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, invitation *domain.InvitationEntreprise) error
	GetInvitationByID(ctx context.Context, invitationID string) (*domain.InvitationEntreprise, error)
	GetInvitationByToken(ctx context.Context, token string) (*domain.InvitationEntreprise, error)
	ListInvitationsByOrganisme(ctx context.Context, organismeFormationID string) ([]domain.InvitationEntreprise, error)
	UpdateInvitationStatut(ctx context.Context, invitationID string, statut domain.StatutInvitation, updatedBy string) error
	// AcceptInvitation atomically creates the user account, the
	// responsable_pme profile and flips the invitation to accepted. The
	// status update re-checks `pending` so the token is single use.
	AcceptInvitation(ctx context.Context, invitation *domain.InvitationEntreprise, user *domain.User, profil *domain.ProfilUtilisateur) error
}
