package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxInvitationRepository struct {
	BaseRepository
}

func newPgxInvitationRepository(pool *pgxpool.Pool) portsrepo.InvitationRepository {
	return &PgxInvitationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvitationRepository = (*PgxInvitationRepository)(nil)

var FULL_INVITATION_SELECT_QUERY = `
SELECT
	i.invitation_id, i.organisme_formation_id, i.entreprise_client_id,
	i.email_contact, i.token, i.statut, i.expires_at, i.accepted_by, i.date_accepted,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
FROM invitations_entreprises i
`

func (r *PgxInvitationRepository) getInvitations(ctx context.Context, filterQuery string, args ...any) ([]domain.InvitationEntreprise, error) {
	rows, err := r.Pool.Query(ctx, FULL_INVITATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invitations", err)
	}
	defer rows.Close()
	invitations, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.InvitationEntreprise])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.InvitationEntreprise{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect invitation rows", err)
	}
	return invitations, nil
}

func (r *PgxInvitationRepository) CreateInvitation(ctx context.Context, invitation *domain.InvitationEntreprise) error {
	query := `
		INSERT INTO invitations_entreprises (
			invitation_id, organisme_formation_id, entreprise_client_id,
			email_contact, token, statut, expires_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		invitation.InvitationID,
		invitation.OrganismeFormationID,
		invitation.EntrepriseClientID,
		invitation.EmailContact,
		invitation.Token,
		invitation.Statut,
		invitation.ExpiresAt,
		invitation.CreatedAt,
		invitation.CreatedBy,
		invitation.LastUpdatedAt,
		invitation.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err, "invitation already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create invitation", err)
	}
	return nil
}

func (r *PgxInvitationRepository) GetInvitationByID(ctx context.Context, invitationID string) (*domain.InvitationEntreprise, error) {
	invitations, err := r.getInvitations(ctx, `WHERE i.invitation_id = $1`, invitationID)
	if err != nil {
		return nil, err
	}
	if len(invitations) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &invitations[0], nil
}

func (r *PgxInvitationRepository) GetInvitationByToken(ctx context.Context, token string) (*domain.InvitationEntreprise, error) {
	invitations, err := r.getInvitations(ctx, `WHERE i.token = $1`, token)
	if err != nil {
		return nil, err
	}
	if len(invitations) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &invitations[0], nil
}

func (r *PgxInvitationRepository) ListInvitationsByOrganisme(ctx context.Context, organismeFormationID string) ([]domain.InvitationEntreprise, error) {
	return r.getInvitations(ctx, `WHERE i.organisme_formation_id = $1 ORDER BY i.created_at DESC`, organismeFormationID)
}

func (r *PgxInvitationRepository) UpdateInvitationStatut(ctx context.Context, invitationID string, statut domain.StatutInvitation, updatedBy string) error {
	query := `
		UPDATE invitations_entreprises
		SET statut = $1, last_updated_at = now(), last_updated_by = $2
		WHERE invitation_id = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, statut, updatedBy, invitationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invitation status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AcceptInvitation creates the account and profile and flips the invitation
// to accepted in one transaction. The status update re-checks `pending` so a
// token used twice loses the race cleanly.
func (r *PgxInvitationRepository) AcceptInvitation(ctx context.Context, invitation *domain.InvitationEntreprise, user *domain.User, profil *domain.ProfilUtilisateur) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	userQuery := `
		INSERT INTO users (
			user_id, username, email, nom, prenom, password_hash,
			auth_provider, provider_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	if _, err := tx.Exec(ctx, userQuery,
		user.UserID,
		user.Username,
		user.Email,
		user.Nom,
		user.Prenom,
		user.PasswordHash,
		user.AuthProvider,
		user.ProviderID,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "an account already exists for this email"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create user account", err)
	}

	profilQuery := `
		INSERT INTO profils_utilisateurs (
			profil_id, user_id, role, entreprise_id, tenant_id, telephone, actif,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	if _, err := tx.Exec(ctx, profilQuery,
		profil.ProfilID,
		profil.UserID,
		profil.Role,
		profil.EntrepriseID,
		profil.TenantID,
		profil.Telephone,
		profil.Actif,
		profil.CreatedAt,
		profil.CreatedBy,
		profil.LastUpdatedAt,
		profil.LastUpdatedBy,
	); err != nil {
		if mapped := mapPgError(err, "a profile already exists for this user"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create profile", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE invitations_entreprises
		SET statut = $1, accepted_by = $2, date_accepted = $3,
			last_updated_at = $4, last_updated_by = $5
		WHERE invitation_id = $6 AND statut = 'pending';
	`,
		domain.InvitationAccepted,
		user.UserID,
		invitation.DateAccepted,
		invitation.LastUpdatedAt,
		invitation.LastUpdatedBy,
		invitation.InvitationID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to accept invitation", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("invitation has already been used")
	}
	invitation.Statut = domain.InvitationAccepted
	invitation.AcceptedBy = &user.UserID

	return r.Commit(ctx, tx)
}
