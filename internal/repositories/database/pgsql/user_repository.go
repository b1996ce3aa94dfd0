package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

var FULL_USER_SELECT_QUERY = `
SELECT
	u.user_id, u.username, u.email, u.nom, u.prenom, u.password_hash,
	u.auth_provider, u.provider_id, u.refresh_token_hash, u.refresh_token_expires_at,
	u.deleted_at, u.created_at, u.created_by, u.last_updated_at, u.last_updated_by
FROM users u
`

func (r *PgxUserRepository) getUsers(ctx context.Context, filterQuery string, args ...any) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, FULL_USER_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.User{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect user rows", err)
	}
	return users, nil
}

func (r *PgxUserRepository) getOneUser(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	users, err := r.getUsers(ctx, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &users[0], nil
}

func (r *PgxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getOneUser(ctx, `WHERE u.user_id = $1 AND u.deleted_at IS NULL`, userID)
}

func (r *PgxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOneUser(ctx, `WHERE u.username = $1 AND u.deleted_at IS NULL`, username)
}

func (r *PgxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOneUser(ctx, `WHERE lower(u.email) = lower($1) AND u.deleted_at IS NULL`, email)
}

func (r *PgxUserRepository) GetUserByProvider(ctx context.Context, provider string, providerID string) (*domain.User, error) {
	return r.getOneUser(ctx, `WHERE u.auth_provider = $1 AND u.provider_id = $2 AND u.deleted_at IS NULL`, provider, providerID)
}

func (r *PgxUserRepository) GetUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.getOneUser(ctx, `WHERE u.refresh_token_hash = $1 AND u.deleted_at IS NULL`, tokenHash)
}

func (r *PgxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			user_id, username, email, nom, prenom, password_hash,
			auth_provider, provider_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
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
	)
	if err != nil {
		if mapped := mapPgError(err, "a user with this email or username already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to create user "+user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, nom = $3, prenom = $4, password_hash = $5,
			auth_provider = $6, provider_id = $7, deleted_at = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE user_id = $11;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.Nom,
		user.Prenom,
		user.PasswordHash,
		user.AuthProvider,
		user.ProviderID,
		user.DeletedAt,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
		user.UserID,
	)
	if err != nil {
		if mapped := mapPgError(err, "a user with this email or username already exists"); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to update user "+user.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, last_updated_at = now()
		WHERE user_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tokenHash, expiresAt, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update refresh token for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
