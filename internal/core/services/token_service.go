package services

import (
	"context"
	"errors"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
	"github.com/oxalis-saas/habilitations_backend/internal/utils"
)

type tokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepository
}

var _ portssvc.TokenService = (*tokenService)(nil)

// NewTokenService creates the access/refresh token service.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepository) portssvc.TokenService {
	return &tokenService{
		BaseService: newBaseService("token"),
		cfg:         cfg,
		userRepo:    userRepo,
	}
}

func (s *tokenService) GenerateAccessToken(ctx context.Context, userID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(userID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, "Failed to sign access token", err)
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *tokenService) GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	token, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	hash := utils.HashRefreshToken(token)
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, &hash, &expiresAt); err != nil {
		s.LogError(ctx, "Failed to store refresh token hash", err)
		return "", time.Time{}, err
	}
	// the raw token leaves the service exactly once; only the hash is stored
	return token, expiresAt, nil
}

func (s *tokenService) ValidateRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.lookupByRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.RefreshTokenExpiresAt == nil || time.Now().After(*user.RefreshTokenExpiresAt) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return user, nil
}

func (s *tokenService) lookupByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepo.GetUserByRefreshTokenHash(ctx, utils.HashRefreshToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *tokenService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil)
}
