package services

import (
	"context"
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

type authService struct {
	BaseService
	userRepo portsrepo.UserRepository
	journal  portssvc.JournalService
}

var _ portssvc.AuthService = (*authService)(nil)

// NewAuthService creates the account/credential service.
func NewAuthService(userRepo portsrepo.UserRepository, journal portssvc.JournalService) portssvc.AuthService {
	return &authService{
		BaseService: newBaseService("auth"),
		userRepo:    userRepo,
		journal:     journal,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, "Failed to hash password", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		UserID:       uuid.NewString(),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		PasswordHash: hash,
	}
	user.Stamp(user.UserID, now)

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("username or email already taken")
		}
		s.LogError(ctx, "Failed to create user", err)
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &user.UserID,
		Action:        domain.ActionCreation,
		Description:   "compte utilisateur créé",
		ObjetConcerne: "user:" + user.UserID,
	})
	return user, nil
}

func (s *authService) Login(ctx context.Context, username string, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// same failure as a bad password, no user enumeration
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.DeletedAt != nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &user.UserID,
		Action:        domain.ActionConnexion,
		Description:   "connexion par mot de passe",
		ObjetConcerne: "user:" + user.UserID,
	})
	return user, nil
}

func (s *authService) LoginWithGoogle(ctx context.Context, email string, providerID string, nom string, prenom string) (*domain.User, error) {
	const provider = "google"

	user, err := s.userRepo.GetUserByProvider(ctx, provider, providerID)
	if err == nil {
		if user.DeletedAt != nil {
			return nil, apperrors.ErrUnauthorized
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Bind the provider to an existing account with the same email, or
	// create a fresh one.
	email = strings.ToLower(strings.TrimSpace(email))
	user, err = s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		p, pid := provider, providerID
		user.AuthProvider = &p
		user.ProviderID = &pid
		user.Touch(user.UserID, time.Now())
		if err := s.userRepo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	p, pid := provider, providerID
	user = &domain.User{
		UserID:       uuid.NewString(),
		Username:     email,
		Email:        email,
		Nom:          nom,
		Prenom:       prenom,
		AuthProvider: &p,
		ProviderID:   &pid,
	}
	user.Stamp(user.UserID, now)
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &user.UserID,
		Action:        domain.ActionCreation,
		Description:   "compte créé via Google",
		ObjetConcerne: "user:" + user.UserID,
	})
	return user, nil
}

func (s *authService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}
