package services

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
	"github.com/oxalis-saas/habilitations_backend/internal/utils"
)

type googleOAuthService struct {
	BaseService
	cfg         *config.Config
	oauthConfig *oauth2.Config
}

var _ portssvc.GoogleOAuthService = (*googleOAuthService)(nil)

// NewGoogleOAuthService creates the Google sign-in flow service.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthService {
	return &googleOAuthService{
		BaseService: newBaseService("google_oauth"),
		cfg:         cfg,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *googleOAuthService) GetLoginURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *googleOAuthService) GenerateStateString() (string, error) {
	return utils.GenerateSecureRandomString(16)
}

func (s *googleOAuthService) ExchangeCode(ctx context.Context, code string) (string, string, string, string, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.LogError(ctx, "OAuth code exchange failed", err)
		return "", "", "", "", apperrors.ErrUnauthorized
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", "", "", "", fmt.Errorf("no id_token in oauth response")
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID)
	if err != nil {
		s.LogError(ctx, "ID token validation failed", err)
		return "", "", "", "", apperrors.ErrUnauthorized
	}

	email, _ := payload.Claims["email"].(string)
	prenom, _ := payload.Claims["given_name"].(string)
	nom, _ := payload.Claims["family_name"].(string)
	if email == "" {
		return "", "", "", "", fmt.Errorf("id token carries no email claim")
	}
	return email, payload.Subject, prenom, nom, nil
}
