package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) CreateInvitation(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateInvitationRequest) (*domain.InvitationEntreprise, string, error) {
	args := m.Called(ctx, profil, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.InvitationEntreprise), args.String(1), args.Error(2)
}

func (m *MockInvitationService) ListInvitations(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.InvitationEntreprise, error) {
	args := m.Called(ctx, profil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvitationEntreprise), args.Error(1)
}

func (m *MockInvitationService) RevokeInvitation(ctx context.Context, profil *domain.ProfilUtilisateur, invitationID string) error {
	args := m.Called(ctx, profil, invitationID)
	return args.Error(0)
}

func (m *MockInvitationService) PreviewInvitation(ctx context.Context, token string) (*domain.InvitationEntreprise, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvitationEntreprise), args.Error(1)
}

func (m *MockInvitationService) AcceptInvitation(ctx context.Context, req dto.AcceptInvitationRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.InvitationService = (*MockInvitationService)(nil)

type PublicInvitationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockInvitationService
}

func (suite *PublicInvitationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockService = new(MockInvitationService)
	registerPublicRoutes(suite.router, &portssvc.ServiceContainer{Invitation: suite.mockService})
}

func (suite *PublicInvitationHandlerTestSuite) TestPreviewInvitation_ReturnsContactWithoutToken() {
	expiresAt := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	suite.mockService.On("PreviewInvitation", mock.Anything, "tok-123").Return(&domain.InvitationEntreprise{
		InvitationID: "inv-1",
		EmailContact: "resp@acme-industrie.fr",
		Token:        "hashed-never-shown",
		Statut:       domain.InvitationPending,
		ExpiresAt:    expiresAt,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/public/invitations/tok-123", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("resp@acme-industrie.fr", body["emailContact"])
	suite.Equal(expiresAt.Format(time.RFC3339), body["expiresAt"])
	suite.NotContains(w.Body.String(), "hashed-never-shown")
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PublicInvitationHandlerTestSuite) TestPreviewInvitation_UnknownTokenIs404() {
	suite.mockService.On("PreviewInvitation", mock.Anything, "gone").
		Return(nil, apperrors.NewNotFoundError("invitation not found"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/public/invitations/gone", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PublicInvitationHandlerTestSuite) TestAcceptInvitation_CreatesAccount() {
	suite.mockService.On("AcceptInvitation", mock.Anything, mock.MatchedBy(func(req dto.AcceptInvitationRequest) bool {
		return req.Token == "tok-123" && req.Username == "acme_resp"
	})).Return(&domain.User{
		UserID:   "user-1",
		Username: "acme_resp",
		Email:    "resp@acme-industrie.fr",
		Nom:      "Durand",
		Prenom:   "Claire",
	}, nil)

	payload, _ := json.Marshal(dto.AcceptInvitationRequest{
		Token:    "tok-123",
		Username: "acme_resp",
		Password: "password123",
		Nom:      "Durand",
		Prenom:   "Claire",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/public/invitations/accept", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("acme_resp", body["username"])
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PublicInvitationHandlerTestSuite) TestAcceptInvitation_UsedTokenIsConflict() {
	suite.mockService.On("AcceptInvitation", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("invitation has already been used"))

	payload, _ := json.Marshal(dto.AcceptInvitationRequest{
		Token:    "tok-123",
		Username: "acme_resp",
		Password: "password123",
		Nom:      "Durand",
		Prenom:   "Claire",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/public/invitations/accept", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PublicInvitationHandlerTestSuite) TestAcceptInvitation_MissingFieldsIs400() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/public/invitations/accept", bytes.NewReader([]byte(`{"token":"tok-123"}`)))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "AcceptInvitation")
}

func TestPublicInvitationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PublicInvitationHandlerTestSuite))
}
