package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
)

// authHandler handles authentication requests.
type authHandler struct {
	authService   portssvc.AuthService
	tokenService  portssvc.TokenService
	profilService portssvc.ProfilService
	oauthService  portssvc.GoogleOAuthService
	cfg           *config.Config
}

const oauthStateCookieName = "oauth_state"

// registerAuthRoutes sets up the public authentication routes. Login and
// refresh are rate limited per IP.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := &authHandler{
		authService:   services.Auth,
		tokenService:  services.Token,
		profilService: services.Profil,
		oauthService:  services.GoogleOAuth,
		cfg:           cfg,
	}

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	limitMiddleware := middleware.RateLimit(limiter.New(store, rate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/refresh", limitMiddleware, h.refresh)
		auth.POST("/logout", h.logout)
		auth.GET("/google/login", h.googleLogin)
		auth.GET("/google/callback", h.googleCallback)
	}
}

// register godoc
// @Summary Register a new account
// @Description Creates a user account. The default stagiaire profile is provisioned on first login.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user, nil))
}

// login godoc
// @Summary Password login
// @Description Verifies credentials, ensures a profile exists and returns an access token. The refresh token is set as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}
	h.issueTokens(c, user)
}

// refresh godoc
// @Summary Rotate the refresh token
// @Description Validates the refresh cookie and issues a new access token and refresh cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	raw, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "refresh token missing"})
		return
	}
	user, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), raw)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err, "Failed to validate refresh token")
		return
	}
	h.issueTokens(c, user)
}

// logout godoc
// @Summary Log out
// @Description Invalidates the stored refresh token and clears the cookie.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cfg.RefreshTokenCookieName); err == nil {
		if user, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), raw); err == nil {
			if err := h.tokenService.ClearRefreshToken(c.Request.Context(), user.UserID); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to clear refresh token", slog.String("error", err.Error()))
			}
		}
	}
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// googleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen. The CSRF state is kept in a short-lived cookie.
// @Tags auth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	state, err := h.oauthService.GenerateStateString()
	if err != nil {
		respondError(c, err, "Failed to start Google sign-in")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, state, 300, "/api/v1/auth/google", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.GetLoginURL(state))
}

// googleCallback godoc
// @Summary Google sign-in callback
// @Description Validates the state and code, finds or creates the account and returns the tokens.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *authHandler) googleCallback(c *gin.Context) {
	expectedState, err := c.Cookie(oauthStateCookieName)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid oauth state"})
		return
	}
	c.SetCookie(oauthStateCookieName, "", -1, "/api/v1/auth/google", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "authorization code missing"})
		return
	}
	email, subject, prenom, nom, err := h.oauthService.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to exchange authorization code")
		return
	}
	user, err := h.authService.LoginWithGoogle(c.Request.Context(), email, subject, nom, prenom)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}
	h.issueTokens(c, user)
}

// issueTokens writes the login response: access token in the body, refresh
// token in the HTTP-only cookie, profile ensured as a side effect.
func (h *authHandler) issueTokens(c *gin.Context, user *domain.User) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	profil, err := h.profilService.EnsureProfil(ctx, user.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrProfilUnprovisioned) {
		logger.Error("Failed to ensure profile at login", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user.UserID)
	if err != nil {
		respondError(c, err, "Failed to generate access token")
		return
	}
	refreshToken, refreshExpiresAt, err := h.tokenService.GenerateRefreshToken(ctx, user.UserID)
	if err != nil {
		respondError(c, err, "Failed to generate refresh token")
		return
	}

	maxAge := int(refreshExpiresAt.Sub(expiresAt).Seconds()) + int(h.cfg.JWTExpiryDuration.Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, refreshToken, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        dto.ToUserResponse(user, profil),
	})
}

func (h *authHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}
