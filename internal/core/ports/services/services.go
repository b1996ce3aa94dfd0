package services

import (
	"context"
	"io"
	"time"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

// AuthService handles account creation and credential verification.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username string, password string) (*domain.User, error)
	// LoginWithGoogle finds or creates the account bound to a verified Google
	// identity.
	LoginWithGoogle(ctx context.Context, email string, providerID string, nom string, prenom string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenService issues and validates access and refresh tokens.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID string) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error)
	// ValidateRefreshToken checks the presented token against the stored hash
	// and returns the account it belongs to.
	ValidateRefreshToken(ctx context.Context, token string) (*domain.User, error)
	ClearRefreshToken(ctx context.Context, userID string) error
}

// GoogleOAuthService drives the Google sign-in redirect flow.
type GoogleOAuthService interface {
	GetLoginURL(state string) string
	GenerateStateString() (string, error)
	// ExchangeCode validates the callback code and returns the verified
	// identity (email, subject, given/family name).
	ExchangeCode(ctx context.Context, code string) (email string, subject string, prenom string, nom string, err error)
}

// ProfilService resolves and provisions user profiles.
type ProfilService interface {
	// GetProfil returns the caller's profile. ErrProfilUnprovisioned when the
	// account exists without one.
	GetProfil(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error)
	// EnsureProfil returns the existing profile or creates the default
	// stagiaire one. Idempotent.
	EnsureProfil(ctx context.Context, userID string) (*domain.ProfilUtilisateur, error)
	// ProvisionOFAccount creates the caller's training organization, tenant
	// and admin_of profile in one transaction.
	ProvisionOFAccount(ctx context.Context, userID string, req dto.ProvisionOFRequest) (*domain.Tenant, error)
}

// TenantService resolves tenants from hosts and profiles.
type TenantService interface {
	// ResolveTenantFromHost maps a request Host to a tenant: dedicated domain
	// first, then <slug>.<site domain>. Nil when nothing matches.
	ResolveTenantFromHost(ctx context.Context, host string) (*domain.Tenant, error)
	// ResolveTenantForProfil walks the profile fallback chain: own tenant,
	// tenant owned by the profile's company, tenant the company belongs to.
	ResolveTenantForProfil(ctx context.Context, profil *domain.ProfilUtilisateur) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// EntrepriseService manages companies within the caller's scope.
type EntrepriseService interface {
	ListClients(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.Entreprise, error)
	GetEntreprise(ctx context.Context, profil *domain.ProfilUtilisateur, entrepriseID string) (*domain.Entreprise, error)
	CreateClient(ctx context.Context, profil *domain.ProfilUtilisateur, nom string, email string) (*domain.Entreprise, error)
}

// StagiaireService manages trainees within the caller's scope.
type StagiaireService interface {
	CreateStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateStagiaireRequest) (*domain.Stagiaire, error)
	GetStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, stagiaireID string) (*domain.Stagiaire, error)
	ListStagiaires(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.Stagiaire, error)
	UpdateStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, stagiaireID string, req dto.UpdateStagiaireRequest) (*domain.Stagiaire, error)
}

// CatalogueService manages the per-tenant training catalog and trainer
// competences.
type CatalogueService interface {
	ListTypesFormation(ctx context.Context, tenantID *string) ([]domain.TypeFormation, error)
	ListSpecialisations(ctx context.Context, typeFormationID string) ([]domain.Specialisation, error)
	ListCatalogue(ctx context.Context, profil *domain.ProfilUtilisateur, includeInactive bool) ([]domain.TenantFormation, error)
	AddTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.AddTenantFormationRequest) (*domain.TenantFormation, error)
	ToggleTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, tenantFormationID string, actif bool) error
	DeleteTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, tenantFormationID string) error
	// SyncFormateurCompetences makes the trainer's active competence set equal
	// the target: create missing, reactivate inactive, deactivate deselected.
	// Nothing is ever deleted.
	SyncFormateurCompetences(ctx context.Context, profil *domain.ProfilUtilisateur, formateurProfilID string, specialisationIDs []string) (*domain.SyncCompetencesResult, error)
}

// SessionService manages training sessions.
type SessionService interface {
	CreateSession(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateSessionRequest) (*domain.SessionFormation, error)
	GetSession(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, profil *domain.ProfilUtilisateur, statut *domain.StatutSession) ([]domain.SessionFormation, error)
	ChangeStatut(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string, statut domain.StatutSession) error
	EnrollStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string, stagiaireID string) error
	// FormateurHasCompetences checks every assigned trainer against every
	// session specialisation. Empty trainer or specialisation sets yield the
	// configured default.
	FormateurHasCompetences(ctx context.Context, session *domain.SessionFormation) (bool, error)
}

// DemandeService manages company and independent training requests.
type DemandeService interface {
	CreateDemande(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateDemandeRequest, ip string, userAgent string) (*domain.DemandeFormation, error)
	GetDemande(ctx context.Context, profil *domain.ProfilUtilisateur, demandeID string) (*domain.DemandeFormation, error)
	ListDemandes(ctx context.Context, profil *domain.ProfilUtilisateur, statut *domain.StatutDemande) ([]domain.DemandeFormation, error)
	TraiterDemande(ctx context.Context, profil *domain.ProfilUtilisateur, demandeID string, req dto.TraiterDemandeRequest) (*domain.DemandeFormation, error)
	CreateSessionFromDemande(ctx context.Context, profil *domain.ProfilUtilisateur, demandeID string, req dto.CreateSessionFromDemandeRequest) (*domain.SessionFormation, error)

	CreateDemandeStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateDemandeStagiaireRequest, ip string, userAgent string) (*domain.DemandeStagiaire, error)
	ListDemandesStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, statut *domain.StatutDemandeStagiaire) ([]domain.DemandeStagiaire, error)
	TraiterDemandeStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, demandeStagiaireID string, req dto.TraiterDemandeStagiaireRequest) (*domain.DemandeStagiaire, error)
}

// FormationService manages courses, validations and opinions.
type FormationService interface {
	GetFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) (*domain.Formation, error)
	ListFormations(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.Formation, error)
	ListFormationsBySession(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string) ([]domain.Formation, error)
	TerminerFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) error
	AbandonnerFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) error
	ListValidations(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) ([]domain.ValidationCompetence, error)
	SetValidation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string, req dto.SetValidationRequest) (*domain.ValidationCompetence, error)
	UpsertAvis(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string, req dto.AvisFormationRequest) (*domain.AvisFormation, error)
}

// TitreService manages certificates, renewals and the PDF export.
type TitreService interface {
	DelivrerTitre(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) (*domain.Titre, error)
	GetTitre(ctx context.Context, profil *domain.ProfilUtilisateur, titreID string) (*dto.TitreResponse, error)
	ListTitres(ctx context.Context, profil *domain.ProfilUtilisateur) ([]dto.TitreResponse, error)
	PlanifierRenouvellement(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.PlanifierRenouvellementRequest) (*domain.RenouvellementHabilitation, error)
	EffectuerRenouvellement(ctx context.Context, profil *domain.ProfilUtilisateur, renouvellementID string) (*domain.RenouvellementHabilitation, error)
	// RenderTitrePDF writes the certificate PDF. contentType reports
	// application/pdf, or text/plain when the renderer failed and the plain
	// fallback was written instead.
	RenderTitrePDF(ctx context.Context, profil *domain.ProfilUtilisateur, titreID string, w io.Writer) (contentType string, err error)
}

// InvitationService manages client company onboarding invitations.
type InvitationService interface {
	CreateInvitation(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateInvitationRequest) (*domain.InvitationEntreprise, string, error)
	ListInvitations(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.InvitationEntreprise, error)
	RevokeInvitation(ctx context.Context, profil *domain.ProfilUtilisateur, invitationID string) error
	// PreviewInvitation is the public token lookup shown before acceptance.
	PreviewInvitation(ctx context.Context, token string) (*domain.InvitationEntreprise, error)
	AcceptInvitation(ctx context.Context, req dto.AcceptInvitationRequest) (*domain.User, error)
}

// ImportService runs the trainee CSV import.
type ImportService interface {
	ImportStagiairesCSV(ctx context.Context, profil *domain.ProfilUtilisateur, r io.Reader, dryRun bool) (*dto.ImportResult, error)
}

// DashboardService builds the role-specific landing counters.
type DashboardService interface {
	DashboardFor(ctx context.Context, profil *domain.ProfilUtilisateur) (any, error)
}

// JournalService appends to and reads the action log.
type JournalService interface {
	Log(ctx context.Context, entry *domain.Journal)
	ListJournal(ctx context.Context, profil *domain.ProfilUtilisateur, before time.Time, limit int) ([]domain.Journal, error)
}

// ServiceContainer aggregates every service the handlers need.
type ServiceContainer struct {
	Auth        AuthService
	Token       TokenService
	GoogleOAuth GoogleOAuthService
	Profil      ProfilService
	Tenant      TenantService
	Entreprise  EntrepriseService
	Stagiaire   StagiaireService
	Catalogue   CatalogueService
	Session     SessionService
	Demande     DemandeService
	Formation   FormationService
	Titre       TitreService
	Invitation  InvitationService
	Import      ImportService
	Dashboard   DashboardService
	Journal     JournalService
}
