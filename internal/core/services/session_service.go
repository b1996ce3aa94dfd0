package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/platform/config"
	"github.com/oxalis-saas/habilitations_backend/internal/utils"
)

type sessionService struct {
	BaseService
	cfg            *config.Config
	sessionRepo    portsrepo.SessionRepository
	catalogueRepo  portsrepo.CatalogueRepository
	competenceRepo portsrepo.CompetenceRepository
	stagiaireRepo  portsrepo.StagiaireRepository
	profilRepo     portsrepo.ProfilRepository
	journal        portssvc.JournalService
}

var _ portssvc.SessionService = (*sessionService)(nil)

// NewSessionService creates the training session service.
func NewSessionService(
	cfg *config.Config,
	sessionRepo portsrepo.SessionRepository,
	catalogueRepo portsrepo.CatalogueRepository,
	competenceRepo portsrepo.CompetenceRepository,
	stagiaireRepo portsrepo.StagiaireRepository,
	profilRepo portsrepo.ProfilRepository,
	journal portssvc.JournalService,
) portssvc.SessionService {
	return &sessionService{
		BaseService:    newBaseService("session"),
		cfg:            cfg,
		sessionRepo:    sessionRepo,
		catalogueRepo:  catalogueRepo,
		competenceRepo: competenceRepo,
		stagiaireRepo:  stagiaireRepo,
		profilRepo:     profilRepo,
		journal:        journal,
	}
}

// NumeroSession builds a human-readable unique session number.
func NumeroSession(now time.Time) string {
	suffix, err := utils.GenerateSecureRandomString(3)
	if err != nil {
		suffix = uuid.NewString()[:6]
	}
	return fmt.Sprintf("SES-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}

func (s *sessionService) CreateSession(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateSessionRequest) (*domain.SessionFormation, error) {
	if !profil.Role.CanManageTenant() || profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	if req.DateFin.Before(req.DateDebut) {
		return nil, apperrors.NewValidationFailedError("end date precedes start date")
	}

	typeFormation, err := s.catalogueRepo.GetTypeFormationByID(ctx, req.TypeFormationID)
	if err != nil {
		return nil, err
	}
	specIDs := uniqueSorted(req.SpecialisationIDs)
	for _, specID := range specIDs {
		spec, err := s.catalogueRepo.GetSpecialisationByID(ctx, specID)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("unknown specialisation " + specID)
		}
		if spec.TypeFormationID != typeFormation.TypeFormationID {
			return nil, apperrors.NewValidationFailedError("specialisation " + spec.Code + " belongs to another training family")
		}
	}
	for _, fid := range req.FormateurProfilIDs {
		fp, err := s.profilRepo.GetProfilByID(ctx, fid)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("unknown trainer profile " + fid)
		}
		if fp.Role != domain.RoleFormateur {
			return nil, apperrors.NewValidationFailedError("profile " + fid + " is not a trainer")
		}
	}

	now := time.Now()
	session := &domain.SessionFormation{
		SessionID:          uuid.NewString(),
		NumeroSession:      NumeroSession(now),
		TenantID:           *profil.TenantID,
		TypeFormationID:    typeFormation.TypeFormationID,
		DateDebut:          req.DateDebut,
		DateFin:            req.DateFin,
		Lieu:               req.Lieu,
		Statut:             domain.SessionPlanifiee,
		NombrePlaces:       req.NombrePlaces,
		SpecialisationIDs:  specIDs,
		FormateurProfilIDs: uniqueSorted(req.FormateurProfilIDs),
	}
	session.Stamp(profil.UserID, now)

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if ok, err := s.FormateurHasCompetences(ctx, session); err == nil && !ok {
		s.LogWarn(ctx, "Session created with trainers missing competences", "session_id", session.SessionID)
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionCreation,
		Description:   "session créée: " + session.NumeroSession,
		ObjetConcerne: "session:" + session.SessionID,
	})
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.visibleSession(ctx, profil, sessionID)
	if err != nil {
		return nil, err
	}
	inscrits, err := s.sessionRepo.CountInscrits(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	competencesOK, err := s.FormateurHasCompetences(ctx, session)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		SessionFormation:  *session,
		Inscrits:          inscrits,
		PlacesDisponibles: session.PlacesDisponibles(inscrits),
		CompetencesOK:     competencesOK,
	}, nil
}

func (s *sessionService) visibleSession(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string) (*domain.SessionFormation, error) {
	scope := ScopeForSessions(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	session, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch scope.Kind {
	case domain.ScopeAll:
	case domain.ScopeTenant:
		if session.TenantID != scope.TenantID {
			return nil, apperrors.ErrNotFound
		}
	case domain.ScopeFormateur:
		found := false
		for _, fid := range session.FormateurProfilIDs {
			if fid == scope.ProfilID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperrors.ErrNotFound
		}
	default:
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, profil *domain.ProfilUtilisateur, statut *domain.StatutSession) ([]domain.SessionFormation, error) {
	scope := ScopeForSessions(profil)
	if scope.IsNone() {
		return []domain.SessionFormation{}, nil
	}
	return s.sessionRepo.ListSessions(ctx, scope, statut)
}

func (s *sessionService) ChangeStatut(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string, statut domain.StatutSession) error {
	if !profil.Role.CanManageTenant() {
		return apperrors.ErrForbidden
	}
	session, err := s.visibleSession(ctx, profil, sessionID)
	if err != nil {
		return err
	}
	if !session.Statut.PeutTransitionner(statut) {
		return apperrors.NewConflictError(fmt.Sprintf("session cannot move from %s to %s", session.Statut, statut))
	}
	if err := s.sessionRepo.UpdateSessionStatut(ctx, session.SessionID, statut, profil.UserID); err != nil {
		return err
	}
	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionModification,
		Description:   fmt.Sprintf("session %s: %s → %s", session.NumeroSession, session.Statut, statut),
		ObjetConcerne: "session:" + session.SessionID,
	})
	return nil
}

// EnrollStagiaire creates one formation per session specialisation for the
// trainee. The repository locks the session row so the capacity check and
// the inserts are serialized.
func (s *sessionService) EnrollStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string, stagiaireID string) error {
	if !profil.Role.CanManageTenant() {
		return apperrors.ErrForbidden
	}
	session, err := s.visibleSession(ctx, profil, sessionID)
	if err != nil {
		return err
	}
	if session.Statut != domain.SessionPlanifiee && session.Statut != domain.SessionEnCours {
		return apperrors.NewConflictError("session no longer accepts enrollments")
	}

	stagiaireScope := ScopeForStagiaires(profil)
	stagiaire, err := s.stagiaireRepo.GetStagiaireByID(ctx, stagiaireScope, stagiaireID)
	if err != nil {
		return err
	}

	formations := buildFormationsForSession(session, stagiaire.StagiaireID, profil.UserID, time.Now())
	if len(formations) == 0 {
		return apperrors.NewValidationFailedError("session has no specialisations")
	}
	if err := s.sessionRepo.EnrollStagiaire(ctx, session.SessionID, formations); err != nil {
		return err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  stagiaire.EntrepriseID,
		Action:        domain.ActionModification,
		Description:   "stagiaire inscrit à la session " + session.NumeroSession,
		ObjetConcerne: "session:" + session.SessionID,
	})
	return nil
}

// buildFormationsForSession constructs the formation rows an enrollment
// creates: one per session specialisation, in progress, linked to the session.
func buildFormationsForSession(session *domain.SessionFormation, stagiaireID string, userID string, now time.Time) []domain.Formation {
	formations := make([]domain.Formation, 0, len(session.SpecialisationIDs))
	for _, specID := range session.SpecialisationIDs {
		f := domain.Formation{
			FormationID:      uuid.NewString(),
			StagiaireID:      stagiaireID,
			SpecialisationID: specID,
			SessionID:        &session.SessionID,
			Statut:           domain.FormationEnCours,
			DateDebut:        session.DateDebut,
			DateFinPrevue:    session.DateFin,
		}
		f.Stamp(userID, now)
		formations = append(formations, f)
	}
	return formations
}

// FormateurHasCompetences checks that every assigned trainer actively holds
// every session specialisation. Sessions with no trainers or no
// specialisations yield the configured default: permissive unless
// SESSION_FORMATEURS_REQUIS is set.
func (s *sessionService) FormateurHasCompetences(ctx context.Context, session *domain.SessionFormation) (bool, error) {
	if len(session.FormateurProfilIDs) == 0 || len(session.SpecialisationIDs) == 0 {
		return !s.cfg.SessionFormateursRequis, nil
	}

	held, err := s.competenceRepo.ListActiveCompetenceSpecIDs(ctx, session.FormateurProfilIDs)
	if err != nil {
		return false, err
	}
	for _, formateurID := range session.FormateurProfilIDs {
		specs := make(map[string]struct{}, len(held[formateurID]))
		for _, specID := range held[formateurID] {
			specs[specID] = struct{}{}
		}
		for _, specID := range session.SpecialisationIDs {
			if _, ok := specs[specID]; !ok {
				return false, nil
			}
		}
	}
	return true, nil
}
