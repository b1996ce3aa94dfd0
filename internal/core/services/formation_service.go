package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

type formationService struct {
	BaseService
	formationRepo portsrepo.FormationRepository
	sessionRepo   portsrepo.SessionRepository
	stagiaireRepo portsrepo.StagiaireRepository
	journal       portssvc.JournalService
}

var _ portssvc.FormationService = (*formationService)(nil)

// NewFormationService creates the course/validation service.
func NewFormationService(
	formationRepo portsrepo.FormationRepository,
	sessionRepo portsrepo.SessionRepository,
	stagiaireRepo portsrepo.StagiaireRepository,
	journal portssvc.JournalService,
) portssvc.FormationService {
	return &formationService{
		BaseService:   newBaseService("formation"),
		formationRepo: formationRepo,
		sessionRepo:   sessionRepo,
		stagiaireRepo: stagiaireRepo,
		journal:       journal,
	}
}

// visibleFormation loads a formation and checks it against the caller's
// trainee scope: whoever may see the trainee may see the course.
func (s *formationService) visibleFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) (*domain.Formation, error) {
	scope := ScopeForStagiaires(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	formation, err := s.formationRepo.GetFormationByID(ctx, formationID)
	if err != nil {
		return nil, err
	}
	if scope.Kind != domain.ScopeAll {
		if _, err := s.stagiaireRepo.GetStagiaireByID(ctx, scope, formation.StagiaireID); err != nil {
			return nil, apperrors.ErrNotFound
		}
	}
	return formation, nil
}

func (s *formationService) GetFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) (*domain.Formation, error) {
	return s.visibleFormation(ctx, profil, formationID)
}

func (s *formationService) ListFormations(ctx context.Context, profil *domain.ProfilUtilisateur) ([]domain.Formation, error) {
	scope := ScopeForStagiaires(profil)
	if scope.IsNone() {
		return []domain.Formation{}, nil
	}
	return s.formationRepo.ListFormations(ctx, scope)
}

func (s *formationService) ListFormationsBySession(ctx context.Context, profil *domain.ProfilUtilisateur, sessionID string) ([]domain.Formation, error) {
	scope := ScopeForSessions(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	session, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if scope.Kind == domain.ScopeTenant && session.TenantID != scope.TenantID {
		return nil, apperrors.ErrNotFound
	}
	if scope.Kind == domain.ScopeFormateur {
		assigned := false
		for _, fid := range session.FormateurProfilIDs {
			if fid == scope.ProfilID {
				assigned = true
				break
			}
		}
		if !assigned {
			return nil, apperrors.ErrNotFound
		}
	}
	return s.formationRepo.ListFormationsBySession(ctx, session.SessionID)
}

// TerminerFormation completes a course: the status flip and the real end
// date land in the same update.
func (s *formationService) TerminerFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) error {
	return s.transition(ctx, profil, formationID, domain.FormationCompletee)
}

func (s *formationService) AbandonnerFormation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) error {
	return s.transition(ctx, profil, formationID, domain.FormationAbandonnee)
}

func (s *formationService) transition(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string, cible domain.StatutFormation) error {
	if !profil.Role.CanManageTenant() && profil.Role != domain.RoleFormateur {
		return apperrors.ErrForbidden
	}
	formation, err := s.visibleFormation(ctx, profil, formationID)
	if err != nil {
		return err
	}
	if !formation.Statut.PeutTransitionner(cible) {
		return apperrors.NewConflictError(fmt.Sprintf("formation cannot move from %s to %s", formation.Statut, cible))
	}

	now := time.Now()
	var dateFinReelle *time.Time
	if cible == domain.FormationCompletee {
		dateFinReelle = &now
	}
	if err := s.formationRepo.UpdateFormationStatut(ctx, formation.FormationID, cible, dateFinReelle, profil.UserID); err != nil {
		return err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionModification,
		Description:   "formation " + string(cible),
		ObjetConcerne: "formation:" + formation.FormationID,
	})
	return nil
}

func (s *formationService) ListValidations(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) ([]domain.ValidationCompetence, error) {
	formation, err := s.visibleFormation(ctx, profil, formationID)
	if err != nil {
		return nil, err
	}
	return s.formationRepo.ListValidationsByFormation(ctx, formation.FormationID)
}

// SetValidation toggles one competency validation, creating the record on
// first use.
func (s *formationService) SetValidation(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string, req dto.SetValidationRequest) (*domain.ValidationCompetence, error) {
	if !profil.Role.CanManageTenant() && profil.Role != domain.RoleFormateur {
		return nil, apperrors.ErrForbidden
	}
	formation, err := s.visibleFormation(ctx, profil, formationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.formationRepo.ListValidationsByFormation(ctx, formation.FormationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	var validation *domain.ValidationCompetence
	for i := range existing {
		if existing[i].SpecialisationID == req.SpecialisationID {
			validation = &existing[i]
			break
		}
	}

	if validation == nil {
		validation = &domain.ValidationCompetence{
			ValidationID:     uuid.NewString(),
			FormationID:      formation.FormationID,
			SpecialisationID: req.SpecialisationID,
		}
		validation.Stamp(profil.UserID, now)
	}

	validation.Valide = req.Valide
	validation.Commentaires = req.Commentaires
	if req.Valide {
		validation.ValidateurProfilID = &profil.ProfilID
		validation.DateValidation = &now
	} else {
		validation.ValidateurProfilID = nil
		validation.DateValidation = nil
	}
	validation.Touch(profil.UserID, now)

	if validation.CreatedAt.Equal(now) {
		err = s.formationRepo.CreateValidation(ctx, validation)
	} else {
		err = s.formationRepo.UpdateValidation(ctx, validation)
	}
	if err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionValidation,
		Description:   fmt.Sprintf("validation compétence %s: %t", req.SpecialisationID, req.Valide),
		ObjetConcerne: "formation:" + formation.FormationID,
	})
	return validation, nil
}

func (s *formationService) UpsertAvis(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string, req dto.AvisFormationRequest) (*domain.AvisFormation, error) {
	if !profil.Role.CanManageTenant() && profil.Role != domain.RoleFormateur {
		return nil, apperrors.ErrForbidden
	}
	formation, err := s.visibleFormation(ctx, profil, formationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	avis := &domain.AvisFormation{
		AvisID:             uuid.NewString(),
		FormationID:        formation.FormationID,
		Avis:               req.Avis,
		Observations:       req.Observations,
		PointsForts:        req.PointsForts,
		PointsAmelioration: req.PointsAmelioration,
		FormateurNom:       req.FormateurNom,
	}
	avis.Stamp(profil.UserID, now)

	if err := s.formationRepo.UpsertAvis(ctx, avis); err != nil {
		return nil, err
	}
	return avis, nil
}
