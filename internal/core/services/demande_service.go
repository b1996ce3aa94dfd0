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
)

type demandeService struct {
	BaseService
	demandeRepo    portsrepo.DemandeRepository
	demandeStgRepo portsrepo.DemandeStagiaireRepository
	stagiaireRepo  portsrepo.StagiaireRepository
	catalogueRepo  portsrepo.CatalogueRepository
	entrepriseRepo portsrepo.EntrepriseRepository
	tenantRepo     portsrepo.TenantRepository
	sessionRepo    portsrepo.SessionRepository
	journal        portssvc.JournalService
}

var _ portssvc.DemandeService = (*demandeService)(nil)

// NewDemandeService creates the training request service.
func NewDemandeService(
	demandeRepo portsrepo.DemandeRepository,
	demandeStgRepo portsrepo.DemandeStagiaireRepository,
	stagiaireRepo portsrepo.StagiaireRepository,
	catalogueRepo portsrepo.CatalogueRepository,
	entrepriseRepo portsrepo.EntrepriseRepository,
	tenantRepo portsrepo.TenantRepository,
	sessionRepo portsrepo.SessionRepository,
	journal portssvc.JournalService,
) portssvc.DemandeService {
	return &demandeService{
		BaseService:    newBaseService("demande"),
		demandeRepo:    demandeRepo,
		demandeStgRepo: demandeStgRepo,
		stagiaireRepo:  stagiaireRepo,
		catalogueRepo:  catalogueRepo,
		entrepriseRepo: entrepriseRepo,
		tenantRepo:     tenantRepo,
		sessionRepo:    sessionRepo,
		journal:        journal,
	}
}

func (s *demandeService) CreateDemande(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateDemandeRequest, ip string, userAgent string) (*domain.DemandeFormation, error) {
	if profil.Role != domain.RoleResponsablePME && profil.Role != domain.RoleSuperAdmin {
		return nil, apperrors.ErrForbidden
	}
	if profil.EntrepriseID == nil {
		return nil, apperrors.ErrForbidden
	}
	if !req.Consentement {
		return nil, apperrors.NewValidationFailedError("consent is required")
	}

	entreprise, err := s.entrepriseRepo.GetEntrepriseByID(ctx, *profil.EntrepriseID)
	if err != nil {
		return nil, err
	}
	if entreprise.TenantID == nil {
		return nil, apperrors.NewValidationFailedError("company is attached to no training organization")
	}
	tenant, err := s.tenantRepo.GetTenantByID(ctx, *entreprise.TenantID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalogueRepo.GetTypeFormationByID(ctx, req.TypeFormationID); err != nil {
		return nil, apperrors.NewValidationFailedError("unknown training family")
	}
	specIDs := uniqueSorted(req.SpecialisationIDs)
	if len(specIDs) == 0 {
		return nil, apperrors.NewValidationFailedError("at least one specialisation is required")
	}
	for _, specID := range specIDs {
		spec, err := s.catalogueRepo.GetSpecialisationByID(ctx, specID)
		if err != nil {
			return nil, apperrors.NewValidationFailedError("unknown specialisation " + specID)
		}
		if spec.TypeFormationID != req.TypeFormationID {
			return nil, apperrors.NewValidationFailedError("specialisation " + spec.Code + " belongs to another training family")
		}
	}

	// every requested trainee must belong to the caller's company
	stagiaireIDs := uniqueSorted(req.StagiaireIDs)
	if len(stagiaireIDs) == 0 {
		return nil, apperrors.NewValidationFailedError("at least one trainee is required")
	}
	scope := ScopeForStagiaires(profil)
	for _, id := range stagiaireIDs {
		if _, err := s.stagiaireRepo.GetStagiaireByID(ctx, scope, id); err != nil {
			return nil, apperrors.NewValidationFailedError("trainee " + id + " is not part of your company")
		}
	}

	now := time.Now()
	demande := &domain.DemandeFormation{
		DemandeID:              uuid.NewString(),
		EntrepriseDemandeuseID: entreprise.EntrepriseID,
		OrganismeFormationID:   tenant.EntrepriseOFID,
		TenantID:               entreprise.TenantID,
		TypeFormationID:        req.TypeFormationID,
		Statut:                 domain.DemandeEnAttente,
		Type:                   req.Type,
		Lieu:                   req.Lieu,
		DateSouhaitee:          req.DateSouhaitee,
		TarifPropose:           req.TarifPropose,
		CommentaireDemande:     req.Commentaire,
		DemandeurProfilID:      profil.ProfilID,
		SpecialisationIDs:      specIDs,
		StagiaireIDs:           stagiaireIDs,
		ConsentementInfo: domain.ConsentementInfo{
			ConsentementAt:        &now,
			ConsentementIP:        ip,
			ConsentementUserAgent: userAgent,
		},
	}
	demande.Stamp(profil.UserID, now)

	consent := &domain.Consentement{
		ConsentementID: uuid.NewString(),
		UserID:         &profil.UserID,
		DemandeID:      &demande.DemandeID,
		TenantID:       entreprise.TenantID,
		Scope:          "demande_formation",
		IP:             ip,
		UserAgent:      userAgent,
		CreatedAt:      now,
	}

	if err := s.demandeRepo.CreateDemande(ctx, demande, consent); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  &entreprise.EntrepriseID,
		Action:        domain.ActionCreation,
		Description:   fmt.Sprintf("demande de formation créée (%d stagiaires)", len(stagiaireIDs)),
		ObjetConcerne: "demande:" + demande.DemandeID,
	})
	return demande, nil
}

func (s *demandeService) GetDemande(ctx context.Context, profil *domain.ProfilUtilisateur, demandeID string) (*domain.DemandeFormation, error) {
	scope := ScopeForDemandes(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	return s.demandeRepo.GetDemandeByID(ctx, scope, demandeID)
}

func (s *demandeService) ListDemandes(ctx context.Context, profil *domain.ProfilUtilisateur, statut *domain.StatutDemande) ([]domain.DemandeFormation, error) {
	scope := ScopeForDemandes(profil)
	if scope.IsNone() {
		return []domain.DemandeFormation{}, nil
	}
	return s.demandeRepo.ListDemandes(ctx, scope, statut)
}

func (s *demandeService) TraiterDemande(ctx context.Context, profil *domain.ProfilUtilisateur, demandeID string, req dto.TraiterDemandeRequest) (*domain.DemandeFormation, error) {
	demande, err := s.GetDemande(ctx, profil, demandeID)
	if err != nil {
		return nil, err
	}

	var cible domain.StatutDemande
	switch req.Action {
	case "approuver":
		cible = domain.DemandeApprouvee
	case "refuser":
		cible = domain.DemandeRefusee
	case "annuler":
		cible = domain.DemandeAnnulee
	default:
		return nil, apperrors.NewValidationFailedError("unknown action " + req.Action)
	}

	// approval and refusal are OF decisions; cancellation belongs to the
	// requesting company
	switch cible {
	case domain.DemandeApprouvee, domain.DemandeRefusee:
		if !profil.Role.CanManageTenant() {
			return nil, apperrors.ErrForbidden
		}
	case domain.DemandeAnnulee:
		if profil.Role != domain.RoleResponsablePME && !profil.Role.CanManageTenant() {
			return nil, apperrors.ErrForbidden
		}
	}

	if demande.SessionCreeeID != nil {
		return nil, apperrors.NewConflictError("request already has a session")
	}
	if !demande.Statut.PeutTransitionner(cible) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("request cannot move from %s to %s", demande.Statut, cible))
	}

	now := time.Now()
	demande.Statut = cible
	demande.CommentaireReponse = req.Commentaire
	demande.TraiteParProfilID = &profil.ProfilID
	demande.DateTraitement = &now
	demande.Touch(profil.UserID, now)

	if err := s.demandeRepo.UpdateDemandeTraitement(ctx, demande); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  &demande.EntrepriseDemandeuseID,
		Action:        domain.ActionModification,
		Description:   "demande " + string(cible),
		ObjetConcerne: "demande:" + demande.DemandeID,
	})
	return demande, nil
}

// CreateSessionFromDemande turns an approved request into a planned session
// with one in-progress formation per (trainee, specialisation) pair, all in
// one transaction.
func (s *demandeService) CreateSessionFromDemande(ctx context.Context, profil *domain.ProfilUtilisateur, demandeID string, req dto.CreateSessionFromDemandeRequest) (*domain.SessionFormation, error) {
	if !profil.Role.CanManageTenant() || profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	demande, err := s.GetDemande(ctx, profil, demandeID)
	if err != nil {
		return nil, err
	}
	if demande.Statut != domain.DemandeApprouvee {
		return nil, apperrors.NewConflictError("only approved requests can become sessions")
	}
	if demande.SessionCreeeID != nil {
		return nil, apperrors.NewConflictError("request already has a session")
	}
	if req.DateFin.Before(req.DateDebut) {
		return nil, apperrors.NewValidationFailedError("end date precedes start date")
	}
	if req.NombrePlaces < len(demande.StagiaireIDs) {
		return nil, apperrors.NewValidationFailedError("capacity is below the requested trainee count")
	}

	now := time.Now()
	tenantID := *profil.TenantID
	if demande.TenantID != nil {
		tenantID = *demande.TenantID
	}
	session := &domain.SessionFormation{
		SessionID:          uuid.NewString(),
		NumeroSession:      NumeroSession(now),
		TenantID:           tenantID,
		TypeFormationID:    demande.TypeFormationID,
		DateDebut:          req.DateDebut,
		DateFin:            req.DateFin,
		Lieu:               req.Lieu,
		Statut:             domain.SessionPlanifiee,
		NombrePlaces:       req.NombrePlaces,
		SpecialisationIDs:  demande.SpecialisationIDs,
		FormateurProfilIDs: uniqueSorted(req.FormateurProfilIDs),
	}
	session.Stamp(profil.UserID, now)

	formations := make([]domain.Formation, 0, len(demande.StagiaireIDs)*len(demande.SpecialisationIDs))
	for _, stagiaireID := range demande.StagiaireIDs {
		formations = append(formations, buildFormationsForSession(session, stagiaireID, profil.UserID, now)...)
	}

	if err := s.demandeRepo.CreateSessionFromDemande(ctx, demande, session, formations); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		EntrepriseID:  &demande.EntrepriseDemandeuseID,
		Action:        domain.ActionCreation,
		Description:   fmt.Sprintf("session %s créée depuis la demande (%d formations)", session.NumeroSession, len(formations)),
		ObjetConcerne: "session:" + session.SessionID,
	})
	return session, nil
}

func (s *demandeService) CreateDemandeStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.CreateDemandeStagiaireRequest, ip string, userAgent string) (*domain.DemandeStagiaire, error) {
	if !req.Consentement {
		return nil, apperrors.NewValidationFailedError("consent is required")
	}

	var existant *domain.Stagiaire
	if req.StagiaireExistantID != nil {
		var err error
		existant, err = s.stagiaireRepo.GetStagiaireByID(ctx, ScopeForStagiaires(profil), *req.StagiaireExistantID)
		if err != nil {
			return nil, err
		}
	} else if req.Nom == "" || req.Prenom == "" || req.Email == "" {
		return nil, apperrors.NewValidationFailedError("trainee identity (nom, prenom, email) is required")
	}

	typeFormation, err := s.catalogueRepo.GetTypeFormationByID(ctx, req.TypeFormationID)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("unknown training family")
	}

	now := time.Now()
	demande := &domain.DemandeStagiaire{
		DemandeStagiaireID: uuid.NewString(),
		TypeFormationID:    typeFormation.TypeFormationID,
		EstRenouvellement:  req.EstRenouvellement,
		TitreRenouvelleID:  req.TitreRenouvelleID,
		Statut:             domain.DemandeStagiaireEnAttente,
		Nom:                req.Nom,
		Prenom:             req.Prenom,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Telephone:          req.Telephone,
		SpecialisationIDs:  uniqueSorted(req.SpecialisationIDs),
		ConsentementInfo: domain.ConsentementInfo{
			ConsentementAt:        &now,
			ConsentementIP:        ip,
			ConsentementUserAgent: userAgent,
		},
	}
	if existant != nil {
		demande.StagiaireExistantID = &existant.StagiaireID
		demande.OrganismeFormationID = existant.OrganismeFormationID
		demande.TenantID = existant.TenantID
		demande.Nom = existant.Nom
		demande.Prenom = existant.Prenom
		demande.Email = existant.Email
	} else if profil.TenantID != nil {
		tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
		if err == nil {
			demande.OrganismeFormationID = tenant.EntrepriseOFID
			demande.TenantID = profil.TenantID
		}
	}
	if demande.OrganismeFormationID == "" {
		return nil, apperrors.NewValidationFailedError("no training organization can be determined for this request")
	}
	demande.Stamp(profil.UserID, now)

	consent := &domain.Consentement{
		ConsentementID: uuid.NewString(),
		UserID:         &profil.UserID,
		StagiaireID:    demande.StagiaireExistantID,
		TenantID:       demande.TenantID,
		Scope:          "demande_stagiaire",
		IP:             ip,
		UserAgent:      userAgent,
		CreatedAt:      now,
	}

	if err := s.demandeStgRepo.CreateDemandeStagiaire(ctx, demande, consent); err != nil {
		return nil, err
	}
	return demande, nil
}

func (s *demandeService) ListDemandesStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, statut *domain.StatutDemandeStagiaire) ([]domain.DemandeStagiaire, error) {
	scope := ScopeForDemandes(profil)
	if scope.IsNone() {
		return []domain.DemandeStagiaire{}, nil
	}
	return s.demandeStgRepo.ListDemandesStagiaire(ctx, scope, statut)
}

func (s *demandeService) TraiterDemandeStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, demandeStagiaireID string, req dto.TraiterDemandeStagiaireRequest) (*domain.DemandeStagiaire, error) {
	if !profil.Role.CanManageTenant() {
		return nil, apperrors.ErrForbidden
	}
	demande, err := s.demandeStgRepo.GetDemandeStagiaireByID(ctx, demandeStagiaireID)
	if err != nil {
		return nil, err
	}
	if profil.Role != domain.RoleSuperAdmin && profil.TenantID != nil && demande.TenantID != nil && *demande.TenantID != *profil.TenantID {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now()
	switch req.Action {
	case "valider":
		if !demande.Statut.PeutTransitionner(domain.DemandeStagiaireValidee) {
			return nil, apperrors.NewConflictError("request cannot be validated in its current state")
		}
		demande.Statut = domain.DemandeStagiaireValidee
	case "refuser":
		if !demande.Statut.PeutTransitionner(domain.DemandeStagiaireRefusee) {
			return nil, apperrors.NewConflictError("request cannot be refused in its current state")
		}
		demande.Statut = domain.DemandeStagiaireRefusee
	case "integrer":
		return s.integrerDemandeStagiaire(ctx, profil, demande, req.SessionID, now)
	default:
		return nil, apperrors.NewValidationFailedError("unknown action " + req.Action)
	}

	demande.Touch(profil.UserID, now)
	if err := s.demandeStgRepo.UpdateDemandeStagiaire(ctx, demande); err != nil {
		return nil, err
	}
	return demande, nil
}

// integrerDemandeStagiaire assigns a validated independent request to a
// session: the trainee is found or created by email, then enrolled.
func (s *demandeService) integrerDemandeStagiaire(ctx context.Context, profil *domain.ProfilUtilisateur, demande *domain.DemandeStagiaire, sessionID *string, now time.Time) (*domain.DemandeStagiaire, error) {
	if !demande.Statut.PeutTransitionner(domain.DemandeStagiaireIntegree) {
		return nil, apperrors.NewConflictError("request must be validated before integration")
	}
	if sessionID == nil {
		return nil, apperrors.NewValidationFailedError("sessionId is required for integration")
	}
	session, err := s.sessionRepo.GetSessionByID(ctx, *sessionID)
	if err != nil {
		return nil, err
	}
	if profil.Role != domain.RoleSuperAdmin && profil.TenantID != nil && session.TenantID != *profil.TenantID {
		return nil, apperrors.ErrNotFound
	}

	stagiaire := &domain.Stagiaire{
		StagiaireID:          uuid.NewString(),
		OrganismeFormationID: demande.OrganismeFormationID,
		TenantID:             demande.TenantID,
		Nom:                  demande.Nom,
		Prenom:               demande.Prenom,
		Email:                demande.Email,
		Telephone:            demande.Telephone,
		Actif:                true,
	}
	stagiaire.Stamp(profil.UserID, now)
	if demande.StagiaireExistantID != nil {
		stagiaire.StagiaireID = *demande.StagiaireExistantID
	}

	formations := buildFormationsForSession(session, stagiaire.StagiaireID, profil.UserID, now)

	demande.Statut = domain.DemandeStagiaireIntegree
	demande.SessionAssigneeID = &session.SessionID
	demande.StagiaireCreeID = &stagiaire.StagiaireID
	demande.Touch(profil.UserID, now)

	if err := s.demandeStgRepo.IntegrerDemandeStagiaire(ctx, demande, stagiaire, formations); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionModification,
		Description:   "demande stagiaire intégrée à la session " + session.NumeroSession,
		ObjetConcerne: "demande_stagiaire:" + demande.DemandeStagiaireID,
	})
	return demande, nil
}
