package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

type catalogueService struct {
	BaseService
	catalogueRepo  portsrepo.CatalogueRepository
	competenceRepo portsrepo.CompetenceRepository
	profilRepo     portsrepo.ProfilRepository
	journal        portssvc.JournalService
}

var _ portssvc.CatalogueService = (*catalogueService)(nil)

// NewCatalogueService creates the catalog/competence service.
func NewCatalogueService(
	catalogueRepo portsrepo.CatalogueRepository,
	competenceRepo portsrepo.CompetenceRepository,
	profilRepo portsrepo.ProfilRepository,
	journal portssvc.JournalService,
) portssvc.CatalogueService {
	return &catalogueService{
		BaseService:    newBaseService("catalogue"),
		catalogueRepo:  catalogueRepo,
		competenceRepo: competenceRepo,
		profilRepo:     profilRepo,
		journal:        journal,
	}
}

func (s *catalogueService) ListTypesFormation(ctx context.Context, tenantID *string) ([]domain.TypeFormation, error) {
	return s.catalogueRepo.ListTypesFormation(ctx, tenantID)
}

func (s *catalogueService) ListSpecialisations(ctx context.Context, typeFormationID string) ([]domain.Specialisation, error) {
	return s.catalogueRepo.ListSpecialisationsByType(ctx, typeFormationID)
}

func (s *catalogueService) ListCatalogue(ctx context.Context, profil *domain.ProfilUtilisateur, includeInactive bool) ([]domain.TenantFormation, error) {
	if profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	return s.catalogueRepo.ListTenantFormations(ctx, *profil.TenantID, includeInactive)
}

func (s *catalogueService) AddTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.AddTenantFormationRequest) (*domain.TenantFormation, error) {
	if !profil.Role.CanManageTenant() || profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	tenantID := *profil.TenantID
	now := time.Now()

	var typeFormationID string
	switch {
	case req.TypeFormationID != nil && req.TypeAutre == nil:
		tf, err := s.catalogueRepo.GetTypeFormationByID(ctx, *req.TypeFormationID)
		if err != nil {
			return nil, err
		}
		if tf.CreatedByTenantID != nil && *tf.CreatedByTenantID != tenantID {
			return nil, apperrors.ErrNotFound
		}
		typeFormationID = tf.TypeFormationID
	case req.TypeAutre != nil && req.TypeFormationID == nil:
		created, err := s.createCustomType(ctx, tenantID, profil.UserID, *req.TypeAutre, now)
		if err != nil {
			return nil, err
		}
		typeFormationID = created.TypeFormationID
	default:
		return nil, apperrors.NewValidationFailedError("exactly one of typeFormationId and typeAutre must be set")
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
		if spec.TypeFormationID != typeFormationID {
			return nil, apperrors.NewValidationFailedError("specialisation " + spec.Code + " belongs to another training family")
		}
	}

	// an identical specialisation set for the same family is a duplicate offer
	existing, err := s.catalogueRepo.ListTenantFormations(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].TypeFormationID != typeFormationID {
			continue
		}
		if sameStringSet(uniqueSorted(existing[i].SpecialisationIDs), specIDs) {
			return nil, apperrors.NewConflictError("an offer with this exact specialisation set already exists")
		}
	}

	tf := &domain.TenantFormation{
		TenantFormationID: uuid.NewString(),
		TenantID:          tenantID,
		TypeFormationID:   typeFormationID,
		NomPackage:        req.NomPackage,
		Tarif:             req.Tarif,
		Actif:             true,
		SpecialisationIDs: specIDs,
	}
	tf.Stamp(profil.UserID, now)
	if err := s.catalogueRepo.CreateTenantFormation(ctx, tf); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionCreation,
		Description:   "offre catalogue ajoutée: " + req.NomPackage,
		ObjetConcerne: "tenant_formation:" + tf.TenantFormationID,
	})
	return tf, nil
}

func (s *catalogueService) createCustomType(ctx context.Context, tenantID string, userID string, req dto.CustomTypeFormationRequest, now time.Time) (*domain.TypeFormation, error) {
	code := fmt.Sprintf("CUSTOM_%s_%s", tenantID[:8], strings.ToUpper(strings.TrimSpace(req.Code)))
	tf := &domain.TypeFormation{
		TypeFormationID:   uuid.NewString(),
		Code:              code,
		Nom:               req.Nom,
		TitreOfficiel:     req.TitreOfficiel,
		DureeValiditeMois: req.DureeValiditeMois,
		CreatedByTenantID: &tenantID,
	}
	tf.Stamp(userID, now)
	if err := s.catalogueRepo.CreateTypeFormation(ctx, tf); err != nil {
		return nil, err
	}
	return tf, nil
}

func (s *catalogueService) ToggleTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, tenantFormationID string, actif bool) error {
	tf, err := s.ownedTenantFormation(ctx, profil, tenantFormationID)
	if err != nil {
		return err
	}
	return s.catalogueRepo.SetTenantFormationActif(ctx, tf.TenantFormationID, actif, profil.UserID)
}

func (s *catalogueService) DeleteTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, tenantFormationID string) error {
	tf, err := s.ownedTenantFormation(ctx, profil, tenantFormationID)
	if err != nil {
		return err
	}
	if err := s.catalogueRepo.DeleteTenantFormation(ctx, tf.TenantID, tf.TenantFormationID); err != nil {
		return err
	}
	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionSuppression,
		Description:   "offre catalogue supprimée: " + tf.NomPackage,
		ObjetConcerne: "tenant_formation:" + tf.TenantFormationID,
	})
	return nil
}

// ownedTenantFormation loads the catalog entry and hides entries belonging
// to other tenants behind a not-found.
func (s *catalogueService) ownedTenantFormation(ctx context.Context, profil *domain.ProfilUtilisateur, tenantFormationID string) (*domain.TenantFormation, error) {
	if !profil.Role.CanManageTenant() || profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	tf, err := s.catalogueRepo.GetTenantFormationByID(ctx, tenantFormationID)
	if err != nil {
		return nil, err
	}
	if tf.TenantID != *profil.TenantID && profil.Role != domain.RoleSuperAdmin {
		return nil, apperrors.ErrNotFound
	}
	return tf, nil
}

// SyncFormateurCompetences reconciles a trainer's competence rows against the
// target specialisation set: newly selected codes are created or reactivated,
// deselected ones are deactivated. Rows are never deleted.
func (s *catalogueService) SyncFormateurCompetences(ctx context.Context, profil *domain.ProfilUtilisateur, formateurProfilID string, specialisationIDs []string) (*domain.SyncCompetencesResult, error) {
	if !profil.Role.CanManageTenant() && profil.ProfilID != formateurProfilID {
		return nil, apperrors.ErrForbidden
	}

	formateur, err := s.profilRepo.GetProfilByID(ctx, formateurProfilID)
	if err != nil {
		return nil, err
	}
	if formateur.Role != domain.RoleFormateur {
		return nil, apperrors.NewValidationFailedError("profile is not a trainer")
	}

	target := make(map[string]struct{}, len(specialisationIDs))
	for _, id := range specialisationIDs {
		if _, err := s.catalogueRepo.GetSpecialisationByID(ctx, id); err != nil {
			return nil, apperrors.NewValidationFailedError("unknown specialisation " + id)
		}
		target[id] = struct{}{}
	}

	existing, err := s.competenceRepo.ListCompetencesByFormateur(ctx, formateurProfilID)
	if err != nil {
		return nil, err
	}

	result := &domain.SyncCompetencesResult{}
	now := time.Now()
	seen := make(map[string]struct{}, len(existing))

	for i := range existing {
		comp := &existing[i]
		seen[comp.SpecialisationID] = struct{}{}
		_, wanted := target[comp.SpecialisationID]
		switch {
		case wanted && comp.Actif:
			result.Unchanged++
		case wanted && !comp.Actif:
			if err := s.competenceRepo.SetCompetenceActif(ctx, comp.CompetenceID, true, profil.UserID); err != nil {
				return nil, err
			}
			result.Reactivated++
		case !wanted && comp.Actif:
			if err := s.competenceRepo.SetCompetenceActif(ctx, comp.CompetenceID, false, profil.UserID); err != nil {
				return nil, err
			}
			result.Deactivated++
		}
	}

	for specID := range target {
		if _, ok := seen[specID]; ok {
			continue
		}
		comp := &domain.FormateurCompetence{
			CompetenceID:      uuid.NewString(),
			FormateurProfilID: formateurProfilID,
			SpecialisationID:  specID,
			Actif:             true,
		}
		comp.Stamp(profil.UserID, now)
		if err := s.competenceRepo.CreateCompetence(ctx, comp); err != nil {
			return nil, err
		}
		result.Added++
	}

	s.LogInfo(ctx, "Trainer competences synchronized",
		"formateur_profil_id", formateurProfilID,
		"added", result.Added, "reactivated", result.Reactivated, "deactivated", result.Deactivated)
	return result, nil
}

func uniqueSorted(ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
