package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
	"github.com/oxalis-saas/habilitations_backend/internal/utils"
	"github.com/oxalis-saas/habilitations_backend/internal/utils/pdf"
)

type titreService struct {
	BaseService
	titreRepo     portsrepo.TitreRepository
	formationRepo portsrepo.FormationRepository
	catalogueRepo portsrepo.CatalogueRepository
	stagiaireRepo portsrepo.StagiaireRepository
	journal       portssvc.JournalService
	renderPDF     func(w io.Writer, doc pdf.TitreDocument) error
}

var _ portssvc.TitreService = (*titreService)(nil)

// NewTitreService creates the certificate service.
func NewTitreService(
	titreRepo portsrepo.TitreRepository,
	formationRepo portsrepo.FormationRepository,
	catalogueRepo portsrepo.CatalogueRepository,
	stagiaireRepo portsrepo.StagiaireRepository,
	journal portssvc.JournalService,
) portssvc.TitreService {
	return &titreService{
		BaseService:   newBaseService("titre"),
		titreRepo:     titreRepo,
		formationRepo: formationRepo,
		catalogueRepo: catalogueRepo,
		stagiaireRepo: stagiaireRepo,
		journal:       journal,
		renderPDF:     pdf.RenderTitre,
	}
}

// NumeroTitre builds a human-readable unique certificate number.
func NumeroTitre(now time.Time) string {
	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		suffix = uuid.NewString()[:8]
	}
	return fmt.Sprintf("TITRE-%d-%s", now.Year(), strings.ToUpper(suffix))
}

// DelivrerTitre issues the certificate of a completed formation. The expiry
// comes from the specialisation's effective validity months.
func (s *titreService) DelivrerTitre(ctx context.Context, profil *domain.ProfilUtilisateur, formationID string) (*domain.Titre, error) {
	if !profil.Role.CanManageTenant() {
		return nil, apperrors.ErrForbidden
	}
	formation, err := s.formationRepo.GetFormationByID(ctx, formationID)
	if err != nil {
		return nil, err
	}
	if formation.Statut != domain.FormationCompletee {
		return nil, apperrors.NewConflictError("only completed formations can yield a certificate")
	}
	if _, err := s.titreRepo.GetTitreByFormation(ctx, formation.FormationID); err == nil {
		return nil, apperrors.NewConflictError("formation already has a certificate")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	spec, err := s.catalogueRepo.GetSpecialisationByID(ctx, formation.SpecialisationID)
	if err != nil {
		return nil, err
	}
	typeFormation, err := s.catalogueRepo.GetTypeFormationByID(ctx, spec.TypeFormationID)
	if err != nil {
		return nil, err
	}
	moisValidite := spec.DureeValiditeEffective(typeFormation.DureeValiditeMois)
	if moisValidite <= 0 {
		moisValidite = 36
	}

	now := time.Now()
	delivrance := now
	if formation.DateFinReelle != nil {
		delivrance = *formation.DateFinReelle
	}
	titre := &domain.Titre{
		TitreID:          uuid.NewString(),
		FormationID:      formation.FormationID,
		StagiaireID:      formation.StagiaireID,
		SpecialisationID: formation.SpecialisationID,
		NumeroTitre:      NumeroTitre(now),
		DateDelivrance:   delivrance,
		DateExpiration:   delivrance.AddDate(0, moisValidite, 0),
		Statut:           domain.TitreDelivre,
		DelivreParID:     &profil.ProfilID,
	}
	titre.Stamp(profil.UserID, now)

	if err := s.titreRepo.CreateTitre(ctx, titre); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionDelivrance,
		Description:   "titre délivré: " + titre.NumeroTitre,
		ObjetConcerne: "titre:" + titre.TitreID,
	})
	return titre, nil
}

func (s *titreService) GetTitre(ctx context.Context, profil *domain.ProfilUtilisateur, titreID string) (*dto.TitreResponse, error) {
	scope := ScopeForTitres(profil)
	if scope.IsNone() {
		return nil, apperrors.ErrNotFound
	}
	titre, err := s.titreRepo.GetTitreByID(ctx, scope, titreID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToTitreResponse(titre, time.Now())
	return &resp, nil
}

func (s *titreService) ListTitres(ctx context.Context, profil *domain.ProfilUtilisateur) ([]dto.TitreResponse, error) {
	scope := ScopeForTitres(profil)
	if scope.IsNone() {
		return []dto.TitreResponse{}, nil
	}
	titres, err := s.titreRepo.ListTitres(ctx, scope)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.TitreResponse, 0, len(titres))
	for i := range titres {
		out = append(out, dto.ToTitreResponse(&titres[i], now))
	}
	return out, nil
}

func (s *titreService) PlanifierRenouvellement(ctx context.Context, profil *domain.ProfilUtilisateur, req dto.PlanifierRenouvellementRequest) (*domain.RenouvellementHabilitation, error) {
	if !profil.Role.CanManageTenant() {
		return nil, apperrors.ErrForbidden
	}
	scope := ScopeForTitres(profil)
	titre, err := s.titreRepo.GetTitreByID(ctx, scope, req.TitreID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &domain.RenouvellementHabilitation{
		RenouvellementID:         uuid.NewString(),
		TitrePrecedentID:         titre.TitreID,
		DateRenouvellementPrevue: req.DateRenouvellementPrevue,
		Statut:                   domain.RenouvellementPlanifie,
	}
	r.Stamp(profil.UserID, now)
	if err := s.titreRepo.CreateRenouvellement(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// EffectuerRenouvellement closes a planned renewal: the old titre flips to
// renouvele and a fresh titre is issued on the same formation lineage.
func (s *titreService) EffectuerRenouvellement(ctx context.Context, profil *domain.ProfilUtilisateur, renouvellementID string) (*domain.RenouvellementHabilitation, error) {
	if !profil.Role.CanManageTenant() {
		return nil, apperrors.ErrForbidden
	}
	r, err := s.titreRepo.GetRenouvellementByID(ctx, renouvellementID)
	if err != nil {
		return nil, err
	}
	if r.Statut == domain.RenouvellementFait || r.Statut == domain.RenouvellementExpire {
		return nil, apperrors.NewConflictError("renewal is already closed")
	}

	scope := ScopeForTitres(profil)
	ancien, err := s.titreRepo.GetTitreByID(ctx, scope, r.TitrePrecedentID)
	if err != nil {
		return nil, err
	}

	spec, err := s.catalogueRepo.GetSpecialisationByID(ctx, ancien.SpecialisationID)
	if err != nil {
		return nil, err
	}
	typeFormation, err := s.catalogueRepo.GetTypeFormationByID(ctx, spec.TypeFormationID)
	if err != nil {
		return nil, err
	}
	moisValidite := spec.DureeValiditeEffective(typeFormation.DureeValiditeMois)
	if moisValidite <= 0 {
		moisValidite = 36
	}

	now := time.Now()
	nouveau := &domain.Titre{
		TitreID:          uuid.NewString(),
		FormationID:      ancien.FormationID,
		StagiaireID:      ancien.StagiaireID,
		SpecialisationID: ancien.SpecialisationID,
		NumeroTitre:      NumeroTitre(now),
		DateDelivrance:   now,
		DateExpiration:   now.AddDate(0, moisValidite, 0),
		Statut:           domain.TitreDelivre,
		DelivreParID:     &profil.ProfilID,
	}
	nouveau.Stamp(profil.UserID, now)

	r.Statut = domain.RenouvellementFait
	r.DateRenouvellementReelle = &now
	r.NouveauTitreID = &nouveau.TitreID
	r.Touch(profil.UserID, now)
	if err := s.titreRepo.RenouvelerTitre(ctx, ancien.TitreID, nouveau, r); err != nil {
		return nil, err
	}

	s.journal.Log(ctx, &domain.Journal{
		UserID:        &profil.UserID,
		Action:        domain.ActionDelivrance,
		Description:   fmt.Sprintf("titre %s renouvelé par %s", ancien.NumeroTitre, nouveau.NumeroTitre),
		ObjetConcerne: "titre:" + nouveau.TitreID,
	})
	return r, nil
}

// RenderTitrePDF writes the certificate document. When the PDF renderer
// fails, a plain-text payload with the same fields is written instead and
// text/plain is reported.
func (s *titreService) RenderTitrePDF(ctx context.Context, profil *domain.ProfilUtilisateur, titreID string, w io.Writer) (string, error) {
	scope := ScopeForTitres(profil)
	if scope.IsNone() {
		return "", apperrors.ErrNotFound
	}
	titre, err := s.titreRepo.GetTitreByID(ctx, scope, titreID)
	if err != nil {
		return "", err
	}
	stagiaire, err := s.stagiaireRepo.GetStagiaireByID(ctx, domain.ScopeAllRows(), titre.StagiaireID)
	if err != nil {
		return "", err
	}
	spec, err := s.catalogueRepo.GetSpecialisationByID(ctx, titre.SpecialisationID)
	if err != nil {
		return "", err
	}

	doc := pdf.TitreDocument{
		NumeroTitre:        titre.NumeroTitre,
		StagiaireNom:       stagiaire.Nom,
		StagiairePrenom:    stagiaire.Prenom,
		SpecialisationCode: spec.Code,
		SpecialisationNom:  spec.Nom,
		DateDelivrance:     titre.DateDelivrance,
		DateExpiration:     titre.DateExpiration,
		EstValide:          titre.EstValide(time.Now()),
	}
	// Render into a scratch buffer so a mid-render failure never leaves
	// partial PDF bytes in front of the text fallback.
	var buf bytes.Buffer
	if err := s.renderPDF(&buf, doc); err != nil {
		s.LogWarn(ctx, "PDF rendering failed, falling back to plain text", "titre_id", titre.TitreID, "error", err.Error())
		if err := pdf.RenderTitreText(w, doc); err != nil {
			return "", err
		}
		return "text/plain; charset=utf-8", nil
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return "", err
	}
	return "application/pdf", nil
}
