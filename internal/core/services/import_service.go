package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	portsrepo "github.com/oxalis-saas/habilitations_backend/internal/core/ports/repositories"
	portssvc "github.com/oxalis-saas/habilitations_backend/internal/core/ports/services"
	"github.com/oxalis-saas/habilitations_backend/internal/dto"
)

type importService struct {
	BaseService
	stagiaireRepo  portsrepo.StagiaireRepository
	entrepriseRepo portsrepo.EntrepriseRepository
	catalogueRepo  portsrepo.CatalogueRepository
	demandeRepo    portsrepo.DemandeRepository
	tenantRepo     portsrepo.TenantRepository
	journal        portssvc.JournalService
}

var _ portssvc.ImportService = (*importService)(nil)

// NewImportService creates the trainee CSV import service.
func NewImportService(
	stagiaireRepo portsrepo.StagiaireRepository,
	entrepriseRepo portsrepo.EntrepriseRepository,
	catalogueRepo portsrepo.CatalogueRepository,
	demandeRepo portsrepo.DemandeRepository,
	tenantRepo portsrepo.TenantRepository,
	journal portssvc.JournalService,
) portssvc.ImportService {
	return &importService{
		BaseService:    newBaseService("import"),
		stagiaireRepo:  stagiaireRepo,
		entrepriseRepo: entrepriseRepo,
		catalogueRepo:  catalogueRepo,
		demandeRepo:    demandeRepo,
		tenantRepo:     tenantRepo,
		journal:        journal,
	}
}

// csvRow is one parsed line of the import contract.
type csvRow struct {
	entreprise         string
	email              string
	nom                string
	prenom             string
	codeSpecialisation string
}

// ImportStagiairesCSV parses the upload and, unless dryRun, creates the
// missing companies, trainees and per-row training requests. Row failures
// accumulate in the result; only an unreadable upload fails the batch.
func (s *importService) ImportStagiairesCSV(ctx context.Context, profil *domain.ProfilUtilisateur, r io.Reader, dryRun bool) (*dto.ImportResult, error) {
	if !profil.Role.CanManageTenant() {
		return nil, apperrors.ErrForbidden
	}
	if profil.TenantID == nil {
		return nil, apperrors.ErrForbidden
	}
	tenant, err := s.tenantRepo.GetTenantByID(ctx, *profil.TenantID)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidationFailedError("file is empty or not a readable CSV")
	}
	cols := indexColumns(header)
	if _, ok := cols["entreprise"]; !ok {
		return nil, apperrors.NewValidationFailedError("missing required column: entreprise")
	}
	if _, ok := cols["email"]; !ok {
		return nil, apperrors.NewValidationFailedError("missing required column: email")
	}

	result := &dto.ImportResult{DryRun: dryRun, Erreurs: []dto.ImportRowError{}}
	ligne := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ligne++
		if err != nil {
			result.Erreurs = append(result.Erreurs, dto.ImportRowError{Ligne: ligne, Erreur: "ligne illisible: " + err.Error()})
			continue
		}
		result.LignesTraitees++

		row := csvRow{
			entreprise:         field(record, cols, "entreprise"),
			email:              strings.ToLower(field(record, cols, "email")),
			nom:                field(record, cols, "nom"),
			prenom:             field(record, cols, "prenom"),
			codeSpecialisation: strings.ToUpper(field(record, cols, "code_specialisation")),
		}
		if row.entreprise == "" || row.email == "" {
			result.Erreurs = append(result.Erreurs, dto.ImportRowError{Ligne: ligne, Erreur: "entreprise et email sont obligatoires"})
			continue
		}
		if !strings.Contains(row.email, "@") {
			result.Erreurs = append(result.Erreurs, dto.ImportRowError{Ligne: ligne, Erreur: "email invalide: " + row.email})
			continue
		}

		var spec *domain.Specialisation
		if row.codeSpecialisation != "" {
			spec, err = s.findSpecialisation(ctx, *profil.TenantID, row.codeSpecialisation)
			if err != nil {
				result.Erreurs = append(result.Erreurs, dto.ImportRowError{Ligne: ligne, Erreur: "code spécialisation inconnu: " + row.codeSpecialisation})
				continue
			}
		}

		if dryRun {
			continue
		}
		if err := s.importRow(ctx, profil, tenant, row, spec, result); err != nil {
			result.Erreurs = append(result.Erreurs, dto.ImportRowError{Ligne: ligne, Erreur: err.Error()})
		}
	}

	if !dryRun {
		s.journal.Log(ctx, &domain.Journal{
			UserID:        &profil.UserID,
			Action:        domain.ActionImport,
			Description:   fmt.Sprintf("import CSV: %d lignes, %d stagiaires créés, %d erreurs", result.LignesTraitees, result.StagiairesCrees, len(result.Erreurs)),
			ObjetConcerne: "tenant:" + tenant.TenantID,
		})
	}
	return result, nil
}

func (s *importService) findSpecialisation(ctx context.Context, tenantID string, code string) (*domain.Specialisation, error) {
	types, err := s.catalogueRepo.ListTypesFormation(ctx, &tenantID)
	if err != nil {
		return nil, err
	}
	for i := range types {
		spec, err := s.catalogueRepo.GetSpecialisationByCode(ctx, types[i].TypeFormationID, code)
		if err == nil {
			return spec, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *importService) importRow(ctx context.Context, profil *domain.ProfilUtilisateur, tenant *domain.Tenant, row csvRow, spec *domain.Specialisation, result *dto.ImportResult) error {
	entreprise, created, err := s.entrepriseRepo.GetOrCreateClient(ctx, row.entreprise, tenant.TenantID, profil.UserID)
	if err != nil {
		return fmt.Errorf("entreprise: %w", err)
	}
	if created {
		result.EntreprisesCreees++
	}

	now := time.Now()
	stagiaire := &domain.Stagiaire{
		StagiaireID:          uuid.NewString(),
		OrganismeFormationID: tenant.EntrepriseOFID,
		EntrepriseID:         &entreprise.EntrepriseID,
		TenantID:             &tenant.TenantID,
		Nom:                  row.nom,
		Prenom:               row.prenom,
		Email:                row.email,
		Actif:                true,
	}
	stagiaire.Stamp(profil.UserID, now)
	stagiaire, created, err = s.stagiaireRepo.GetOrCreateStagiaire(ctx, stagiaire)
	if err != nil {
		return fmt.Errorf("stagiaire: %w", err)
	}
	if created {
		result.StagiairesCrees++
	}

	if spec == nil {
		return nil
	}

	demande := &domain.DemandeFormation{
		DemandeID:              uuid.NewString(),
		EntrepriseDemandeuseID: entreprise.EntrepriseID,
		OrganismeFormationID:   tenant.EntrepriseOFID,
		TenantID:               &tenant.TenantID,
		TypeFormationID:        spec.TypeFormationID,
		Statut:                 domain.DemandeEnAttente,
		Type:                   domain.DemandeIntra,
		Lieu:                   domain.LieuChezOF,
		TarifPropose:           decimal.Zero,
		CommentaireDemande:     "créée par import CSV",
		DemandeurProfilID:      profil.ProfilID,
		SpecialisationIDs:      []string{spec.SpecialisationID},
		StagiaireIDs:           []string{stagiaire.StagiaireID},
	}
	demande.Stamp(profil.UserID, now)
	if err := s.demandeRepo.CreateDemande(ctx, demande, nil); err != nil {
		return fmt.Errorf("demande: %w", err)
	}
	result.DemandesCreees++
	return nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
