package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalis-saas/habilitations_backend/internal/apperrors"
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
	"github.com/oxalis-saas/habilitations_backend/internal/utils/pdf"
)

func testTitreService(titreRepo *MockTitreRepository, catalogueRepo *MockCatalogueRepository, stagiaireRepo *MockStagiaireRepository) *titreService {
	if titreRepo == nil {
		titreRepo = &MockTitreRepository{}
	}
	if catalogueRepo == nil {
		catalogueRepo = &MockCatalogueRepository{}
	}
	if stagiaireRepo == nil {
		stagiaireRepo = &MockStagiaireRepository{}
	}
	svc := NewTitreService(titreRepo, &MockFormationRepository{}, catalogueRepo, stagiaireRepo, NewJournalService(newTestJournal()))
	return svc.(*titreService)
}

func titreAdminProfil() *domain.ProfilUtilisateur {
	tenantID := "ten-1"
	return &domain.ProfilUtilisateur{ProfilID: "p-admin", UserID: "u-admin", Role: domain.RoleAdminOF, TenantID: &tenantID, Actif: true}
}

func renewalCatalogue() *MockCatalogueRepository {
	return &MockCatalogueRepository{
		GetSpecialisationByIDFn: func(ctx context.Context, id string) (*domain.Specialisation, error) {
			return &domain.Specialisation{SpecialisationID: id, TypeFormationID: "tf-1", Code: "BR", DureeValiditeMois: 12}, nil
		},
		GetTypeFormationByIDFn: func(ctx context.Context, id string) (*domain.TypeFormation, error) {
			return &domain.TypeFormation{TypeFormationID: id, DureeValiditeMois: 36}, nil
		},
	}
}

func TestEffectuerRenouvellement_ReissuesOnSameFormation(t *testing.T) {
	ancien := &domain.Titre{
		TitreID:          "t-old",
		FormationID:      "f-1",
		StagiaireID:      "st-1",
		SpecialisationID: "spec-br",
		NumeroTitre:      "TITRE-2024-AAAA",
		Statut:           domain.TitreDelivre,
	}

	var captured struct {
		ancienTitreID  string
		nouveau        *domain.Titre
		renouvellement *domain.RenouvellementHabilitation
		calls          int
	}
	titreRepo := &MockTitreRepository{
		GetRenouvellementByIDFn: func(ctx context.Context, id string) (*domain.RenouvellementHabilitation, error) {
			return &domain.RenouvellementHabilitation{RenouvellementID: id, TitrePrecedentID: "t-old", Statut: domain.RenouvellementPlanifie}, nil
		},
		GetTitreByIDFn: func(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error) {
			return ancien, nil
		},
		RenouvelerTitreFn: func(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, r *domain.RenouvellementHabilitation) error {
			captured.ancienTitreID = ancienTitreID
			captured.nouveau = nouveau
			captured.renouvellement = r
			captured.calls++
			return nil
		},
		// The renewal must go through the single transactional write, never
		// through a standalone insert.
		CreateTitreFn: func(ctx context.Context, titre *domain.Titre) error {
			t.Fatal("CreateTitre must not be called during a renewal")
			return nil
		},
	}

	svc := testTitreService(titreRepo, renewalCatalogue(), nil)
	r, err := svc.EffectuerRenouvellement(context.Background(), titreAdminProfil(), "ren-1")
	require.NoError(t, err)

	require.Equal(t, 1, captured.calls)
	assert.Equal(t, "t-old", captured.ancienTitreID)
	require.NotNil(t, captured.nouveau)
	assert.Equal(t, "f-1", captured.nouveau.FormationID)
	assert.Equal(t, "st-1", captured.nouveau.StagiaireID)
	assert.Equal(t, "spec-br", captured.nouveau.SpecialisationID)
	assert.Equal(t, domain.TitreDelivre, captured.nouveau.Statut)
	assert.NotEqual(t, ancien.NumeroTitre, captured.nouveau.NumeroTitre)
	assert.Equal(t, captured.nouveau.DateDelivrance.AddDate(0, 12, 0), captured.nouveau.DateExpiration)

	assert.Same(t, r, captured.renouvellement)
	assert.Equal(t, domain.RenouvellementFait, r.Statut)
	require.NotNil(t, r.NouveauTitreID)
	assert.Equal(t, captured.nouveau.TitreID, *r.NouveauTitreID)
	require.NotNil(t, r.DateRenouvellementReelle)
}

func TestEffectuerRenouvellement_ClosedRenewalIsConflict(t *testing.T) {
	titreRepo := &MockTitreRepository{
		GetRenouvellementByIDFn: func(ctx context.Context, id string) (*domain.RenouvellementHabilitation, error) {
			return &domain.RenouvellementHabilitation{RenouvellementID: id, TitrePrecedentID: "t-old", Statut: domain.RenouvellementFait}, nil
		},
		RenouvelerTitreFn: func(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, r *domain.RenouvellementHabilitation) error {
			t.Fatal("RenouvelerTitre must not be called for a closed renewal")
			return nil
		},
	}

	svc := testTitreService(titreRepo, renewalCatalogue(), nil)
	_, err := svc.EffectuerRenouvellement(context.Background(), titreAdminProfil(), "ren-1")
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.StatusCode(err))
}

func TestEffectuerRenouvellement_RepositoryConflictSurfaces(t *testing.T) {
	titreRepo := &MockTitreRepository{
		GetRenouvellementByIDFn: func(ctx context.Context, id string) (*domain.RenouvellementHabilitation, error) {
			return &domain.RenouvellementHabilitation{RenouvellementID: id, TitrePrecedentID: "t-old", Statut: domain.RenouvellementPlanifie}, nil
		},
		GetTitreByIDFn: func(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error) {
			return &domain.Titre{TitreID: titreID, FormationID: "f-1", StagiaireID: "st-1", SpecialisationID: "spec-br", Statut: domain.TitreDelivre}, nil
		},
		RenouvelerTitreFn: func(ctx context.Context, ancienTitreID string, nouveau *domain.Titre, r *domain.RenouvellementHabilitation) error {
			return apperrors.NewConflictError("titre has already been renewed")
		},
	}

	svc := testTitreService(titreRepo, renewalCatalogue(), nil)
	_, err := svc.EffectuerRenouvellement(context.Background(), titreAdminProfil(), "ren-1")
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.StatusCode(err))
}

func renderFixtures() (*MockTitreRepository, *MockStagiaireRepository) {
	titreRepo := &MockTitreRepository{
		GetTitreByIDFn: func(ctx context.Context, scope domain.AccessScope, titreID string) (*domain.Titre, error) {
			return &domain.Titre{
				TitreID:          titreID,
				StagiaireID:      "st-1",
				SpecialisationID: "spec-br",
				NumeroTitre:      "TITRE-2026-BBBB",
				DateDelivrance:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
				DateExpiration:   time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
				Statut:           domain.TitreDelivre,
			}, nil
		},
	}
	stagiaireRepo := &MockStagiaireRepository{
		GetStagiaireByIDFn: func(ctx context.Context, scope domain.AccessScope, stagiaireID string) (*domain.Stagiaire, error) {
			return &domain.Stagiaire{StagiaireID: stagiaireID, Nom: "Durand", Prenom: "Claire"}, nil
		},
	}
	return titreRepo, stagiaireRepo
}

func TestRenderTitrePDF_WritesPDF(t *testing.T) {
	titreRepo, stagiaireRepo := renderFixtures()
	svc := testTitreService(titreRepo, renewalCatalogue(), stagiaireRepo)

	var out bytes.Buffer
	contentType, err := svc.RenderTitrePDF(context.Background(), titreAdminProfil(), "t-1", &out)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(out.String(), "%PDF"))
}

func TestRenderTitrePDF_FallbackOutputHoldsNoPDFBytes(t *testing.T) {
	titreRepo, stagiaireRepo := renderFixtures()
	svc := testTitreService(titreRepo, renewalCatalogue(), stagiaireRepo)
	svc.renderPDF = func(w io.Writer, doc pdf.TitreDocument) error {
		_, _ = w.Write([]byte("%PDF-partial-garbage"))
		return errors.New("font load failed")
	}

	var out bytes.Buffer
	contentType, err := svc.RenderTitrePDF(context.Background(), titreAdminProfil(), "t-1", &out)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
	assert.NotContains(t, out.String(), "%PDF")
	assert.True(t, strings.HasPrefix(out.String(), "TITRE D'HABILITATION"))
	assert.Contains(t, out.String(), "TITRE-2026-BBBB")
}
