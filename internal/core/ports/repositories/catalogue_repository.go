package repositories

import (
	"context"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// CatalogueRepository manages training families, specialisations and the
// per-tenant catalog.
type CatalogueRepository interface {
	// Training families. Listing is tenant-aware: global entries plus the
	// tenant's own custom ones.
	ListTypesFormation(ctx context.Context, tenantID *string) ([]domain.TypeFormation, error)
	GetTypeFormationByID(ctx context.Context, typeFormationID string) (*domain.TypeFormation, error)
	GetTypeFormationByCode(ctx context.Context, code string) (*domain.TypeFormation, error)
	CreateTypeFormation(ctx context.Context, typeFormation *domain.TypeFormation) error

	ListSpecialisationsByType(ctx context.Context, typeFormationID string) ([]domain.Specialisation, error)
	GetSpecialisationByID(ctx context.Context, specialisationID string) (*domain.Specialisation, error)
	GetSpecialisationByCode(ctx context.Context, typeFormationID string, code string) (*domain.Specialisation, error)
	CreateSpecialisation(ctx context.Context, specialisation *domain.Specialisation) error

	// Tenant catalog. CreateTenantFormation writes the entry and its
	// specialisation links in one transaction.
	ListTenantFormations(ctx context.Context, tenantID string, includeInactive bool) ([]domain.TenantFormation, error)
	GetTenantFormationByID(ctx context.Context, tenantFormationID string) (*domain.TenantFormation, error)
	CreateTenantFormation(ctx context.Context, tf *domain.TenantFormation) error
	SetTenantFormationActif(ctx context.Context, tenantFormationID string, actif bool, updatedBy string) error
	DeleteTenantFormation(ctx context.Context, tenantID string, tenantFormationID string) error
}

// CompetenceRepository manages trainer competences and OF assignments.
type CompetenceRepository interface {
	ListCompetencesByFormateur(ctx context.Context, formateurProfilID string) ([]domain.FormateurCompetence, error)
	CreateCompetence(ctx context.Context, competence *domain.FormateurCompetence) error
	SetCompetenceActif(ctx context.Context, competenceID string, actif bool, updatedBy string) error
	// ListActiveCompetenceSpecIDs returns the specialisation IDs each given
	// trainer actively holds, keyed by trainer profile ID.
	ListActiveCompetenceSpecIDs(ctx context.Context, formateurProfilIDs []string) (map[string][]string, error)

	GetOrCreateAffectation(ctx context.Context, affectation *domain.FormateurAffectation) (*domain.FormateurAffectation, bool, error)
	ListAffectationsByFormateur(ctx context.Context, formateurProfilID string) ([]domain.FormateurAffectation, error)
}
