package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

func profilWith(role domain.Role, entrepriseID, tenantID *string) *domain.ProfilUtilisateur {
	return &domain.ProfilUtilisateur{
		ProfilID:     "profil-1",
		UserID:       "user-1",
		Role:         role,
		EntrepriseID: entrepriseID,
		TenantID:     tenantID,
		Actif:        true,
	}
}

func strPtr(s string) *string { return &s }

func TestScopeForStagiaires(t *testing.T) {
	tenantA := strPtr("tenant-a")
	pmeX := strPtr("pme-x")

	t.Run("super admin sees everything", func(t *testing.T) {
		scope := ScopeForStagiaires(profilWith(domain.RoleSuperAdmin, nil, nil))
		assert.Equal(t, domain.ScopeAll, scope.Kind)
	})

	t.Run("admin_of is bound to its tenant", func(t *testing.T) {
		scope := ScopeForStagiaires(profilWith(domain.RoleAdminOF, strPtr("of-1"), tenantA))
		assert.Equal(t, domain.ScopeTenant, scope.Kind)
		assert.Equal(t, "tenant-a", scope.TenantID)
	})

	t.Run("responsable_pme is bound to its own company", func(t *testing.T) {
		scope := ScopeForStagiaires(profilWith(domain.RoleResponsablePME, pmeX, tenantA))
		assert.Equal(t, domain.ScopeEntreprise, scope.Kind)
		assert.Equal(t, "pme-x", scope.EntrepriseID)
	})

	t.Run("two responsables of different companies never share a scope", func(t *testing.T) {
		scopeX := ScopeForStagiaires(profilWith(domain.RoleResponsablePME, strPtr("pme-x"), tenantA))
		scopeY := ScopeForStagiaires(profilWith(domain.RoleResponsablePME, strPtr("pme-y"), tenantA))
		assert.NotEqual(t, scopeX.EntrepriseID, scopeY.EntrepriseID)
	})

	t.Run("responsable_pme without a company sees nothing", func(t *testing.T) {
		scope := ScopeForStagiaires(profilWith(domain.RoleResponsablePME, nil, tenantA))
		assert.True(t, scope.IsNone())
	})

	t.Run("stagiaire sees only its own record", func(t *testing.T) {
		scope := ScopeForStagiaires(profilWith(domain.RoleStagiaire, nil, nil))
		assert.Equal(t, domain.ScopeSelf, scope.Kind)
		assert.Equal(t, "user-1", scope.UserID)
	})

	t.Run("nil or inactive profile sees nothing", func(t *testing.T) {
		assert.True(t, ScopeForStagiaires(nil).IsNone())
		inactive := profilWith(domain.RoleAdminOF, strPtr("of-1"), tenantA)
		inactive.Actif = false
		assert.True(t, ScopeForStagiaires(inactive).IsNone())
	})

	t.Run("unknown role sees nothing", func(t *testing.T) {
		p := profilWith(domain.Role("auditor"), pmeX, tenantA)
		assert.True(t, ScopeForStagiaires(p).IsNone())
	})
}

func TestScopeForSessions(t *testing.T) {
	scope := ScopeForSessions(profilWith(domain.RoleFormateur, nil, nil))
	assert.Equal(t, domain.ScopeFormateur, scope.Kind)
	assert.Equal(t, "profil-1", scope.ProfilID)

	assert.True(t, ScopeForSessions(profilWith(domain.RoleResponsablePME, strPtr("pme-x"), nil)).IsNone())
	assert.True(t, ScopeForSessions(profilWith(domain.RoleStagiaire, nil, nil)).IsNone())
}

func TestScopeForTitres(t *testing.T) {
	scope := ScopeForTitres(profilWith(domain.RoleResponsablePME, strPtr("pme-x"), nil))
	assert.Equal(t, domain.ScopeEntreprise, scope.Kind)

	self := ScopeForTitres(profilWith(domain.RoleStagiaire, nil, nil))
	assert.Equal(t, domain.ScopeSelf, self.Kind)
}
