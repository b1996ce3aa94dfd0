package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range AllRoles {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := ParseRole("manager")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, RoleAdminOF.IsPersonnelOF())
	assert.True(t, RoleSecretariat.IsPersonnelOF())
	assert.True(t, RoleFormateur.IsPersonnelOF())
	assert.False(t, RoleSuperAdmin.IsPersonnelOF())
	assert.False(t, RoleResponsablePME.IsPersonnelOF())
	assert.False(t, RoleStagiaire.IsPersonnelOF())

	assert.True(t, RoleSuperAdmin.CanManageTenant())
	assert.True(t, RoleAdminOF.CanManageTenant())
	assert.False(t, RoleFormateur.CanManageTenant())
}
