package domain

import "fmt"

// Role is the closed set of profile roles. Access decisions switch
// exhaustively over these values; an unknown role never grants anything.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdminOF        Role = "admin_of"
	RoleSecretariat    Role = "secretariat"
	RoleFormateur      Role = "formateur"
	RoleResponsablePME Role = "responsable_pme"
	RoleStagiaire      Role = "stagiaire"
)

// AllRoles lists every valid role, in privilege order.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdminOF,
	RoleSecretariat,
	RoleFormateur,
	RoleResponsablePME,
	RoleStagiaire,
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IsValid reports whether r is one of the declared roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdminOF, RoleSecretariat, RoleFormateur, RoleResponsablePME, RoleStagiaire:
		return true
	}
	return false
}

// IsPersonnelOF reports whether the role belongs to training-organization staff.
func (r Role) IsPersonnelOF() bool {
	return r == RoleAdminOF || r == RoleSecretariat || r == RoleFormateur
}

// CanManageTenant reports whether the role administers its tenant's data.
func (r Role) CanManageTenant() bool {
	return r == RoleSuperAdmin || r == RoleAdminOF || r == RoleSecretariat
}

func (r Role) String() string { return string(r) }
