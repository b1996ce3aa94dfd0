package domain

// ScopeKind discriminates the AccessScope tagged union.
type ScopeKind int

const (
	// ScopeNone matches nothing. The default for unknown or missing roles.
	ScopeNone ScopeKind = iota
	// ScopeAll matches every row, regardless of tenant.
	ScopeAll
	// ScopeTenant matches rows belonging to TenantID.
	ScopeTenant
	// ScopeOrganisme matches rows whose training organization is EntrepriseID.
	ScopeOrganisme
	// ScopeEntreprise matches rows whose client company is EntrepriseID.
	ScopeEntreprise
	// ScopeFormateur matches rows reachable through the trainer profile ProfilID.
	ScopeFormateur
	// ScopeSelf matches rows owned by the user account UserID.
	ScopeSelf
)

// AccessScope describes which rows of an entity a caller may see.
// Repositories translate it into SQL filters; services never bypass it.
type AccessScope struct {
	Kind         ScopeKind
	TenantID     string
	EntrepriseID string
	ProfilID     string
	UserID       string
}

func ScopeAllRows() AccessScope          { return AccessScope{Kind: ScopeAll} }
func ScopeNoRows() AccessScope           { return AccessScope{Kind: ScopeNone} }
func ScopeByTenant(id string) AccessScope { return AccessScope{Kind: ScopeTenant, TenantID: id} }
func ScopeByOrganisme(id string) AccessScope {
	return AccessScope{Kind: ScopeOrganisme, EntrepriseID: id}
}
func ScopeByEntreprise(id string) AccessScope {
	return AccessScope{Kind: ScopeEntreprise, EntrepriseID: id}
}
func ScopeByFormateur(profilID string) AccessScope {
	return AccessScope{Kind: ScopeFormateur, ProfilID: profilID}
}
func ScopeBySelf(userID string) AccessScope { return AccessScope{Kind: ScopeSelf, UserID: userID} }

// IsNone reports whether the scope matches nothing.
func (s AccessScope) IsNone() bool { return s.Kind == ScopeNone }
