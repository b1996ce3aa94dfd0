package services

import (
	"github.com/oxalis-saas/habilitations_backend/internal/core/domain"
)

// Scope builders: pure functions mapping a profile to the rows it may see
// for one entity. Switches are exhaustive over the role enum; a missing or
// unknown role always yields the empty scope.

// ScopeForStagiaires returns which trainees the profile may see.
func ScopeForStagiaires(profil *domain.ProfilUtilisateur) domain.AccessScope {
	if profil == nil || !profil.Actif {
		return domain.ScopeNoRows()
	}
	switch profil.Role {
	case domain.RoleSuperAdmin:
		return domain.ScopeAllRows()
	case domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID != nil {
			return domain.ScopeByTenant(*profil.TenantID)
		}
		if profil.EntrepriseID != nil {
			return domain.ScopeByOrganisme(*profil.EntrepriseID)
		}
		return domain.ScopeNoRows()
	case domain.RoleFormateur:
		return domain.ScopeByFormateur(profil.ProfilID)
	case domain.RoleResponsablePME:
		if profil.EntrepriseID != nil {
			return domain.ScopeByEntreprise(*profil.EntrepriseID)
		}
		return domain.ScopeNoRows()
	case domain.RoleStagiaire:
		return domain.ScopeBySelf(profil.UserID)
	}
	return domain.ScopeNoRows()
}

// ScopeForEntreprises returns which companies the profile may see.
func ScopeForEntreprises(profil *domain.ProfilUtilisateur) domain.AccessScope {
	if profil == nil || !profil.Actif {
		return domain.ScopeNoRows()
	}
	switch profil.Role {
	case domain.RoleSuperAdmin:
		return domain.ScopeAllRows()
	case domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID != nil {
			return domain.ScopeByTenant(*profil.TenantID)
		}
		return domain.ScopeNoRows()
	case domain.RoleResponsablePME:
		if profil.EntrepriseID != nil {
			return domain.ScopeByEntreprise(*profil.EntrepriseID)
		}
		return domain.ScopeNoRows()
	case domain.RoleFormateur, domain.RoleStagiaire:
		return domain.ScopeNoRows()
	}
	return domain.ScopeNoRows()
}

// ScopeForDemandes returns which training requests the profile may see.
func ScopeForDemandes(profil *domain.ProfilUtilisateur) domain.AccessScope {
	if profil == nil || !profil.Actif {
		return domain.ScopeNoRows()
	}
	switch profil.Role {
	case domain.RoleSuperAdmin:
		return domain.ScopeAllRows()
	case domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID != nil {
			return domain.ScopeByTenant(*profil.TenantID)
		}
		if profil.EntrepriseID != nil {
			return domain.ScopeByOrganisme(*profil.EntrepriseID)
		}
		return domain.ScopeNoRows()
	case domain.RoleResponsablePME:
		if profil.EntrepriseID != nil {
			return domain.ScopeByEntreprise(*profil.EntrepriseID)
		}
		return domain.ScopeNoRows()
	case domain.RoleFormateur, domain.RoleStagiaire:
		return domain.ScopeNoRows()
	}
	return domain.ScopeNoRows()
}

// ScopeForSessions returns which sessions the profile may see.
func ScopeForSessions(profil *domain.ProfilUtilisateur) domain.AccessScope {
	if profil == nil || !profil.Actif {
		return domain.ScopeNoRows()
	}
	switch profil.Role {
	case domain.RoleSuperAdmin:
		return domain.ScopeAllRows()
	case domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID != nil {
			return domain.ScopeByTenant(*profil.TenantID)
		}
		return domain.ScopeNoRows()
	case domain.RoleFormateur:
		return domain.ScopeByFormateur(profil.ProfilID)
	case domain.RoleResponsablePME, domain.RoleStagiaire:
		return domain.ScopeNoRows()
	}
	return domain.ScopeNoRows()
}

// ScopeForTitres returns which certificates the profile may see.
func ScopeForTitres(profil *domain.ProfilUtilisateur) domain.AccessScope {
	if profil == nil || !profil.Actif {
		return domain.ScopeNoRows()
	}
	switch profil.Role {
	case domain.RoleSuperAdmin:
		return domain.ScopeAllRows()
	case domain.RoleAdminOF, domain.RoleSecretariat:
		if profil.TenantID != nil {
			return domain.ScopeByTenant(*profil.TenantID)
		}
		return domain.ScopeNoRows()
	case domain.RoleFormateur:
		return domain.ScopeByFormateur(profil.ProfilID)
	case domain.RoleResponsablePME:
		if profil.EntrepriseID != nil {
			return domain.ScopeByEntreprise(*profil.EntrepriseID)
		}
		return domain.ScopeNoRows()
	case domain.RoleStagiaire:
		return domain.ScopeBySelf(profil.UserID)
	}
	return domain.ScopeNoRows()
}
