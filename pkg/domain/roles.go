package domain

// Role is the closed set of account roles.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleUser        Role = "user"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// IsTenantRole reports whether r can be assigned to a tenant member.
func (r Role) IsTenantRole() bool {
	return r == RoleTenantAdmin || r == RoleUser
}
