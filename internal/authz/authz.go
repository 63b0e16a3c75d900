// Package authz holds the caller identity attached to authenticated requests and
// the guards every tenant-scoped operation runs through.
//
// Principal is a closed set: SuperAdmin, TenantAdmin and Member. Cross-tenant
// bypass exists only for SuperAdmin and is decided here, never in handlers.
package authz

import (
	"context"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

// Principal is the authenticated caller.
type Principal interface {
	UserID() id.UserID
	Role() id.Role
	// Tenant returns the caller's own tenant. ok is false for super-admins.
	Tenant() (tenantID id.TenantID, ok bool)
	sealed()
}

type SuperAdmin struct {
	ID id.UserID
}

type TenantAdmin struct {
	ID       id.UserID
	TenantID id.TenantID
}

type Member struct {
	ID       id.UserID
	TenantID id.TenantID
}

func (p SuperAdmin) UserID() id.UserID           { return p.ID }
func (p SuperAdmin) Role() id.Role               { return id.RoleSuperAdmin }
func (p SuperAdmin) Tenant() (id.TenantID, bool) { return id.TenantID{}, false }
func (SuperAdmin) sealed()                       {}

func (p TenantAdmin) UserID() id.UserID           { return p.ID }
func (p TenantAdmin) Role() id.Role               { return id.RoleTenantAdmin }
func (p TenantAdmin) Tenant() (id.TenantID, bool) { return p.TenantID, true }
func (TenantAdmin) sealed()                       {}

func (p Member) UserID() id.UserID           { return p.ID }
func (p Member) Role() id.Role               { return id.RoleUser }
func (p Member) Tenant() (id.TenantID, bool) { return p.TenantID, true }
func (Member) sealed()                       {}

// NewPrincipal builds the variant for a verified token. A tenant role without a
// tenant is Forbidden; an unknown role is Unauthorized.
func NewPrincipal(userID id.UserID, tenantID *id.TenantID, role id.Role) (Principal, error) {
	switch role {
	case id.RoleSuperAdmin:
		return SuperAdmin{ID: userID}, nil
	case id.RoleTenantAdmin, id.RoleUser:
		if tenantID == nil || tenantID.IsNil() {
			return nil, dErrors.New(dErrors.CodeForbidden, "tenant context missing")
		}
		if role == id.RoleTenantAdmin {
			return TenantAdmin{ID: userID, TenantID: *tenantID}, nil
		}
		return Member{ID: userID, TenantID: *tenantID}, nil
	default:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
}

// IsAdmin reports whether p administers its tenant (or every tenant).
func IsAdmin(p Principal) bool {
	switch p.(type) {
	case SuperAdmin, TenantAdmin:
		return true
	default:
		return false
	}
}

// ResolveTenant picks the tenant an operation acts on. Super-admins must name one;
// everybody else acts on their own tenant and may not name another.
func ResolveTenant(p Principal, requested *id.TenantID) (id.TenantID, error) {
	if p == nil {
		return id.TenantID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	own, ok := p.Tenant()
	if !ok {
		if requested == nil || requested.IsNil() {
			return id.TenantID{}, dErrors.New(dErrors.CodeBadRequest, "tenant context required")
		}
		return *requested, nil
	}
	if requested != nil && !requested.IsNil() && *requested != own {
		return id.TenantID{}, dErrors.New(dErrors.CodeForbidden, "access to another tenant is not allowed")
	}
	return own, nil
}

func RequireTenantAdmin(p Principal) error {
	if p == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !IsAdmin(p) {
		return dErrors.New(dErrors.CodeForbidden, "tenant admin role required")
	}
	return nil
}

func RequireSuperAdmin(p Principal) error {
	if p == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if _, ok := p.(SuperAdmin); !ok {
		return dErrors.New(dErrors.CodeForbidden, "super admin role required")
	}
	return nil
}

// CanModify allows admins unconditionally and members only when they own the
// resource as one of ownerIDs (creator, assignee). Nil owners never match.
func CanModify(p Principal, ownerIDs ...*id.UserID) error {
	if p == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if IsAdmin(p) {
		return nil
	}
	for _, owner := range ownerIDs {
		if owner != nil && *owner == p.UserID() {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeForbidden, "not allowed to modify this resource")
}

// RequireMember returns the acting user for records that need a same-tenant
// creator. Super-admins do not belong to a tenant and are rejected.
func RequireMember(p Principal) (id.UserID, id.TenantID, error) {
	if p == nil {
		return id.UserID{}, id.TenantID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	tenantID, ok := p.Tenant()
	if !ok {
		return id.UserID{}, id.TenantID{}, dErrors.New(dErrors.CodeForbidden, "tenant membership required")
	}
	return p.UserID(), tenantID, nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the caller attached by the auth middleware, or nil.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}
