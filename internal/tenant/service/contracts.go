package service

import (
	"context"

	"saasbase/internal/tenant/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
)

// Store interfaces define persistence contracts.

type TenantStore interface {
	CreateIfSubdomainAvailable(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	LockLimits(ctx context.Context, tenantID id.TenantID) (models.Limits, error)
}

type UserStore interface {
	Create(ctx context.Context, user *userModels.User) error
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

type ProjectCounter interface {
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

type AuditReader interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]audit.Entry, error)
}
