package service

import (
	"context"

	"saasbase/internal/quota"
	"saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindInTenant(ctx context.Context, tenantID id.TenantID, userID id.UserID) (*models.User, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, tenantID id.TenantID, userID id.UserID) error
}

type QuotaEnforcer interface {
	Reserve(ctx context.Context, tenantID id.TenantID, resource quota.Resource) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// UserReleaser clears references to a user that is about to be deleted,
// such as task assignments and creator columns.
type UserReleaser interface {
	ReleaseUser(ctx context.Context, tenantID id.TenantID, userID id.UserID) error
}
