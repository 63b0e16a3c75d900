package service

import (
	"context"

	"saasbase/internal/project/models"
	"saasbase/internal/quota"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
)

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	FindInTenant(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) (*models.Project, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) error
}

// TaskStore is the slice of the task store projects depend on.
type TaskStore interface {
	CountByProjects(ctx context.Context, tenantID id.TenantID, projectIDs []id.ProjectID) (map[id.ProjectID]int, error)
	DeleteByProject(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) (int, error)
}

// UserDirectory resolves creator names for listings.
type UserDirectory interface {
	NamesByIDs(ctx context.Context, tenantID id.TenantID, userIDs []id.UserID) (map[id.UserID]string, error)
}

type QuotaEnforcer interface {
	Reserve(ctx context.Context, tenantID id.TenantID, resource quota.Resource) error
}

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}
