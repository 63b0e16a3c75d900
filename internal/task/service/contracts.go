package service

import (
	"context"

	projectModels "saasbase/internal/project/models"
	"saasbase/internal/task/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
)

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	FindInTenant(ctx context.Context, tenantID id.TenantID, taskID id.TaskID) (*models.Task, error)
	ListByProject(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID, filter models.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, tenantID id.TenantID, taskID id.TaskID) error
}

type ProjectFinder interface {
	FindInTenant(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) (*projectModels.Project, error)
}

// MemberFinder checks that assignees belong to the task's tenant.
type MemberFinder interface {
	FindInTenant(ctx context.Context, tenantID id.TenantID, userID id.UserID) (*userModels.User, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}
