package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"saasbase/internal/authz"
	"saasbase/internal/project/models"
	"saasbase/internal/quota"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/requestcontext"
)

// Service manages a tenant's projects.
type Service struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserDirectory
	quota    QuotaEnforcer
	recorder AuditRecorder
	tx       tx.Runner
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(projects ProjectStore, tasks TaskStore, users UserDirectory, enforcer QuotaEnforcer, recorder AuditRecorder, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		projects: projects,
		tasks:    tasks,
		users:    users,
		quota:    enforcer,
		recorder: recorder,
		tx:       runner,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a project owned by the calling member, subject to the plan's
// project quota.
func (s *Service) Create(ctx context.Context, p authz.Principal, cmd CreateCommand) (*models.Project, error) {
	userID, tenantID, err := authz.RequireMember(p)
	if err != nil {
		return nil, err
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	status, err := cmd.status()
	if err != nil {
		return nil, err
	}

	var project *models.Project
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.quota.Reserve(txCtx, tenantID, quota.ResourceProjects); err != nil {
			return err
		}
		pr, err := models.NewProject(id.NewProjectID(), tenantID, cmd.Name, cmd.Description, status, userID, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.projects.Create(txCtx, pr); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create project")
		}
		if err := s.record(txCtx, p, tenantID, audit.ActionCreateProject, pr.ID); err != nil {
			return err
		}
		project = pr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the tenant's projects, newest first, with creator names and
// task counts.
func (s *Service) List(ctx context.Context, p authz.Principal, requested *id.TenantID, query ListQuery) ([]*models.Summary, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}
	if len(projects) == 0 {
		return []*models.Summary{}, nil
	}

	projectIDs := make([]id.ProjectID, 0, len(projects))
	var creatorIDs []id.UserID
	for _, pr := range projects {
		projectIDs = append(projectIDs, pr.ID)
		if pr.CreatedBy != nil {
			creatorIDs = append(creatorIDs, *pr.CreatedBy)
		}
	}
	counts, err := s.tasks.CountByProjects(ctx, tenantID, projectIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count tasks")
	}
	names, err := s.users.NamesByIDs(ctx, tenantID, creatorIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load creators")
	}

	out := make([]*models.Summary, 0, len(projects))
	for _, pr := range projects {
		summary := &models.Summary{Project: pr, TaskCount: counts[pr.ID]}
		if pr.CreatedBy != nil {
			summary.CreatorName = names[*pr.CreatedBy]
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID) (*models.Project, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindInTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, wrapProjectErr(err, "failed to load project")
	}
	return project, nil
}

// Update is open to admins and to the project's creator.
func (s *Service) Update(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID, cmd UpdateCommand) (*models.Project, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var project *models.Project
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		pr, err := s.projects.FindInTenant(txCtx, tenantID, projectID)
		if err != nil {
			return wrapProjectErr(err, "failed to load project")
		}
		if err := authz.CanModify(p, pr.CreatedBy); err != nil {
			return dErrors.New(dErrors.CodeForbidden, "not authorized to update this project")
		}
		cmd.apply(pr)
		pr.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.projects.Update(txCtx, pr); err != nil {
			return wrapProjectErr(err, "failed to update project")
		}
		if err := s.record(txCtx, p, tenantID, audit.ActionUpdateProject, pr.ID); err != nil {
			return err
		}
		project = pr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and all of its tasks. Admins only.
func (s *Service) Delete(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID) error {
	if err := authz.RequireTenantAdmin(p); err != nil {
		return err
	}
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return err
	}

	var removedTasks int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.projects.FindInTenant(txCtx, tenantID, projectID); err != nil {
			return wrapProjectErr(err, "failed to load project")
		}
		n, err := s.tasks.DeleteByProject(txCtx, tenantID, projectID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete project tasks")
		}
		removedTasks = n
		if err := s.projects.Delete(txCtx, tenantID, projectID); err != nil {
			return wrapProjectErr(err, "failed to delete project")
		}
		return s.record(txCtx, p, tenantID, audit.ActionDeleteProject, projectID)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "project deleted",
		"tenant_id", tenantID.String(),
		"project_id", projectID.String(),
		"tasks_removed", removedTasks,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) record(ctx context.Context, p authz.Principal, tenantID id.TenantID, action audit.Action, projectID id.ProjectID) error {
	if err := s.recorder.Record(ctx, audit.Entry{
		TenantID:   tenantID,
		UserID:     p.UserID(),
		Action:     action,
		EntityType: audit.EntityProject,
		EntityID:   uuid.UUID(projectID),
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit entry")
	}
	return nil
}

func wrapProjectErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
