package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"saasbase/internal/authz"
	"saasbase/internal/task/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/requestcontext"
)

// Service manages the tasks inside a tenant's projects.
type Service struct {
	tasks    TaskStore
	projects ProjectFinder
	members  MemberFinder
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

func New(tasks TaskStore, projects ProjectFinder, members MemberFinder, recorder AuditRecorder, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		tasks:    tasks,
		projects: projects,
		members:  members,
		recorder: recorder,
		tx:       runner,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a task to a project of the caller's tenant. The assignee, when
// given, must be a member of the same tenant.
func (s *Service) Create(ctx context.Context, p authz.Principal, projectID id.ProjectID, cmd CreateCommand) (*models.Task, error) {
	userID, tenantID, err := authz.RequireMember(p)
	if err != nil {
		return nil, err
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	fields, err := cmd.parse()
	if err != nil {
		return nil, err
	}

	var task *models.Task
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.projects.FindInTenant(txCtx, tenantID, projectID); err != nil {
			return wrapLookupErr(err, "project not found", "failed to load project")
		}
		if err := s.checkAssignee(txCtx, tenantID, fields.assignedTo); err != nil {
			return err
		}
		t, err := models.NewTask(id.NewTaskID(), projectID, tenantID, cmd.Title, cmd.Description, fields.priority, userID, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		t.AssignedTo = fields.assignedTo
		t.DueDate = fields.dueDate
		if err := s.tasks.Create(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create task")
		}
		if err := s.record(txCtx, p, tenantID, audit.ActionCreateTask, t.ID); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List returns a project's tasks by priority, then due date.
func (s *Service) List(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID, query ListQuery) ([]*models.Task, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.FindInTenant(ctx, tenantID, projectID); err != nil {
		return nil, wrapLookupErr(err, "project not found", "failed to load project")
	}
	tasks, err := s.tasks.ListByProject(ctx, tenantID, projectID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tasks")
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

// Update is open to admins, the task's creator and its assignee.
func (s *Service) Update(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID, cmd UpdateCommand) (*models.Task, error) {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.modify(ctx, p, requested, taskID, func(txCtx context.Context, tenantID id.TenantID, t *models.Task) error {
		assignee, err := cmd.apply(t)
		if err != nil {
			return err
		}
		return s.checkAssignee(txCtx, tenantID, assignee)
	})
}

// UpdateStatus moves a task through todo, in_progress and completed under
// the same permission rule as Update.
func (s *Service) UpdateStatus(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID, rawStatus string) (*models.Task, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.modify(ctx, p, requested, taskID, func(_ context.Context, _ id.TenantID, t *models.Task) error {
		t.Status = status
		return nil
	})
}

func (s *Service) modify(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID, change func(context.Context, id.TenantID, *models.Task) error) (*models.Task, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	var task *models.Task
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tasks.FindInTenant(txCtx, tenantID, taskID)
		if err != nil {
			return wrapLookupErr(err, "task not found", "failed to load task")
		}
		if err := authz.CanModify(p, t.Owners()...); err != nil {
			return dErrors.New(dErrors.CodeForbidden, "not authorized to update this task")
		}
		if err := change(txCtx, tenantID, t); err != nil {
			return err
		}
		t.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.tasks.Update(txCtx, t); err != nil {
			return wrapLookupErr(err, "task not found", "failed to update task")
		}
		if err := s.record(txCtx, p, tenantID, audit.ActionUpdateTask, t.ID); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete is open to admins and the task's creator.
func (s *Service) Delete(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID) error {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tasks.FindInTenant(txCtx, tenantID, taskID)
		if err != nil {
			return wrapLookupErr(err, "task not found", "failed to load task")
		}
		if err := authz.CanModify(p, t.CreatedBy); err != nil {
			return dErrors.New(dErrors.CodeForbidden, "not authorized to delete this task")
		}
		if err := s.tasks.Delete(txCtx, tenantID, taskID); err != nil {
			return wrapLookupErr(err, "task not found", "failed to delete task")
		}
		return s.record(txCtx, p, tenantID, audit.ActionDeleteTask, taskID)
	})
}

func (s *Service) checkAssignee(ctx context.Context, tenantID id.TenantID, assignee *id.UserID) error {
	if assignee == nil {
		return nil
	}
	if _, err := s.members.FindInTenant(ctx, tenantID, *assignee); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeBadRequest, "assignee must belong to this tenant")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assignee")
	}
	return nil
}

func (s *Service) record(ctx context.Context, p authz.Principal, tenantID id.TenantID, action audit.Action, taskID id.TaskID) error {
	if err := s.recorder.Record(ctx, audit.Entry{
		TenantID:   tenantID,
		UserID:     p.UserID(),
		Action:     action,
		EntityType: audit.EntityTask,
		EntityID:   uuid.UUID(taskID),
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit entry")
	}
	return nil
}

func wrapLookupErr(err error, notFound, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
