// Package seeder provisions a demo tenant with users, projects and tasks
// through the regular services, so quotas and audit rows apply as usual.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"saasbase/internal/authz"
	projectModels "saasbase/internal/project/models"
	projectService "saasbase/internal/project/service"
	taskModels "saasbase/internal/task/models"
	taskService "saasbase/internal/task/service"
	tenantModels "saasbase/internal/tenant/models"
	tenantService "saasbase/internal/tenant/service"
	userModels "saasbase/internal/user/models"
	userService "saasbase/internal/user/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/requestcontext"
)

const (
	DemoSubdomain      = "demo"
	DemoAdminEmail     = "admin@demo.com"
	DemoAdminPassword  = "Demo@123"
	DemoMemberEmail    = "user1@demo.com"
	DemoMemberPassword = "User@123"
	SuperAdminEmail    = "superadmin@system.com"
	SuperAdminPassword = "Admin@123"
)

type Provisioner interface {
	Provision(ctx context.Context, cmd tenantService.ProvisionCommand) (*tenantService.ProvisionResult, error)
}

type PlanUpgrader interface {
	Upgrade(ctx context.Context, p authz.Principal, requested *id.TenantID, rawPlan string) (*tenantModels.Tenant, error)
}

type UserAdder interface {
	AddUser(ctx context.Context, p authz.Principal, requested *id.TenantID, cmd userService.AddUserCommand) (*userModels.User, error)
}

type ProjectCreator interface {
	Create(ctx context.Context, p authz.Principal, cmd projectService.CreateCommand) (*projectModels.Project, error)
}

type TaskCreator interface {
	Create(ctx context.Context, p authz.Principal, projectID id.ProjectID, cmd taskService.CreateCommand) (*taskModels.Task, error)
	UpdateStatus(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID, rawStatus string) (*taskModels.Task, error)
}

// SuperAdminStore creates the platform operator directly; no API path does.
type SuperAdminStore interface {
	Create(ctx context.Context, user *userModels.User) error
	FindSuperAdminByEmail(ctx context.Context, email string) (*userModels.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Seeder struct {
	tenants  Provisioner
	plans    PlanUpgrader
	users    UserAdder
	projects ProjectCreator
	tasks    TaskCreator
	admins   SuperAdminStore
	hasher   PasswordHasher
	logger   *slog.Logger
}

func New(tenants Provisioner, plans PlanUpgrader, users UserAdder, projects ProjectCreator, tasks TaskCreator, admins SuperAdminStore, hasher PasswordHasher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{
		tenants:  tenants,
		plans:    plans,
		users:    users,
		projects: projects,
		tasks:    tasks,
		admins:   admins,
		hasher:   hasher,
		logger:   logger,
	}
}

// SeedAll is safe to run repeatedly: existing demo data is left alone.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.InfoContext(ctx, "seeding demo data...")

	if err := s.seedSuperAdmin(ctx); err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	created, err := s.seedTenant(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed demo tenant: %w", err)
	}
	if !created {
		s.logger.InfoContext(ctx, "demo tenant already present", "subdomain", DemoSubdomain)
	}
	return nil
}

func (s *Seeder) seedSuperAdmin(ctx context.Context) error {
	_, err := s.admins.FindSuperAdminByEmail(ctx, SuperAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(SuperAdminPassword)
	if err != nil {
		return err
	}
	admin, err := userModels.NewSuperAdmin(id.NewUserID(), SuperAdminEmail, hash, "Super Admin", requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "super admin seeded", "email", SuperAdminEmail)
	return nil
}

func (s *Seeder) seedTenant(ctx context.Context) (bool, error) {
	res, err := s.tenants.Provision(ctx, tenantService.ProvisionCommand{
		TenantName:    "Demo Company",
		Subdomain:     DemoSubdomain,
		AdminEmail:    DemoAdminEmail,
		AdminPassword: DemoAdminPassword,
		AdminFullName: "Demo Admin",
	})
	if dErrors.HasCode(err, dErrors.CodeConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	admin := authz.TenantAdmin{ID: res.Admin.ID, TenantID: res.TenantID}
	if _, err := s.plans.Upgrade(ctx, admin, nil, "pro"); err != nil {
		return false, err
	}

	members := make([]*userModels.User, 0, 2)
	for _, m := range []struct{ email, name string }{
		{DemoMemberEmail, "User One"},
		{"user2@demo.com", "User Two"},
	} {
		u, err := s.users.AddUser(ctx, admin, nil, userService.AddUserCommand{
			Email:    m.email,
			Password: DemoMemberPassword,
			FullName: m.name,
		})
		if err != nil {
			return false, err
		}
		members = append(members, u)
	}

	project, err := s.projects.Create(ctx, admin, projectService.CreateCommand{
		Name:        "Project Alpha",
		Description: "Main website redesign",
	})
	if err != nil {
		return false, err
	}

	tasks := []struct {
		title    string
		status   taskModels.Status
		assignee id.UserID
	}{
		{"Design Database", taskModels.StatusCompleted, res.Admin.ID},
		{"Create API Endpoints", taskModels.StatusInProgress, members[0].ID},
	}
	for _, t := range tasks {
		created, err := s.tasks.Create(ctx, admin, project.ID, taskService.CreateCommand{
			Title:      t.title,
			Priority:   string(taskModels.PriorityHigh),
			AssignedTo: t.assignee.String(),
		})
		if err != nil {
			return false, err
		}
		if _, err := s.tasks.UpdateStatus(ctx, admin, nil, created.ID, string(t.status)); err != nil {
			return false, err
		}
	}

	s.logger.InfoContext(ctx, "demo data seeded successfully",
		"subdomain", DemoSubdomain,
		"users", len(members)+1,
		"tasks", len(tasks),
	)
	return true, nil
}
