package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"saasbase/internal/authz"
	tenantmetrics "saasbase/internal/tenant/metrics"
	"saasbase/internal/tenant/models"
	"saasbase/internal/tenant/readmodels"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/tracer"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/requestcontext"
)

// DefaultAuditLimit bounds audit log listings when the caller gives no limit.
const DefaultAuditLimit = 50

// MaxAuditLimit is the largest audit page a caller may request.
const MaxAuditLimit = 500

// TenantService administers existing tenants: reads, renames, lifecycle
// transitions and plan changes.
type TenantService struct {
	tenants  TenantStore
	users    UserStore
	projects ProjectCounter
	recorder AuditRecorder
	auditLog AuditReader
	tx       tx.Runner
	logger   *slog.Logger
	metrics  *tenantmetrics.Metrics
	tracer   tracer.Tracer
}

func NewTenantService(tenants TenantStore, users UserStore, projects ProjectCounter, recorder AuditRecorder, auditLog AuditReader, runner tx.Runner, opts ...Option) *TenantService {
	cfg := newConfig(opts)
	return &TenantService{
		tenants:  tenants,
		users:    users,
		projects: projects,
		recorder: recorder,
		auditLog: auditLog,
		tx:       runner,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		tracer:   cfg.tracer,
	}
}

// ListTenants returns every tenant with its usage, newest first.
func (s *TenantService) ListTenants(ctx context.Context, p authz.Principal) ([]*readmodels.TenantDetails, error) {
	if err := authz.RequireSuperAdmin(p); err != nil {
		return nil, err
	}
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}
	out := make([]*readmodels.TenantDetails, 0, len(tenants))
	for _, t := range tenants {
		details, err := s.withUsage(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, details)
	}
	return out, nil
}

// GetTenant returns one tenant with its usage. Members may read only their own.
func (s *TenantService) GetTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID) (*readmodels.TenantDetails, error) {
	if _, err := authz.ResolveTenant(p, &tenantID); err != nil {
		return nil, err
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err, "failed to load tenant")
	}
	return s.withUsage(ctx, t)
}

func (s *TenantService) withUsage(ctx context.Context, t *models.Tenant) (*readmodels.TenantDetails, error) {
	users, err := s.users.CountByTenant(ctx, t.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	projects, err := s.projects.CountByTenant(ctx, t.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count projects")
	}
	return &readmodels.TenantDetails{Tenant: *t, UserCount: users, ProjectCount: projects}, nil
}

// UpdateTenant renames a tenant. Tenant admins may rename only their own.
func (s *TenantService) UpdateTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID, cmd UpdateCommand) (*models.Tenant, error) {
	if err := authz.RequireTenantAdmin(p); err != nil {
		return nil, err
	}
	if _, err := authz.ResolveTenant(p, &tenantID); err != nil {
		return nil, err
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, tenantID, audit.ActionUpdateTenant, func(t *models.Tenant, now time.Time) error {
		return t.Rename(cmd.Name, now)
	})
}

// SuspendTenant blocks every login of the tenant's users.
func (s *TenantService) SuspendTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID) (*models.Tenant, error) {
	if err := authz.RequireSuperAdmin(p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, tenantID, audit.ActionSuspendTenant, func(t *models.Tenant, now time.Time) error {
		return transitionConflict(t.Suspend(now), "tenant is already suspended")
	})
}

func (s *TenantService) ActivateTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID) (*models.Tenant, error) {
	if err := authz.RequireSuperAdmin(p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, tenantID, audit.ActionActivateTenant, func(t *models.Tenant, now time.Time) error {
		return transitionConflict(t.Activate(now), "tenant is already active")
	})
}

// Upgrade moves the tenant to rawPlan and copies the plan's quotas. A nil
// requested tenant means the caller's own. Downgrades below current usage
// are allowed; further creations are rejected by the quota check.
func (s *TenantService) Upgrade(ctx context.Context, p authz.Principal, requested *id.TenantID, rawPlan string) (tenant *models.Tenant, err error) {
	if err := authz.RequireTenantAdmin(p); err != nil {
		return nil, err
	}
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	plan, err := models.ParsePlan(rawPlan)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanTenantUpgrade,
		tracer.String(tracer.AttrTenantID, tenantID.String()),
		tracer.String(tracer.AttrPlan, string(plan)),
	)
	defer func() { span.End(err) }()

	tenant, err = s.mutate(ctx, p, tenantID, audit.ActionUpgradePlan, func(t *models.Tenant, now time.Time) error {
		t.ApplyPlan(plan, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementPlanChange(string(plan))
	return tenant, nil
}

// mutate loads the tenant under its row lock, applies change, persists it
// and records action, all in one unit of work.
func (s *TenantService) mutate(ctx context.Context, p authz.Principal, tenantID id.TenantID, action audit.Action, change func(*models.Tenant, time.Time) error) (*models.Tenant, error) {
	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.tenants.LockLimits(txCtx, tenantID); err != nil {
			return wrapTenantErr(err, "failed to lock tenant")
		}
		t, err := s.tenants.FindByID(txCtx, tenantID)
		if err != nil {
			return wrapTenantErr(err, "failed to load tenant")
		}
		if err := change(t, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.tenants.Update(txCtx, t); err != nil {
			return wrapTenantErr(err, "failed to update tenant")
		}
		if err := s.recorder.Record(txCtx, audit.Entry{
			TenantID:   t.ID,
			UserID:     p.UserID(),
			Action:     action,
			EntityType: audit.EntityTenant,
			EntityID:   uuid.UUID(t.ID),
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit entry")
		}
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// AuditLogs lists the tenant's most recent audit entries. Admins only.
func (s *TenantService) AuditLogs(ctx context.Context, p authz.Principal, tenantID id.TenantID, limit int) ([]audit.Entry, error) {
	if err := authz.RequireTenantAdmin(p); err != nil {
		return nil, err
	}
	if _, err := authz.ResolveTenant(p, &tenantID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	limit = min(limit, MaxAuditLimit)
	entries, err := s.auditLog.ListByTenant(ctx, tenantID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit logs")
	}
	return entries, nil
}
