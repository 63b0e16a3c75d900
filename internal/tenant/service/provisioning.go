package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tenantmetrics "saasbase/internal/tenant/metrics"
	"saasbase/internal/tenant/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tracer"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/requestcontext"
)

// ProvisioningService registers a tenant together with its founding
// tenant_admin. Either both rows commit or neither does.
type ProvisioningService struct {
	tenants TenantStore
	users   UserStore
	hasher  PasswordHasher
	tx      tx.Runner
	logger  *slog.Logger
	metrics *tenantmetrics.Metrics
	tracer  tracer.Tracer
}

func NewProvisioningService(tenants TenantStore, users UserStore, hasher PasswordHasher, runner tx.Runner, opts ...Option) *ProvisioningService {
	cfg := newConfig(opts)
	return &ProvisioningService{
		tenants: tenants,
		users:   users,
		hasher:  hasher,
		tx:      runner,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
	}
}

func (s *ProvisioningService) Provision(ctx context.Context, cmd ProvisionCommand) (result *ProvisionResult, err error) {
	start := time.Now()
	cmd.Normalize()
	ctx, span := s.tracer.Start(ctx, tracer.SpanTenantProvision,
		tracer.String(tracer.AttrSubdomain, cmd.Subdomain),
	)
	defer func() { span.End(err) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// bcrypt is slow; keep it out of the locked section.
	hash, err := s.hasher.Hash(cmd.AdminPassword)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		tenant, err := models.NewTenant(id.NewTenantID(), cmd.TenantName, cmd.Subdomain, now)
		if err != nil {
			return err
		}
		if err := s.tenants.CreateIfSubdomainAvailable(txCtx, tenant); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "subdomain already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
		}

		admin, err := userModels.NewTenantUser(id.NewUserID(), tenant.ID, cmd.AdminEmail, hash, cmd.AdminFullName, id.RoleTenantAdmin, now)
		if err != nil {
			return err
		}
		if err := s.users.Create(txCtx, admin); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "email already exists in this tenant")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant admin")
		}

		result = &ProvisionResult{TenantID: tenant.ID, Subdomain: tenant.Subdomain, Admin: admin}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(tracer.String(tracer.AttrTenantID, result.TenantID.String()))
	s.metrics.IncrementProvisioned()
	s.metrics.ObserveProvision(start)
	s.logger.InfoContext(ctx, "tenant_provisioned",
		"log_type", "audit",
		"tenant_id", result.TenantID.String(),
		"subdomain", result.Subdomain,
		"admin_user_id", result.Admin.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}
