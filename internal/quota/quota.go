// Package quota enforces the per-plan user and project limits of a tenant.
//
// Reserve must be called inside the same transaction as the insert it
// guards: the tenant row lock taken by LockLimits serializes concurrent
// creators until that transaction ends.
package quota

import (
	"context"
	"errors"
	"fmt"

	tenantModels "saasbase/internal/tenant/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tracer"
	"saasbase/pkg/platform/tx"
)

// Resource is a quota-bound kind of row.
type Resource string

const (
	ResourceUsers    Resource = "users"
	ResourceProjects Resource = "projects"
)

// LimitsLocker locks the tenant row and returns its current limits.
type LimitsLocker interface {
	LockLimits(ctx context.Context, tenantID id.TenantID) (tenantModels.Limits, error)
}

// Counter counts existing rows of one resource for a tenant.
type Counter interface {
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

type Enforcer struct {
	limits   LimitsLocker
	counters map[Resource]Counter
	metrics  *Metrics
	tracer   tracer.Tracer
}

type Option func(*Enforcer)

func WithMetrics(m *Metrics) Option {
	return func(e *Enforcer) {
		e.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(e *Enforcer) {
		e.tracer = t
	}
}

func New(limits LimitsLocker, users, projects Counter, opts ...Option) *Enforcer {
	e := &Enforcer{
		limits: limits,
		counters: map[Resource]Counter{
			ResourceUsers:    users,
			ResourceProjects: projects,
		},
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reserve checks that one more row of resource fits the tenant's plan.
func (e *Enforcer) Reserve(ctx context.Context, tenantID id.TenantID, resource Resource) (err error) {
	ctx, span := e.tracer.Start(ctx, tracer.SpanQuotaReserve,
		tracer.String(tracer.AttrTenantID, tenantID.String()),
		tracer.String(tracer.AttrResource, string(resource)),
	)
	defer func() { span.End(err) }()

	if !tx.InTx(ctx) {
		return dErrors.New(dErrors.CodeInternal, "quota reservation requires a transaction")
	}
	counter, ok := e.counters[resource]
	if !ok || counter == nil {
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("no counter for resource %q", resource))
	}

	limits, err := e.limits.LockLimits(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock tenant limits")
	}
	usage, err := counter.CountByTenant(ctx, tenantID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count "+string(resource))
	}

	limit := limitFor(limits, resource)
	span.SetAttributes(tracer.Int(tracer.AttrUsage, usage), tracer.Int(tracer.AttrLimit, limit))
	if usage >= limit {
		e.metrics.IncRejection(resource)
		return dErrors.New(dErrors.CodeForbidden, fmt.Sprintf("subscription %s limit reached", resource))
	}
	return nil
}

func limitFor(limits tenantModels.Limits, resource Resource) int {
	if resource == ResourceUsers {
		return limits.MaxUsers
	}
	return limits.MaxProjects
}
