package models

import (
	"strings"
	"time"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/validation"
	pkgvalidation "saasbase/pkg/validation"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Tenant is an isolated organization. Quotas are copied from the plan when it
// is applied so a row lock on the tenant covers both.
type Tenant struct {
	ID          id.TenantID
	Name        string
	Subdomain   string
	Status      Status
	Plan        Plan
	MaxUsers    int
	MaxProjects int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTenant creates an active tenant on the free plan.
func NewTenant(tenantID id.TenantID, name, subdomain string, now time.Time) (*Tenant, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if !pkgvalidation.SubdomainPattern.MatchString(subdomain) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "subdomain must be 3-63 lowercase letters, digits or hyphens")
	}
	t := &Tenant{
		ID:        tenantID,
		Name:      name,
		Subdomain: subdomain,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.ApplyPlan(PlanFree, now)
	return t, nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > validation.MaxTenantNameLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return nil
}

func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

func (t *Tenant) Limits() Limits {
	return Limits{MaxUsers: t.MaxUsers, MaxProjects: t.MaxProjects}
}

// Suspend blocks authentication for every user of the tenant.
func (t *Tenant) Suspend(now time.Time) error {
	if !t.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already suspended")
	}
	t.Status = StatusSuspended
	t.UpdatedAt = now
	return nil
}

func (t *Tenant) Activate(now time.Time) error {
	if t.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already active")
	}
	t.Status = StatusActive
	t.UpdatedAt = now
	return nil
}

func (t *Tenant) Rename(name string, now time.Time) error {
	if err := checkName(name); err != nil {
		return err
	}
	t.Name = name
	t.UpdatedAt = now
	return nil
}

// ApplyPlan switches the plan and its quotas. Existing rows above the new
// quotas are kept; only further creations are refused.
func (t *Tenant) ApplyPlan(plan Plan, now time.Time) {
	limits := plan.Limits()
	t.Plan = plan
	t.MaxUsers = limits.MaxUsers
	t.MaxProjects = limits.MaxProjects
	t.UpdatedAt = now
}
