// Package readmodels contains query shapes for tenant reads. They are not
// aggregates and are never written back.
package readmodels

import (
	"saasbase/internal/tenant/models"
)

// TenantDetails is a tenant with its current usage.
type TenantDetails struct {
	models.Tenant
	UserCount    int
	ProjectCount int
}
