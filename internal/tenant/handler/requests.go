package handler

import (
	"strings"

	"saasbase/internal/tenant/service"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

type RegisterTenantRequest struct {
	TenantName    string `json:"tenantName" validate:"required,notblank"`
	Subdomain     string `json:"subdomain" validate:"required"`
	AdminEmail    string `json:"adminEmail" validate:"required"`
	AdminPassword string `json:"adminPassword" validate:"required"`
	AdminFullName string `json:"adminFullName" validate:"required,notblank"`
}

// Validate only checks presence; the service owns the format rules.
func (r *RegisterTenantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *RegisterTenantRequest) toCommand() service.ProvisionCommand {
	return service.ProvisionCommand{
		TenantName:    r.TenantName,
		Subdomain:     r.Subdomain,
		AdminEmail:    r.AdminEmail,
		AdminPassword: r.AdminPassword,
		AdminFullName: r.AdminFullName,
	}
}

type UpdateTenantRequest struct {
	Name string `json:"name" validate:"required,notblank,max=128"`
}

func (r *UpdateTenantRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
}

func (r *UpdateTenantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

type UpgradeRequest struct {
	Plan string `json:"plan"`
}

func (r *UpgradeRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Plan) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "invalid plan")
	}
	return nil
}
