package service

import (
	"strings"

	"saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/validation"
	pkgvalidation "saasbase/pkg/validation"
)

// ProvisionCommand is the input for registering a tenant with its first administrator.
type ProvisionCommand struct {
	TenantName    string
	Subdomain     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

// Normalize trims every field and lowercases the subdomain and email.
// The password is left untouched.
func (c *ProvisionCommand) Normalize() {
	c.TenantName = strings.TrimSpace(c.TenantName)
	c.Subdomain = strings.ToLower(strings.TrimSpace(c.Subdomain))
	c.AdminEmail = models.NormalizeEmail(c.AdminEmail)
	c.AdminFullName = strings.TrimSpace(c.AdminFullName)
}

func (c *ProvisionCommand) Validate() error {
	if c.TenantName == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant name is required")
	}
	if err := validation.CheckStringLength("tenant name", c.TenantName, validation.MaxTenantNameLength); err != nil {
		return err
	}
	if !pkgvalidation.SubdomainPattern.MatchString(c.Subdomain) {
		return dErrors.New(dErrors.CodeValidation, "subdomain must be 3-63 lowercase letters, digits or hyphens, not starting or ending with a hyphen")
	}
	if !pkgvalidation.ValidEmail(c.AdminEmail) {
		return dErrors.New(dErrors.CodeValidation, "admin email must be a valid email")
	}
	if err := validation.CheckStringLength("admin email", c.AdminEmail, validation.MaxEmailLength); err != nil {
		return err
	}
	if err := validation.CheckStringRange("admin password", c.AdminPassword, validation.MinPasswordLength, validation.MaxPasswordLength); err != nil {
		return err
	}
	if c.AdminFullName == "" {
		return dErrors.New(dErrors.CodeValidation, "admin full name is required")
	}
	return validation.CheckStringLength("admin full name", c.AdminFullName, validation.MaxFullNameLength)
}

// ProvisionResult is the committed tenant and its administrator.
type ProvisionResult struct {
	TenantID  id.TenantID
	Subdomain string
	Admin     *models.User
}

// UpdateCommand carries the editable tenant fields.
type UpdateCommand struct {
	Name string
}

func (c *UpdateCommand) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
}

func (c *UpdateCommand) Validate() error {
	if c.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return validation.CheckStringLength("name", c.Name, validation.MaxTenantNameLength)
}
