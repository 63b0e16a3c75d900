package service

import (
	"strings"

	"saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/validation"
	pkgvalidation "saasbase/pkg/validation"
)

type AddUserCommand struct {
	Email    string
	Password string
	FullName string
	// Role defaults to user when empty.
	Role id.Role
}

func (c *AddUserCommand) Normalize() {
	c.Email = models.NormalizeEmail(c.Email)
	c.FullName = strings.TrimSpace(c.FullName)
	c.Role = id.Role(strings.TrimSpace(string(c.Role)))
	if c.Role == "" {
		c.Role = id.RoleUser
	}
}

func (c *AddUserCommand) Validate() error {
	if !pkgvalidation.ValidEmail(c.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid email")
	}
	if err := validation.CheckStringLength("email", c.Email, validation.MaxEmailLength); err != nil {
		return err
	}
	if err := validation.CheckStringRange("password", c.Password, validation.MinPasswordLength, validation.MaxPasswordLength); err != nil {
		return err
	}
	if c.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	if err := validation.CheckStringLength("full name", c.FullName, validation.MaxFullNameLength); err != nil {
		return err
	}
	if !c.Role.IsTenantRole() {
		return dErrors.New(dErrors.CodeBadRequest, "role must be tenant_admin or user")
	}
	return nil
}

// UpdateUserCommand carries optional changes; nil fields are left alone.
type UpdateUserCommand struct {
	FullName *string
	Role     *id.Role
	IsActive *bool
}

func (c *UpdateUserCommand) Normalize() {
	if c.FullName != nil {
		trimmed := strings.TrimSpace(*c.FullName)
		c.FullName = &trimmed
	}
}

func (c *UpdateUserCommand) Validate() error {
	if c.FullName != nil {
		if *c.FullName == "" {
			return dErrors.New(dErrors.CodeValidation, "full name must not be blank")
		}
		if err := validation.CheckStringLength("full name", *c.FullName, validation.MaxFullNameLength); err != nil {
			return err
		}
	}
	if c.Role != nil && !c.Role.IsTenantRole() {
		return dErrors.New(dErrors.CodeBadRequest, "role must be tenant_admin or user")
	}
	return nil
}

// touchesPrivileges reports whether the command changes role or status.
func (c *UpdateUserCommand) touchesPrivileges() bool {
	return c.Role != nil || c.IsActive != nil
}

// ListQuery holds the raw list filters.
type ListQuery struct {
	Search string
	Role   string
}

func (q ListQuery) toFilter() (models.ListFilter, error) {
	search := strings.TrimSpace(q.Search)
	if err := validation.CheckStringLength("search", search, validation.MaxSearchLength); err != nil {
		return models.ListFilter{}, err
	}
	role := id.Role(strings.TrimSpace(q.Role))
	if role != "" && !role.IsTenantRole() {
		return models.ListFilter{}, dErrors.New(dErrors.CodeBadRequest, "role must be tenant_admin or user")
	}
	return models.ListFilter{Search: search, Role: role}, nil
}
