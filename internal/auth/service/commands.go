package service

import (
	"strings"
	"time"

	tenantModels "saasbase/internal/tenant/models"
	userModels "saasbase/internal/user/models"
	dErrors "saasbase/pkg/domain-errors"
)

// LoginCommand carries credentials. An empty subdomain is only valid for
// super-admins.
type LoginCommand struct {
	Email     string
	Password  string
	Subdomain string
}

func (c *LoginCommand) Normalize() {
	c.Email = userModels.NormalizeEmail(c.Email)
	c.Subdomain = strings.ToLower(strings.TrimSpace(c.Subdomain))
}

func (c *LoginCommand) Validate() error {
	if c.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if c.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *userModels.User
}

// Identity is the caller as currently stored. Tenant is nil for super-admins.
type Identity struct {
	User   *userModels.User
	Tenant *tenantModels.Tenant
}
