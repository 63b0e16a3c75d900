package service

import (
	"context"
	"time"

	tenantModels "saasbase/internal/tenant/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
)

type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*userModels.User, error)
	FindByTenantAndEmail(ctx context.Context, tenantID id.TenantID, email string) (*userModels.User, error)
	FindSuperAdminByEmail(ctx context.Context, email string) (*userModels.User, error)
}

type TenantStore interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*tenantModels.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*tenantModels.Tenant, error)
}

// TokenIssuer signs access tokens. A nil tenantID yields a null tenant claim.
type TokenIssuer interface {
	GenerateAccessToken(ctx context.Context, userID id.UserID, tenantID id.TenantID, role id.Role) (string, time.Time, error)
}

type PasswordVerifier interface {
	Verify(password, hash string) error
	Equalize(password string)
}

// LoginGuard throttles repeated failures per login key.
type LoginGuard interface {
	Check(ctx context.Context, key string) error
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}
