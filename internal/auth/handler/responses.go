package handler

import (
	"time"

	"saasbase/internal/auth/service"
	tenantModels "saasbase/internal/tenant/models"
	userModels "saasbase/internal/user/models"
)

type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      *userModels.User `json:"user"`
}

type TenantSummary struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Subdomain        string              `json:"subdomain"`
	Status           tenantModels.Status `json:"status"`
	SubscriptionPlan tenantModels.Plan   `json:"subscriptionPlan"`
	MaxUsers         int                 `json:"maxUsers"`
	MaxProjects      int                 `json:"maxProjects"`
}

// MeResponse flattens the user and nests the tenant, which is null for super-admins.
type MeResponse struct {
	*userModels.User
	Tenant *TenantSummary `json:"tenant"`
}

func toLoginResponse(res *service.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	}
}

func toMeResponse(identity *service.Identity) *MeResponse {
	out := &MeResponse{User: identity.User}
	if t := identity.Tenant; t != nil {
		out.Tenant = &TenantSummary{
			ID:               t.ID.String(),
			Name:             t.Name,
			Subdomain:        t.Subdomain,
			Status:           t.Status,
			SubscriptionPlan: t.Plan,
			MaxUsers:         t.MaxUsers,
			MaxProjects:      t.MaxProjects,
		}
	}
	return out
}
