package handler

import (
	"time"

	"saasbase/internal/tenant/models"
	"saasbase/internal/tenant/readmodels"
	"saasbase/internal/tenant/service"
	userModels "saasbase/internal/user/models"
)

type TenantResponse struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Subdomain        string        `json:"subdomain"`
	Status           models.Status `json:"status"`
	SubscriptionPlan models.Plan   `json:"subscriptionPlan"`
	MaxUsers         int           `json:"maxUsers"`
	MaxProjects      int           `json:"maxProjects"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

type TenantDetailsResponse struct {
	*TenantResponse
	UserCount    int `json:"userCount"`
	ProjectCount int `json:"projectCount"`
}

type RegisterTenantResponse struct {
	TenantID  string           `json:"tenantId"`
	Subdomain string           `json:"subdomain"`
	AdminUser *userModels.User `json:"adminUser"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toTenantResponse(t *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		Status:           t.Status,
		SubscriptionPlan: t.Plan,
		MaxUsers:         t.MaxUsers,
		MaxProjects:      t.MaxProjects,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toTenantDetailsResponse(td *readmodels.TenantDetails) *TenantDetailsResponse {
	return &TenantDetailsResponse{
		TenantResponse: toTenantResponse(&td.Tenant),
		UserCount:      td.UserCount,
		ProjectCount:   td.ProjectCount,
	}
}

func toRegisterResponse(res *service.ProvisionResult) *RegisterTenantResponse {
	return &RegisterTenantResponse{
		TenantID:  res.TenantID.String(),
		Subdomain: res.Subdomain,
		AdminUser: res.Admin,
	}
}
