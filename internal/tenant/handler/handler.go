package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"saasbase/internal/authz"
	"saasbase/internal/tenant/models"
	"saasbase/internal/tenant/readmodels"
	"saasbase/internal/tenant/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

type Provisioner interface {
	Provision(ctx context.Context, cmd service.ProvisionCommand) (*service.ProvisionResult, error)
}

// Service defines the tenant administration operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	ListTenants(ctx context.Context, p authz.Principal) ([]*readmodels.TenantDetails, error)
	GetTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID) (*readmodels.TenantDetails, error)
	UpdateTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID, cmd service.UpdateCommand) (*models.Tenant, error)
	SuspendTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID) (*models.Tenant, error)
	ActivateTenant(ctx context.Context, p authz.Principal, tenantID id.TenantID) (*models.Tenant, error)
	Upgrade(ctx context.Context, p authz.Principal, requested *id.TenantID, plan string) (*models.Tenant, error)
	AuditLogs(ctx context.Context, p authz.Principal, tenantID id.TenantID, limit int) ([]audit.Entry, error)
}

type Handler struct {
	provisioner Provisioner
	service     Service
	logger      *slog.Logger
}

func New(provisioner Provisioner, service Service, logger *slog.Logger) *Handler {
	return &Handler{provisioner: provisioner, service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/register-tenant", h.HandleRegisterTenant)
}

// Register mounts the routes that need an authenticated principal.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tenants", h.HandleListTenants)
	r.Post("/tenants/upgrade", h.HandleUpgrade)
	r.Get("/tenants/{tenantId}", h.HandleGetTenant)
	r.Put("/tenants/{tenantId}", h.HandleUpdateTenant)
	r.Post("/tenants/{tenantId}/suspend", h.HandleSuspendTenant)
	r.Post("/tenants/{tenantId}/activate", h.HandleActivateTenant)
	r.Post("/tenants/{tenantId}/upgrade", h.HandleUpgrade)
	r.Get("/tenants/{tenantId}/audit-logs", h.HandleAuditLogs)
}

func (h *Handler) HandleRegisterTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Bind[RegisterTenantRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.provisioner.Provision(ctx, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "register tenant failed", err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Tenant registered successfully", toRegisterResponse(res))
}

func (h *Handler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenants, err := h.service.ListTenants(ctx, authz.FromContext(ctx))
	if err != nil {
		h.fail(ctx, w, "list tenants failed", err)
		return
	}
	out := make([]*TenantDetailsResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantDetailsResponse(t))
	}
	httputil.WriteData(w, http.StatusOK, out)
}

func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.pathTenant(w, r)
	if !ok {
		return
	}
	details, err := h.service.GetTenant(ctx, authz.FromContext(ctx), tenantID)
	if err != nil {
		h.fail(ctx, w, "get tenant failed", err, "tenant_id", tenantID.String())
		return
	}
	httputil.WriteData(w, http.StatusOK, toTenantDetailsResponse(details))
}

func (h *Handler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.pathTenant(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Bind[UpdateTenantRequest](w, r, h.logger)
	if !ok {
		return
	}
	tenant, err := h.service.UpdateTenant(ctx, authz.FromContext(ctx), tenantID, service.UpdateCommand{Name: req.Name})
	if err != nil {
		h.fail(ctx, w, "update tenant failed", err, "tenant_id", tenantID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Tenant updated successfully", toTenantResponse(tenant))
}

func (h *Handler) HandleSuspendTenant(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Tenant suspended", h.service.SuspendTenant)
}

func (h *Handler) HandleActivateTenant(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Tenant activated", h.service.ActivateTenant)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, message string, fn func(context.Context, authz.Principal, id.TenantID) (*models.Tenant, error)) {
	ctx := r.Context()
	tenantID, ok := h.pathTenant(w, r)
	if !ok {
		return
	}
	tenant, err := fn(ctx, authz.FromContext(ctx), tenantID)
	if err != nil {
		h.fail(ctx, w, "tenant status change failed", err, "tenant_id", tenantID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, message, toTenantResponse(tenant))
}

// HandleUpgrade serves both /tenants/upgrade (the caller's own tenant, or the
// X-Tenant-ID header for super-admins) and /tenants/{tenantId}/upgrade.
func (h *Handler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Bind[UpgradeRequest](w, r, h.logger)
	if !ok {
		return
	}
	tenant, err := h.service.Upgrade(ctx, authz.FromContext(ctx), requested, req.Plan)
	if err != nil {
		h.fail(ctx, w, "upgrade plan failed", err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Plan upgraded to "+string(tenant.Plan), toTenantResponse(tenant))
}

func (h *Handler) HandleAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.pathTenant(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	entries, err := h.service.AuditLogs(ctx, authz.FromContext(ctx), tenantID, limit)
	if err != nil {
		h.fail(ctx, w, "list audit logs failed", err, "tenant_id", tenantID.String())
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	httputil.WriteData(w, http.StatusOK, entries)
}

func (h *Handler) pathTenant(w http.ResponseWriter, r *http.Request) (id.TenantID, bool) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return id.TenantID{}, false
	}
	return tenantID, true
}

// fail logs at error level only for failures rendered as 500.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	args := append([]any{"error", err, "request_id", requestcontext.RequestID(ctx)}, attrs...)
	if httputil.IsInternal(err) {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
