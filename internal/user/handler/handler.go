package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saasbase/internal/authz"
	"saasbase/internal/user/models"
	"saasbase/internal/user/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

type Service interface {
	AddUser(ctx context.Context, p authz.Principal, requested *id.TenantID, cmd service.AddUserCommand) (*models.User, error)
	ListUsers(ctx context.Context, p authz.Principal, requested *id.TenantID, query service.ListQuery) ([]*models.User, error)
	UpdateUser(ctx context.Context, p authz.Principal, requested *id.TenantID, userID id.UserID, cmd service.UpdateUserCommand) (*models.User, error)
	DeleteUser(ctx context.Context, p authz.Principal, requested *id.TenantID, userID id.UserID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/tenants/{tenantId}/users", h.HandleListUsers)
	r.Post("/tenants/{tenantId}/users", h.HandleAddUser)
	r.Put("/users/{userId}", h.HandleUpdateUser)
	r.Delete("/users/{userId}", h.HandleDeleteUser)
}

func (h *Handler) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Bind[AddUserRequest](w, r, h.logger)
	if !ok {
		return
	}
	user, err := h.service.AddUser(ctx, authz.FromContext(ctx), requested, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "add user failed", err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "User created successfully", user)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	query := service.ListQuery{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}
	users, err := h.service.ListUsers(ctx, authz.FromContext(ctx), requested, query)
	if err != nil {
		h.fail(ctx, w, "list users failed", err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	httputil.WriteData(w, http.StatusOK, users)
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, userID, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Bind[UpdateUserRequest](w, r, h.logger)
	if !ok {
		return
	}
	user, err := h.service.UpdateUser(ctx, authz.FromContext(ctx), requested, userID, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "update user failed", err, "user_id", userID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "User updated successfully", user)
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, userID, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(ctx, authz.FromContext(ctx), requested, userID); err != nil {
		h.fail(ctx, w, "delete user failed", err, "user_id", userID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "User deleted successfully", nil)
}

// target reads the {userId} path parameter and the optional tenant header.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (*id.TenantID, id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return nil, id.UserID{}, false
	}
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, id.UserID{}, false
	}
	return requested, userID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	args := append([]any{"error", err, "request_id", requestcontext.RequestID(ctx)}, attrs...)
	if httputil.IsInternal(err) {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
