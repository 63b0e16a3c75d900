package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saasbase/internal/authz"
	"saasbase/internal/project/models"
	"saasbase/internal/project/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, p authz.Principal, cmd service.CreateCommand) (*models.Project, error)
	List(ctx context.Context, p authz.Principal, requested *id.TenantID, query service.ListQuery) ([]*models.Summary, error)
	Get(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID) (*models.Project, error)
	Update(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID, cmd service.UpdateCommand) (*models.Project, error)
	Delete(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/projects", h.HandleCreate)
	r.Get("/projects", h.HandleList)
	r.Get("/projects/{projectId}", h.HandleGet)
	r.Put("/projects/{projectId}", h.HandleUpdate)
	r.Delete("/projects/{projectId}", h.HandleDelete)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Bind[CreateProjectRequest](w, r, h.logger)
	if !ok {
		return
	}
	project, err := h.service.Create(ctx, authz.FromContext(ctx), req.toCommand())
	if err != nil {
		h.fail(ctx, w, "create project failed", err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Project created successfully", project)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	query := service.ListQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	projects, err := h.service.List(ctx, authz.FromContext(ctx), requested, query)
	if err != nil {
		h.fail(ctx, w, "list projects failed", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, projects)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, projectID, ok := target(w, r)
	if !ok {
		return
	}
	project, err := h.service.Get(ctx, authz.FromContext(ctx), requested, projectID)
	if err != nil {
		h.fail(ctx, w, "get project failed", err, "project_id", projectID.String())
		return
	}
	httputil.WriteData(w, http.StatusOK, project)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, projectID, ok := target(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Bind[UpdateProjectRequest](w, r, h.logger)
	if !ok {
		return
	}
	project, err := h.service.Update(ctx, authz.FromContext(ctx), requested, projectID, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "update project failed", err, "project_id", projectID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Project updated successfully", project)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, projectID, ok := target(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, authz.FromContext(ctx), requested, projectID); err != nil {
		h.fail(ctx, w, "delete project failed", err, "project_id", projectID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Project deleted successfully", nil)
}

func target(w http.ResponseWriter, r *http.Request) (*id.TenantID, id.ProjectID, bool) {
	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid project id"))
		return nil, id.ProjectID{}, false
	}
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, id.ProjectID{}, false
	}
	return requested, projectID, true
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
