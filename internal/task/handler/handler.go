package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saasbase/internal/authz"
	"saasbase/internal/task/models"
	"saasbase/internal/task/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, p authz.Principal, projectID id.ProjectID, cmd service.CreateCommand) (*models.Task, error)
	List(ctx context.Context, p authz.Principal, requested *id.TenantID, projectID id.ProjectID, query service.ListQuery) ([]*models.Task, error)
	Update(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID, cmd service.UpdateCommand) (*models.Task, error)
	UpdateStatus(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID, rawStatus string) (*models.Task, error)
	Delete(ctx context.Context, p authz.Principal, requested *id.TenantID, taskID id.TaskID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectId}/tasks", h.HandleCreate)
	r.Get("/projects/{projectId}/tasks", h.HandleList)
	r.Post("/tasks", h.HandleCreate)
	r.Put("/tasks/{taskId}", h.HandleUpdate)
	r.Patch("/tasks/{taskId}/status", h.HandleUpdateStatus)
	r.Delete("/tasks/{taskId}", h.HandleDelete)
}

// HandleCreate serves both the nested route and POST /tasks, where the
// project comes from the body.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Bind[CreateTaskRequest](w, r, h.logger)
	if !ok {
		return
	}
	rawProject := chi.URLParam(r, "projectId")
	if rawProject == "" {
		rawProject = req.ProjectID
	}
	projectID, err := id.ParseProjectID(rawProject)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid project id"))
		return
	}
	task, err := h.service.Create(ctx, authz.FromContext(ctx), projectID, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "create task failed", err, "project_id", projectID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Task created successfully", task)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid project id"))
		return
	}
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	query := service.ListQuery{
		Status:     r.URL.Query().Get("status"),
		AssignedTo: r.URL.Query().Get("assignedTo"),
	}
	tasks, err := h.service.List(ctx, authz.FromContext(ctx), requested, projectID, query)
	if err != nil {
		h.fail(ctx, w, "list tasks failed", err, "project_id", projectID.String())
		return
	}
	httputil.WriteData(w, http.StatusOK, tasks)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, taskID, ok := target(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Bind[UpdateTaskRequest](w, r, h.logger)
	if !ok {
		return
	}
	task, err := h.service.Update(ctx, authz.FromContext(ctx), requested, taskID, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "update task failed", err, "task_id", taskID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Task updated successfully", task)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, taskID, ok := target(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Bind[UpdateStatusRequest](w, r, h.logger)
	if !ok {
		return
	}
	task, err := h.service.UpdateStatus(ctx, authz.FromContext(ctx), requested, taskID, req.Status)
	if err != nil {
		h.fail(ctx, w, "update task status failed", err, "task_id", taskID.String())
		return
	}
	httputil.WriteData(w, http.StatusOK, task)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requested, taskID, ok := target(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, authz.FromContext(ctx), requested, taskID); err != nil {
		h.fail(ctx, w, "delete task failed", err, "task_id", taskID.String())
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Task deleted successfully", nil)
}

func target(w http.ResponseWriter, r *http.Request) (*id.TenantID, id.TaskID, bool) {
	taskID, err := id.ParseTaskID(chi.URLParam(r, "taskId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid task id"))
		return nil, id.TaskID{}, false
	}
	requested, err := httputil.RequestedTenant(r)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, id.TaskID{}, false
	}
	return requested, taskID, true
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
