package handler

//go:generate mockgen -source=handler.go -destination=mocks/task-mocks.go -package=mocks Service

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"saasbase/internal/authz"
	"saasbase/internal/task/handler/mocks"
	"saasbase/internal/task/models"
	"saasbase/internal/task/service"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
)

type fixture struct {
	service   *mocks.MockService
	router    http.Handler
	principal authz.Principal
	tenantID  id.TenantID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{tenantID: id.NewTenantID()}
	f.principal = authz.Member{ID: id.NewUserID(), TenantID: f.tenantID}
	f.service = mocks.NewMockService(gomock.NewController(t))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authz.WithPrincipal(req.Context(), f.principal)))
		})
	})
	New(f.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, httputil.Envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env httputil.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestCreateTask(t *testing.T) {
	projectID := id.NewProjectID()

	t.Run("nested route takes the project from the path", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().
			Create(gomock.Any(), f.principal, projectID, service.CreateCommand{Title: "Design", Priority: "high"}).
			Return(&models.Task{ID: id.NewTaskID(), ProjectID: projectID, Title: "Design"}, nil)

		code, env := f.do(t, http.MethodPost, "/projects/"+projectID.String()+"/tasks", `{"title":"Design","priority":"high"}`)
		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Task created successfully", env.Message)
	})

	t.Run("flat route reads projectId from the body", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().
			Create(gomock.Any(), f.principal, projectID, service.CreateCommand{Title: "Copy"}).
			Return(&models.Task{ID: id.NewTaskID(), ProjectID: projectID, Title: "Copy"}, nil)

		code, _ := f.do(t, http.MethodPost, "/tasks", `{"projectId":"`+projectID.String()+`","title":"Copy"}`)
		assert.Equal(t, http.StatusCreated, code)
	})

	t.Run("missing project id", func(t *testing.T) {
		f := newFixture(t)
		code, env := f.do(t, http.MethodPost, "/tasks", `{"title":"Copy"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "invalid project id", env.Message)
	})

	t.Run("missing title", func(t *testing.T) {
		f := newFixture(t)
		code, env := f.do(t, http.MethodPost, "/projects/"+projectID.String()+"/tasks", `{"title":" "}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.False(t, env.Success)
	})

	t.Run("project in another tenant", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().Create(gomock.Any(), gomock.Any(), projectID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "project not found"))

		code, env := f.do(t, http.MethodPost, "/projects/"+projectID.String()+"/tasks", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "project not found", env.Message)
	})
}

func TestListTasks(t *testing.T) {
	projectID := id.NewProjectID()

	t.Run("passes filters and renders an array", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().
			List(gomock.Any(), f.principal, nil, projectID, service.ListQuery{Status: "todo", AssignedTo: "me"}).
			Return([]*models.Task{}, nil)

		code, env := f.do(t, http.MethodGet, "/projects/"+projectID.String()+"/tasks?status=todo&assignedTo=me", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, []any{}, env.Data)
	})

	t.Run("bad project id", func(t *testing.T) {
		f := newFixture(t)
		code, _ := f.do(t, http.MethodGet, "/projects/nope/tasks", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestUpdateTask(t *testing.T) {
	taskID := id.NewTaskID()

	t.Run("optional fields", func(t *testing.T) {
		f := newFixture(t)
		empty := ""
		title := "New title"
		f.service.EXPECT().
			Update(gomock.Any(), f.principal, nil, taskID, service.UpdateCommand{Title: &title, AssignedTo: &empty}).
			Return(&models.Task{ID: taskID, Title: title}, nil)

		code, env := f.do(t, http.MethodPut, "/tasks/"+taskID.String(), `{"title":"New title","assignedTo":""}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Task updated successfully", env.Message)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture(t)
		code, env := f.do(t, http.MethodPut, "/tasks/"+taskID.String(), `{}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "nothing to update", env.Message)
	})

	t.Run("forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), taskID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "not authorized to update this task"))

		code, _ := f.do(t, http.MethodPut, "/tasks/"+taskID.String(), `{"priority":"low"}`)
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	taskID := id.NewTaskID()

	t.Run("ok", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().UpdateStatus(gomock.Any(), f.principal, nil, taskID, "completed").
			Return(&models.Task{ID: taskID, Status: models.StatusCompleted}, nil)

		code, env := f.do(t, http.MethodPatch, "/tasks/"+taskID.String()+"/status", `{"status":"completed"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "completed", env.Data.(map[string]any)["status"])
	})

	t.Run("invalid status from the service", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), taskID, "done").
			Return(nil, dErrors.New(dErrors.CodeBadRequest, "invalid status"))

		code, env := f.do(t, http.MethodPatch, "/tasks/"+taskID.String()+"/status", `{"status":"done"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "invalid status", env.Message)
	})

	t.Run("status is required", func(t *testing.T) {
		f := newFixture(t)
		code, _ := f.do(t, http.MethodPatch, "/tasks/"+taskID.String()+"/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestDeleteTask(t *testing.T) {
	taskID := id.NewTaskID()

	t.Run("ok", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().Delete(gomock.Any(), f.principal, nil, taskID).Return(nil)

		code, env := f.do(t, http.MethodDelete, "/tasks/"+taskID.String(), "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Task deleted successfully", env.Message)
	})

	t.Run("internal errors hide details", func(t *testing.T) {
		f := newFixture(t)
		f.service.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any(), taskID).
			Return(dErrors.Wrap(assertErr{}, dErrors.CodeInternal, "failed to delete task"))

		code, env := f.do(t, http.MethodDelete, "/tasks/"+taskID.String(), "")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.NotContains(t, env.Message, "connection reset")
	})

	t.Run("bad task id", func(t *testing.T) {
		f := newFixture(t)
		code, env := f.do(t, http.MethodDelete, "/tasks/123", "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "invalid task id", env.Message)
	})
}

type assertErr struct{}

func (assertErr) Error() string { return "connection reset by peer" }
