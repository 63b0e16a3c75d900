package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"saasbase/internal/platform/config"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/httputil"
)

func testConfig() config.Server {
	return config.Server{
		Environment:    "test",
		RequestTimeout: 5 * time.Second,
		Auth: config.Auth{
			JWTSigningKey:      "test-signing-key",
			JWTIssuer:          "saasbase",
			JWTAudience:        "saasbase-api",
			TokenTTL:           time.Hour,
			BcryptCost:         bcrypt.MinCost,
			LoginMaxFailures:   5,
			LoginLockoutWindow: time.Minute,
		},
	}
}

// AppSuite drives the assembled router over HTTP with in-memory stores.
type AppSuite struct {
	suite.Suite
	app    *App
	server *httptest.Server
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.app = New(testConfig(), MemoryStores(), Options{})
	s.server = httptest.NewServer(s.app.Router)
}

func (s *AppSuite) TearDownTest() {
	s.server.Close()
}

func (s *AppSuite) call(method, path, token, body string) (int, httputil.Envelope) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env httputil.Envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *AppSuite) data(env httputil.Envelope) map[string]any {
	m, ok := env.Data.(map[string]any)
	s.Require().True(ok, "data is %T", env.Data)
	return m
}

// register provisions a tenant and returns its id and the admin's token.
func (s *AppSuite) register(subdomain string) (string, string) {
	status, env := s.call(http.MethodPost, "/auth/register-tenant", "", fmt.Sprintf(`{
		"tenantName": "%s Inc",
		"subdomain": "%s",
		"adminEmail": "admin@%s.io",
		"adminPassword": "admin-pass-1",
		"adminFullName": "Admin"
	}`, subdomain, subdomain, subdomain))
	s.Require().Equal(http.StatusCreated, status, env.Message)
	tenantID := s.data(env)["tenantId"].(string)
	return tenantID, s.login("admin@"+subdomain+".io", "admin-pass-1", subdomain)
}

func (s *AppSuite) login(email, password, subdomain string) string {
	status, env := s.call(http.MethodPost, "/auth/login", "", fmt.Sprintf(
		`{"email":%q,"password":%q,"subdomain":%q}`, email, password, subdomain))
	s.Require().Equal(http.StatusOK, status, env.Message)
	return s.data(env)["token"].(string)
}

func (s *AppSuite) createProject(token, name string) (int, httputil.Envelope) {
	return s.call(http.MethodPost, "/projects", token, fmt.Sprintf(`{"name":%q}`, name))
}

func (s *AppSuite) TestQuotaAndUpgrade() {
	_, admin := s.register("acme")

	for i := range 3 {
		status, env := s.createProject(admin, fmt.Sprintf("Project %d", i))
		s.Require().Equal(http.StatusCreated, status, env.Message)
	}
	status, env := s.createProject(admin, "One too many")
	s.Equal(http.StatusForbidden, status)
	s.Equal("subscription projects limit reached", env.Message)

	status, env = s.call(http.MethodPost, "/tenants/upgrade", admin, `{"plan":"pro"}`)
	s.Require().Equal(http.StatusOK, status, env.Message)
	s.EqualValues(10, s.data(env)["maxProjects"])

	status, _ = s.createProject(admin, "Now it fits")
	s.Equal(http.StatusCreated, status)

	_, env = s.call(http.MethodGet, "/auth/me", admin, "")
	tenant := s.data(env)["tenant"].(map[string]any)
	s.Equal("pro", tenant["subscriptionPlan"])
}

func (s *AppSuite) TestMemberWorkflow() {
	tenantID, admin := s.register("acme")

	status, env := s.call(http.MethodPost, "/tenants/"+tenantID+"/users", admin,
		`{"email":"dev@acme.io","password":"dev-pass-12","fullName":"Dev"}`)
	s.Require().Equal(http.StatusCreated, status, env.Message)
	devID := s.data(env)["id"].(string)
	dev := s.login("dev@acme.io", "dev-pass-12", "acme")

	status, env = s.createProject(dev, "Website")
	s.Require().Equal(http.StatusCreated, status, env.Message)
	projectID := s.data(env)["id"].(string)

	status, env = s.call(http.MethodPost, "/projects/"+projectID+"/tasks", dev,
		fmt.Sprintf(`{"title":"Draft copy","priority":"high","assignedTo":%q,"dueDate":"2026-12-01"}`, devID))
	s.Require().Equal(http.StatusCreated, status, env.Message)
	taskID := s.data(env)["id"].(string)

	status, env = s.call(http.MethodPatch, "/tasks/"+taskID+"/status", dev, `{"status":"in_progress"}`)
	s.Require().Equal(http.StatusOK, status, env.Message)
	s.Equal("in_progress", s.data(env)["status"])

	status, env = s.call(http.MethodGet, "/projects", dev, "")
	s.Require().Equal(http.StatusOK, status)
	projects := env.Data.([]any)
	s.Require().Len(projects, 1)
	s.Equal("Dev", projects[0].(map[string]any)["creatorName"])
	s.EqualValues(1, projects[0].(map[string]any)["taskCount"])

	// deleting the member unassigns their task
	status, env = s.call(http.MethodDelete, "/users/"+devID, admin, "")
	s.Require().Equal(http.StatusOK, status, env.Message)
	_, env = s.call(http.MethodGet, "/projects/"+projectID+"/tasks", admin, "")
	tasks := env.Data.([]any)
	s.Require().Len(tasks, 1)
	s.Nil(tasks[0].(map[string]any)["assignedTo"])

	status, env = s.call(http.MethodGet, "/tenants/"+tenantID+"/audit-logs", admin, "")
	s.Require().Equal(http.StatusOK, status)
	var actions []string
	for _, e := range env.Data.([]any) {
		actions = append(actions, e.(map[string]any)["action"].(string))
	}
	s.Subset(actions, []string{"LOGIN", "CREATE_USER", "CREATE_PROJECT", "CREATE_TASK", "UPDATE_TASK", "DELETE_USER"})
}

func (s *AppSuite) TestTenantIsolation() {
	_, acme := s.register("acme")
	globexID, globex := s.register("globex")

	_, env := s.createProject(acme, "Secret")
	projectID := s.data(env)["id"].(string)

	status, _ := s.call(http.MethodGet, "/projects/"+projectID, globex, "")
	s.Equal(http.StatusNotFound, status)

	status, _ = s.call(http.MethodGet, "/tenants/"+globexID+"/users", acme, "")
	s.Equal(http.StatusForbidden, status)

	_, env = s.call(http.MethodGet, "/projects", globex, "")
	s.Empty(env.Data)
}

func (s *AppSuite) TestSuspendedTenantCannotLogIn() {
	tenantID, _ := s.register("acme")
	ctx := s.T().Context()
	parsed, err := id.ParseTenantID(tenantID)
	s.Require().NoError(err)
	tenant, err := s.app.Stores.Tenants.FindByID(ctx, parsed)
	s.Require().NoError(err)
	s.Require().NoError(tenant.Suspend(time.Now()))
	s.Require().NoError(s.app.Stores.Tenants.Update(ctx, tenant))

	status, env := s.call(http.MethodPost, "/auth/login", "", `{"email":"admin@acme.io","password":"admin-pass-1","subdomain":"acme"}`)
	s.Equal(http.StatusForbidden, status)
	s.Equal("tenant account is suspended", env.Message)
}

func (s *AppSuite) TestSuspendedTenantWinsOverLockout() {
	tenantID, _ := s.register("acme")
	const correct = `{"email":"admin@acme.io","password":"admin-pass-1","subdomain":"acme"}`
	for range testConfig().Auth.LoginMaxFailures {
		status, _ := s.call(http.MethodPost, "/auth/login", "", `{"email":"admin@acme.io","password":"wrong-pass-1","subdomain":"acme"}`)
		s.Require().Equal(http.StatusUnauthorized, status)
	}
	status, _ := s.call(http.MethodPost, "/auth/login", "", correct)
	s.Require().Equal(http.StatusTooManyRequests, status)

	ctx := s.T().Context()
	parsed, err := id.ParseTenantID(tenantID)
	s.Require().NoError(err)
	tenant, err := s.app.Stores.Tenants.FindByID(ctx, parsed)
	s.Require().NoError(err)
	s.Require().NoError(tenant.Suspend(time.Now()))
	s.Require().NoError(s.app.Stores.Tenants.Update(ctx, tenant))

	status, env := s.call(http.MethodPost, "/auth/login", "", correct)
	s.Equal(http.StatusForbidden, status)
	s.Equal("tenant account is suspended", env.Message)
}

func (s *AppSuite) TestDuplicateSubdomain() {
	s.register("acme")
	status, env := s.call(http.MethodPost, "/auth/register-tenant", "", `{
		"tenantName": "Other",
		"subdomain": "ACME",
		"adminEmail": "x@other.io",
		"adminPassword": "other-pass-1",
		"adminFullName": "X"
	}`)
	s.Equal(http.StatusConflict, status)
	s.Equal("subdomain already exists", env.Message)
}

func (s *AppSuite) TestHealthAndUnknownRoutes() {
	resp, err := http.Get(s.server.URL + "/health/live")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	status, env := s.call(http.MethodGet, "/nope", "", "")
	s.Equal(http.StatusNotFound, status)
	s.False(env.Success)

	resp, err = http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode, "metrics are only exposed when collectors are configured")
}
