package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"saasbase/internal/authz"
	"saasbase/internal/quota"
	tenantModels "saasbase/internal/tenant/models"
	tenantStore "saasbase/internal/tenant/store"
	"saasbase/internal/user/models"
	userStore "saasbase/internal/user/store"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	auditmemory "saasbase/pkg/platform/audit/store/memory"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/secrets"
	"saasbase/pkg/testutil"
)

type zeroCounter struct{}

func (zeroCounter) CountByTenant(context.Context, id.TenantID) (int, error) { return 0, nil }

type recordingReleaser struct {
	released []id.UserID
	err      error
}

func (r *recordingReleaser) ReleaseUser(_ context.Context, _ id.TenantID, userID id.UserID) error {
	if r.err != nil {
		return r.err
	}
	r.released = append(r.released, userID)
	return nil
}

type UserServiceSuite struct {
	suite.Suite
	ctx        context.Context
	users      *userStore.InMemory
	auditStore *auditmemory.Store
	releaser   *recordingReleaser
	service    *Service
	tenantID   id.TenantID
	admin      authz.Principal
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.ctx = context.Background()
	tenants := tenantStore.NewInMemory()
	s.users = userStore.NewInMemory()
	s.auditStore = auditmemory.New()
	s.releaser = &recordingReleaser{}

	tenant, err := tenantModels.NewTenant(id.NewTenantID(), "Acme", "acme", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(tenants.CreateIfSubdomainAvailable(s.ctx, tenant))
	s.tenantID = tenant.ID

	admin, err := models.NewTenantUser(id.NewUserID(), s.tenantID, "admin@acme.io", "hash", "Ada Admin", id.RoleTenantAdmin, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(s.ctx, admin))
	s.admin = authz.TenantAdmin{ID: admin.ID, TenantID: s.tenantID}

	s.service = New(
		s.users,
		quota.New(tenants, s.users, zeroCounter{}),
		audit.NewRecorder(s.auditStore),
		secrets.NewHasher(bcrypt.MinCost),
		tx.NewInMemory(),
		WithReleasers(s.releaser),
	)
}

func (s *UserServiceSuite) add(email string, role id.Role) *models.User {
	u, err := s.service.AddUser(s.ctx, s.admin, nil, AddUserCommand{
		Email: email, Password: "password1", FullName: "Member " + email, Role: role,
	})
	s.Require().NoError(err)
	return u
}

func (s *UserServiceSuite) TestAddUser() {
	u := s.add(" Bob@Acme.io ", "")

	s.Equal("bob@acme.io", u.Email)
	s.Equal(id.RoleUser, u.Role)
	s.True(u.BelongsTo(s.tenantID))
	s.NoError(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")))

	entries := s.auditStore.All()
	s.Require().Len(entries, 1)
	s.Equal(audit.ActionCreateUser, entries[0].Action)
	s.Equal(s.admin.UserID(), entries[0].UserID)
}

func (s *UserServiceSuite) TestAddUserRules() {
	s.add("bob@acme.io", id.RoleUser)

	_, err := s.service.AddUser(s.ctx, s.admin, nil, AddUserCommand{Email: "BOB@acme.io", Password: "password1", FullName: "Dup"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.AddUser(s.ctx, s.admin, nil, AddUserCommand{Email: "root@acme.io", Password: "password1", FullName: "Root", Role: id.RoleSuperAdmin})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = s.service.AddUser(s.ctx, s.admin, nil, AddUserCommand{Email: "short@acme.io", Password: "pw", FullName: "Short"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	member := authz.Member{ID: id.NewUserID(), TenantID: s.tenantID}
	_, err = s.service.AddUser(s.ctx, member, nil, AddUserCommand{Email: "x@acme.io", Password: "password1", FullName: "X"})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	other := id.NewTenantID()
	_, err = s.service.AddUser(s.ctx, s.admin, &other, AddUserCommand{Email: "x@acme.io", Password: "password1", FullName: "X"})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *UserServiceSuite) TestUserQuota() {
	// The admin already takes one of the five free-plan seats.
	for _, email := range []string{"a@acme.io", "b@acme.io", "c@acme.io", "d@acme.io"} {
		s.add(email, id.RoleUser)
	}
	_, err := s.service.AddUser(s.ctx, s.admin, nil, AddUserCommand{Email: "e@acme.io", Password: "password1", FullName: "E"})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.EqualError(err, "subscription users limit reached")
	s.Len(s.auditStore.All(), 4)
}

func (s *UserServiceSuite) TestConcurrentAddsRespectQuota() {
	result := testutil.Race(12, func(i int) error {
		_, err := s.service.AddUser(s.ctx, s.admin, nil, AddUserCommand{
			Email: id.NewUserID().String() + "@acme.io", Password: "password1", FullName: "Racer",
		})
		return err
	})
	s.Equal(4, result[testutil.Succeeded])
	s.Equal(8, result[testutil.Rejected])
}

func (s *UserServiceSuite) TestListUsers() {
	s.add("bob@acme.io", id.RoleUser)
	s.add("carol@acme.io", id.RoleTenantAdmin)

	all, err := s.service.ListUsers(s.ctx, s.admin, nil, ListQuery{})
	s.Require().NoError(err)
	s.Len(all, 3)

	admins, err := s.service.ListUsers(s.ctx, s.admin, nil, ListQuery{Role: "tenant_admin"})
	s.Require().NoError(err)
	s.Len(admins, 2)

	found, err := s.service.ListUsers(s.ctx, s.admin, nil, ListQuery{Search: "CAROL"})
	s.Require().NoError(err)
	s.Len(found, 1)

	_, err = s.service.ListUsers(s.ctx, s.admin, nil, ListQuery{Role: "owner"})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *UserServiceSuite) TestUpdateUserPermissions() {
	bob := s.add("bob@acme.io", id.RoleUser)
	carol := s.add("carol@acme.io", id.RoleUser)
	asBob := authz.Member{ID: bob.ID, TenantID: s.tenantID}

	name := "Bobby"
	updated, err := s.service.UpdateUser(s.ctx, asBob, nil, bob.ID, UpdateUserCommand{FullName: &name})
	s.Require().NoError(err)
	s.Equal("Bobby", updated.FullName)

	role := id.RoleTenantAdmin
	_, err = s.service.UpdateUser(s.ctx, asBob, nil, bob.ID, UpdateUserCommand{Role: &role})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.UpdateUser(s.ctx, asBob, nil, carol.ID, UpdateUserCommand{FullName: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	inactive := false
	updated, err = s.service.UpdateUser(s.ctx, s.admin, nil, carol.ID, UpdateUserCommand{Role: &role, IsActive: &inactive})
	s.Require().NoError(err)
	s.Equal(id.RoleTenantAdmin, updated.Role)
	s.False(updated.IsActive)

	_, err = s.service.UpdateUser(s.ctx, s.admin, nil, id.NewUserID(), UpdateUserCommand{FullName: &name})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *UserServiceSuite) TestDeleteUser() {
	bob := s.add("bob@acme.io", id.RoleUser)

	err := s.service.DeleteUser(s.ctx, s.admin, nil, s.admin.UserID())
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	asBob := authz.Member{ID: bob.ID, TenantID: s.tenantID}
	err = s.service.DeleteUser(s.ctx, asBob, nil, s.admin.UserID())
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	s.Require().NoError(s.service.DeleteUser(s.ctx, s.admin, nil, bob.ID))
	s.Equal([]id.UserID{bob.ID}, s.releaser.released)
	_, err = s.users.FindByID(s.ctx, bob.ID)
	s.Error(err)

	entries := s.auditStore.All()
	s.Equal(audit.ActionDeleteUser, entries[len(entries)-1].Action)

	err = s.service.DeleteUser(s.ctx, s.admin, nil, bob.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *UserServiceSuite) TestDeleteRollsBackWhenReleaseFails() {
	bob := s.add("bob@acme.io", id.RoleUser)
	s.releaser.err = errors.New("tasks unavailable")

	err := s.service.DeleteUser(s.ctx, s.admin, nil, bob.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	_, err = s.users.FindByID(s.ctx, bob.ID)
	s.NoError(err)
}
