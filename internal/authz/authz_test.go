package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
)

type AuthzSuite struct {
	suite.Suite
	tenantA id.TenantID
	tenantB id.TenantID
	super   SuperAdmin
	admin   TenantAdmin
	member  Member
}

func TestAuthzSuite(t *testing.T) {
	suite.Run(t, new(AuthzSuite))
}

func (s *AuthzSuite) SetupTest() {
	s.tenantA = id.NewTenantID()
	s.tenantB = id.NewTenantID()
	s.super = SuperAdmin{ID: id.NewUserID()}
	s.admin = TenantAdmin{ID: id.NewUserID(), TenantID: s.tenantA}
	s.member = Member{ID: id.NewUserID(), TenantID: s.tenantA}
}

func (s *AuthzSuite) TestNewPrincipal() {
	userID := id.NewUserID()

	s.Run("super admin ignores tenant", func() {
		p, err := NewPrincipal(userID, nil, id.RoleSuperAdmin)
		s.Require().NoError(err)
		s.Equal(SuperAdmin{ID: userID}, p)
	})

	s.Run("tenant admin", func() {
		p, err := NewPrincipal(userID, &s.tenantA, id.RoleTenantAdmin)
		s.Require().NoError(err)
		s.Equal(TenantAdmin{ID: userID, TenantID: s.tenantA}, p)
	})

	s.Run("member", func() {
		p, err := NewPrincipal(userID, &s.tenantA, id.RoleUser)
		s.Require().NoError(err)
		s.Equal(Member{ID: userID, TenantID: s.tenantA}, p)
	})

	s.Run("tenant role without tenant is forbidden", func() {
		_, err := NewPrincipal(userID, nil, id.RoleUser)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		nilTenant := id.TenantID{}
		_, err = NewPrincipal(userID, &nilTenant, id.RoleTenantAdmin)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown role is unauthorized", func() {
		_, err := NewPrincipal(userID, &s.tenantA, id.Role("owner"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthzSuite) TestResolveTenant() {
	s.Run("super admin needs a tenant", func() {
		_, err := ResolveTenant(s.super, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("super admin acts on any tenant", func() {
		got, err := ResolveTenant(s.super, &s.tenantB)
		s.Require().NoError(err)
		s.Equal(s.tenantB, got)
	})

	s.Run("member defaults to own tenant", func() {
		got, err := ResolveTenant(s.member, nil)
		s.Require().NoError(err)
		s.Equal(s.tenantA, got)
	})

	s.Run("member naming own tenant", func() {
		got, err := ResolveTenant(s.admin, &s.tenantA)
		s.Require().NoError(err)
		s.Equal(s.tenantA, got)
	})

	s.Run("cross tenant is forbidden", func() {
		_, err := ResolveTenant(s.admin, &s.tenantB)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = ResolveTenant(s.member, &s.tenantB)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("no principal", func() {
		_, err := ResolveTenant(nil, &s.tenantA)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthzSuite) TestRoleGuards() {
	s.NoError(RequireTenantAdmin(s.super))
	s.NoError(RequireTenantAdmin(s.admin))
	s.True(dErrors.HasCode(RequireTenantAdmin(s.member), dErrors.CodeForbidden))

	s.NoError(RequireSuperAdmin(s.super))
	s.True(dErrors.HasCode(RequireSuperAdmin(s.admin), dErrors.CodeForbidden))
	s.True(dErrors.HasCode(RequireSuperAdmin(nil), dErrors.CodeUnauthorized))
}

func (s *AuthzSuite) TestCanModify() {
	other := id.NewUserID()
	own := s.member.ID

	s.NoError(CanModify(s.admin, &other))
	s.NoError(CanModify(s.super))
	s.NoError(CanModify(s.member, &other, &own))
	s.NoError(CanModify(s.member, nil, &own))
	s.True(dErrors.HasCode(CanModify(s.member, &other, nil), dErrors.CodeForbidden))
	s.True(dErrors.HasCode(CanModify(s.member), dErrors.CodeForbidden))
}

func (s *AuthzSuite) TestRequireMember() {
	userID, tenantID, err := RequireMember(s.member)
	s.Require().NoError(err)
	s.Equal(s.member.ID, userID)
	s.Equal(s.tenantA, tenantID)

	_, _, err = RequireMember(s.super)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	p := Member{ID: id.NewUserID(), TenantID: id.NewTenantID()}
	ctx := WithPrincipal(context.Background(), p)
	got := FromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, p, got)
}
