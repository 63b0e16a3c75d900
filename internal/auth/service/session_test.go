package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"saasbase/internal/authz"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
)

func (s *AuthServiceSuite) memberPrincipal() authz.Principal {
	return authz.Member{ID: s.member.ID, TenantID: s.tenant.ID}
}

func (s *AuthServiceSuite) TestMeMember() {
	s.mockUsers.EXPECT().FindByID(gomock.Any(), s.member.ID).Return(s.member, nil)
	s.mockTenants.EXPECT().FindByID(gomock.Any(), s.tenant.ID).Return(s.tenant, nil)

	identity, err := s.service.Me(s.ctx, s.memberPrincipal())
	s.Require().NoError(err)
	s.Equal(s.member.ID, identity.User.ID)
	s.Require().NotNil(identity.Tenant)
	s.Equal(3, identity.Tenant.MaxProjects)
}

func (s *AuthServiceSuite) TestMeSuperAdmin() {
	s.mockUsers.EXPECT().FindByID(gomock.Any(), s.admin.ID).Return(s.admin, nil)

	identity, err := s.service.Me(s.ctx, authz.SuperAdmin{ID: s.admin.ID})
	s.Require().NoError(err)
	s.Nil(identity.Tenant)
}

func (s *AuthServiceSuite) TestMeDeletedUser() {
	s.mockUsers.EXPECT().FindByID(gomock.Any(), s.member.ID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Me(s.ctx, s.memberPrincipal())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AuthServiceSuite) TestMeTokenForAnotherTenant() {
	s.mockUsers.EXPECT().FindByID(gomock.Any(), s.member.ID).Return(s.member, nil)

	_, err := s.service.Me(s.ctx, authz.Member{ID: s.member.ID, TenantID: id.NewTenantID()})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AuthServiceSuite) TestLogout() {
	s.Run("member is audited", func() {
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Entry) error {
			s.Equal(audit.ActionLogout, e.Action)
			s.Equal(s.tenant.ID, e.TenantID)
			return nil
		})
		s.NoError(s.service.Logout(s.ctx, s.memberPrincipal()))
	})

	s.Run("super-admin is not", func() {
		s.NoError(s.service.Logout(s.ctx, authz.SuperAdmin{ID: s.admin.ID}))
	})

	s.Run("audit failure", func() {
		s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
		err := s.service.Logout(s.ctx, s.memberPrincipal())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
