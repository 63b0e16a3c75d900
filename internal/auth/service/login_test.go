package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"saasbase/internal/auth/lockout"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
)

func (s *AuthServiceSuite) expectNotSuperAdmin(email string) {
	s.mockUsers.EXPECT().FindSuperAdminByEmail(gomock.Any(), email).Return(nil, sentinel.ErrNotFound)
}

func (s *AuthServiceSuite) expectTenant() {
	s.mockTenants.EXPECT().FindBySubdomain(gomock.Any(), "acme").Return(s.tenant, nil)
}

func (s *AuthServiceSuite) memberLogin(pw string) LoginCommand {
	return LoginCommand{Email: "ann@acme.io", Password: pw, Subdomain: "acme"}
}

func (s *AuthServiceSuite) expectWrongPassword() {
	s.expectNotSuperAdmin("ann@acme.io")
	s.expectTenant()
	s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "ann@acme.io").Return(s.member, nil)
}

func (s *AuthServiceSuite) expectSuccess() {
	s.expectNotSuperAdmin("ann@acme.io")
	s.expectTenant()
	s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "ann@acme.io").Return(s.member, nil)
	s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), s.member.ID, s.tenant.ID, s.member.Role).
		Return("signed", s.now.Add(24*time.Hour), nil)
	s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
}

func (s *AuthServiceSuite) TestLoginTenantMember() {
	s.expectNotSuperAdmin("ann@acme.io")
	s.expectTenant()
	s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "ann@acme.io").Return(s.member, nil)
	s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), s.member.ID, s.tenant.ID, s.member.Role).
		Return("signed", s.now.Add(24*time.Hour), nil)
	s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Entry) error {
		s.Equal(audit.ActionLogin, e.Action)
		s.Equal(s.tenant.ID, e.TenantID)
		s.Equal(s.member.ID, e.UserID)
		return nil
	})

	res, err := s.service.Login(s.ctx, LoginCommand{Email: " Ann@Acme.IO ", Password: password, Subdomain: " ACME "})
	s.Require().NoError(err)
	s.Equal("signed", res.Token)
	s.Equal(s.member.ID, res.User.ID)
	s.Equal(s.now.Add(24*time.Hour), res.ExpiresAt)
}

func (s *AuthServiceSuite) TestLoginSuperAdmin() {
	s.mockUsers.EXPECT().FindSuperAdminByEmail(gomock.Any(), "root@saasbase.io").Return(s.admin, nil)
	s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), s.admin.ID, id.TenantID{}, id.RoleSuperAdmin).
		Return("root-token", s.now.Add(24*time.Hour), nil)

	res, err := s.service.Login(s.ctx, LoginCommand{Email: "root@saasbase.io", Password: password})
	s.Require().NoError(err)
	s.Equal("root-token", res.Token)
	s.Nil(res.User.TenantID)
}

func (s *AuthServiceSuite) TestLoginSuperAdminWrongPassword() {
	s.mockUsers.EXPECT().FindSuperAdminByEmail(gomock.Any(), "root@saasbase.io").Return(s.admin, nil)

	_, err := s.service.Login(s.ctx, LoginCommand{Email: "root@saasbase.io", Password: "nope-nope"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.EqualError(err, "invalid credentials")
}

func (s *AuthServiceSuite) TestLoginSubdomainRequiredForMembers() {
	s.expectNotSuperAdmin("ann@acme.io")

	_, err := s.service.Login(s.ctx, LoginCommand{Email: "ann@acme.io", Password: password})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *AuthServiceSuite) TestLoginValidation() {
	_, err := s.service.Login(s.ctx, LoginCommand{Password: password, Subdomain: "acme"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.Login(s.ctx, LoginCommand{Email: "ann@acme.io", Subdomain: "acme"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AuthServiceSuite) TestLoginUnknownTenant() {
	s.expectNotSuperAdmin("ann@acme.io")
	s.mockTenants.EXPECT().FindBySubdomain(gomock.Any(), "ghost").Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Login(s.ctx, LoginCommand{Email: "ann@acme.io", Password: password, Subdomain: "ghost"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.EqualError(err, "tenant not found")
}

func (s *AuthServiceSuite) TestLoginSuspendedTenantBeforeCredentials() {
	s.Require().NoError(s.tenant.Suspend(s.now))
	s.expectNotSuperAdmin("ann@acme.io")
	s.expectTenant()

	// no FindByTenantAndEmail expectation: credentials are never looked at
	_, err := s.service.Login(s.ctx, s.memberLogin(password))
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *AuthServiceSuite) TestLoginInvalidCredentialsLookAlike() {
	s.Run("unknown user", func() {
		s.expectNotSuperAdmin("ann@acme.io")
		s.expectTenant()
		s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "ann@acme.io").Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Login(s.ctx, s.memberLogin(password))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.EqualError(err, "invalid credentials")
	})

	s.Run("wrong password", func() {
		s.expectWrongPassword()

		_, err := s.service.Login(s.ctx, s.memberLogin("wrong-password"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.EqualError(err, "invalid credentials")
	})

	s.Run("inactive user", func() {
		inactive := *s.member
		inactive.IsActive = false
		s.expectNotSuperAdmin("ann@acme.io")
		s.expectTenant()
		s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "ann@acme.io").Return(&inactive, nil)

		_, err := s.service.Login(s.ctx, s.memberLogin(password))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.EqualError(err, "invalid credentials")
	})
}

func (s *AuthServiceSuite) TestLoginStoreFailure() {
	s.mockUsers.EXPECT().FindSuperAdminByEmail(gomock.Any(), "ann@acme.io").Return(nil, errors.New("connection reset"))

	_, err := s.service.Login(s.ctx, s.memberLogin(password))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *AuthServiceSuite) TestLoginLockout() {
	for range maxFailure {
		s.expectWrongPassword()
		_, err := s.service.Login(s.ctx, s.memberLogin("wrong-password"))
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	// locked: the correct password is refused before the member is loaded
	s.expectNotSuperAdmin("ann@acme.io")
	s.expectTenant()
	_, err := s.service.Login(s.ctx, s.memberLogin(password))
	s.True(dErrors.HasCode(err, dErrors.CodeTooManyRequests))

	// other identifiers are unaffected
	s.expectNotSuperAdmin("bob@acme.io")
	s.expectTenant()
	s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "bob@acme.io").Return(nil, sentinel.ErrNotFound)
	_, err = s.service.Login(s.ctx, LoginCommand{Email: "bob@acme.io", Password: password, Subdomain: "acme"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *AuthServiceSuite) TestLockedLoginStillReportsTenantState() {
	for range maxFailure {
		s.expectWrongPassword()
		_, err := s.service.Login(s.ctx, s.memberLogin("wrong-password"))
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	s.Run("suspended tenant is forbidden", func() {
		s.Require().NoError(s.tenant.Suspend(s.now))
		defer func() { s.Require().NoError(s.tenant.Activate(s.now)) }()
		s.expectNotSuperAdmin("ann@acme.io")
		s.expectTenant()

		_, err := s.service.Login(s.ctx, s.memberLogin(password))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "got %v", err)
	})

	s.Run("unknown tenant is not found", func() {
		s.expectNotSuperAdmin("ann@acme.io")
		s.mockTenants.EXPECT().FindBySubdomain(gomock.Any(), "acme").Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Login(s.ctx, s.memberLogin(password))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
	})

	s.Run("active tenant is still locked", func() {
		s.expectNotSuperAdmin("ann@acme.io")
		s.expectTenant()

		_, err := s.service.Login(s.ctx, s.memberLogin(password))
		s.True(dErrors.HasCode(err, dErrors.CodeTooManyRequests), "got %v", err)
	})
}

func (s *AuthServiceSuite) TestLockedEmailWithoutSubdomainIsBadRequest() {
	key := lockout.Key("", "ann@acme.io")
	for range maxFailure {
		s.Require().NoError(s.guard.Fail(s.ctx, key))
	}
	s.expectNotSuperAdmin("ann@acme.io")

	_, err := s.service.Login(s.ctx, LoginCommand{Email: "ann@acme.io", Password: password})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest), "got %v", err)
}

func (s *AuthServiceSuite) TestLoginSuccessResetsFailures() {
	for range maxFailure - 1 {
		s.expectWrongPassword()
		_, err := s.service.Login(s.ctx, s.memberLogin("wrong-password"))
		s.Require().Error(err)
	}
	s.expectSuccess()
	_, err := s.service.Login(s.ctx, s.memberLogin(password))
	s.Require().NoError(err)

	for range maxFailure - 1 {
		s.expectWrongPassword()
		_, err := s.service.Login(s.ctx, s.memberLogin("wrong-password"))
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}

func (s *AuthServiceSuite) TestLoginAuditFailureFailsLogin() {
	s.expectNotSuperAdmin("ann@acme.io")
	s.expectTenant()
	s.mockUsers.EXPECT().FindByTenantAndEmail(gomock.Any(), s.tenant.ID, "ann@acme.io").Return(s.member, nil)
	s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any(), s.member.ID, s.tenant.ID, s.member.Role).
		Return("signed", s.now, nil)
	s.mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := s.service.Login(s.ctx, s.memberLogin(password))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
