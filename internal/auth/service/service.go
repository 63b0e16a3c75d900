package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"saasbase/internal/auth/device"
	"saasbase/internal/auth/lockout"
	authmetrics "saasbase/internal/auth/metrics"
	"saasbase/internal/authz"
	tenantModels "saasbase/internal/tenant/models"
	userModels "saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tracer"
	"saasbase/pkg/requestcontext"
)

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

// Service issues tokens for valid credentials and describes the caller.
// Tokens are stateless, so logout is an acknowledgement plus an audit entry.
type Service struct {
	users     UserStore
	tenants   TenantStore
	tokens    TokenIssuer
	passwords PasswordVerifier
	guard     LoginGuard
	recorder  AuditRecorder
	logger    *slog.Logger
	metrics   *authmetrics.Metrics
	tracer    tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *authmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(users UserStore, tenants TenantStore, tokens TokenIssuer, passwords PasswordVerifier, guard LoginGuard, recorder AuditRecorder, opts ...Option) *Service {
	s := &Service{
		users:     users,
		tenants:   tenants,
		tokens:    tokens,
		passwords: passwords,
		guard:     guard,
		recorder:  recorder,
		logger:    slog.New(slog.DiscardHandler),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates a super-admin by email alone, or a tenant member by
// subdomain and email. Unknown users, inactive users and wrong passwords all
// fail with the same message.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (result *LoginResult, err error) {
	start := time.Now()
	cmd.Normalize()
	ctx, span := s.tracer.Start(ctx, tracer.SpanAuthLogin,
		tracer.String(tracer.AttrSubdomain, cmd.Subdomain),
	)
	defer func() { span.End(err) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	key := lockout.Key(cmd.Subdomain, cmd.Email)
	user, tenant, err := s.authenticate(ctx, key, cmd)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeTooManyRequests) {
			s.metrics.ObserveLogin(authmetrics.ResultLocked, start)
			s.logger.WarnContext(ctx, "login refused while locked",
				"subdomain", cmd.Subdomain,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, err
		}
		s.loginFailed(ctx, key, cmd, err)
		s.metrics.ObserveLogin(authmetrics.ResultFailure, start)
		return nil, err
	}

	var tenantID id.TenantID
	if tenant != nil {
		tenantID = tenant.ID
	}
	token, expiresAt, err := s.tokens.GenerateAccessToken(ctx, user.ID, tenantID, user.Role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	if tenant != nil {
		if err := s.record(ctx, tenantID, user.ID, audit.ActionLogin); err != nil {
			return nil, err
		}
	}
	if err := s.guard.Reset(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to reset login failures", "error", err)
	}

	span.SetAttributes(tracer.String(tracer.AttrRole, string(user.Role)))
	s.metrics.ObserveLogin(authmetrics.ResultSuccess, start)
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID.String(),
		"tenant_id", tenantID.String(),
		"role", string(user.Role),
		"device", device.Describe(requestcontext.UserAgent(ctx)),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// authenticate returns the tenant too, or nil for super-admins. The lockout
// is consulted only right before a password comparison, so a missing
// subdomain, an unknown tenant and a suspended tenant report as such even
// while key is locked.
func (s *Service) authenticate(ctx context.Context, key string, cmd LoginCommand) (*userModels.User, *tenantModels.Tenant, error) {
	admin, err := s.users.FindSuperAdminByEmail(ctx, cmd.Email)
	switch {
	case err == nil:
		if err := s.guard.Check(ctx, key); err != nil {
			return nil, nil, err
		}
		verifyErr := s.passwords.Verify(cmd.Password, admin.PasswordHash)
		if verifyErr == nil && admin.IsActive {
			return admin, nil, nil
		}
		if dErrors.HasCode(verifyErr, dErrors.CodeInternal) {
			return nil, nil, verifyErr
		}
		if cmd.Subdomain == "" {
			return nil, nil, errInvalidCredentials
		}
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if cmd.Subdomain == "" {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "subdomain is required")
	}
	tenant, err := s.tenants.FindBySubdomain(ctx, cmd.Subdomain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}
	if !tenant.IsActive() {
		return nil, nil, dErrors.New(dErrors.CodeForbidden, "tenant account is suspended")
	}
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByTenantAndEmail(ctx, tenant.ID, cmd.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.passwords.Equalize(cmd.Password)
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := s.passwords.Verify(cmd.Password, user.PasswordHash); err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, errInvalidCredentials
	}
	return user, tenant, nil
}

// loginFailed counts credential failures toward the lockout. Unknown tenants
// and suspended tenants do not count.
func (s *Service) loginFailed(ctx context.Context, key string, cmd LoginCommand, err error) {
	if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		s.logger.WarnContext(ctx, "login rejected",
			"error", err,
			"subdomain", cmd.Subdomain,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	if ferr := s.guard.Fail(ctx, key); ferr != nil {
		s.logger.ErrorContext(ctx, "failed to record login failure", "error", ferr)
	}
	s.logger.WarnContext(ctx, "login failed",
		"subdomain", cmd.Subdomain,
		"device", device.Describe(requestcontext.UserAgent(ctx)),
		"request_id", requestcontext.RequestID(ctx),
	)
}

// Me reloads the caller, and for tenant members their tenant's plan and quotas.
func (s *Service) Me(ctx context.Context, p authz.Principal) (*Identity, error) {
	user, err := s.users.FindByID(ctx, p.UserID())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	tenantID, ok := p.Tenant()
	if !ok {
		return &Identity{User: user}, nil
	}
	if !user.BelongsTo(tenantID) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}
	return &Identity{User: user, Tenant: tenant}, nil
}

// Logout records the event for tenant members. The client discards the token.
func (s *Service) Logout(ctx context.Context, p authz.Principal) error {
	if tenantID, ok := p.Tenant(); ok {
		if err := s.record(ctx, tenantID, p.UserID(), audit.ActionLogout); err != nil {
			return err
		}
	}
	s.metrics.IncrementLogouts()
	s.logger.InfoContext(ctx, "user logged out",
		"user_id", p.UserID().String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) record(ctx context.Context, tenantID id.TenantID, userID id.UserID, action audit.Action) error {
	if err := s.recorder.Record(ctx, audit.Entry{
		TenantID:   tenantID,
		UserID:     userID,
		Action:     action,
		EntityType: audit.EntityUser,
		EntityID:   uuid.UUID(userID),
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit entry")
	}
	return nil
}
