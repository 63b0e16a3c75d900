package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"saasbase/internal/authz"
	"saasbase/internal/quota"
	"saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/requestcontext"
)

// Service manages the members of a tenant.
type Service struct {
	users     UserStore
	quota     QuotaEnforcer
	recorder  AuditRecorder
	hasher    PasswordHasher
	tx        tx.Runner
	releasers []UserReleaser
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithReleasers registers stores that hold references to users.
func WithReleasers(releasers ...UserReleaser) Option {
	return func(s *Service) {
		s.releasers = append(s.releasers, releasers...)
	}
}

func New(users UserStore, enforcer QuotaEnforcer, recorder AuditRecorder, hasher PasswordHasher, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		users:    users,
		quota:    enforcer,
		recorder: recorder,
		hasher:   hasher,
		tx:       runner,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddUser creates a member of the tenant, subject to the plan's user quota.
func (s *Service) AddUser(ctx context.Context, p authz.Principal, requested *id.TenantID, cmd AddUserCommand) (*models.User, error) {
	if err := authz.RequireTenantAdmin(p); err != nil {
		return nil, err
	}
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.quota.Reserve(txCtx, tenantID, quota.ResourceUsers); err != nil {
			return err
		}
		u, err := models.NewTenantUser(id.NewUserID(), tenantID, cmd.Email, hash, cmd.FullName, cmd.Role, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.users.Create(txCtx, u); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "email already exists in this tenant")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
		}
		if err := s.record(txCtx, p, tenantID, audit.ActionCreateUser, u.ID); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers lists the tenant's members, newest first.
func (s *Service) ListUsers(ctx context.Context, p authz.Principal, requested *id.TenantID, query ListQuery) ([]*models.User, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// UpdateUser lets admins change name, role and status of any member, and
// members change their own name.
func (s *Service) UpdateUser(ctx context.Context, p authz.Principal, requested *id.TenantID, userID id.UserID, cmd UpdateUserCommand) (*models.User, error) {
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return nil, err
	}
	self := p.UserID() == userID
	if !authz.IsAdmin(p) {
		if !self {
			return nil, dErrors.New(dErrors.CodeForbidden, "not authorized to update this user")
		}
		if cmd.touchesPrivileges() {
			return nil, dErrors.New(dErrors.CodeForbidden, "only admins can change role or status")
		}
	}
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var user *models.User
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		u, err := s.users.FindInTenant(txCtx, tenantID, userID)
		if err != nil {
			return wrapUserErr(err, "failed to load user")
		}
		if cmd.FullName != nil {
			u.FullName = *cmd.FullName
		}
		if cmd.Role != nil {
			u.Role = *cmd.Role
		}
		if cmd.IsActive != nil {
			u.IsActive = *cmd.IsActive
		}
		u.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.users.Update(txCtx, u); err != nil {
			return wrapUserErr(err, "failed to update user")
		}
		if err := s.record(txCtx, p, tenantID, audit.ActionUpdateUser, u.ID); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a member. Tasks assigned to the member become
// unassigned and records they created keep a null creator.
func (s *Service) DeleteUser(ctx context.Context, p authz.Principal, requested *id.TenantID, userID id.UserID) error {
	if err := authz.RequireTenantAdmin(p); err != nil {
		return err
	}
	tenantID, err := authz.ResolveTenant(p, requested)
	if err != nil {
		return err
	}
	if p.UserID() == userID {
		return dErrors.New(dErrors.CodeForbidden, "cannot delete yourself")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.users.FindInTenant(txCtx, tenantID, userID); err != nil {
			return wrapUserErr(err, "failed to load user")
		}
		for _, r := range s.releasers {
			if err := r.ReleaseUser(txCtx, tenantID, userID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release user references")
			}
		}
		if err := s.users.Delete(txCtx, tenantID, userID); err != nil {
			return wrapUserErr(err, "failed to delete user")
		}
		return s.record(txCtx, p, tenantID, audit.ActionDeleteUser, userID)
	})
}

func (s *Service) record(ctx context.Context, p authz.Principal, tenantID id.TenantID, action audit.Action, userID id.UserID) error {
	if err := s.recorder.Record(ctx, audit.Entry{
		TenantID:   tenantID,
		UserID:     p.UserID(),
		Action:     action,
		EntityType: audit.EntityUser,
		EntityID:   uuid.UUID(userID),
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit entry")
	}
	return nil
}

func wrapUserErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
