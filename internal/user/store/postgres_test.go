//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"saasbase/internal/user/models"
	"saasbase/internal/user/store"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
	auditStore "saasbase/pkg/platform/audit/store/postgres"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresDB
	store    *store.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.Postgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Reset(s.ctx))
}

func (s *PostgresStoreSuite) member(tenantID id.TenantID, email string) *models.User {
	u, err := models.NewTenantUser(id.NewUserID(), tenantID, email, "hash", "Name", id.RoleUser, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return u
}

func (s *PostgresStoreSuite) TestRoundTripAndUniqueness() {
	tenantID := s.postgres.InsertTenant(s.ctx, s.T(), 5, 3)
	u := s.member(tenantID, "alice@acme.io")
	s.Require().NoError(s.store.Create(s.ctx, u))

	found, err := s.store.FindByTenantAndEmail(s.ctx, tenantID, "alice@acme.io")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Require().NotNil(found.TenantID)
	s.Equal(tenantID, *found.TenantID)

	s.ErrorIs(s.store.Create(s.ctx, s.member(tenantID, "alice@acme.io")), sentinel.ErrAlreadyUsed)

	other := s.postgres.InsertTenant(s.ctx, s.T(), 5, 3)
	s.NoError(s.store.Create(s.ctx, s.member(other, "alice@acme.io")))

	_, err = s.store.FindInTenant(s.ctx, other, u.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSuperAdminHasNoTenant() {
	admin, err := models.NewSuperAdmin(id.NewUserID(), "root@system.com", "hash", "Root", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, admin))

	found, err := s.store.FindSuperAdminByEmail(s.ctx, "root@system.com")
	s.Require().NoError(err)
	s.Nil(found.TenantID)
	s.True(found.IsSuperAdmin())
}

func (s *PostgresStoreSuite) TestListFilterCountAndDelete() {
	tenantID := s.postgres.InsertTenant(s.ctx, s.T(), 5, 3)
	alice := s.member(tenantID, "alice@acme.io")
	bob := s.member(tenantID, "bob_100%@acme.io")
	s.Require().NoError(s.store.Create(s.ctx, alice))
	s.Require().NoError(s.store.Create(s.ctx, bob))

	list, err := s.store.ListByTenant(s.ctx, tenantID, models.ListFilter{Search: "100%"})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(bob.ID, list[0].ID)

	count, err := s.store.CountByTenant(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Equal(2, count)

	s.Require().NoError(s.store.Delete(s.ctx, tenantID, alice.ID))
	s.ErrorIs(s.store.Delete(s.ctx, tenantID, alice.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteKeepsAuditActor() {
	tenantID := s.postgres.InsertTenant(s.ctx, s.T(), 5, 3)
	u := s.member(tenantID, "leaver@acme.io")
	s.Require().NoError(s.store.Create(s.ctx, u))

	entries := auditStore.New(s.postgres.DB)
	s.Require().NoError(entries.Append(s.ctx, audit.Entry{
		ID:         id.NewAuditID(),
		TenantID:   tenantID,
		UserID:     u.ID,
		Action:     audit.ActionCreateProject,
		EntityType: audit.EntityProject,
		EntityID:   uuid.New(),
		CreatedAt:  time.Now().UTC(),
	}))

	s.Require().NoError(s.store.Delete(s.ctx, tenantID, u.ID))

	listed, err := entries.ListByTenant(s.ctx, tenantID, 10)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(u.ID, listed[0].UserID)
}
