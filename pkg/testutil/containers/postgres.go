//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"saasbase/migrations"
	id "saasbase/pkg/domain"
)

// Children before parents so TRUNCATE never trips a foreign key.
var appTables = []string{"audit_logs", "tasks", "projects", "users", "tenants"}

type PostgresDB struct {
	Container testcontainers.Container
	DB        *sql.DB
}

func startPostgres(ctx context.Context) (*PostgresDB, error) {
	c, err := postgres.Run(ctx, "postgres:18-alpine",
		postgres.WithDatabase("saasbase_test"),
		postgres.WithUsername("saasbase"),
		postgres.WithPassword("saasbase"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, abandon(ctx, c, "postgres dsn", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, abandon(ctx, c, "postgres open", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, abandon(ctx, c, "postgres migrate", err)
	}
	return &PostgresDB{Container: c, DB: db}, nil
}

// Reset empties every application table.
func (p *PostgresDB) Reset(ctx context.Context) error {
	for _, table := range appTables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// InsertTenant writes an active free-plan tenant with the given quotas,
// bypassing the domain layer.
func (p *PostgresDB) InsertTenant(ctx context.Context, t testing.TB, maxUsers, maxProjects int) id.TenantID {
	t.Helper()
	tenantID := id.NewTenantID()
	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO tenants (id, name, subdomain, status, subscription_plan, max_users, max_projects)
		 VALUES ($1, 'Fixture Tenant', $2, 'active', 'free', $3, $4)`,
		uuid.UUID(tenantID), "fx-"+uuid.NewString()[:8], maxUsers, maxProjects)
	if err != nil {
		t.Fatalf("insert tenant: %v", err)
	}
	return tenantID
}

// InsertMember writes an active user-role member of tenantID.
func (p *PostgresDB) InsertMember(ctx context.Context, t testing.TB, tenantID id.TenantID) id.UserID {
	t.Helper()
	userID := id.NewUserID()
	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO users (id, tenant_id, email, password_hash, full_name, role, is_active)
		 VALUES ($1, $2, $3, 'x', 'Fixture Member', 'user', TRUE)`,
		uuid.UUID(userID), uuid.UUID(tenantID), "member-"+uuid.NewString()+"@fixture.test")
	if err != nil {
		t.Fatalf("insert member: %v", err)
	}
	return userID
}
