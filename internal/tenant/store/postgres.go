package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"saasbase/internal/tenant/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

const tenantColumns = `id, name, subdomain, status, subscription_plan, max_users, max_projects, created_at, updated_at`

// PostgresStore persists tenants in PostgreSQL. Every statement runs on the
// transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateIfSubdomainAvailable relies on the unique subdomain index; concurrent
// inserts of the same subdomain leave exactly one row.
func (s *PostgresStore) CreateIfSubdomainAvailable(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(t.ID),
		t.Name,
		t.Subdomain,
		string(t.Status),
		string(t.Plan),
		t.MaxUsers,
		t.MaxProjects,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subdomain %q: %w", t.Subdomain, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by id: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = $1`
	t, err := scanTenant(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, subdomain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by subdomain: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC`
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	query := `
		UPDATE tenants
		SET name = $2, status = $3, subscription_plan = $4, max_users = $5, max_projects = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(t.ID),
		t.Name,
		string(t.Status),
		string(t.Plan),
		t.MaxUsers,
		t.MaxProjects,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tenant rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// LockLimits takes a row lock on the tenant for the rest of the transaction,
// serializing concurrent quota checks for the same tenant.
func (s *PostgresStore) LockLimits(ctx context.Context, tenantID id.TenantID) (models.Limits, error) {
	if !tx.InTx(ctx) {
		return models.Limits{}, fmt.Errorf("lock tenant limits: no transaction in context")
	}
	var limits models.Limits
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT max_users, max_projects FROM tenants WHERE id = $1 FOR UPDATE`,
		uuid.UUID(tenantID),
	).Scan(&limits.MaxUsers, &limits.MaxProjects)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Limits{}, sentinel.ErrNotFound
		}
		return models.Limits{}, fmt.Errorf("lock tenant limits: %w", err)
	}
	return limits, nil
}

type tenantRow interface {
	Scan(dest ...any) error
}

func scanTenant(row tenantRow) (*models.Tenant, error) {
	var t models.Tenant
	var tenantID uuid.UUID
	var status, plan string
	if err := row.Scan(&tenantID, &t.Name, &t.Subdomain, &status, &plan, &t.MaxUsers, &t.MaxProjects, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TenantID(tenantID)
	t.Status = models.Status(status)
	t.Plan = models.Plan(plan)
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
