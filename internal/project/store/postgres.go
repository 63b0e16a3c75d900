package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"saasbase/internal/project/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

const projectColumns = `id, tenant_id, name, description, status, created_by, created_at, updated_at`

// PostgresStore persists projects in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is required")
	}
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(p.ID),
		uuid.UUID(p.TenantID),
		p.Name,
		p.Description,
		string(p.Status),
		nullUser(p.CreatedBy),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindInTenant(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) (*models.Project, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(projectID), uuid.UUID(tenantID),
	)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.Project, error) {
	var b strings.Builder
	args := []any{uuid.UUID(tenantID)}
	b.WriteString(`SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = $1`)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&b, ` AND status = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		fmt.Fprintf(&b, ` AND name ILIKE $%d`, len(args))
	}
	b.WriteString(` ORDER BY created_at DESC`)

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	var count int
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE tenant_id = $1`, uuid.UUID(tenantID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is required")
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE projects
		SET name = $3, description = $4, status = $5, updated_at = $6
		WHERE id = $1 AND tenant_id = $2
	`,
		uuid.UUID(p.ID),
		uuid.UUID(p.TenantID),
		p.Name,
		p.Description,
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return expectOneRow(res, "update project")
}

// Delete removes a project; its tasks go with it through ON DELETE CASCADE.
func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(projectID), uuid.UUID(tenantID),
	)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectOneRow(res, "delete project")
}

func (s *PostgresStore) ReleaseUser(ctx context.Context, tenantID id.TenantID, userID id.UserID) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE projects SET created_by = NULL WHERE tenant_id = $1 AND created_by = $2`,
		uuid.UUID(tenantID), uuid.UUID(userID),
	)
	if err != nil {
		return fmt.Errorf("release project creator: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, action string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", action, err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type projectRow interface {
	Scan(dest ...any) error
}

func scanProject(row projectRow) (*models.Project, error) {
	var p models.Project
	var projectID, tenantID uuid.UUID
	var createdBy uuid.NullUUID
	var status string
	if err := row.Scan(&projectID, &tenantID, &p.Name, &p.Description, &status, &createdBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.ProjectID(projectID)
	p.TenantID = id.TenantID(tenantID)
	p.Status = models.Status(status)
	if createdBy.Valid {
		u := id.UserID(createdBy.UUID)
		p.CreatedBy = &u
	}
	return &p, nil
}

func nullUser(userID *id.UserID) uuid.NullUUID {
	if userID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*userID), Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
