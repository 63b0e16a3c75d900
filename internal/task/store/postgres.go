package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"saasbase/internal/task/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

const taskColumns = `id, project_id, tenant_id, title, description, status, priority, assigned_to, created_by, due_date, created_at, updated_at`

// listOrder matches models.Less.
const listOrder = ` ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, due_date ASC NULLS LAST, created_at DESC`

// PostgresStore persists tasks in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t *models.Task) error {
	if t == nil {
		return fmt.Errorf("task is required")
	}
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(t.ID),
		uuid.UUID(t.ProjectID),
		uuid.UUID(t.TenantID),
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullUser(t.AssignedTo),
		nullUser(t.CreatedBy),
		nullDate(t.DueDate),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindInTenant(ctx context.Context, tenantID id.TenantID, taskID id.TaskID) (*models.Task, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(taskID), uuid.UUID(tenantID),
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListByProject(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID, filter models.ListFilter) ([]*models.Task, error) {
	var b strings.Builder
	args := []any{uuid.UUID(tenantID), uuid.UUID(projectID)}
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE tenant_id = $1 AND project_id = $2`)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&b, ` AND status = $%d`, len(args))
	}
	if filter.AssignedTo != nil {
		args = append(args, uuid.UUID(*filter.AssignedTo))
		fmt.Fprintf(&b, ` AND assigned_to = $%d`, len(args))
	}
	b.WriteString(listOrder)

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByProjects(ctx context.Context, tenantID id.TenantID, projectIDs []id.ProjectID) (map[id.ProjectID]int, error) {
	counts := make(map[id.ProjectID]int, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}
	ids := make([]string, len(projectIDs))
	for i, pid := range projectIDs {
		ids[i] = pid.String()
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT project_id, COUNT(*) FROM tasks
		WHERE tenant_id = $1 AND project_id = ANY($2::uuid[])
		GROUP BY project_id
	`, uuid.UUID(tenantID), ids)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var projectID uuid.UUID
		var count int
		if err := rows.Scan(&projectID, &count); err != nil {
			return nil, fmt.Errorf("scan task count: %w", err)
		}
		counts[id.ProjectID(projectID)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) Update(ctx context.Context, t *models.Task) error {
	if t == nil {
		return fmt.Errorf("task is required")
	}
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6,
		    assigned_to = $7, due_date = $8, updated_at = $9
		WHERE id = $1 AND tenant_id = $2
	`,
		uuid.UUID(t.ID),
		uuid.UUID(t.TenantID),
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullUser(t.AssignedTo),
		nullDate(t.DueDate),
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOneRow(res, "update task")
}

func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, taskID id.TaskID) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(taskID), uuid.UUID(tenantID),
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOneRow(res, "delete task")
}

// DeleteByProject removes a project's tasks ahead of the project row itself.
func (s *PostgresStore) DeleteByProject(ctx context.Context, tenantID id.TenantID, projectID id.ProjectID) (int, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM tasks WHERE project_id = $1 AND tenant_id = $2`,
		uuid.UUID(projectID), uuid.UUID(tenantID),
	)
	if err != nil {
		return 0, fmt.Errorf("delete project tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete project tasks rows: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) ReleaseUser(ctx context.Context, tenantID id.TenantID, userID id.UserID) error {
	exec := tx.Executor(ctx, s.db)
	if _, err := exec.ExecContext(ctx,
		`UPDATE tasks SET assigned_to = NULL WHERE tenant_id = $1 AND assigned_to = $2`,
		uuid.UUID(tenantID), uuid.UUID(userID),
	); err != nil {
		return fmt.Errorf("release task assignee: %w", err)
	}
	if _, err := exec.ExecContext(ctx,
		`UPDATE tasks SET created_by = NULL WHERE tenant_id = $1 AND created_by = $2`,
		uuid.UUID(tenantID), uuid.UUID(userID),
	); err != nil {
		return fmt.Errorf("release task creator: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, action string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", action, err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type taskRow interface {
	Scan(dest ...any) error
}

func scanTask(row taskRow) (*models.Task, error) {
	var t models.Task
	var taskID, projectID, tenantID uuid.UUID
	var assignedTo, createdBy uuid.NullUUID
	var dueDate sql.NullTime
	var status, priority string
	if err := row.Scan(&taskID, &projectID, &tenantID, &t.Title, &t.Description, &status, &priority,
		&assignedTo, &createdBy, &dueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TaskID(taskID)
	t.ProjectID = id.ProjectID(projectID)
	t.TenantID = id.TenantID(tenantID)
	t.Status = models.Status(status)
	t.Priority = models.Priority(priority)
	t.AssignedTo = userPtr(assignedTo)
	t.CreatedBy = userPtr(createdBy)
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		t.DueDate = &d
	}
	return &t, nil
}

func userPtr(n uuid.NullUUID) *id.UserID {
	if !n.Valid {
		return nil
	}
	u := id.UserID(n.UUID)
	return &u
}

func nullUser(userID *id.UserID) uuid.NullUUID {
	if userID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*userID), Valid: true}
}

func nullDate(d *time.Time) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *d, Valid: true}
}
