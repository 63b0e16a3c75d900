package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"saasbase/internal/user/models"
	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/sentinel"
	"saasbase/pkg/platform/tx"
)

const userColumns = `id, tenant_id, email, password_hash, full_name, role, is_active, created_at, updated_at`

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(u.ID),
		nullTenant(u.TenantID),
		u.Email,
		u.PasswordHash,
		u.FullName,
		string(u.Role),
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", u.Email, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) FindInTenant(ctx context.Context, tenantID id.TenantID, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(userID), uuid.UUID(tenantID))
}

func (s *PostgresStore) FindByTenantAndEmail(ctx context.Context, tenantID id.TenantID, email string) (*models.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id = $1 AND email = $2`,
		uuid.UUID(tenantID), email)
}

func (s *PostgresStore) FindSuperAdminByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id IS NULL AND email = $1`, email)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scanUser(tx.Executor(ctx, s.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.User, error) {
	var b strings.Builder
	args := []any{uuid.UUID(tenantID)}
	b.WriteString(`SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1`)
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		fmt.Fprintf(&b, ` AND (email ILIKE $%d OR full_name ILIKE $%d)`, len(args), len(args))
	}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		fmt.Fprintf(&b, ` AND role = $%d`, len(args))
	}
	b.WriteString(` ORDER BY created_at DESC`)

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	var count int
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = $1`, uuid.UUID(tenantID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) NamesByIDs(ctx context.Context, tenantID id.TenantID, userIDs []id.UserID) (map[id.UserID]string, error) {
	names := make(map[id.UserID]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	ids := make([]string, len(userIDs))
	for i, userID := range userIDs {
		ids[i] = userID.String()
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, full_name FROM users WHERE tenant_id = $1 AND id = ANY($2::uuid[])`,
		uuid.UUID(tenantID), ids,
	)
	if err != nil {
		return nil, fmt.Errorf("load user names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID uuid.UUID
		var name string
		if err := rows.Scan(&userID, &name); err != nil {
			return nil, fmt.Errorf("scan user name: %w", err)
		}
		names[id.UserID(userID)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user names: %w", err)
	}
	return names, nil
}

func (s *PostgresStore) Update(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	query := `
		UPDATE users
		SET full_name = $2, role = $3, is_active = $4, password_hash = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(u.ID),
		u.FullName,
		string(u.Role),
		u.IsActive,
		u.PasswordHash,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectOneRow(res, "update user")
}

// Delete removes a member. Tasks and projects referencing the user are
// released by the ON DELETE SET NULL foreign keys; audit entries keep the id.
func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, userID id.UserID) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM users WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(userID), uuid.UUID(tenantID),
	)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOneRow(res, "delete user")
}

func expectOneRow(res sql.Result, action string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", action, err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (*models.User, error) {
	var u models.User
	var userID uuid.UUID
	var tenantID uuid.NullUUID
	var role string
	if err := row.Scan(&userID, &tenantID, &u.Email, &u.PasswordHash, &u.FullName, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.UserID(userID)
	u.Role = id.Role(role)
	if tenantID.Valid {
		t := id.TenantID(tenantID.UUID)
		u.TenantID = &t
	}
	return &u, nil
}

func nullTenant(tenantID *id.TenantID) uuid.NullUUID {
	if tenantID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*tenantID), Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
