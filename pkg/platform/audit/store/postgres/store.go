package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/tx"
)

// Store implements audit.Store using PostgreSQL. Appends join the caller's
// transaction so an entry commits or rolls back with its mutation.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts an entry into audit_logs.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_logs (
			id, tenant_id, user_id, action, entity_type, entity_id,
			ip_address, user_agent, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		nullableUUID(uuid.UUID(entry.TenantID)),
		nullableUUID(uuid.UUID(entry.UserID)),
		string(entry.Action),
		string(entry.EntityType),
		nullableUUID(entry.EntityID),
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByTenant returns the tenant's entries newest first.
func (s *Store) ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, tenant_id, user_id, action, entity_type, entity_id,
			   ip_address, user_agent, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(tenantID), limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry                audit.Entry
			entryID              uuid.UUID
			tenant, user, entity uuid.NullUUID
			action, entityType   string
		)
		if err := rows.Scan(&entryID, &tenant, &user, &action, &entityType, &entity,
			&entry.IPAddress, &entry.UserAgent, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = id.AuditID(entryID)
		entry.TenantID = id.TenantID(tenant.UUID)
		entry.UserID = id.UserID(user.UUID)
		entry.EntityID = entity.UUID
		entry.Action = audit.Action(action)
		entry.EntityType = audit.EntityType(entityType)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func nullableUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
